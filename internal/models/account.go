package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account represents a tenant venue (a "bar") using the system to message its customers
type Account struct {
	ID                        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	BarName                   string             `bson:"barName" json:"barName"`
	Slug                      string             `bson:"slug" json:"slug"`
	Email                     string             `bson:"email" json:"email"`
	PhoneNumber               string             `bson:"phoneNumber" json:"phoneNumber"` // E.164 sender number, unique across accounts
	MessagingProfileID        string             `bson:"messagingProfileId,omitempty" json:"messagingProfileId,omitempty"`
	CouponsEnabled            bool               `bson:"couponsEnabled" json:"couponsEnabled"`
	IncludeMembershipQuestion bool               `bson:"includeMembershipQuestion" json:"includeMembershipQuestion"`
	SignupEnabled             bool               `bson:"signupEnabled" json:"signupEnabled"`
	Locked                    bool               `bson:"locked" json:"locked"` // new accounts start locked pending manual review
	CreatedAt                 time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt                 time.Time          `bson:"updatedAt" json:"updatedAt"`
}

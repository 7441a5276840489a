package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon is a short-lived redemption code issued to a recipient on request.
// At most one unexpired, unused coupon may exist per recipient at a time.
type Coupon struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID   primitive.ObjectID `bson:"accountId" json:"accountId"`
	RecipientID primitive.ObjectID `bson:"recipientId" json:"recipientId"`
	Code        string             `bson:"code" json:"code"`
	Type        string             `bson:"type" json:"type"`
	Used        bool               `bson:"used" json:"used"`
	ExpiresAt   time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Active reports whether the coupon is still redeemable at the given time
func (c *Coupon) Active(now time.Time) bool {
	return !c.Used && now.Before(c.ExpiresAt)
}

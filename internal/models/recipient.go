package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalized gender categories. Free-text signup values are mapped onto
// these by utils.NormalizeGender.
const (
	GenderMan            = "Man"
	GenderWoman          = "Woman"
	GenderNonBinary      = "Non-binary"
	GenderOther          = "Other"
	GenderPreferNotToSay = "Prefer not to say"
)

// Recipient represents an opted-in end user of an account, identified by phone number
type Recipient struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID          primitive.ObjectID `bson:"accountId" json:"accountId"`
	Name               string             `bson:"name" json:"name"`
	PhoneNumber        string             `bson:"phoneNumber" json:"phoneNumber"` // E.164
	Email              string             `bson:"email,omitempty" json:"email,omitempty"`
	Gender             string             `bson:"gender,omitempty" json:"gender,omitempty"`
	Birthdate          *time.Time         `bson:"birthdate,omitempty" json:"birthdate,omitempty"`
	IsMember           bool               `bson:"isMember" json:"isMember"`
	Consent            bool               `bson:"consent" json:"consent"`     // explicit opt-in captured at signup, never toggled by SMS
	Subscribe          bool               `bson:"subscribe" json:"subscribe"` // current opt-in state, toggled by STOP/START
	BirthdateConfirmed bool               `bson:"birthdateConfirmed" json:"birthdateConfirmed"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Eligible reports whether the recipient may receive a blast at all.
// Targeting filters are applied on top of this.
func (r *Recipient) Eligible() bool {
	return r.Consent && r.Subscribe && r.PhoneNumber != ""
}

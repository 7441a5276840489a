package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blast status values. Transitions are monotonic:
// draft -> scheduled -> sending -> sent|failed, or draft -> sending -> sent|failed
// for an immediate send. "sending" is the in-flight marker claimed atomically
// before dispatch so a scheduler sweep and a manual send cannot both fire.
const (
	BlastStatusDraft     = "draft"
	BlastStatusScheduled = "scheduled"
	BlastStatusSending   = "sending"
	BlastStatusSent      = "sent"
	BlastStatusFailed    = "failed"
)

// Time slot labels for scheduled sends
const (
	TimeSlotMorning   = "morning"
	TimeSlotAfternoon = "afternoon"
	TimeSlotEvening   = "evening"
)

// Targeting is the declarative recipient filter stored on a blast.
// Each field is optional; an empty value or "all" means no filter.
type Targeting struct {
	Genders          []string `bson:"genders,omitempty" json:"genders,omitempty"`
	AgeRange         string   `bson:"ageRange,omitempty" json:"ageRange,omitempty"` // "21-25", "40+" or "all"
	MembershipStatus string   `bson:"membershipStatus,omitempty" json:"membershipStatus,omitempty"`
}

// FailedRecipient records a single per-recipient send failure
type FailedRecipient struct {
	PhoneNumber string `bson:"phoneNumber" json:"phoneNumber"`
	Error       string `bson:"error" json:"error"`
}

// DeliveryStats is the aggregate delivery report written after dispatch
type DeliveryStats struct {
	TotalAttempted   int               `bson:"totalAttempted" json:"totalAttempted"`
	SuccessCount     int               `bson:"successCount" json:"successCount"`
	FailureCount     int               `bson:"failureCount" json:"failureCount"`
	FailedRecipients []FailedRecipient `bson:"failedRecipients,omitempty" json:"failedRecipients,omitempty"`
}

// Blast represents a single outbound bulk message campaign
type Blast struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID     primitive.ObjectID `bson:"accountId" json:"accountId"`
	Message       string             `bson:"message" json:"message"`
	Status        string             `bson:"status" json:"status"`
	ScheduledDate time.Time          `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`
	TimeSlot      string             `bson:"timeSlot,omitempty" json:"timeSlot,omitempty"`
	Targeting     *Targeting         `bson:"targeting,omitempty" json:"targeting,omitempty"`
	SentAt        time.Time          `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	DeliveryStats *DeliveryStats     `bson:"deliveryStats,omitempty" json:"deliveryStats,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

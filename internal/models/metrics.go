package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GrowthPoint is a cumulative subscriber count as of a calendar day
type GrowthPoint struct {
	Date  string `bson:"date" json:"date"` // YYYY-MM-DD
	Count int    `bson:"count" json:"count"`
}

// MetricsSnapshot is a derived, recomputable view over an account's
// recipient roster. It is never authoritative; the audit script compares
// it against the roster and recomputes on drift.
type MetricsSnapshot struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccountID          primitive.ObjectID `bson:"accountId" json:"accountId"`
	TotalSubscribed    int                `bson:"totalSubscribed" json:"totalSubscribed"`
	Growth             []GrowthPoint      `bson:"growth" json:"growth"`
	GenderDistribution map[string]int     `bson:"genderDistribution" json:"genderDistribution"`
	AgeDistribution    map[string]int     `bson:"ageDistribution" json:"ageDistribution"`
	ComputedAt         time.Time          `bson:"computedAt" json:"computedAt"`
}

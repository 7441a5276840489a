package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
	"github.com/lastcall/sms-backend/internal/utils"
)

// ageBuckets are the fixed dashboard age brackets. Recipients without a
// birthdate land in "unspecified".
var ageBuckets = []struct {
	label string
	rng   utils.AgeRange
}{
	{"21-25", utils.AgeRange{Min: 21, Max: 25, Bounded: true}},
	{"26-30", utils.AgeRange{Min: 26, Max: 30, Bounded: true}},
	{"31-35", utils.AgeRange{Min: 31, Max: 35, Bounded: true}},
	{"36-40", utils.AgeRange{Min: 36, Max: 40, Bounded: true}},
	{"40+", utils.AgeRange{Min: 41}},
}

const ageBucketUnspecified = "unspecified"

// MetricsService maintains per-account dashboard snapshots derived from
// the recipient roster. Snapshots are a cache, never authoritative: every
// figure can be recomputed from the roster at any time.
type MetricsService struct {
	recipientRepo repositories.RecipientRepository
	metricsRepo   repositories.MetricsRepository
	now           func() time.Time
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(
	recipientRepo repositories.RecipientRepository,
	metricsRepo repositories.MetricsRepository,
) *MetricsService {
	return &MetricsService{
		recipientRepo: recipientRepo,
		metricsRepo:   metricsRepo,
		now:           time.Now,
	}
}

// GetMetrics returns the stored snapshot for an account, computing one on
// first access.
func (s *MetricsService) GetMetrics(ctx context.Context, accountID primitive.ObjectID) (*models.MetricsSnapshot, error) {
	snapshot, err := s.metricsRepo.FindByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return s.Recompute(ctx, accountID)
		}
		return nil, err
	}
	return snapshot, nil
}

// Recompute rebuilds the snapshot from the roster and stores it
func (s *MetricsService) Recompute(ctx context.Context, accountID primitive.ObjectID) (*models.MetricsSnapshot, error) {
	recipients, err := s.recipientRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	snapshot := s.compute(accountID, recipients)
	if err := s.metricsRepo.Upsert(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// AuditResult reports drift between a stored snapshot and the roster
type AuditResult struct {
	AccountID       primitive.ObjectID
	StoredTotal     int
	ComputedTotal   int
	Drifted         bool
	MissingSnapshot bool
}

// Audit compares the stored snapshot's subscriber total against a fresh
// computation without writing anything. The maintenance script recomputes
// accounts the audit flags.
func (s *MetricsService) Audit(ctx context.Context, accountID primitive.ObjectID) (*AuditResult, error) {
	recipients, err := s.recipientRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	computed := s.compute(accountID, recipients)

	result := &AuditResult{AccountID: accountID, ComputedTotal: computed.TotalSubscribed}
	stored, err := s.metricsRepo.FindByAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			result.MissingSnapshot = true
			result.Drifted = computed.TotalSubscribed > 0
			return result, nil
		}
		return nil, err
	}
	result.StoredTotal = stored.TotalSubscribed
	result.Drifted = stored.TotalSubscribed != computed.TotalSubscribed
	return result, nil
}

func (s *MetricsService) compute(accountID primitive.ObjectID, recipients []*models.Recipient) *models.MetricsSnapshot {
	now := s.now()
	snapshot := &models.MetricsSnapshot{
		AccountID:          accountID,
		GenderDistribution: make(map[string]int),
		AgeDistribution:    make(map[string]int),
		ComputedAt:         now,
	}

	// Growth is cumulative: each signup day contributes the running total
	// of subscribers created up to and including that day.
	perDay := make(map[string]int)
	for _, r := range recipients {
		if !r.Consent || !r.Subscribe {
			continue
		}
		snapshot.TotalSubscribed++

		gender := r.Gender
		if gender == "" {
			gender = models.GenderPreferNotToSay
		}
		snapshot.GenderDistribution[gender]++

		snapshot.AgeDistribution[s.ageBucket(r.Birthdate, now)]++

		perDay[r.CreatedAt.Format("2006-01-02")]++
	}

	days := make([]string, 0, len(perDay))
	for day := range perDay {
		days = append(days, day)
	}
	sort.Strings(days)

	running := 0
	for _, day := range days {
		running += perDay[day]
		snapshot.Growth = append(snapshot.Growth, models.GrowthPoint{Date: day, Count: running})
	}
	return snapshot
}

func (s *MetricsService) ageBucket(birthdate *time.Time, now time.Time) string {
	age, ok := utils.AgeOf(birthdate, now)
	if !ok {
		return ageBucketUnspecified
	}
	for _, bucket := range ageBuckets {
		if bucket.rng.Contains(age) {
			return bucket.label
		}
	}
	return ageBucketUnspecified
}

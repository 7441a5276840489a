package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/lastcall/sms-backend/internal/config"
	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
	"github.com/lastcall/sms-backend/internal/utils"
	"github.com/lastcall/sms-backend/pkg/smsgateway"
)

// BlastService owns blast CRUD, recipient filter resolution, and the
// dispatch engine.
type BlastService struct {
	accountRepo   repositories.AccountRepository
	recipientRepo repositories.RecipientRepository
	blastRepo     repositories.BlastRepository
	gateway       smsgateway.Gateway
	dispatchCfg   config.DispatchConfig
	clock         *SlotClock
	now           func() time.Time
}

// NewBlastService creates a new BlastService
func NewBlastService(
	accountRepo repositories.AccountRepository,
	recipientRepo repositories.RecipientRepository,
	blastRepo repositories.BlastRepository,
	gateway smsgateway.Gateway,
	dispatchCfg config.DispatchConfig,
	clock *SlotClock,
) *BlastService {
	return &BlastService{
		accountRepo:   accountRepo,
		recipientRepo: recipientRepo,
		blastRepo:     blastRepo,
		gateway:       gateway,
		dispatchCfg:   dispatchCfg,
		clock:         clock,
		now:           time.Now,
	}
}

// CreateBlast creates a draft blast for an account
func (s *BlastService) CreateBlast(ctx context.Context, accountID primitive.ObjectID, message string, targeting *models.Targeting) (*models.Blast, error) {
	if strings.TrimSpace(message) == "" {
		return nil, validationError("message is required")
	}
	if err := validateTargeting(targeting); err != nil {
		return nil, err
	}
	if _, err := s.accountRepo.FindByID(ctx, accountID); err != nil {
		return nil, notFound(err)
	}

	blast := &models.Blast{
		AccountID: accountID,
		Message:   message,
		Status:    models.BlastStatusDraft,
		Targeting: targeting,
	}
	if err := s.blastRepo.Create(ctx, blast); err != nil {
		return nil, err
	}
	return blast, nil
}

// GetBlast retrieves a blast by ID
func (s *BlastService) GetBlast(ctx context.Context, accountID, blastID primitive.ObjectID) (*models.Blast, error) {
	blast, err := s.blastRepo.FindByID(ctx, accountID, blastID)
	if err != nil {
		return nil, notFound(err)
	}
	return blast, nil
}

// ListBlasts retrieves all blasts for an account, newest first
func (s *BlastService) ListBlasts(ctx context.Context, accountID primitive.ObjectID) ([]*models.Blast, error) {
	return s.blastRepo.FindByAccount(ctx, accountID)
}

// ListSent retrieves blasts that completed dispatch
func (s *BlastService) ListSent(ctx context.Context, accountID primitive.ObjectID) ([]*models.Blast, error) {
	return s.blastRepo.FindByStatus(ctx, accountID, models.BlastStatusSent)
}

// ListScheduled retrieves blasts waiting on a time slot
func (s *BlastService) ListScheduled(ctx context.Context, accountID primitive.ObjectID) ([]*models.Blast, error) {
	return s.blastRepo.FindByStatus(ctx, accountID, models.BlastStatusScheduled)
}

// UpdateBlast updates the message and targeting of a blast that has not
// been dispatched yet.
func (s *BlastService) UpdateBlast(ctx context.Context, accountID, blastID primitive.ObjectID, message string, targeting *models.Targeting) (*models.Blast, error) {
	blast, err := s.blastRepo.FindByID(ctx, accountID, blastID)
	if err != nil {
		return nil, notFound(err)
	}
	if blast.Status != models.BlastStatusDraft && blast.Status != models.BlastStatusScheduled {
		return nil, ErrAlreadySent
	}
	if err := validateTargeting(targeting); err != nil {
		return nil, err
	}
	if strings.TrimSpace(message) != "" {
		blast.Message = message
	}
	if targeting != nil {
		blast.Targeting = targeting
	}
	if err := s.blastRepo.Update(ctx, blast); err != nil {
		return nil, err
	}
	return blast, nil
}

// DeleteBlast deletes a blast
func (s *BlastService) DeleteBlast(ctx context.Context, accountID, blastID primitive.ObjectID) error {
	if _, err := s.blastRepo.FindByID(ctx, accountID, blastID); err != nil {
		return notFound(err)
	}
	return s.blastRepo.Delete(ctx, accountID, blastID)
}

// ScheduleBlast assigns a blast to the time slot covering the requested
// send time and flips it from draft to scheduled.
func (s *BlastService) ScheduleBlast(ctx context.Context, accountID, blastID primitive.ObjectID, when time.Time) (*models.Blast, error) {
	blast, err := s.blastRepo.FindByID(ctx, accountID, blastID)
	if err != nil {
		return nil, notFound(err)
	}
	if blast.Status != models.BlastStatusDraft && blast.Status != models.BlastStatusScheduled {
		return nil, ErrAlreadySent
	}

	blast.ScheduledDate = when
	blast.TimeSlot = s.clock.ResolveTimeSlot(when)
	blast.Status = models.BlastStatusScheduled
	if err := s.blastRepo.Update(ctx, blast); err != nil {
		return nil, err
	}
	return blast, nil
}

// CancelSchedule returns a scheduled blast to draft so the next sweep
// skips it.
func (s *BlastService) CancelSchedule(ctx context.Context, accountID, blastID primitive.ObjectID) (*models.Blast, error) {
	blast, err := s.blastRepo.FindByID(ctx, accountID, blastID)
	if err != nil {
		return nil, notFound(err)
	}
	if blast.Status != models.BlastStatusScheduled {
		return nil, validationError("blast is not scheduled")
	}
	blast.Status = models.BlastStatusDraft
	blast.TimeSlot = ""
	blast.ScheduledDate = time.Time{}
	if err := s.blastRepo.Update(ctx, blast); err != nil {
		return nil, err
	}
	return blast, nil
}

// ResolveRecipients resolves the targeting filter against the account's
// roster. It is a pure read: base eligibility (consent, subscribe, phone
// present) always applies, and recipients with unknown age never match a
// bounded age range.
func (s *BlastService) ResolveRecipients(ctx context.Context, accountID primitive.ObjectID, targeting *models.Targeting) ([]*models.Recipient, error) {
	if err := validateTargeting(targeting); err != nil {
		return nil, err
	}

	eligible, err := s.recipientRepo.FindEligible(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	matched := make([]*models.Recipient, 0, len(eligible))
	for _, recipient := range eligible {
		if !recipient.Eligible() {
			continue
		}
		if matchesTargeting(recipient, targeting, now) {
			matched = append(matched, recipient)
		}
	}
	return matched, nil
}

// CountRecipients returns the size of the resolved set without sending.
// An empty count is a valid preview outcome, not an error.
func (s *BlastService) CountRecipients(ctx context.Context, accountID primitive.ObjectID, targeting *models.Targeting) (int, error) {
	recipients, err := s.ResolveRecipients(ctx, accountID, targeting)
	if err != nil {
		return 0, err
	}
	return len(recipients), nil
}

// SendNow dispatches a blast immediately. When targeting is nil the
// blast's stored targeting is used. The empty-set check happens before
// any state mutation; the status compare-and-set prevents a second
// dispatch of the same blast.
func (s *BlastService) SendNow(ctx context.Context, accountID, blastID primitive.ObjectID, targeting *models.Targeting) (*models.DeliveryStats, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, notFound(err)
	}
	blast, err := s.blastRepo.FindByID(ctx, accountID, blastID)
	if err != nil {
		return nil, notFound(err)
	}
	if account.MessagingProfileID == "" {
		return nil, validationError("messaging profile is not configured for this account")
	}
	if account.PhoneNumber == "" {
		return nil, validationError("sender phone number is not configured for this account")
	}
	if word := s.findProhibitedWord(blast.Message); word != "" {
		return nil, validationError(fmt.Sprintf("the message contains a prohibited word: %q", word))
	}

	if targeting == nil {
		targeting = blast.Targeting
	}
	recipients, err := s.ResolveRecipients(ctx, accountID, targeting)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	claimed, err := s.blastRepo.TryMarkSending(ctx, accountID, blastID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrAlreadySent
	}

	stats := s.dispatch(ctx, account, blast, recipients)
	if err := s.blastRepo.MarkSent(ctx, accountID, blastID, stats, s.now()); err != nil {
		return nil, err
	}
	return stats, nil
}

// dispatch fans the message out to every recipient with bounded
// concurrency. Sends are isolated: one failure never aborts the rest, and
// the aggregate counts are computed from completed outcomes only.
func (s *BlastService) dispatch(ctx context.Context, account *models.Account, blast *models.Blast, recipients []*models.Recipient) *models.DeliveryStats {
	concurrency := s.dispatchCfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sendTimeout := time.Duration(s.dispatchCfg.SendTimeoutSeconds) * time.Second
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}

	var (
		mu     sync.Mutex
		stats  = &models.DeliveryStats{TotalAttempted: len(recipients)}
		group  errgroup.Group
		failed []models.FailedRecipient
	)
	group.SetLimit(concurrency)

	for _, recipient := range recipients {
		recipient := recipient
		group.Go(func() error {
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			defer cancel()

			_, err := s.gateway.SendMessage(sendCtx, recipient.PhoneNumber, account.PhoneNumber, blast.Message, account.MessagingProfileID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.FailureCount++
				failed = append(failed, models.FailedRecipient{
					PhoneNumber: recipient.PhoneNumber,
					Error:       err.Error(),
				})
				log.Printf("blast %s: send to %s failed: %v", blast.ID.Hex(), recipient.PhoneNumber, err)
			} else {
				stats.SuccessCount++
			}
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes completion.
	_ = group.Wait()

	stats.FailedRecipients = failed
	return stats
}

func (s *BlastService) findProhibitedWord(message string) string {
	lower := strings.ToLower(message)
	for _, word := range s.dispatchCfg.ProhibitedWords {
		if word != "" && strings.Contains(lower, strings.ToLower(word)) {
			return word
		}
	}
	return ""
}

// matchesTargeting applies the declarative filter to a single recipient
func matchesTargeting(recipient *models.Recipient, targeting *models.Targeting, now time.Time) bool {
	if targeting == nil {
		return true
	}
	if len(targeting.Genders) > 0 && !containsAll(targeting.Genders) {
		if !containsString(targeting.Genders, recipient.Gender) {
			return false
		}
	}
	if targeting.AgeRange != "" && targeting.AgeRange != "all" {
		ageRange, err := utils.ParseAgeRange(targeting.AgeRange)
		if err != nil {
			return false
		}
		age, known := utils.AgeOf(recipient.Birthdate, now)
		if !known || !ageRange.Contains(age) {
			return false
		}
	}
	if targeting.MembershipStatus != "" && targeting.MembershipStatus != "all" {
		wantMember := targeting.MembershipStatus == "member"
		if recipient.IsMember != wantMember {
			return false
		}
	}
	return true
}

func validateTargeting(targeting *models.Targeting) error {
	if targeting == nil {
		return nil
	}
	if r := targeting.AgeRange; r != "" && r != "all" {
		if _, err := utils.ParseAgeRange(r); err != nil {
			return validationError(err.Error())
		}
	}
	if m := targeting.MembershipStatus; m != "" && m != "all" && m != "member" && m != "non-member" {
		return validationError("invalid membership status: " + m)
	}
	return nil
}

func containsAll(values []string) bool {
	return containsString(values, "all")
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

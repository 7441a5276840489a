package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lastcall/sms-backend/internal/config"
	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
)

// SchedulerService fires one sweep per time slot per day in the fixed
// timezone. A sweep enumerates every account's scheduled blasts for the
// firing slot and today's date and hands each to the dispatch engine.
// Status is re-checked at fire time through the dispatch compare-and-set,
// so a blast cancelled between enumeration and firing is skipped. Blasts
// whose scheduled date passed without a trigger are not retried.
type SchedulerService struct {
	accountRepo repositories.AccountRepository
	blastRepo   repositories.BlastRepository
	blasts      *BlastService
	clock       *SlotClock
	cfg         config.SchedulerConfig
	now         func() time.Time
}

// NewSchedulerService creates a new SchedulerService
func NewSchedulerService(
	accountRepo repositories.AccountRepository,
	blastRepo repositories.BlastRepository,
	blasts *BlastService,
	clock *SlotClock,
	cfg config.SchedulerConfig,
) *SchedulerService {
	return &SchedulerService{
		accountRepo: accountRepo,
		blastRepo:   blastRepo,
		blasts:      blasts,
		clock:       clock,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Start launches one timer loop per slot. The loops stop when ctx is
// cancelled.
func (s *SchedulerService) Start(ctx context.Context) {
	go s.runSlotLoop(ctx, models.TimeSlotMorning, s.cfg.Morning)
	go s.runSlotLoop(ctx, models.TimeSlotAfternoon, s.cfg.Afternoon)
	go s.runSlotLoop(ctx, models.TimeSlotEvening, s.cfg.Evening)
	log.Printf("blast scheduler started: morning %02d:%02d, afternoon %02d:%02d, evening %02d:%02d (%s)",
		s.cfg.Morning.Hour, s.cfg.Morning.Minute,
		s.cfg.Afternoon.Hour, s.cfg.Afternoon.Minute,
		s.cfg.Evening.Hour, s.cfg.Evening.Minute,
		s.cfg.Timezone)
}

func (s *SchedulerService) runSlotLoop(ctx context.Context, slot string, at config.SlotTime) {
	for {
		next := s.clock.NextFire(s.now(), at)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.RunSlot(ctx, slot)
		}
	}
}

// SlotSummary aggregates one sweep's results
type SlotSummary struct {
	Processed int
	Succeeded int
	Failed    int
}

// RunSlot sweeps all accounts for blasts due in the given slot today and
// dispatches each one.
func (s *SchedulerService) RunSlot(ctx context.Context, slot string) SlotSummary {
	var summary SlotSummary

	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		log.Printf("%s sweep: listing accounts failed: %v", slot, err)
		return summary
	}

	today := s.now()
	for _, account := range accounts {
		blasts, err := s.blastRepo.FindScheduledForSlot(ctx, account.ID, slot)
		if err != nil {
			log.Printf("%s sweep: listing blasts for %s failed: %v", slot, account.BarName, err)
			continue
		}

		for _, blast := range blasts {
			if !s.clock.SameLocalDay(blast.ScheduledDate, today) {
				continue
			}

			stats, err := s.blasts.SendNow(ctx, account.ID, blast.ID, nil)
			switch {
			case errors.Is(err, ErrAlreadySent):
				// Claimed by a concurrent manual send, or cancelled and
				// re-sent; nothing to do.
				continue
			case errors.Is(err, ErrNoRecipients):
				log.Printf("%s sweep: blast %s has no matching recipients, leaving scheduled", slot, blast.ID.Hex())
				continue
			case err != nil:
				summary.Processed++
				summary.Failed++
				log.Printf("%s sweep: blast %s failed: %v", slot, blast.ID.Hex(), err)
				if markErr := s.blastRepo.MarkFailed(ctx, account.ID, blast.ID, err.Error()); markErr != nil {
					log.Printf("%s sweep: marking blast %s failed: %v", slot, blast.ID.Hex(), markErr)
				}
			default:
				summary.Processed++
				summary.Succeeded += stats.SuccessCount
				summary.Failed += stats.FailureCount
			}
		}
	}

	if summary.Processed > 0 {
		log.Printf("%s sweep complete: %d blasts processed, %d messages sent, %d failed",
			slot, summary.Processed, summary.Succeeded, summary.Failed)
	}
	return summary
}

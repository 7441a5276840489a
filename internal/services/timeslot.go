package services

import (
	"time"

	"github.com/lastcall/sms-backend/internal/config"
	"github.com/lastcall/sms-backend/internal/models"
)

// SlotClock maps timestamps onto the three fixed daily time slots in the
// deployment's single fixed timezone. Boundaries come from configuration;
// the default split is morning before 12:00, afternoon 12:00-16:59,
// evening from 17:00.
type SlotClock struct {
	loc            *time.Location
	afternoonStart int
	eveningStart   int
}

// NewSlotClock builds a SlotClock from scheduler configuration
func NewSlotClock(cfg config.SchedulerConfig) (*SlotClock, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	return &SlotClock{
		loc:            loc,
		afternoonStart: cfg.AfternoonStartHour,
		eveningStart:   cfg.EveningStartHour,
	}, nil
}

// Location returns the fixed scheduling timezone
func (c *SlotClock) Location() *time.Location {
	return c.loc
}

// ResolveTimeSlot assigns exactly one slot label based on the timestamp's
// local hour in the fixed timezone.
func (c *SlotClock) ResolveTimeSlot(t time.Time) string {
	hour := t.In(c.loc).Hour()
	switch {
	case hour < c.afternoonStart:
		return models.TimeSlotMorning
	case hour >= c.eveningStart:
		return models.TimeSlotEvening
	default:
		return models.TimeSlotAfternoon
	}
}

// SameLocalDay reports whether two timestamps fall on the same calendar day
// in the fixed timezone.
func (c *SlotClock) SameLocalDay(a, b time.Time) bool {
	ay, am, ad := a.In(c.loc).Date()
	by, bm, bd := b.In(c.loc).Date()
	return ay == by && am == bm && ad == bd
}

// NextFire computes the next occurrence of the given local fire time,
// strictly after now.
func (c *SlotClock) NextFire(now time.Time, at config.SlotTime) time.Time {
	local := now.In(c.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), at.Hour, at.Minute, 0, 0, c.loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Age computes the whole-year age at asOf for the given birthdate.
// The year difference is decremented by one when asOf's month/day falls
// before the birthday in asOf's year.
func Age(birthdate, asOf time.Time) int {
	age := asOf.Year() - birthdate.Year()
	if asOf.Month() < birthdate.Month() ||
		(asOf.Month() == birthdate.Month() && asOf.Day() < birthdate.Day()) {
		age--
	}
	return age
}

// AgeOf computes the age for an optional birthdate. ok is false when the
// birthdate is absent; callers must treat that as "age unknown" and exclude
// the recipient from age-bounded operations.
func AgeOf(birthdate *time.Time, asOf time.Time) (age int, ok bool) {
	if birthdate == nil || birthdate.IsZero() {
		return 0, false
	}
	return Age(*birthdate, asOf), true
}

// AgeRange is a parsed age targeting filter
type AgeRange struct {
	Min     int
	Max     int  // ignored when unbounded
	Bounded bool // false for "40+" style ranges
}

// Contains reports whether the given age falls in the range
func (r AgeRange) Contains(age int) bool {
	if age < r.Min {
		return false
	}
	return !r.Bounded || age <= r.Max
}

// ParseAgeRange parses an age range filter of the form "21-25" or "40+".
// The caller is expected to treat "" and "all" as no filter before calling.
func ParseAgeRange(s string) (AgeRange, error) {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "+") {
		min, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
		if err != nil {
			return AgeRange{}, errors.New("invalid age range: " + s)
		}
		return AgeRange{Min: min}, nil
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return AgeRange{}, errors.New("invalid age range: " + s)
	}
	min, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	max, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || max < min {
		return AgeRange{}, errors.New("invalid age range: " + s)
	}
	return AgeRange{Min: min, Max: max, Bounded: true}, nil
}

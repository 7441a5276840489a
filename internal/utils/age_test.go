package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestAgeBirthdayBoundary(t *testing.T) {
	birthdate := date(1990, 1, 31)

	// Day before the birthday the age has not incremented yet
	assert.Equal(t, 34, Age(birthdate, date(2025, 1, 30)))
	// On the birthday it has
	assert.Equal(t, 35, Age(birthdate, date(2025, 1, 31)))
	assert.Equal(t, 35, Age(birthdate, date(2025, 2, 1)))
}

func TestAgeEarlierMonth(t *testing.T) {
	assert.Equal(t, 20, Age(date(2005, 12, 25), date(2026, 8, 31)))
}

func TestAgeOfUnknownBirthdate(t *testing.T) {
	_, ok := AgeOf(nil, date(2026, 1, 1))
	assert.False(t, ok)

	zero := time.Time{}
	_, ok = AgeOf(&zero, date(2026, 1, 1))
	assert.False(t, ok)

	b := date(2000, 6, 15)
	age, ok := AgeOf(&b, date(2026, 8, 31))
	require.True(t, ok)
	assert.Equal(t, 26, age)
}

func TestParseAgeRangeBounded(t *testing.T) {
	r, err := ParseAgeRange("21-25")
	require.NoError(t, err)
	assert.False(t, r.Contains(20))
	assert.True(t, r.Contains(21))
	assert.True(t, r.Contains(25))
	assert.False(t, r.Contains(26))
}

func TestParseAgeRangeUnbounded(t *testing.T) {
	r, err := ParseAgeRange("40+")
	require.NoError(t, err)
	assert.False(t, r.Contains(39))
	assert.True(t, r.Contains(40))
	assert.True(t, r.Contains(95))
}

func TestParseAgeRangeInvalid(t *testing.T) {
	for _, s := range []string{"", "abc", "25-21", "x+", "21-", "-25"} {
		_, err := ParseAgeRange(s)
		assert.Error(t, err, "input %q", s)
	}
}

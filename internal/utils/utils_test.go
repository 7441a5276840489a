package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lastcall/sms-backend/internal/models"
)

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"male", models.GenderMan},
		{"  M ", models.GenderMan},
		{"Female", models.GenderWoman},
		{"woman", models.GenderWoman},
		{"non-binary", models.GenderNonBinary},
		{"NB", models.GenderNonBinary},
		{"", models.GenderPreferNotToSay},
		{"Prefer not to say", models.GenderPreferNotToSay},
		{"attack helicopter", models.GenderOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeGender(tt.in), "input %q", tt.in)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"The Rusty Nail", "the-rusty-nail"},
		{"O'Malley's Pub & Grill", "omalleys-pub-grill"},
		{"  Bar  99  ", "bar-99"},
		{"Café Olé", "caf-ol"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}

func TestGenerateCouponCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCouponCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, ch := range code {
			assert.True(t, strings.ContainsRune(couponAlphabet, ch), "char %q", ch)
		}
		seen[code] = true
	}
	// Ambiguous characters are excluded from the alphabet
	assert.NotContains(t, couponAlphabet, "0")
	assert.NotContains(t, couponAlphabet, "O")
	assert.NotContains(t, couponAlphabet, "1")
	assert.NotContains(t, couponAlphabet, "I")
	// 32^6 codes: 50 draws colliding would indicate a broken generator
	assert.Greater(t, len(seen), 45)
}

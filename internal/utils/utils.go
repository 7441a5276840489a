package utils

import (
	"crypto/rand"
	"errors"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lastcall/sms-backend/internal/config"
	"github.com/lastcall/sms-backend/internal/models"
)

// genderAliases maps lowercased free-text signup values onto the fixed
// category set. Unlisted non-blank values normalize to "Other".
var genderAliases = map[string]string{
	"man":               models.GenderMan,
	"male":              models.GenderMan,
	"m":                 models.GenderMan,
	"woman":             models.GenderWoman,
	"female":            models.GenderWoman,
	"f":                 models.GenderWoman,
	"non-binary":        models.GenderNonBinary,
	"nonbinary":         models.GenderNonBinary,
	"nb":                models.GenderNonBinary,
	"other":             models.GenderOther,
	"prefer not to say": models.GenderPreferNotToSay,
}

// NormalizeGender maps a free-text gender value to one of the fixed
// categories. Blank input means the question was skipped.
func NormalizeGender(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return models.GenderPreferNotToSay
	}
	if g, ok := genderAliases[s]; ok {
		return g
	}
	return models.GenderOther
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a bar name
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "'", "")
	s = slugUnsafe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

const couponAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCouponCode generates a random short alphanumeric coupon code.
// Ambiguous characters (0/O, 1/I) are excluded from the alphabet.
func GenerateCouponCode(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(couponAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = couponAlphabet[n.Int64()]
	}
	return string(b), nil
}

// GenerateJWT generates a signed operator token
func GenerateJWT(operatorID, role string, cfg *config.Config) (string, error) {
	claims := jwt.MapClaims{
		"sub":  operatorID,
		"role": role,
		"exp":  time.Now().Add(time.Second * time.Duration(cfg.JWT.ExpiresIn)).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// ValidateJWT validates a token and returns its claims
func ValidateJWT(tokenString string, cfg *config.Config) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

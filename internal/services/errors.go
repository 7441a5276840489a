package services

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Error kinds surfaced to the API layer. Handlers map these onto HTTP
// status codes; per-recipient send failures are never represented here,
// they only appear in a blast's delivery stats.
var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrNoRecipients   = errors.New("no recipients match the selected criteria")
	ErrDuplicateSlug  = errors.New("a bar with a similar name already exists")
	ErrDuplicatePhone = errors.New("sender phone number is already in use by another account")
	ErrAlreadySent    = errors.New("blast has already been sent or is being sent")
	ErrSignupClosed   = errors.New("signup is not enabled for this bar")
)

// notFound translates a repository miss into the service-level error
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

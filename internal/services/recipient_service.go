package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
	"github.com/lastcall/sms-backend/internal/utils"
)

// RecipientService handles signup and roster reads
type RecipientService struct {
	accountRepo   repositories.AccountRepository
	recipientRepo repositories.RecipientRepository
}

// NewRecipientService creates a new RecipientService
func NewRecipientService(
	accountRepo repositories.AccountRepository,
	recipientRepo repositories.RecipientRepository,
) *RecipientService {
	return &RecipientService{
		accountRepo:   accountRepo,
		recipientRepo: recipientRepo,
	}
}

// SignupInput is the web signup form payload
type SignupInput struct {
	Name        string
	PhoneNumber string
	Email       string
	Gender      string
	Birthdate   *time.Time
	IsMember    bool
	Consent     bool
}

// SignupBySlug resolves the bar by its public slug and runs the signup.
// The web form only knows the slug, never the account ID.
func (s *RecipientService) SignupBySlug(ctx context.Context, slug string, input SignupInput) (*models.Recipient, error) {
	account, err := s.accountRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}
	return s.Signup(ctx, account.ID, input)
}

// Signup creates or updates a recipient for a bar. Signups are idempotent
// on phone number: resubmitting updates the existing record instead of
// duplicating it. The SMS verification flow later sets BirthdateConfirmed,
// so an updated birthdate resets it.
func (s *RecipientService) Signup(ctx context.Context, accountID primitive.ObjectID, input SignupInput) (*models.Recipient, error) {
	if strings.TrimSpace(input.PhoneNumber) == "" {
		return nil, validationError("phone number is required")
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, notFound(err)
	}
	if account.Locked || !account.SignupEnabled {
		return nil, ErrSignupClosed
	}

	gender := utils.NormalizeGender(input.Gender)

	existing, err := s.recipientRepo.FindByPhoneNumber(ctx, accountID, input.PhoneNumber)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if existing != nil {
		existing.Name = input.Name
		existing.Email = input.Email
		existing.Gender = gender
		existing.IsMember = input.IsMember
		if input.Consent {
			existing.Consent = true
		}
		if input.Birthdate != nil {
			existing.Birthdate = input.Birthdate
			existing.BirthdateConfirmed = false
		}
		if err := s.recipientRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	recipient := &models.Recipient{
		AccountID:   accountID,
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		Gender:      gender,
		Birthdate:   input.Birthdate,
		IsMember:    input.IsMember,
		Consent:     input.Consent,
		Subscribe:   true,
	}
	if err := s.recipientRepo.Create(ctx, recipient); err != nil {
		return nil, err
	}
	return recipient, nil
}

// ListRecipients retrieves the full roster for an account
func (s *RecipientService) ListRecipients(ctx context.Context, accountID primitive.ObjectID) ([]*models.Recipient, error) {
	return s.recipientRepo.FindByAccount(ctx, accountID)
}

// GetRecipient retrieves a single recipient
func (s *RecipientService) GetRecipient(ctx context.Context, accountID, id primitive.ObjectID) (*models.Recipient, error) {
	recipient, err := s.recipientRepo.FindByID(ctx, accountID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return recipient, nil
}

package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
	"github.com/lastcall/sms-backend/internal/utils"
)

// AccountService handles bar account administration
type AccountService struct {
	accountRepo   repositories.AccountRepository
	recipientRepo repositories.RecipientRepository
	blastRepo     repositories.BlastRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo repositories.AccountRepository,
	recipientRepo repositories.RecipientRepository,
	blastRepo repositories.BlastRepository,
) *AccountService {
	return &AccountService{
		accountRepo:   accountRepo,
		recipientRepo: recipientRepo,
		blastRepo:     blastRepo,
	}
}

// CreateAccountInput carries the fields an operator supplies for a new bar
type CreateAccountInput struct {
	BarName                   string
	PhoneNumber               string
	Email                     string
	MessagingProfileID        string
	CouponsEnabled            bool
	IncludeMembershipQuestion bool
}

// AccountSummary is an account with roster and blast counts for listings
type AccountSummary struct {
	*models.Account
	UserCount  int64 `json:"userCount"`
	BlastCount int64 `json:"blastCount"`
}

// CreateAccount creates a new bar. The slug is derived from the bar name
// and must be unique; so must the sender phone number, since inbound
// message routing resolves the account by receiver number. New accounts
// start locked pending manual review.
func (s *AccountService) CreateAccount(ctx context.Context, input CreateAccountInput) (*models.Account, error) {
	if strings.TrimSpace(input.BarName) == "" {
		return nil, validationError("bar name is required")
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		return nil, validationError("phone number is required")
	}

	slug := utils.Slugify(input.BarName)
	if slug == "" {
		return nil, validationError("bar name must contain letters or digits")
	}
	if _, err := s.accountRepo.FindBySlug(ctx, slug); err == nil {
		return nil, ErrDuplicateSlug
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if _, err := s.accountRepo.FindByPhoneNumber(ctx, input.PhoneNumber); err == nil {
		return nil, ErrDuplicatePhone
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	account := &models.Account{
		BarName:                   input.BarName,
		Slug:                      slug,
		Email:                     input.Email,
		PhoneNumber:               input.PhoneNumber,
		MessagingProfileID:        input.MessagingProfileID,
		CouponsEnabled:            input.CouponsEnabled,
		IncludeMembershipQuestion: input.IncludeMembershipQuestion,
		SignupEnabled:             true,
		Locked:                    true,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return account, nil
}

// GetAccountBySlug retrieves an account for the public signup page. Locked
// bars and bars with signup disabled are not exposed.
func (s *AccountService) GetAccountBySlug(ctx context.Context, slug string) (*models.Account, error) {
	account, err := s.accountRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err)
	}
	if account.Locked || !account.SignupEnabled {
		return nil, ErrNotFound
	}
	return account, nil
}

// ListAccounts retrieves all accounts with roster and blast counts
func (s *AccountService) ListAccounts(ctx context.Context) ([]*AccountSummary, error) {
	accounts, err := s.accountRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]*AccountSummary, 0, len(accounts))
	for _, account := range accounts {
		userCount, err := s.recipientRepo.CountByAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		blastCount, err := s.blastRepo.CountByAccount(ctx, account.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &AccountSummary{
			Account:    account,
			UserCount:  userCount,
			BlastCount: blastCount,
		})
	}
	return summaries, nil
}

// UpdateAccountInput carries optional account updates; nil fields are kept
type UpdateAccountInput struct {
	BarName                   *string
	PhoneNumber               *string
	Email                     *string
	MessagingProfileID        *string
	CouponsEnabled            *bool
	IncludeMembershipQuestion *bool
	SignupEnabled             *bool
	Locked                    *bool
}

// UpdateAccount applies the supplied changes, re-checking slug and sender
// number uniqueness when they move.
func (s *AccountService) UpdateAccount(ctx context.Context, id primitive.ObjectID, input UpdateAccountInput) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}

	if input.BarName != nil && *input.BarName != account.BarName {
		slug := utils.Slugify(*input.BarName)
		existing, err := s.accountRepo.FindBySlug(ctx, slug)
		if err == nil && existing.ID != id {
			return nil, ErrDuplicateSlug
		} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		account.BarName = *input.BarName
		account.Slug = slug
	}
	if input.PhoneNumber != nil && *input.PhoneNumber != account.PhoneNumber {
		existing, err := s.accountRepo.FindByPhoneNumber(ctx, *input.PhoneNumber)
		if err == nil && existing.ID != id {
			return nil, ErrDuplicatePhone
		} else if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		account.PhoneNumber = *input.PhoneNumber
	}
	if input.Email != nil {
		account.Email = *input.Email
	}
	if input.MessagingProfileID != nil {
		account.MessagingProfileID = *input.MessagingProfileID
	}
	if input.CouponsEnabled != nil {
		account.CouponsEnabled = *input.CouponsEnabled
	}
	if input.IncludeMembershipQuestion != nil {
		account.IncludeMembershipQuestion = *input.IncludeMembershipQuestion
	}
	if input.SignupEnabled != nil {
		account.SignupEnabled = *input.SignupEnabled
	}
	if input.Locked != nil {
		account.Locked = *input.Locked
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes a bar
func (s *AccountService) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.accountRepo.FindByID(ctx, id); err != nil {
		return notFound(err)
	}
	return s.accountRepo.Delete(ctx, id)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lastcall/sms-backend/internal/config"
	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
	"github.com/lastcall/sms-backend/internal/utils"
	"github.com/lastcall/sms-backend/pkg/smsgateway"
)

// birthdatePattern matches the MM/DD/YYYY verification protocol: two-digit
// month 01-12, two-digit day 01-31, four-digit year.
var birthdatePattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(0[1-9]|[12][0-9]|3[01])/\d{4}$`)

// ConversationService is the per-message inbound SMS state machine. Each
// inbound text produces exactly one outbound reply (or none) and zero or
// more recipient/coupon state mutations.
type ConversationService struct {
	accountRepo   repositories.AccountRepository
	recipientRepo repositories.RecipientRepository
	couponRepo    repositories.CouponRepository
	gateway       smsgateway.Gateway
	cfg           config.ConversationConfig
	now           func() time.Time
}

// NewConversationService creates a new ConversationService
func NewConversationService(
	accountRepo repositories.AccountRepository,
	recipientRepo repositories.RecipientRepository,
	couponRepo repositories.CouponRepository,
	gateway smsgateway.Gateway,
	cfg config.ConversationConfig,
) *ConversationService {
	return &ConversationService{
		accountRepo:   accountRepo,
		recipientRepo: recipientRepo,
		couponRepo:    couponRepo,
		gateway:       gateway,
		cfg:           cfg,
		now:           time.Now,
	}
}

// HandleInbound processes one inbound message. The receiver number
// identifies the account, the sender number the recipient within it. Any
// error returned here is for operator logs only; the webhook layer always
// acknowledges the provider with success so delivery is not retried.
func (s *ConversationService) HandleInbound(ctx context.Context, from, to, body string) error {
	account, err := s.accountRepo.FindByPhoneNumber(ctx, to)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Printf("inbound from %s: no account owns receiver number %s", from, to)
			return nil
		}
		return err
	}

	recipient, err := s.recipientRepo.FindByPhoneNumber(ctx, account.ID, from)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Printf("inbound to %s: unknown sender %s", account.BarName, from)
			return nil
		}
		return err
	}

	// No consent means no conversation at all: no mutation, no reply.
	if !recipient.Consent {
		return nil
	}

	command := strings.ToUpper(strings.TrimSpace(body))
	switch command {
	case "STOP":
		return s.handleStop(ctx, account, recipient)
	case "START":
		return s.handleStart(ctx, account, recipient)
	case "HELP":
		return s.reply(ctx, account, recipient,
			fmt.Sprintf("%s: for help with your subscription contact %s. Text STOP to unsubscribe, START to resubscribe.", account.BarName, s.cfg.SupportContact))
	}
	if command == strings.ToUpper(s.cfg.PromoKeyword) {
		return s.handlePromoCode(ctx, account, recipient)
	}
	if birthdatePattern.MatchString(strings.TrimSpace(body)) {
		return s.handleBirthdate(ctx, account, recipient, strings.TrimSpace(body))
	}

	// Anything else is an unhandled no-op; never an error back over SMS.
	log.Printf("inbound to %s from %s: unhandled message", account.BarName, recipient.PhoneNumber)
	return nil
}

func (s *ConversationService) handleStop(ctx context.Context, account *models.Account, recipient *models.Recipient) error {
	if recipient.Subscribe {
		recipient.Subscribe = false
		if err := s.recipientRepo.Update(ctx, recipient); err != nil {
			return err
		}
	}
	return s.reply(ctx, account, recipient,
		fmt.Sprintf("You have been unsubscribed from %s. Text START to resubscribe.", account.BarName))
}

func (s *ConversationService) handleStart(ctx context.Context, account *models.Account, recipient *models.Recipient) error {
	if !recipient.Subscribe {
		recipient.Subscribe = true
		if err := s.recipientRepo.Update(ctx, recipient); err != nil {
			return err
		}
	}
	return s.reply(ctx, account, recipient,
		fmt.Sprintf("Welcome back! You are resubscribed to %s.", account.BarName))
}

func (s *ConversationService) handlePromoCode(ctx context.Context, account *models.Account, recipient *models.Recipient) error {
	if !account.CouponsEnabled {
		log.Printf("promo keyword from %s ignored: coupons disabled for %s", recipient.PhoneNumber, account.BarName)
		return nil
	}

	now := s.now()
	code, err := utils.GenerateCouponCode(6)
	if err != nil {
		return err
	}
	ttl := time.Duration(s.cfg.CouponTTLMinutes) * time.Minute
	coupon := &models.Coupon{
		AccountID:   account.ID,
		RecipientID: recipient.ID,
		Code:        code,
		Type:        s.cfg.CouponType,
		Used:        false,
		ExpiresAt:   now.Add(ttl),
	}

	created, existing, err := s.couponRepo.IssueIfNoneActive(ctx, coupon, now)
	if err != nil {
		return err
	}
	if !created {
		remaining := time.Until(existing.ExpiresAt).Round(time.Minute)
		return s.reply(ctx, account, recipient,
			fmt.Sprintf("You already have an active code: %s. It expires in about %d minutes.", existing.Code, int(remaining.Minutes())))
	}
	return s.reply(ctx, account, recipient,
		fmt.Sprintf("Your code is %s. Show it at the bar within %d minutes to redeem.", coupon.Code, s.cfg.CouponTTLMinutes))
}

func (s *ConversationService) handleBirthdate(ctx context.Context, account *models.Account, recipient *models.Recipient, text string) error {
	birthdate, err := time.Parse("01/02/2006", text)
	if err != nil {
		// Matched the pattern but isn't a real calendar date (e.g. 02/31).
		if s.cfg.ReplyOnUnverified {
			return s.reply(ctx, account, recipient, "That doesn't look like a valid date. Please reply with your birthdate as MM/DD/YYYY.")
		}
		return nil
	}

	age := utils.Age(birthdate, s.now())
	if s.cfg.MinimumAge > 0 && age < s.cfg.MinimumAge {
		return s.reply(ctx, account, recipient,
			fmt.Sprintf("Sorry, you must be %d or older to join the %s list.", s.cfg.MinimumAge, account.BarName))
	}

	// The verification step overwrites any previously stored birthdate.
	recipient.Birthdate = &birthdate
	recipient.BirthdateConfirmed = true
	if err := s.recipientRepo.Update(ctx, recipient); err != nil {
		return err
	}

	if account.CouponsEnabled {
		return s.reply(ctx, account, recipient,
			fmt.Sprintf("You're all set! Text %s anytime to get a drink code.", s.cfg.PromoKeyword))
	}
	return s.reply(ctx, account, recipient,
		fmt.Sprintf("You're all set! Welcome to the %s list.", account.BarName))
}

// reply sends the single outbound response for this inbound message.
// Provider failures are logged, never propagated to the transport.
func (s *ConversationService) reply(ctx context.Context, account *models.Account, recipient *models.Recipient, text string) error {
	_, err := s.gateway.SendMessage(ctx, recipient.PhoneNumber, account.PhoneNumber, text, account.MessagingProfileID)
	if err != nil {
		log.Printf("reply to %s failed: %v", recipient.PhoneNumber, err)
	}
	return nil
}

package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
)

// CouponService handles bartender-side coupon redemption. Issuance lives in
// the conversation flow; this side only verifies and burns codes.
type CouponService struct {
	couponRepo repositories.CouponRepository
	now        func() time.Time
}

// NewCouponService creates a new CouponService
func NewCouponService(couponRepo repositories.CouponRepository) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		now:        time.Now,
	}
}

// Redeem marks a code as used. Expired or already-used codes are refused so
// a code shown at the bar can only be honored once, within its window.
func (s *CouponService) Redeem(ctx context.Context, accountID primitive.ObjectID, code string) (*models.Coupon, error) {
	coupon, err := s.couponRepo.FindByCode(ctx, accountID, code)
	if err != nil {
		return nil, notFound(err)
	}
	if !coupon.Active(s.now()) {
		if coupon.Used {
			return nil, validationError("code has already been redeemed")
		}
		return nil, validationError("code has expired")
	}
	if err := s.couponRepo.MarkUsed(ctx, coupon.ID); err != nil {
		return nil, err
	}
	coupon.Used = true
	return coupon, nil
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lastcall/sms-backend/internal/models"
)

func issueTestCoupon(t *testing.T, repo *fakeCouponRepo, accountID primitive.ObjectID, code string, expiresAt time.Time) *models.Coupon {
	t.Helper()
	coupon := &models.Coupon{
		AccountID:   accountID,
		RecipientID: primitive.NewObjectID(),
		Code:        code,
		Type:        "welcome",
		ExpiresAt:   expiresAt,
	}
	created, _, err := repo.IssueIfNoneActive(context.Background(), coupon, time.Now())
	require.NoError(t, err)
	require.True(t, created)
	return coupon
}

func TestRedeemBurnsCodeOnce(t *testing.T) {
	coupons := newFakeCouponRepo()
	service := NewCouponService(coupons)
	ctx := context.Background()
	accountID := primitive.NewObjectID()

	issueTestCoupon(t, coupons, accountID, "ABC234", time.Now().Add(10*time.Minute))

	redeemed, err := service.Redeem(ctx, accountID, "ABC234")
	require.NoError(t, err)
	assert.True(t, redeemed.Used)

	_, err = service.Redeem(ctx, accountID, "ABC234")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRedeemRejectsExpiredCode(t *testing.T) {
	coupons := newFakeCouponRepo()
	service := NewCouponService(coupons)
	accountID := primitive.NewObjectID()

	coupon := &models.Coupon{
		AccountID:   accountID,
		RecipientID: primitive.NewObjectID(),
		Code:        "EXPIRD",
		ExpiresAt:   time.Now().Add(-time.Minute),
	}
	created, _, err := coupons.IssueIfNoneActive(context.Background(), coupon, time.Now().Add(-20*time.Minute))
	require.NoError(t, err)
	require.True(t, created)

	_, err = service.Redeem(context.Background(), accountID, "EXPIRD")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRedeemUnknownCodeIsNotFound(t *testing.T) {
	coupons := newFakeCouponRepo()
	service := NewCouponService(coupons)

	_, err := service.Redeem(context.Background(), primitive.NewObjectID(), "NOSUCH")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedeemScopedToAccount(t *testing.T) {
	coupons := newFakeCouponRepo()
	service := NewCouponService(coupons)
	accountID := primitive.NewObjectID()

	issueTestCoupon(t, coupons, accountID, "ABC234", time.Now().Add(10*time.Minute))

	// Another bar cannot redeem this bar's code
	_, err := service.Redeem(context.Background(), primitive.NewObjectID(), "ABC234")
	assert.ErrorIs(t, err, ErrNotFound)
}

package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
)

// Compile-time check to ensure CouponRepository implements the interface
var _ repositories.CouponRepository = (*CouponRepository)(nil)

// CouponRepository handles MongoDB operations for Coupon
type CouponRepository struct {
	collection *mongo.Collection
}

// NewCouponRepository creates a new CouponRepository
func NewCouponRepository(db *mongo.Database) *CouponRepository {
	return &CouponRepository{
		collection: db.Collection("coupons"),
	}
}

// FindActiveByRecipient finds the recipient's unexpired, unused coupon if any
func (r *CouponRepository) FindActiveByRecipient(ctx context.Context, recipientID primitive.ObjectID, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	filter := bson.M{
		"recipientId": recipientID,
		"used":        false,
		"expiresAt":   bson.M{"$gt": now},
	}
	err := r.collection.FindOne(ctx, filter).Decode(&coupon)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// FindByCode finds a coupon by its code within an account
func (r *CouponRepository) FindByCode(ctx context.Context, accountID primitive.ObjectID, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	filter := bson.M{"accountId": accountID, "code": code}
	err := r.collection.FindOne(ctx, filter).Decode(&coupon)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

// IssueIfNoneActive inserts the coupon unless an active one already exists for
// the recipient. The check and insert run inside a transaction so concurrent
// duplicate inbound messages cannot mint two simultaneously-active coupons.
func (r *CouponRepository) IssueIfNoneActive(ctx context.Context, coupon *models.Coupon, now time.Time) (bool, *models.Coupon, error) {
	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return false, nil, err
	}
	defer session.EndSession(ctx)

	var existing *models.Coupon
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		active, err := r.FindActiveByRecipient(sc, coupon.RecipientID, now)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		if active != nil {
			existing = active
			return nil, nil
		}

		coupon.ID = primitive.NewObjectID()
		coupon.CreatedAt = now
		_, err = r.collection.InsertOne(sc, coupon)
		return nil, err
	})
	if err != nil {
		return false, nil, err
	}
	if existing != nil {
		return false, existing, nil
	}
	return true, nil, nil
}

// MarkUsed flags a coupon as redeemed
func (r *CouponRepository) MarkUsed(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"used": true}})
	return err
}

package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lastcall/sms-backend/internal/models"
)

// AccountRepository defines the interface for account (bar) data operations
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error)
	FindBySlug(ctx context.Context, slug string) (*models.Account, error)
	FindByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Account, error)
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context) ([]*models.Account, error)
}

// RecipientRepository defines the interface for recipient data operations
type RecipientRepository interface {
	Create(ctx context.Context, recipient *models.Recipient) error
	Update(ctx context.Context, recipient *models.Recipient) error
	FindByID(ctx context.Context, accountID, id primitive.ObjectID) (*models.Recipient, error)
	FindByPhoneNumber(ctx context.Context, accountID primitive.ObjectID, phoneNumber string) (*models.Recipient, error)
	FindByAccount(ctx context.Context, accountID primitive.ObjectID) ([]*models.Recipient, error)
	FindEligible(ctx context.Context, accountID primitive.ObjectID) ([]*models.Recipient, error)
	CountByAccount(ctx context.Context, accountID primitive.ObjectID) (int64, error)
	SetSubscribeAll(ctx context.Context, accountID primitive.ObjectID, subscribe bool) (int64, error)
}

// BlastRepository defines the interface for blast data operations
type BlastRepository interface {
	Create(ctx context.Context, blast *models.Blast) error
	FindByID(ctx context.Context, accountID, id primitive.ObjectID) (*models.Blast, error)
	FindByAccount(ctx context.Context, accountID primitive.ObjectID) ([]*models.Blast, error)
	FindByStatus(ctx context.Context, accountID primitive.ObjectID, status string) ([]*models.Blast, error)
	FindScheduledForSlot(ctx context.Context, accountID primitive.ObjectID, timeSlot string) ([]*models.Blast, error)
	Update(ctx context.Context, blast *models.Blast) error
	Delete(ctx context.Context, accountID, id primitive.ObjectID) error
	CountByAccount(ctx context.Context, accountID primitive.ObjectID) (int64, error)
	// TryMarkSending atomically flips a draft or scheduled blast to "sending".
	// It returns false when the blast is in any other status, which is how
	// double dispatch (scheduler sweep vs manual send) is prevented.
	TryMarkSending(ctx context.Context, accountID, id primitive.ObjectID) (bool, error)
	MarkSent(ctx context.Context, accountID, id primitive.ObjectID, stats *models.DeliveryStats, sentAt time.Time) error
	MarkFailed(ctx context.Context, accountID, id primitive.ObjectID, reason string) error
}

// CouponRepository defines the interface for coupon data operations
type CouponRepository interface {
	FindActiveByRecipient(ctx context.Context, recipientID primitive.ObjectID, now time.Time) (*models.Coupon, error)
	FindByCode(ctx context.Context, accountID primitive.ObjectID, code string) (*models.Coupon, error)
	// IssueIfNoneActive inserts the coupon unless the recipient already has an
	// unexpired unused one. The check and insert run under a per-recipient
	// serialization guarantee; when an active coupon exists it is returned
	// with created=false.
	IssueIfNoneActive(ctx context.Context, coupon *models.Coupon, now time.Time) (created bool, existing *models.Coupon, err error)
	MarkUsed(ctx context.Context, id primitive.ObjectID) error
}

// MetricsRepository defines the interface for metrics snapshot operations
type MetricsRepository interface {
	FindByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.MetricsSnapshot, error)
	Upsert(ctx context.Context, snapshot *models.MetricsSnapshot) error
}

// OperatorRepository defines the interface for operator (dashboard login) operations
type OperatorRepository interface {
	Create(ctx context.Context, operator *models.Operator) error
	FindByEmail(ctx context.Context, email string) (*models.Operator, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Operator, error)
}

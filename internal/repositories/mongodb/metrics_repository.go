package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
)

// Compile-time check to ensure MetricsRepository implements the interface
var _ repositories.MetricsRepository = (*MetricsRepository)(nil)

// MetricsRepository handles MongoDB operations for per-account metrics snapshots
type MetricsRepository struct {
	collection *mongo.Collection
}

// NewMetricsRepository creates a new MetricsRepository
func NewMetricsRepository(db *mongo.Database) *MetricsRepository {
	return &MetricsRepository{
		collection: db.Collection("metrics"),
	}
}

// FindByAccount finds the metrics snapshot for an account
func (r *MetricsRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID) (*models.MetricsSnapshot, error) {
	var snapshot models.MetricsSnapshot
	err := r.collection.FindOne(ctx, bson.M{"accountId": accountID}).Decode(&snapshot)
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Upsert replaces the account's snapshot, creating it when missing
func (r *MetricsRepository) Upsert(ctx context.Context, snapshot *models.MetricsSnapshot) error {
	filter := bson.M{"accountId": snapshot.AccountID}
	update := bson.M{"$set": bson.M{
		"accountId":          snapshot.AccountID,
		"totalSubscribed":    snapshot.TotalSubscribed,
		"growth":             snapshot.Growth,
		"genderDistribution": snapshot.GenderDistribution,
		"ageDistribution":    snapshot.AgeDistribution,
		"computedAt":         snapshot.ComputedAt,
	}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

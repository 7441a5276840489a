package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
)

// Compile-time check to ensure BlastRepository implements the interface
var _ repositories.BlastRepository = (*BlastRepository)(nil)

// BlastRepository handles MongoDB operations for Blast
type BlastRepository struct {
	collection *mongo.Collection
}

// NewBlastRepository creates a new BlastRepository
func NewBlastRepository(db *mongo.Database) *BlastRepository {
	return &BlastRepository{
		collection: db.Collection("blasts"),
	}
}

// Create inserts a new blast in draft status
func (r *BlastRepository) Create(ctx context.Context, blast *models.Blast) error {
	blast.ID = primitive.NewObjectID()
	if blast.Status == "" {
		blast.Status = models.BlastStatusDraft
	}
	blast.CreatedAt = time.Now()
	blast.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, blast)
	return err
}

// FindByID finds a blast by ID within an account
func (r *BlastRepository) FindByID(ctx context.Context, accountID, id primitive.ObjectID) (*models.Blast, error) {
	var blast models.Blast
	filter := bson.M{"_id": id, "accountId": accountID}
	err := r.collection.FindOne(ctx, filter).Decode(&blast)
	if err != nil {
		return nil, err
	}
	return &blast, nil
}

// FindByAccount retrieves all blasts for an account, newest first
func (r *BlastRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID) ([]*models.Blast, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"accountId": accountID}, opts)
}

// FindByStatus retrieves blasts with the given status, newest first
func (r *BlastRepository) FindByStatus(ctx context.Context, accountID primitive.ObjectID, status string) ([]*models.Blast, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"accountId": accountID, "status": status}, opts)
}

// FindScheduledForSlot retrieves scheduled blasts assigned to a time slot
func (r *BlastRepository) FindScheduledForSlot(ctx context.Context, accountID primitive.ObjectID, timeSlot string) ([]*models.Blast, error) {
	filter := bson.M{
		"accountId": accountID,
		"status":    models.BlastStatusScheduled,
		"timeSlot":  timeSlot,
	}
	return r.find(ctx, filter, options.Find())
}

// Update updates an existing blast
func (r *BlastRepository) Update(ctx context.Context, blast *models.Blast) error {
	blast.UpdatedAt = time.Now()
	filter := bson.M{"_id": blast.ID, "accountId": blast.AccountID}
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": blast})
	return err
}

// Delete deletes a blast by ID
func (r *BlastRepository) Delete(ctx context.Context, accountID, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "accountId": accountID})
	return err
}

// CountByAccount counts blasts for an account
func (r *BlastRepository) CountByAccount(ctx context.Context, accountID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"accountId": accountID})
}

// TryMarkSending atomically claims a blast for dispatch. The compare-and-set
// on status is what keeps an overlapping scheduler sweep and a manual
// "send now" from both firing the same blast.
func (r *BlastRepository) TryMarkSending(ctx context.Context, accountID, id primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":       id,
		"accountId": accountID,
		"status":    bson.M{"$in": []string{models.BlastStatusDraft, models.BlastStatusScheduled}},
	}
	update := bson.M{"$set": bson.M{"status": models.BlastStatusSending, "updatedAt": time.Now()}}
	err := r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MarkSent records the delivery report and finalizes the blast as sent
func (r *BlastRepository) MarkSent(ctx context.Context, accountID, id primitive.ObjectID, stats *models.DeliveryStats, sentAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"status":        models.BlastStatusSent,
		"deliveryStats": stats,
		"sentAt":        sentAt,
		"updatedAt":     time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "accountId": accountID}, update)
	return err
}

// MarkFailed finalizes the blast as failed with a reason
func (r *BlastRepository) MarkFailed(ctx context.Context, accountID, id primitive.ObjectID, reason string) error {
	update := bson.M{"$set": bson.M{
		"status":    models.BlastStatusFailed,
		"error":     reason,
		"updatedAt": time.Now(),
	}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "accountId": accountID}, update)
	return err
}

func (r *BlastRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Blast, error) {
	var blasts []*models.Blast
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &blasts); err != nil {
		return nil, err
	}
	if blasts == nil {
		blasts = []*models.Blast{}
	}
	return blasts, nil
}

package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lastcall/sms-backend/internal/models"
	"github.com/lastcall/sms-backend/internal/repositories"
)

// Compile-time check to ensure RecipientRepository implements the interface
var _ repositories.RecipientRepository = (*RecipientRepository)(nil)

// RecipientRepository handles MongoDB operations for Recipient
type RecipientRepository struct {
	collection *mongo.Collection
}

// NewRecipientRepository creates a new RecipientRepository
func NewRecipientRepository(db *mongo.Database) *RecipientRepository {
	return &RecipientRepository{
		collection: db.Collection("recipients"),
	}
}

// Create inserts a new recipient
func (r *RecipientRepository) Create(ctx context.Context, recipient *models.Recipient) error {
	recipient.ID = primitive.NewObjectID()
	recipient.CreatedAt = time.Now()
	recipient.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, recipient)
	return err
}

// Update updates an existing recipient
func (r *RecipientRepository) Update(ctx context.Context, recipient *models.Recipient) error {
	recipient.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": recipient.ID}, bson.M{"$set": recipient})
	return err
}

// FindByID finds a recipient by ID within an account
func (r *RecipientRepository) FindByID(ctx context.Context, accountID, id primitive.ObjectID) (*models.Recipient, error) {
	var recipient models.Recipient
	filter := bson.M{"_id": id, "accountId": accountID}
	err := r.collection.FindOne(ctx, filter).Decode(&recipient)
	if err != nil {
		return nil, err
	}
	return &recipient, nil
}

// FindByPhoneNumber finds a recipient by phone number within an account
func (r *RecipientRepository) FindByPhoneNumber(ctx context.Context, accountID primitive.ObjectID, phoneNumber string) (*models.Recipient, error) {
	var recipient models.Recipient
	filter := bson.M{"accountId": accountID, "phoneNumber": phoneNumber}
	err := r.collection.FindOne(ctx, filter).Decode(&recipient)
	if err != nil {
		return nil, err
	}
	return &recipient, nil
}

// FindByAccount retrieves the full roster for an account
func (r *RecipientRepository) FindByAccount(ctx context.Context, accountID primitive.ObjectID) ([]*models.Recipient, error) {
	return r.find(ctx, bson.M{"accountId": accountID})
}

// FindEligible retrieves recipients with consent and an active subscription
func (r *RecipientRepository) FindEligible(ctx context.Context, accountID primitive.ObjectID) ([]*models.Recipient, error) {
	filter := bson.M{
		"accountId": accountID,
		"consent":   true,
		"subscribe": true,
	}
	return r.find(ctx, filter)
}

// CountByAccount counts recipients for an account
func (r *RecipientRepository) CountByAccount(ctx context.Context, accountID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"accountId": accountID})
}

// SetSubscribeAll bulk-updates the subscribe flag for every recipient of an
// account. Used by the maintenance scripts, not by the conversation flow.
func (r *RecipientRepository) SetSubscribeAll(ctx context.Context, accountID primitive.ObjectID, subscribe bool) (int64, error) {
	update := bson.M{"$set": bson.M{"subscribe": subscribe, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateMany(ctx, bson.M{"accountId": accountID}, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *RecipientRepository) find(ctx context.Context, filter bson.M) ([]*models.Recipient, error) {
	var recipients []*models.Recipient
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &recipients); err != nil {
		return nil, err
	}
	if recipients == nil {
		recipients = []*models.Recipient{}
	}
	return recipients, nil
}

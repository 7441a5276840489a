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

// Compile-time check to ensure AccountRepository implements the interface
var _ repositories.AccountRepository = (*AccountRepository)(nil)

// AccountRepository handles MongoDB operations for Account
type AccountRepository struct {
	collection *mongo.Collection
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		collection: db.Collection("accounts"),
	}
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	account.ID = primitive.NewObjectID()
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, account)
	return err
}

// FindByID finds an account by ID
func (r *AccountRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&account)
	if err != nil {
		return nil, err // includes mongo.ErrNoDocuments
	}
	return &account, nil
}

// FindBySlug finds an account by its URL slug
func (r *AccountRepository) FindBySlug(ctx context.Context, slug string) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByPhoneNumber finds the account that owns a provider sender number
func (r *AccountRepository) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, bson.M{"phoneNumber": phoneNumber}).Decode(&account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail finds an account by contact email
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Update updates an existing account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": account.ID}, bson.M{"$set": account})
	return err
}

// Delete deletes an account by ID
func (r *AccountRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindAll retrieves all accounts
func (r *AccountRepository) FindAll(ctx context.Context) ([]*models.Account, error) {
	var accounts []*models.Account
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []*models.Account{}
	}
	return accounts, nil
}

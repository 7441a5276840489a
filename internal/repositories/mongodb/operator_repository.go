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

// Compile-time check to ensure OperatorRepository implements the interface
var _ repositories.OperatorRepository = (*OperatorRepository)(nil)

// OperatorRepository handles MongoDB operations for Operator
type OperatorRepository struct {
	collection *mongo.Collection
}

// NewOperatorRepository creates a new OperatorRepository
func NewOperatorRepository(db *mongo.Database) *OperatorRepository {
	return &OperatorRepository{
		collection: db.Collection("operators"),
	}
}

// Create inserts a new operator
func (r *OperatorRepository) Create(ctx context.Context, operator *models.Operator) error {
	operator.ID = primitive.NewObjectID()
	operator.CreatedAt = time.Now()
	operator.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, operator)
	return err
}

// FindByEmail finds an operator by email
func (r *OperatorRepository) FindByEmail(ctx context.Context, email string) (*models.Operator, error) {
	var operator models.Operator
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&operator)
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

// FindByID finds an operator by ID
func (r *OperatorRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Operator, error) {
	var operator models.Operator
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&operator)
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

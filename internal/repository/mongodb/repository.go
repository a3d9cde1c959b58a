package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ousmanedev/receiptwatch/internal/domain/models"
	"github.com/ousmanedev/receiptwatch/internal/repository"
)

const collectionName = "receipts"

// Repository implements the receipt Store on top of a MongoDB collection.
type Repository struct {
	client *mongo.Client
	dbName string
}

var _ repository.Store = (*Repository)(nil)

// NewRepository connects to MongoDB and verifies the connection.
func NewRepository(ctx context.Context, uri string, dbName string) (*Repository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Repository{client: client, dbName: dbName}, nil
}

func (r *Repository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(collectionName)
}

// Insert assigns a fresh id and server timestamps and persists the receipt.
func (r *Repository) Insert(ctx context.Context, receipt models.Receipt) (models.Receipt, error) {
	now := time.Now()
	receipt.ID = uuid.NewString()
	receipt.UploadedAt = now
	receipt.UpdatedAt = now

	if _, err := r.collection().InsertOne(ctx, receipt); err != nil {
		return models.Receipt{}, fmt.Errorf("failed to insert receipt: %w", err)
	}

	return receipt, nil
}

// List returns all receipts ordered by upload time, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Receipt, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}})

	cursor, err := r.collection().Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer cursor.Close(ctx)

	receipts := []models.Receipt{}
	if err := cursor.All(ctx, &receipts); err != nil {
		return nil, fmt.Errorf("failed to decode receipts: %w", err)
	}

	return receipts, nil
}

// Update applies the non-nil patch fields via $set and returns the updated
// document.
func (r *Repository) Update(ctx context.Context, id string, patch models.ReceiptPatch) (models.Receipt, error) {
	set := bson.M{"updated_at": time.Now()}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.Note != nil {
		set["note"] = *patch.Note
	}
	if patch.UpdatedBy != nil {
		set["updated_by"] = *patch.UpdatedBy
	}

	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Receipt
	err := r.collection().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, updateOptions).
		Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Receipt{}, models.ErrNotFound
	}
	if err != nil {
		return models.Receipt{}, fmt.Errorf("failed to update receipt %s: %w", id, err)
	}

	return updated, nil
}

// Delete removes the receipt permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete receipt %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Close closes the MongoDB connection.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

package repository

import (
	"context"
	"fmt"

	"massage-booking-service/internal/domain/entity"
	"massage-booking-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTokenRepository implements the TokenRepository interface
type MongoTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoTokenRepository creates a new MongoDB cancellation token repository
func NewMongoTokenRepository(db *mongo.Database) repository.TokenRepository {
	if db == nil {
		return &MongoTokenRepository{}
	}

	collection := db.Collection("cancellation_token")

	ctx := context.Background()

	// Compound index backs the exact-match authorization lookup
	lookupIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "booking_id", Value: 1},
			{Key: "token", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}

	bookingIndex := mongo.IndexModel{
		Keys: bson.M{"booking_id": 1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		lookupIndex,
		bookingIndex,
	})

	return &MongoTokenRepository{
		collection: collection,
	}
}

// Insert stores a token linked to a booking
func (r *MongoTokenRepository) Insert(ctx context.Context, token *entity.CancellationToken) error {
	if r.collection == nil {
		return repository.ErrStoreUnavailable
	}

	_, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to insert cancellation token: %w", err)
	}
	return nil
}

// Exists reports whether a token matching both bookingID and token exactly is
// stored. An empty token never matches, even if an empty string was somehow
// persisted.
func (r *MongoTokenRepository) Exists(ctx context.Context, bookingID, token string) (bool, error) {
	if r.collection == nil {
		return false, repository.ErrStoreUnavailable
	}

	if token == "" {
		return false, nil
	}

	filter := bson.M{
		"booking_id": bookingID,
		"token":      token,
	}

	err := r.collection.FindOne(ctx, filter).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up cancellation token: %w", err)
	}
	return true, nil
}

// DeleteByBookingID removes every token referencing the booking
func (r *MongoTokenRepository) DeleteByBookingID(ctx context.Context, bookingID string) (int64, error) {
	if r.collection == nil {
		return 0, repository.ErrStoreUnavailable
	}

	res, err := r.collection.DeleteMany(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete cancellation tokens: %w", err)
	}
	return res.DeletedCount, nil
}

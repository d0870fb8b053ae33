package repository

import (
	"context"
	"fmt"
	"time"

	"massage-booking-service/internal/domain/entity"
	"massage-booking-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepository implements the BookingRepository interface
type MongoBookingRepository struct {
	collection *mongo.Collection
}

// NewMongoBookingRepository creates a new MongoDB booking repository. A nil
// database puts the repository in unconfigured mode: every call fails with
// ErrStoreUnavailable.
func NewMongoBookingRepository(db *mongo.Database) repository.BookingRepository {
	if db == nil {
		return &MongoBookingRepository{}
	}

	collection := db.Collection("booking")

	ctx := context.Background()

	statusIndex := mongo.IndexModel{
		Keys: bson.M{"status": 1},
	}

	createdAtIndex := mongo.IndexModel{
		Keys: bson.M{"created_at": -1},
	}

	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		statusIndex,
		createdAtIndex,
	})

	return &MongoBookingRepository{
		collection: collection,
	}
}

// Insert stores a new booking and returns its generated id
func (r *MongoBookingRepository) Insert(ctx context.Context, booking *entity.Booking) (string, error) {
	if r.collection == nil {
		return "", repository.ErrStoreUnavailable
	}

	res, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return "", fmt.Errorf("failed to insert booking: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// SetStatus updates the booking status and records an update timestamp
func (r *MongoBookingRepository) SetStatus(ctx context.Context, id, status string) (int64, error) {
	if r.collection == nil {
		return 0, repository.ErrStoreUnavailable
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid booking id %q: %w", id, err)
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
		},
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return 0, fmt.Errorf("failed to update booking status: %w", err)
	}

	return res.ModifiedCount, nil
}

// UpdateSchedule patches the supplied date/time fields only
func (r *MongoBookingRepository) UpdateSchedule(ctx context.Context, id, date, timeSlot string) (int64, error) {
	if r.collection == nil {
		return 0, repository.ErrStoreUnavailable
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid booking id %q: %w", id, err)
	}

	fields := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if date != "" {
		fields["date"] = date
	}
	if timeSlot != "" {
		fields["time"] = timeSlot
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return 0, fmt.Errorf("failed to update booking schedule: %w", err)
	}

	return res.ModifiedCount, nil
}

// Delete removes the booking document
func (r *MongoBookingRepository) Delete(ctx context.Context, id string) (int64, error) {
	if r.collection == nil {
		return 0, repository.ErrStoreUnavailable
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, fmt.Errorf("invalid booking id %q: %w", id, err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete booking: %w", err)
	}

	return res.DeletedCount, nil
}

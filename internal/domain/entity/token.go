package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CancellationToken grants cancel/modify/delete rights over exactly one
// booking. Tokens are opaque random strings sent to the customer as part of
// the cancel/modify links.
type CancellationToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BookingID string             `bson:"booking_id"`
	Token     string             `bson:"token"`
	CreatedAt time.Time          `bson:"created_at"`
}

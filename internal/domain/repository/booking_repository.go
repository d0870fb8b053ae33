package repository

import (
	"context"
	"errors"

	"massage-booking-service/internal/domain/entity"
)

// ErrStoreUnavailable is returned by every store operation when the service
// runs without a configured database (missing DATABASE_URL).
var ErrStoreUnavailable = errors.New("database not configured")

// BookingRepository persists bookings in the "booking" collection
type BookingRepository interface {
	// Insert stores a new booking and returns its generated id
	Insert(ctx context.Context, booking *entity.Booking) (string, error)

	// SetStatus updates the booking status and records an update timestamp.
	// Returns the number of modified documents (0 when the value is unchanged
	// or the booking does not exist).
	SetStatus(ctx context.Context, id, status string) (int64, error)

	// UpdateSchedule patches date and/or time; empty values are left
	// untouched. An update timestamp is always set when a patch is applied.
	UpdateSchedule(ctx context.Context, id, date, timeSlot string) (int64, error)

	// Delete removes the booking document and returns the deleted count
	Delete(ctx context.Context, id string) (int64, error)
}

// TokenRepository persists cancellation tokens in the "cancellation_token"
// collection
type TokenRepository interface {
	// Insert stores a token linked to a booking
	Insert(ctx context.Context, token *entity.CancellationToken) error

	// Exists reports whether a token matching both bookingID and token
	// exactly is stored. An empty token never matches.
	Exists(ctx context.Context, bookingID, token string) (bool, error)

	// DeleteByBookingID removes every token referencing the booking
	DeleteByBookingID(ctx context.Context, bookingID string) (int64, error)
}

package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking status
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Service zones
const (
	ZoneCannes     = "cannes"
	ZoneHorsCannes = "hors-cannes"
)

// CurrencyEUR is the only supported currency
const CurrencyEUR = "EUR"

// Booking represents one massage reservation
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	OfferID       string             `bson:"offer_id"`
	OfferTitle    string             `bson:"offer_title"`
	Duration      string             `bson:"duration"`
	Zone          string             `bson:"zone"`
	Date          string             `bson:"date"` // ISO date (YYYY-MM-DD)
	Time          string             `bson:"time"` // HH:MM
	Name          string             `bson:"name"`
	Phone         string             `bson:"phone"`
	Notes         string             `bson:"notes,omitempty"`
	Amount        float64            `bson:"amount"`
	Currency      string             `bson:"currency"`
	Status        string             `bson:"status"`
	PaypalOrderID string             `bson:"paypal_order_id,omitempty"`
	SMSConfirmed  bool               `bson:"sms_confirmed"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at,omitempty"`
}

// ValidZone reports whether zone is one of the supported service zones
func ValidZone(zone string) bool {
	return zone == ZoneCannes || zone == ZoneHorsCannes
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"massage-booking-service/internal/domain/entity"
	"massage-booking-service/internal/domain/repository"
	"massage-booking-service/pkg/logger"
	"massage-booking-service/pkg/metrics"
)

var (
	// ErrInvalidToken is returned when no stored token matches the booking id
	// and token pair exactly
	ErrInvalidToken = errors.New("invalid token")

	// ErrValidation marks malformed mutation requests; the wrapped message is
	// safe to surface to the caller
	ErrValidation = errors.New("validation failed")

	// ErrNoChanges is returned by Modify when neither date nor time is given
	ErrNoChanges = fmt.Errorf("%w: no changes provided", ErrValidation)
)

// BookingUseCase drives the booking lifecycle
type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error)
	Cancel(ctx context.Context, bookingID, token string) (int64, error)
	Modify(ctx context.Context, bookingID, token, date, timeSlot string) (int64, error)
	Delete(ctx context.Context, bookingID, token string) (int64, error)
}

// CreateBookingInput carries the fields of a booking creation request
type CreateBookingInput struct {
	OfferID       string
	OfferTitle    string
	Duration      string
	Zone          string
	Date          string
	Time          string
	Name          string
	Phone         string
	Notes         string
	Amount        float64
	Currency      string
	PaypalOrderID string
}

// CreateBookingResult is returned to the caller after a successful creation.
// Token is included so the caller can build its own links when no public base
// URL is configured.
type CreateBookingResult struct {
	ID            string
	Status        string
	SMSSent       bool
	PaypalOrderID string
	CancelURL     string
	ModifyURL     string
	Token         string
}

// BookingService is a stateless coordinator over the booking and token
// repositories
type BookingService struct {
	bookings repository.BookingRepository
	tokens   repository.TokenRepository
	notifier repository.Notifier
	logger   logger.Logger
	metrics  *metrics.Metrics
	baseURL  string
}

// NewBookingService creates a new booking lifecycle service
func NewBookingService(
	bookings repository.BookingRepository,
	tokens repository.TokenRepository,
	notifier repository.Notifier,
	logger logger.Logger,
	metrics *metrics.Metrics,
	publicBaseURL string,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		baseURL:  strings.TrimRight(publicBaseURL, "/"),
	}
}

// Create persists a booking, issues its cancellation token and sends the
// confirmation SMS best-effort
func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error) {
	if input.Currency == "" {
		input.Currency = entity.CurrencyEUR
	}
	if !entity.ValidZone(input.Zone) {
		return nil, fmt.Errorf("%w: unknown zone %q", ErrValidation, input.Zone)
	}
	if input.Currency != entity.CurrencyEUR {
		return nil, fmt.Errorf("%w: unsupported currency %q", ErrValidation, input.Currency)
	}

	status := entity.StatusPending
	if input.PaypalOrderID != "" {
		status = entity.StatusConfirmed
	}

	booking := &entity.Booking{
		OfferID:       input.OfferID,
		OfferTitle:    input.OfferTitle,
		Duration:      input.Duration,
		Zone:          input.Zone,
		Date:          input.Date,
		Time:          input.Time,
		Name:          input.Name,
		Phone:         input.Phone,
		Notes:         input.Notes,
		Amount:        input.Amount,
		Currency:      input.Currency,
		Status:        status,
		PaypalOrderID: input.PaypalOrderID,
		CreatedAt:     time.Now().UTC(),
	}

	bookingID, err := s.bookings.Insert(ctx, booking)
	if err != nil {
		s.countError("create")
		return nil, err
	}

	token, err := GenerateToken()
	if err != nil {
		s.countError("create")
		return nil, fmt.Errorf("failed to generate cancellation token: %w", err)
	}

	err = s.tokens.Insert(ctx, &entity.CancellationToken{
		BookingID: bookingID,
		Token:     token,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		// The booking is already written; there is no multi-document
		// transaction to roll it back.
		s.countError("create")
		return nil, err
	}

	cancelURL := s.publicLink(fmt.Sprintf("/api/bookings/%s/cancel?token=%s", bookingID, token))
	modifyURL := s.publicLink(fmt.Sprintf("/api/bookings/%s/modify?token=%s", bookingID, token))

	smsSent := s.notifier.Send(ctx, booking.Phone, confirmationSMS(booking, cancelURL, modifyURL))

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
		if smsSent {
			s.metrics.SMSSent.Inc()
		}
	}

	s.logger.Info("Booking created",
		"bookingId", bookingID,
		"status", status,
		"zone", booking.Zone,
		"smsSent", smsSent)

	return &CreateBookingResult{
		ID:            bookingID,
		Status:        status,
		SMSSent:       smsSent,
		PaypalOrderID: booking.PaypalOrderID,
		CancelURL:     cancelURL,
		ModifyURL:     modifyURL,
		Token:         token,
	}, nil
}

// Cancel marks a booking as cancelled. Re-cancelling an already cancelled
// booking succeeds with a modified count of 0.
func (s *BookingService) Cancel(ctx context.Context, bookingID, token string) (int64, error) {
	if err := s.authorize(ctx, bookingID, token); err != nil {
		s.countError("cancel")
		return 0, err
	}

	modified, err := s.bookings.SetStatus(ctx, bookingID, entity.StatusCancelled)
	if err != nil {
		s.countError("cancel")
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.BookingsCancelled.Inc()
	}
	s.logger.Info("Booking cancelled", "bookingId", bookingID, "modified", modified)
	return modified, nil
}

// Modify patches the booking date and/or time. At least one of the two must
// be supplied.
func (s *BookingService) Modify(ctx context.Context, bookingID, token, date, timeSlot string) (int64, error) {
	if err := s.authorize(ctx, bookingID, token); err != nil {
		s.countError("modify")
		return 0, err
	}

	if date == "" && timeSlot == "" {
		return 0, ErrNoChanges
	}

	modified, err := s.bookings.UpdateSchedule(ctx, bookingID, date, timeSlot)
	if err != nil {
		s.countError("modify")
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.BookingsModified.Inc()
	}
	s.logger.Info("Booking modified",
		"bookingId", bookingID,
		"date", date,
		"time", timeSlot,
		"modified", modified)
	return modified, nil
}

// Delete removes the booking together with every token referencing it
func (s *BookingService) Delete(ctx context.Context, bookingID, token string) (int64, error) {
	if err := s.authorize(ctx, bookingID, token); err != nil {
		s.countError("delete")
		return 0, err
	}

	deleted, err := s.bookings.Delete(ctx, bookingID)
	if err != nil {
		s.countError("delete")
		return 0, err
	}

	if _, err := s.tokens.DeleteByBookingID(ctx, bookingID); err != nil {
		s.countError("delete")
		return 0, err
	}

	if s.metrics != nil {
		s.metrics.BookingsDeleted.Inc()
	}
	s.logger.Info("Booking deleted", "bookingId", bookingID, "deleted", deleted)
	return deleted, nil
}

// authorize checks the (bookingID, token) pair against the token store. This
// is the sole authorization mechanism; there is no user or session concept.
func (s *BookingService) authorize(ctx context.Context, bookingID, token string) error {
	if token == "" {
		return ErrInvalidToken
	}

	ok, err := s.tokens.Exists(ctx, bookingID, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidToken
	}
	return nil
}

func (s *BookingService) publicLink(path string) string {
	if s.baseURL == "" {
		return ""
	}
	return s.baseURL + path
}

func (s *BookingService) countError(operation string) {
	if s.metrics != nil {
		s.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}

func confirmationSMS(b *entity.Booking, cancelURL, modifyURL string) string {
	zone := "Hors Cannes"
	if b.Zone == entity.ZoneCannes {
		zone = "Cannes"
	}

	var sb strings.Builder
	sb.WriteString("Confirmation Massage Cannes\n")
	fmt.Fprintf(&sb, "%s, votre réservation est en statut %s.\n", b.Name, b.Status)
	fmt.Fprintf(&sb, "Formule: %s (%s)\n", b.OfferTitle, b.Duration)
	fmt.Fprintf(&sb, "Date: %s %s\n", b.Date, b.Time)
	fmt.Fprintf(&sb, "Zone: %s\n", zone)
	fmt.Fprintf(&sb, "Montant: %g %s\n", b.Amount, b.Currency)
	fmt.Fprintf(&sb, "Annuler: %s\n", orDash(cancelURL))
	fmt.Fprintf(&sb, "Modifier: %s\n", orDash(modifyURL))
	if b.PaypalOrderID != "" {
		fmt.Fprintf(&sb, "PayPal: %s\n", b.PaypalOrderID)
	}
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

var _ BookingUseCase = (*BookingService)(nil)

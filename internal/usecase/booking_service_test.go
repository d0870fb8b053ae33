package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"massage-booking-service/internal/domain/entity"
	"massage-booking-service/internal/domain/repository"
	"massage-booking-service/pkg/logger"
	"massage-booking-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Insert(ctx context.Context, booking *entity.Booking) (string, error) {
	args := m.Called(ctx, booking)
	return args.String(0), args.Error(1)
}

func (m *MockBookingRepository) SetStatus(ctx context.Context, id, status string) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) UpdateSchedule(ctx context.Context, id, date, timeSlot string) (int64, error) {
	args := m.Called(ctx, id, date, timeSlot)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Insert(ctx context.Context, token *entity.CancellationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) Exists(ctx context.Context, bookingID, token string) (bool, error) {
	args := m.Called(ctx, bookingID, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepository) DeleteByBookingID(ctx context.Context, bookingID string) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, phone, body string) bool {
	args := m.Called(ctx, phone, body)
	return args.Bool(0)
}

func newTestService(bookings *MockBookingRepository, tokens *MockTokenRepository, notifier *MockNotifier, baseURL string) *BookingService {
	testMetrics := metrics.NewMetrics("booking_test", prometheus.NewRegistry())
	return NewBookingService(bookings, tokens, notifier, logger.NewLogger(), testMetrics, baseURL)
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		OfferID:    "o1",
		OfferTitle: "Massage californien",
		Duration:   "60min",
		Zone:       entity.ZoneCannes,
		Date:       "2025-06-01",
		Time:       "10:00",
		Name:       "Alice",
		Phone:      "+33600000000",
		Amount:     80,
	}
}

func TestBookingService_Create_PendingWithoutPaypal(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}
	mockNotifier := &MockNotifier{}

	service := newTestService(mockBookings, mockTokens, mockNotifier, "https://booking.example.com")

	ctx := context.Background()

	var issuedToken string
	mockBookings.On("Insert", ctx, mock.MatchedBy(func(b *entity.Booking) bool {
		return b.Status == entity.StatusPending && b.Currency == entity.CurrencyEUR
	})).Return("665f1f77bcf86cd799439011", nil).Once()
	mockTokens.On("Insert", ctx, mock.AnythingOfType("*entity.CancellationToken")).
		Run(func(args mock.Arguments) {
			issuedToken = args.Get(1).(*entity.CancellationToken).Token
		}).Return(nil).Once()
	mockNotifier.On("Send", ctx, "+33600000000", mock.AnythingOfType("string")).Return(true).Once()

	result, err := service.Create(ctx, validInput())

	assert.NoError(t, err)
	assert.Equal(t, "665f1f77bcf86cd799439011", result.ID)
	assert.Equal(t, entity.StatusPending, result.Status)
	assert.True(t, result.SMSSent)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, issuedToken, result.Token)
	assert.Equal(t, "https://booking.example.com/api/bookings/665f1f77bcf86cd799439011/cancel?token="+result.Token, result.CancelURL)
	assert.Equal(t, "https://booking.example.com/api/bookings/665f1f77bcf86cd799439011/modify?token="+result.Token, result.ModifyURL)

	mockBookings.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestBookingService_Create_ConfirmedWithPaypal(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}
	mockNotifier := &MockNotifier{}

	service := newTestService(mockBookings, mockTokens, mockNotifier, "")

	ctx := context.Background()
	input := validInput()
	input.PaypalOrderID = "PAY-123"

	mockBookings.On("Insert", ctx, mock.MatchedBy(func(b *entity.Booking) bool {
		return b.Status == entity.StatusConfirmed && b.PaypalOrderID == "PAY-123"
	})).Return("665f1f77bcf86cd799439012", nil).Once()
	mockTokens.On("Insert", ctx, mock.Anything).Return(nil).Once()
	mockNotifier.On("Send", ctx, "+33600000000", mock.Anything).Return(false).Once()

	result, err := service.Create(ctx, input)

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, result.Status)
	assert.Equal(t, "PAY-123", result.PaypalOrderID)
	// No public base URL configured, so no links are returned
	assert.Empty(t, result.CancelURL)
	assert.Empty(t, result.ModifyURL)
	assert.NotEmpty(t, result.Token)

	mockBookings.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

func TestBookingService_Create_ValidationErrors(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, &MockTokenRepository{}, &MockNotifier{}, "")

	ctx := context.Background()

	testCases := []struct {
		name     string
		mutate   func(*CreateBookingInput)
		expected string
	}{
		{
			name:     "Unknown zone",
			mutate:   func(i *CreateBookingInput) { i.Zone = "paris" },
			expected: "unknown zone",
		},
		{
			name:     "Unsupported currency",
			mutate:   func(i *CreateBookingInput) { i.Currency = "USD" },
			expected: "unsupported currency",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)

			result, err := service.Create(ctx, input)

			assert.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Contains(t, err.Error(), tc.expected)
		})
	}
}

func TestBookingService_Create_NotificationFailureIsNotFatal(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}
	mockNotifier := &MockNotifier{}

	service := newTestService(mockBookings, mockTokens, mockNotifier, "")

	ctx := context.Background()

	mockBookings.On("Insert", ctx, mock.Anything).Return("665f1f77bcf86cd799439013", nil).Once()
	mockTokens.On("Insert", ctx, mock.Anything).Return(nil).Once()
	mockNotifier.On("Send", ctx, "+33600000000", mock.Anything).Return(false).Once()

	result, err := service.Create(ctx, validInput())

	assert.NoError(t, err)
	assert.False(t, result.SMSSent)

	mockNotifier.AssertExpectations(t)
}

func TestBookingService_Create_StoreUnavailable(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}
	mockNotifier := &MockNotifier{}

	service := newTestService(mockBookings, mockTokens, mockNotifier, "")

	ctx := context.Background()

	mockBookings.On("Insert", ctx, mock.Anything).Return("", repository.ErrStoreUnavailable).Once()

	result, err := service.Create(ctx, validInput())

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, repository.ErrStoreUnavailable))

	mockTokens.AssertNotCalled(t, "Insert")
	mockNotifier.AssertNotCalled(t, "Send")
}

func TestBookingService_Create_SMSBody(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}
	mockNotifier := &MockNotifier{}

	service := newTestService(mockBookings, mockTokens, mockNotifier, "")

	ctx := context.Background()

	var body string
	mockBookings.On("Insert", ctx, mock.Anything).Return("665f1f77bcf86cd799439014", nil).Once()
	mockTokens.On("Insert", ctx, mock.Anything).Return(nil).Once()
	mockNotifier.On("Send", ctx, "+33600000000", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			body = args.String(2)
		}).Return(true).Once()

	_, err := service.Create(ctx, validInput())

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "Confirmation Massage Cannes\n"))
	assert.Contains(t, body, "Alice, votre réservation est en statut pending.")
	assert.Contains(t, body, "Formule: Massage californien (60min)")
	assert.Contains(t, body, "Date: 2025-06-01 10:00")
	assert.Contains(t, body, "Zone: Cannes")
	assert.Contains(t, body, "Montant: 80 EUR")
	// No base URL configured: links degrade to a dash
	assert.Contains(t, body, "Annuler: —")
	assert.NotContains(t, body, "PayPal:")
}

func TestBookingService_Cancel_Success(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}

	service := newTestService(mockBookings, mockTokens, &MockNotifier{}, "")

	ctx := context.Background()

	mockTokens.On("Exists", ctx, "abc123", "tok").Return(true, nil).Once()
	mockBookings.On("SetStatus", ctx, "abc123", entity.StatusCancelled).Return(int64(1), nil).Once()

	modified, err := service.Cancel(ctx, "abc123", "tok")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	mockTokens.AssertExpectations(t)
	mockBookings.AssertExpectations(t)
}

func TestBookingService_Cancel_Idempotent(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}

	service := newTestService(mockBookings, mockTokens, &MockNotifier{}, "")

	ctx := context.Background()

	// The token stays valid after a cancel; re-cancelling succeeds with a
	// modified count of 0
	mockTokens.On("Exists", ctx, "abc123", "tok").Return(true, nil).Once()
	mockBookings.On("SetStatus", ctx, "abc123", entity.StatusCancelled).Return(int64(0), nil).Once()

	modified, err := service.Cancel(ctx, "abc123", "tok")

	assert.NoError(t, err)
	assert.Equal(t, int64(0), modified)
}

func TestBookingService_Cancel_InvalidToken(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}

	service := newTestService(mockBookings, mockTokens, &MockNotifier{}, "")

	ctx := context.Background()

	mockTokens.On("Exists", ctx, "abc123", "wrong").Return(false, nil).Once()

	modified, err := service.Cancel(ctx, "abc123", "wrong")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, int64(0), modified)

	mockBookings.AssertNotCalled(t, "SetStatus")
}

func TestBookingService_Cancel_EmptyTokenNeverMatches(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}

	service := newTestService(mockBookings, mockTokens, &MockNotifier{}, "")

	_, err := service.Cancel(context.Background(), "abc123", "")

	assert.True(t, errors.Is(err, ErrInvalidToken))
	mockTokens.AssertNotCalled(t, "Exists")
	mockBookings.AssertNotCalled(t, "SetStatus")
}

func TestBookingService_Modify_NoChanges(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}

	service := newTestService(mockBookings, mockTokens, &MockNotifier{}, "")

	ctx := context.Background()

	mockTokens.On("Exists", ctx, "abc123", "tok").Return(true, nil).Once()

	modified, err := service.Modify(ctx, "abc123", "tok", "", "")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "no changes provided")
	assert.Equal(t, int64(0), modified)

	mockBookings.AssertNotCalled(t, "UpdateSchedule")
}

func TestBookingService_Modify_DateOnlyLeavesTimeUntouched(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}

	service := newTestService(mockBookings, mockTokens, &MockNotifier{}, "")

	ctx := context.Background()

	mockTokens.On("Exists", ctx, "abc123", "tok").Return(true, nil).Once()
	mockBookings.On("UpdateSchedule", ctx, "abc123", "2025-06-05", "").Return(int64(1), nil).Once()

	modified, err := service.Modify(ctx, "abc123", "tok", "2025-06-05", "")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), modified)

	mockBookings.AssertExpectations(t)
}

func TestBookingService_Modify_InvalidToken(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}

	service := newTestService(mockBookings, mockTokens, &MockNotifier{}, "")

	ctx := context.Background()

	mockTokens.On("Exists", ctx, "abc123", "wrong").Return(false, nil).Once()

	_, err := service.Modify(ctx, "abc123", "wrong", "2025-06-05", "")

	assert.True(t, errors.Is(err, ErrInvalidToken))
	mockBookings.AssertNotCalled(t, "UpdateSchedule")
}

func TestBookingService_Delete_RemovesBookingAndTokens(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}

	service := newTestService(mockBookings, mockTokens, &MockNotifier{}, "")

	ctx := context.Background()

	mockTokens.On("Exists", ctx, "abc123", "tok").Return(true, nil).Once()
	mockBookings.On("Delete", ctx, "abc123").Return(int64(1), nil).Once()
	mockTokens.On("DeleteByBookingID", ctx, "abc123").Return(int64(2), nil).Once()

	deleted, err := service.Delete(ctx, "abc123", "tok")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	mockBookings.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

func TestBookingService_Delete_InvalidToken(t *testing.T) {
	mockBookings := &MockBookingRepository{}
	mockTokens := &MockTokenRepository{}

	service := newTestService(mockBookings, mockTokens, &MockNotifier{}, "")

	ctx := context.Background()

	mockTokens.On("Exists", ctx, "abc123", "wrong").Return(false, nil).Once()

	deleted, err := service.Delete(ctx, "abc123", "wrong")

	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Equal(t, int64(0), deleted)

	mockBookings.AssertNotCalled(t, "Delete")
	mockTokens.AssertNotCalled(t, "DeleteByBookingID")
}

package suggestion

import (
	"context"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/flightprice"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetNeedsAttention(ctx context.Context, id int64, needs bool) error {
	args := m.Called(ctx, id, needs)
	return args.Error(0)
}

func (m *MockBookingRepository) ListAwaitingReveal(ctx context.Context, travelBefore time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, travelBefore)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockDestinationRepository struct {
	mock.Mock
}

func (m *MockDestinationRepository) GetByID(ctx context.Context, id int64) (*domain.Destination, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Destination), args.Error(1)
}

func (m *MockDestinationRepository) ListActive(ctx context.Context) ([]domain.Destination, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Destination), args.Error(1)
}

func (m *MockDestinationRepository) UpdateAirportCode(ctx context.Context, id int64, code string) error {
	args := m.Called(ctx, id, code)
	return args.Error(0)
}

func (m *MockDestinationRepository) UpdateFlightPrice(ctx context.Context, id int64, priceCents int64, currency string, checkedAt time.Time) error {
	args := m.Called(ctx, id, priceCents, currency, checkedAt)
	return args.Error(0)
}

type MockSuggestionStore struct {
	mock.Mock
}

func (m *MockSuggestionStore) SaveSuggestions(ctx context.Context, bookingID int64, suggestions []domain.Suggestion) (uuid.UUID, error) {
	args := m.Called(ctx, bookingID, suggestions)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSuggestionStore) GetSuggestions(ctx context.Context, bookingID int64) ([]domain.Suggestion, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Suggestion), args.Error(1)
}

func (m *MockSuggestionStore) GetTopSuggestion(ctx context.Context, bookingID int64) (*domain.Suggestion, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Suggestion), args.Error(1)
}

func (m *MockSuggestionStore) HasSuggestions(ctx context.Context, bookingID int64) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSuggestionStore) ListBatches(ctx context.Context, bookingID int64) ([]domain.SuggestionBatch, error) {
	args := m.Called(ctx, bookingID)
	batches, _ := args.Get(0).([]domain.SuggestionBatch)
	return batches, args.Error(1)
}

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) QuotePrices(ctx context.Context, req flightprice.QuoteRequest) ([]domain.FlightPriceQuote, error) {
	args := m.Called(ctx, req)
	quotes, _ := args.Get(0).([]domain.FlightPriceQuote)
	return quotes, args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error {
	args := m.Called(ctx, topic, key, value, maxRetries)
	return args.Error(0)
}

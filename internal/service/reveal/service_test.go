package reveal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
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

type MockDecisionRepository struct {
	mock.Mock
}

func (m *MockDecisionRepository) GetDecision(ctx context.Context, bookingID int64) (*domain.SelectionDecision, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SelectionDecision), args.Error(1)
}

func (m *MockDecisionRepository) RecordDecision(ctx context.Context, decision domain.SelectionDecision) (domain.SelectionDecision, bool, error) {
	args := m.Called(ctx, decision)
	return args.Get(0).(domain.SelectionDecision), args.Bool(1), args.Error(2)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyReveal(ctx context.Context, booking domain.Booking, destination domain.Destination, decision domain.SelectionDecision) error {
	args := m.Called(ctx, booking, destination, decision)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error {
	args := m.Called(ctx, topic, key, value, maxRetries)
	return args.Error(0)
}

var (
	testNow  = time.Date(2025, 7, 25, 9, 30, 0, 0, time.UTC)
	dortmund = &domain.Destination{ID: 3, Name: "Borussia Dortmund", City: "Dortmund", Country: "Germany", Stadium: "Signal Iduna Park", League: "Bundesliga", AirportCode: "DTM", Active: true}
	madrid   = &domain.Destination{ID: 2, Name: "Atlético Madrid", City: "Madrid", Country: "Spain", League: "La Liga", AirportCode: "MAD", Active: true}
)

type fixture struct {
	bookings     *MockBookingRepository
	destinations *MockDestinationRepository
	store        *MockSuggestionStore
	decisions    *MockDecisionRepository
	notifier     *MockNotifier
	service      *RevealService
}

func newFixture() *fixture {
	f := &fixture{
		bookings:     &MockBookingRepository{},
		destinations: &MockDestinationRepository{},
		store:        &MockSuggestionStore{},
		decisions:    &MockDecisionRepository{},
		notifier:     &MockNotifier{},
	}
	f.service = NewRevealService(f.bookings, f.destinations, f.store, f.decisions, f.notifier,
		WithClock(clock.NewFixed(testNow)),
		WithAutoRevealLead(7*24*time.Hour),
	)
	return f
}

func booking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		Email:       "fan@example.com",
		PackageTier: domain.PackageFlightTicket,
		TravelDate:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		Travelers:   2,
	}
}

func revealedBooking(id, destID int64) *domain.Booking {
	b := booking(id)
	at := testNow.Add(-time.Hour)
	b.DestinationID = &destID
	b.RevealedAt = &at
	return b
}

func TestSelect_RecordsDecisionAndNotifies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	want := domain.SelectionDecision{BookingID: 10, DestinationID: 3, Notes: "fans asked for the Yellow Wall", Source: domain.DecisionSourceOperator, RevealedAt: testNow}
	stored := want
	stored.ID = 1

	f.bookings.On("GetByID", ctx, int64(10)).Return(booking(10), nil)
	f.destinations.On("GetByID", ctx, int64(3)).Return(dortmund, nil)
	f.decisions.On("RecordDecision", ctx, want).Return(stored, true, nil)
	f.notifier.On("NotifyReveal", ctx, mock.MatchedBy(func(b domain.Booking) bool {
		return b.ID == 10 && b.DestinationID != nil && *b.DestinationID == 3 && b.RevealedAt != nil
	}), *dortmund, stored).Return(nil)

	res, err := f.service.Select(ctx, SelectInput{BookingID: 10, DestinationID: 3, Notes: "  fans asked for the Yellow Wall "})

	require.NoError(t, err)
	assert.False(t, res.AlreadyRevealed)
	assert.Equal(t, stored, res.Decision)
	assert.Equal(t, *dortmund, res.Destination)
	f.decisions.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestSelect_NotificationFailureKeepsDecision(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	stored := domain.SelectionDecision{ID: 1, BookingID: 10, DestinationID: 3, Source: domain.DecisionSourceOperator, RevealedAt: testNow}

	f.bookings.On("GetByID", ctx, int64(10)).Return(booking(10), nil)
	f.destinations.On("GetByID", ctx, int64(3)).Return(dortmund, nil)
	f.decisions.On("RecordDecision", ctx, mock.Anything).Return(stored, true, nil)
	f.notifier.On("NotifyReveal", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))

	res, err := f.service.Select(ctx, SelectInput{BookingID: 10, DestinationID: 3})

	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Decision.DestinationID)
	f.notifier.AssertNumberOfCalls(t, "NotifyReveal", 1)
}

func TestSelect_AlreadyRevealedIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	existing := &domain.SelectionDecision{ID: 1, BookingID: 10, DestinationID: 3, Source: domain.DecisionSourceOperator, RevealedAt: testNow.Add(-time.Hour)}

	f.bookings.On("GetByID", ctx, int64(10)).Return(revealedBooking(10, 3), nil)
	f.decisions.On("GetDecision", ctx, int64(10)).Return(existing, nil)
	f.destinations.On("GetByID", ctx, int64(3)).Return(dortmund, nil)

	for i := 0; i < 2; i++ {
		res, err := f.service.Select(ctx, SelectInput{BookingID: 10, DestinationID: 2})
		require.NoError(t, err)
		assert.True(t, res.AlreadyRevealed)
		assert.Equal(t, *existing, res.Decision)
		assert.Equal(t, int64(3), res.Destination.ID)
	}

	f.decisions.AssertNotCalled(t, "RecordDecision", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "NotifyReveal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSelect_LosingConcurrentRevealGetsWinner(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	winner := domain.SelectionDecision{ID: 1, BookingID: 10, DestinationID: 3, Source: domain.DecisionSourceAuto, RevealedAt: testNow.Add(-time.Second)}

	f.bookings.On("GetByID", ctx, int64(10)).Return(booking(10), nil)
	f.destinations.On("GetByID", ctx, int64(2)).Return(madrid, nil)
	f.destinations.On("GetByID", ctx, int64(3)).Return(dortmund, nil)
	f.decisions.On("RecordDecision", ctx, mock.Anything).Return(winner, false, nil)

	res, err := f.service.Select(ctx, SelectInput{BookingID: 10, DestinationID: 2})

	require.NoError(t, err)
	assert.True(t, res.AlreadyRevealed)
	assert.Equal(t, int64(3), res.Destination.ID)
	f.notifier.AssertNotCalled(t, "NotifyReveal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSelect_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Select(ctx, SelectInput{BookingID: 10})
		assert.True(t, errors.Is(err, domain.ErrValidation))
		_, err = f.service.Select(ctx, SelectInput{DestinationID: 3})
		assert.True(t, errors.Is(err, domain.ErrValidation))
	})

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", ctx, int64(10)).Return(nil, domain.ErrBookingNotFound)
		_, err := f.service.Select(ctx, SelectInput{BookingID: 10, DestinationID: 3})
		assert.True(t, errors.Is(err, domain.ErrBookingNotFound))
	})

	t.Run("unknown destination", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", ctx, int64(10)).Return(booking(10), nil)
		f.destinations.On("GetByID", ctx, int64(99)).Return(nil, domain.ErrDestinationNotFound)
		_, err := f.service.Select(ctx, SelectInput{BookingID: 10, DestinationID: 99})
		assert.True(t, errors.Is(err, domain.ErrDestinationNotFound))
		f.decisions.AssertNotCalled(t, "RecordDecision", mock.Anything, mock.Anything)
	})
}

func TestAcceptTop(t *testing.T) {
	ctx := context.Background()

	t.Run("reveals the cheapest suggestion", func(t *testing.T) {
		f := newFixture()
		stored := domain.SelectionDecision{ID: 4, BookingID: 10, DestinationID: 3, Source: domain.DecisionSourceTopSuggestion, RevealedAt: testNow}

		f.bookings.On("GetByID", ctx, int64(10)).Return(booking(10), nil)
		f.store.On("GetTopSuggestion", ctx, int64(10)).Return(&domain.Suggestion{DestinationID: 3, Rank: 1}, nil)
		f.destinations.On("GetByID", ctx, int64(3)).Return(dortmund, nil)
		f.decisions.On("RecordDecision", ctx, mock.MatchedBy(func(d domain.SelectionDecision) bool {
			return d.DestinationID == 3 && d.Source == domain.DecisionSourceTopSuggestion
		})).Return(stored, true, nil)
		f.notifier.On("NotifyReveal", ctx, mock.Anything, *dortmund, stored).Return(nil)

		res, err := f.service.AcceptTop(ctx, 10, "")
		require.NoError(t, err)
		assert.Equal(t, stored, res.Decision)
		f.notifier.AssertExpectations(t)
	})

	t.Run("empty shortlist", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetByID", ctx, int64(10)).Return(booking(10), nil)
		f.store.On("GetTopSuggestion", ctx, int64(10)).Return(nil, nil)

		_, err := f.service.AcceptTop(ctx, 10, "")
		assert.True(t, errors.Is(err, domain.ErrNoSuggestions))
	})
}

func TestAutoReveal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cutoff := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	f.bookings.On("ListAwaitingReveal", ctx, cutoff).Return([]domain.Booking{*booking(10), *booking(11)}, nil)

	f.bookings.On("GetByID", ctx, int64(10)).Return(booking(10), nil)
	f.store.On("GetTopSuggestion", ctx, int64(10)).Return(&domain.Suggestion{DestinationID: 3, Rank: 1}, nil)
	f.destinations.On("GetByID", ctx, int64(3)).Return(dortmund, nil)
	stored := domain.SelectionDecision{ID: 5, BookingID: 10, DestinationID: 3, Source: domain.DecisionSourceAuto, RevealedAt: testNow}
	f.decisions.On("RecordDecision", ctx, mock.MatchedBy(func(d domain.SelectionDecision) bool {
		return d.BookingID == 10 && d.Source == domain.DecisionSourceAuto
	})).Return(stored, true, nil)
	f.notifier.On("NotifyReveal", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	f.bookings.On("GetByID", ctx, int64(11)).Return(nil, errors.New("db down"))

	n, err := f.service.AutoReveal(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	f.bookings.AssertExpectations(t)
}

func TestStatus(t *testing.T) {
	ctx := context.Background()

	f := newFixture()
	f.bookings.On("GetByID", ctx, int64(10)).Return(booking(10), nil)
	f.bookings.On("GetByID", ctx, int64(11)).Return(booking(11), nil)
	f.bookings.On("GetByID", ctx, int64(12)).Return(revealedBooking(12, 3), nil)
	f.store.On("HasSuggestions", ctx, int64(10)).Return(false, nil)
	f.store.On("HasSuggestions", ctx, int64(11)).Return(true, nil)

	for id, want := range map[int64]domain.RevealStatus{
		10: domain.RevealStatusPending,
		11: domain.RevealStatusSuggested,
		12: domain.RevealStatusRevealed,
	} {
		got, err := f.service.Status(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "booking %d", id)
	}
}

func TestEventNotifier_PublishesRevealEvent(t *testing.T) {
	producer := &MockProducer{}
	b := revealedBooking(10, 3)
	decision := domain.SelectionDecision{ID: 1, BookingID: 10, DestinationID: 3, Source: domain.DecisionSourceOperator, RevealedAt: testNow}

	producer.On("PublishWithRetry", mock.Anything, "reveal_notifications", "10", mock.MatchedBy(func(e kafka.RevealEvent) bool {
		return e.Type == kafka.EventDestinationRevealed &&
			e.Email == "fan@example.com" &&
			e.DestinationName == "Borussia Dortmund" &&
			e.Stadium == "Signal Iduna Park" &&
			e.Source == "operator"
	}), 3).Return(nil)

	err := NewEventNotifier(producer, "reveal_notifications", 3).NotifyReveal(context.Background(), *b, *dortmund, decision)

	require.NoError(t, err)
	producer.AssertExpectations(t)
}

func TestEventNotifier_ReturnsPublishFailureAfterRetries(t *testing.T) {
	producer := &MockProducer{}
	b := revealedBooking(10, 3)
	decision := domain.SelectionDecision{ID: 1, BookingID: 10, DestinationID: 3, Source: domain.DecisionSourceAuto, RevealedAt: testNow}

	producer.On("PublishWithRetry", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "reveal_notifications", "10", mock.Anything, 2).Return(errors.New("failed after 2 retries: broker down"))

	err := NewEventNotifier(producer, "reveal_notifications", 2).NotifyReveal(context.Background(), *b, *dortmund, decision)

	assert.Error(t, err)
	producer.AssertExpectations(t)
}

func TestSelect_RevealedElsewhereIsNotOverwritten(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.bookings.On("GetByID", ctx, int64(10)).Return(booking(10), nil)
	f.destinations.On("GetByID", ctx, int64(3)).Return(dortmund, nil)
	f.decisions.On("RecordDecision", ctx, mock.Anything).Return(domain.SelectionDecision{}, false, domain.ErrAlreadyRevealed)

	_, err := f.service.Select(ctx, SelectInput{BookingID: 10, DestinationID: 3})

	assert.ErrorIs(t, err, domain.ErrAlreadyRevealed)
	f.notifier.AssertNotCalled(t, "NotifyReveal", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

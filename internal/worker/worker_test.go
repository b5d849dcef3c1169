package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
	"github.com/Domenick1991/mysterytrips/internal/service/reveal"
	"github.com/Domenick1991/mysterytrips/internal/service/suggestion"
	"github.com/go-co-op/gocron/v2"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSuggestionUseCase struct {
	mock.Mock
}

func (m *MockSuggestionUseCase) Suggest(ctx context.Context, bookingID int64) (*suggestion.SuggestResult, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suggestion.SuggestResult), args.Error(1)
}

func (m *MockSuggestionUseCase) Shortlist(ctx context.Context, bookingID int64) (*suggestion.Shortlist, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suggestion.Shortlist), args.Error(1)
}

func (m *MockSuggestionUseCase) History(ctx context.Context, bookingID int64) ([]domain.SuggestionBatch, error) {
	args := m.Called(ctx, bookingID)
	batches, _ := args.Get(0).([]domain.SuggestionBatch)
	return batches, args.Error(1)
}

func (m *MockSuggestionUseCase) BulkRefreshPrices(ctx context.Context, departDate time.Time, returnDate *time.Time) (*suggestion.RefreshResult, error) {
	args := m.Called(ctx, departDate, returnDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suggestion.RefreshResult), args.Error(1)
}

func (m *MockSuggestionUseCase) HandleRankingRequest(ctx context.Context, req kafka.RankingRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

type MockRevealUseCase struct {
	mock.Mock
}

func (m *MockRevealUseCase) Select(ctx context.Context, input reveal.SelectInput) (*reveal.SelectResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reveal.SelectResult), args.Error(1)
}

func (m *MockRevealUseCase) AcceptTop(ctx context.Context, bookingID int64, notes string) (*reveal.SelectResult, error) {
	args := m.Called(ctx, bookingID, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reveal.SelectResult), args.Error(1)
}

func (m *MockRevealUseCase) AutoReveal(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRevealUseCase) Status(ctx context.Context, bookingID int64) (domain.RevealStatus, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(domain.RevealStatus), args.Error(1)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendReveal(ctx context.Context, event kafka.RevealEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestRankingHandler(t *testing.T) {
	ctx := context.Background()
	uc := &MockSuggestionUseCase{}
	uc.On("HandleRankingRequest", ctx, mock.MatchedBy(func(r kafka.RankingRequest) bool { return r.BookingID == 42 })).Return(nil)
	handler := RankingHandler(uc)

	body, _ := json.Marshal(kafka.RankingRequest{BookingID: 42, Reason: kafka.ReasonBookingCreated})
	assert.NoError(t, handler(ctx, kafkaGo.Message{Value: body}))
	assert.NoError(t, handler(ctx, kafkaGo.Message{Value: []byte("{broken")}))

	uc.AssertNumberOfCalls(t, "HandleRankingRequest", 1)
}

func TestNotificationHandler(t *testing.T) {
	ctx := context.Background()
	sender := &MockSender{}
	sender.On("SendReveal", ctx, mock.MatchedBy(func(e kafka.RevealEvent) bool { return e.BookingID == 10 })).Return(errors.New("smtp down"))
	handler := NotificationHandler(sender)

	body, _ := json.Marshal(kafka.RevealEvent{Type: kafka.EventDestinationRevealed, BookingID: 10, Email: "fan@example.com"})
	assert.NoError(t, handler(ctx, kafkaGo.Message{Value: body}))
	assert.NoError(t, handler(ctx, kafkaGo.Message{Value: []byte(`{"type":"other"}`)}))

	sender.AssertNumberOfCalls(t, "SendReveal", 1)
}

func TestJobs_BulkRefreshUsesLeadTime(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 15, 4, 0, 0, time.UTC)
	uc := &MockSuggestionUseCase{}
	jobs := NewJobs(uc, &MockRevealUseCase{}, clock.NewFixed(now), Schedule{BulkLeadDays: 30, TripNights: 3})

	depart := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	uc.On("BulkRefreshPrices", ctx, depart, mock.MatchedBy(func(r *time.Time) bool {
		return r != nil && r.Equal(time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC))
	})).Return(&suggestion.RefreshResult{DestinationsUpdated: 3}, nil)

	jobs.BulkRefresh(ctx)
	uc.AssertExpectations(t)
}

func TestJobs_AutoReveal(t *testing.T) {
	ctx := context.Background()
	rv := &MockRevealUseCase{}
	rv.On("AutoReveal", ctx).Return(0, errors.New("db down")).Once()
	rv.On("AutoReveal", ctx).Return(2, nil).Once()
	jobs := NewJobs(&MockSuggestionUseCase{}, rv, clock.NewSystem(), Schedule{})

	jobs.AutoReveal(ctx)
	jobs.AutoReveal(ctx)
	rv.AssertNumberOfCalls(t, "AutoReveal", 2)
}

func TestJobs_Register(t *testing.T) {
	s, err := gocron.NewScheduler()
	require.NoError(t, err)
	defer func() { _ = s.Shutdown() }()

	jobs := NewJobs(&MockSuggestionUseCase{}, &MockRevealUseCase{}, clock.NewSystem(), Schedule{
		BulkRefreshInterval: time.Hour,
		AutoRevealInterval:  15 * time.Minute,
	})
	require.NoError(t, jobs.Register(context.Background(), s))

	names := make([]string, 0, 2)
	for _, j := range s.Jobs() {
		names = append(names, j.Name())
	}
	assert.ElementsMatch(t, []string{"bulk-price-refresh", "auto-reveal"}, names)
}

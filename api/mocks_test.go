package api

import (
	"context"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
	"github.com/Domenick1991/mysterytrips/internal/service/reveal"
	"github.com/Domenick1991/mysterytrips/internal/service/suggestion"
	"github.com/stretchr/testify/mock"
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

type MockTrigger struct {
	mock.Mock
}

func (m *MockTrigger) BookingCreated(ctx context.Context, bookingID int64) {
	m.Called(ctx, bookingID)
}

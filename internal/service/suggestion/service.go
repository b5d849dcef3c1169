package suggestion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/airport"
	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/flightprice"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
	"github.com/Domenick1991/mysterytrips/internal/repository"
	"github.com/google/uuid"
)

type SuggestionUseCase interface {
	Suggest(ctx context.Context, bookingID int64) (*SuggestResult, error)
	Shortlist(ctx context.Context, bookingID int64) (*Shortlist, error)
	History(ctx context.Context, bookingID int64) ([]domain.SuggestionBatch, error)
	BulkRefreshPrices(ctx context.Context, departDate time.Time, returnDate *time.Time) (*RefreshResult, error)
	HandleRankingRequest(ctx context.Context, req kafka.RankingRequest) error
}

type SuggestResult struct {
	BookingID      int64
	BatchID        uuid.UUID
	Suggestions    []domain.Suggestion
	Top            *domain.Suggestion
	NeedsAttention bool
}

// Shortlist is the current batch of a booking together with its reveal status.
type Shortlist struct {
	BookingID     int64
	Status        domain.RevealStatus
	DestinationID *int64
	Suggestions   []domain.Suggestion
	Top           *domain.Suggestion
}

type RefreshResult struct {
	DestinationsUpdated int
	PricesFound         int
	Skipped             int
	Unresolved          int
}

type SuggestionService struct {
	bookings     repository.BookingRepository
	destinations repository.DestinationRepository
	store        repository.SuggestionStore
	resolver     airport.Resolver
	filter       *EligibilityFilter
	ranker       *Ranker
	refresher    *PriceRefresher
	clock        clock.Clock

	origin     string
	currency   string
	freshness  time.Duration
	maxRefresh int
	tripNights int
	exclusions ExclusionFactory
}

type SuggestionServiceOption func(*SuggestionService)

func WithFreshnessWindow(d time.Duration) SuggestionServiceOption {
	return func(s *SuggestionService) {
		s.freshness = d
	}
}

func WithMaxRefreshPerRun(n int) SuggestionServiceOption {
	return func(s *SuggestionService) {
		s.maxRefresh = n
	}
}

func WithCurrency(currency string) SuggestionServiceOption {
	return func(s *SuggestionService) {
		s.currency = currency
	}
}

func WithTripNights(n int) SuggestionServiceOption {
	return func(s *SuggestionService) {
		s.tripNights = n
	}
}

func WithClock(c clock.Clock) SuggestionServiceOption {
	return func(s *SuggestionService) {
		s.clock = c
	}
}

// WithExclusions replaces the preference matcher used by the eligibility filter.
func WithExclusions(f ExclusionFactory) SuggestionServiceOption {
	return func(s *SuggestionService) {
		s.exclusions = f
	}
}

func NewSuggestionService(
	bookings repository.BookingRepository,
	destinations repository.DestinationRepository,
	store repository.SuggestionStore,
	provider flightprice.Provider,
	resolver airport.Resolver,
	origin string,
	opts ...SuggestionServiceOption,
) *SuggestionService {
	s := &SuggestionService{
		bookings:     bookings,
		destinations: destinations,
		store:        store,
		resolver:     resolver,
		clock:        clock.NewSystem(),
		origin:       origin,
		currency:     "EUR",
		freshness:    time.Hour,
		maxRefresh:   10,
		tripNights:   3,
		exclusions:   NewPreferenceExclusion,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.filter = NewEligibilityFilter(destinations, resolver, s.exclusions)
	s.refresher = NewPriceRefresher(provider, destinations, s.clock, origin, s.freshness, s.maxRefresh)
	s.ranker = NewRanker(s.refresher, destinations, resolver, s.currency, s.tripNights)
	return s
}

// Suggest ranks the eligible destinations of a booking and stores them as its
// current shortlist. An empty outcome is stored too and flags the booking for
// manual handling.
func (s *SuggestionService) Suggest(ctx context.Context, bookingID int64) (*SuggestResult, error) {
	if bookingID <= 0 {
		return nil, domain.Invalid("booking_id", "is required")
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsRevealed() {
		return nil, domain.ErrAlreadyRevealed
	}

	var suggestions []domain.Suggestion
	eligible, err := s.filter.EligibleDestinations(ctx, booking)
	switch {
	case errors.Is(err, domain.ErrNoEligibleDestinations):
		log.Printf("WARNING: suggest: booking %d: no eligible destinations", booking.ID)
	case err != nil:
		return nil, fmt.Errorf("failed to filter destinations: %w", err)
	default:
		suggestions, err = s.ranker.Rank(ctx, booking, eligible)
		if err != nil {
			return nil, fmt.Errorf("failed to rank destinations: %w", err)
		}
	}

	batchID, err := s.store.SaveSuggestions(ctx, booking.ID, suggestions)
	if err != nil {
		return nil, err
	}

	needsAttention := len(suggestions) == 0
	if needsAttention != booking.NeedsAttention {
		if err := s.bookings.SetNeedsAttention(ctx, booking.ID, needsAttention); err != nil {
			log.Printf("WARNING: suggest: booking %d: failed to update attention flag: %v", booking.ID, err)
		}
	}
	if needsAttention {
		log.Printf("WARNING: suggest: booking %d needs manual destination selection", booking.ID)
	}

	result := &SuggestResult{
		BookingID:      booking.ID,
		BatchID:        batchID,
		Suggestions:    suggestions,
		NeedsAttention: needsAttention,
	}
	if len(suggestions) > 0 {
		result.Top = &suggestions[0]
	}
	log.Printf("suggest: booking %d: stored %d suggestions in batch %s", booking.ID, len(suggestions), batchID)
	return result, nil
}

func (s *SuggestionService) Shortlist(ctx context.Context, bookingID int64) (*Shortlist, error) {
	if bookingID <= 0 {
		return nil, domain.Invalid("booking_id", "is required")
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.store.GetSuggestions(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	list := &Shortlist{
		BookingID:     booking.ID,
		Status:        domain.StatusOf(booking, len(suggestions) > 0),
		DestinationID: booking.DestinationID,
		Suggestions:   suggestions,
	}
	if len(suggestions) > 0 {
		list.Top = &suggestions[0]
	}
	return list, nil
}

// History lists the booking's ranking runs, superseded ones included.
func (s *SuggestionService) History(ctx context.Context, bookingID int64) ([]domain.SuggestionBatch, error) {
	if bookingID <= 0 {
		return nil, domain.Invalid("booking_id", "is required")
	}
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, err
	}
	return s.store.ListBatches(ctx, bookingID)
}

// BulkRefreshPrices warms the price cache of the whole active catalog for one
// traveler, subject to the same freshness window and per-run cap as ranking.
func (s *SuggestionService) BulkRefreshPrices(ctx context.Context, departDate time.Time, returnDate *time.Time) (*RefreshResult, error) {
	if departDate.IsZero() {
		return nil, domain.Invalid("depart_date", "is required")
	}
	if departDate.Before(clock.Today(s.clock)) {
		return nil, domain.Invalid("depart_date", "must not be in the past")
	}
	if returnDate != nil && returnDate.Before(departDate) {
		return nil, domain.Invalid("return_date", "must not be before depart_date")
	}

	catalog, err := s.destinations.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resolved := s.ranker.resolveAirports(ctx, catalog)
	_, stats := s.refresher.Refresh(ctx, resolved, departDate, returnDate, 1)

	result := &RefreshResult{
		DestinationsUpdated: stats.Updated,
		PricesFound:         stats.Found,
		Skipped:             stats.Fresh,
		Unresolved:          len(catalog) - len(resolved),
	}
	log.Printf("suggest: bulk refresh for %s: %d updated, %d priced, %d fresh, %d deferred, %d without airport",
		departDate.Format("2006-01-02"), result.DestinationsUpdated, result.PricesFound, result.Skipped, stats.Deferred, result.Unresolved)
	return result, nil
}

// HandleRankingRequest runs Suggest for a booking announced on the ranking
// topic. Failures are logged and swallowed so the message is committed.
func (s *SuggestionService) HandleRankingRequest(ctx context.Context, req kafka.RankingRequest) error {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		log.Printf("WARNING: suggest: ranking request for booking %d: %v", req.BookingID, err)
		return nil
	}
	if !booking.PackageTier.IncludesFlights() {
		log.Printf("suggest: booking %d has package %s, automatic ranking skipped", booking.ID, booking.PackageTier)
		return nil
	}
	if _, err := s.Suggest(ctx, booking.ID); err != nil {
		log.Printf("WARNING: suggest: ranking request for booking %d failed: %v", booking.ID, err)
	}
	return nil
}

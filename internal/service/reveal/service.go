package reveal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/repository"
)

type RevealUseCase interface {
	Select(ctx context.Context, input SelectInput) (*SelectResult, error)
	AcceptTop(ctx context.Context, bookingID int64, notes string) (*SelectResult, error)
	AutoReveal(ctx context.Context) (int, error)
	Status(ctx context.Context, bookingID int64) (domain.RevealStatus, error)
}

type SelectInput struct {
	BookingID     int64  `json:"booking_id"`
	DestinationID int64  `json:"destination_id"`
	Notes         string `json:"notes"`
}

// SelectResult carries the decision in force for the booking. AlreadyRevealed
// is set when the decision existed before this call.
type SelectResult struct {
	Decision        domain.SelectionDecision
	Destination     domain.Destination
	AlreadyRevealed bool
}

type RevealService struct {
	bookings     repository.BookingRepository
	destinations repository.DestinationRepository
	store        repository.SuggestionStore
	decisions    repository.DecisionRepository
	notifier     Notifier
	clock        clock.Clock
	autoLead     time.Duration
}

type RevealServiceOption func(*RevealService)

func WithClock(c clock.Clock) RevealServiceOption {
	return func(s *RevealService) {
		s.clock = c
	}
}

// WithAutoRevealLead sets how far ahead of travel the top suggestion is accepted automatically.
func WithAutoRevealLead(d time.Duration) RevealServiceOption {
	return func(s *RevealService) {
		s.autoLead = d
	}
}

func NewRevealService(
	bookings repository.BookingRepository,
	destinations repository.DestinationRepository,
	store repository.SuggestionStore,
	decisions repository.DecisionRepository,
	notifier Notifier,
	opts ...RevealServiceOption,
) *RevealService {
	s := &RevealService{
		bookings:     bookings,
		destinations: destinations,
		store:        store,
		decisions:    decisions,
		notifier:     notifier,
		clock:        clock.NewSystem(),
		autoLead:     7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select fixes the booking's destination. The operator may pick any existing
// destination, not only one from the shortlist. Repeated calls return the
// decision already in force.
func (s *RevealService) Select(ctx context.Context, input SelectInput) (*SelectResult, error) {
	if input.BookingID <= 0 {
		return nil, domain.Invalid("booking_id", "is required")
	}
	if input.DestinationID <= 0 {
		return nil, domain.Invalid("destination_id", "is required")
	}

	booking, err := s.bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsRevealed() {
		return s.existing(ctx, booking.ID)
	}

	destination, err := s.destinations.GetByID(ctx, input.DestinationID)
	if err != nil {
		return nil, err
	}

	return s.reveal(ctx, booking, destination, strings.TrimSpace(input.Notes), domain.DecisionSourceOperator)
}

// AcceptTop reveals the first entry of the current shortlist.
func (s *RevealService) AcceptTop(ctx context.Context, bookingID int64, notes string) (*SelectResult, error) {
	return s.acceptTop(ctx, bookingID, strings.TrimSpace(notes), domain.DecisionSourceTopSuggestion)
}

// AutoReveal accepts the top suggestion for every unrevealed booking that
// travels within the configured lead time. It returns how many bookings were
// revealed by this run.
func (s *RevealService) AutoReveal(ctx context.Context) (int, error) {
	cutoff := clock.Today(s.clock).Add(s.autoLead)
	bookings, err := s.bookings.ListAwaitingReveal(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list bookings awaiting reveal: %w", err)
	}

	revealed := 0
	for _, b := range bookings {
		if err := ctx.Err(); err != nil {
			return revealed, err
		}
		res, err := s.acceptTop(ctx, b.ID, "revealed automatically before travel", domain.DecisionSourceAuto)
		if err != nil {
			log.Printf("WARNING: reveal: auto reveal of booking %d skipped: %v", b.ID, err)
			continue
		}
		if !res.AlreadyRevealed {
			revealed++
		}
	}

	if len(bookings) > 0 {
		log.Printf("reveal: auto reveal revealed %d of %d bookings travelling before %s", revealed, len(bookings), cutoff.Format("2006-01-02"))
	}
	return revealed, nil
}

func (s *RevealService) Status(ctx context.Context, bookingID int64) (domain.RevealStatus, error) {
	if bookingID <= 0 {
		return "", domain.Invalid("booking_id", "is required")
	}
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if booking.IsRevealed() {
		return domain.RevealStatusRevealed, nil
	}
	has, err := s.store.HasSuggestions(ctx, bookingID)
	if err != nil {
		return "", err
	}
	return domain.StatusOf(booking, has), nil
}

func (s *RevealService) acceptTop(ctx context.Context, bookingID int64, notes string, source domain.DecisionSource) (*SelectResult, error) {
	if bookingID <= 0 {
		return nil, domain.Invalid("booking_id", "is required")
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.IsRevealed() {
		return s.existing(ctx, booking.ID)
	}

	top, err := s.store.GetTopSuggestion(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if top == nil {
		return nil, domain.ErrNoSuggestions
	}

	destination, err := s.destinations.GetByID(ctx, top.DestinationID)
	if err != nil {
		return nil, err
	}

	return s.reveal(ctx, booking, destination, notes, source)
}

func (s *RevealService) reveal(ctx context.Context, booking *domain.Booking, destination *domain.Destination, notes string, source domain.DecisionSource) (*SelectResult, error) {
	decision, created, err := s.decisions.RecordDecision(ctx, domain.SelectionDecision{
		BookingID:     booking.ID,
		DestinationID: destination.ID,
		Notes:         notes,
		Source:        source,
		RevealedAt:    s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	if !created {
		// Lost a race with another reveal; report the winner.
		winner := destination
		if decision.DestinationID != destination.ID {
			winner, err = s.destinations.GetByID(ctx, decision.DestinationID)
			if err != nil {
				return nil, err
			}
		}
		return &SelectResult{Decision: decision, Destination: *winner, AlreadyRevealed: true}, nil
	}

	log.Printf("reveal: booking %d revealed destination %d (%s) by %s", booking.ID, destination.ID, destination.Name, source)

	if s.notifier != nil {
		revealed := *booking
		revealed.DestinationID = &destination.ID
		revealed.RevealedAt = &decision.RevealedAt
		if err := s.notifier.NotifyReveal(ctx, revealed, *destination, decision); err != nil {
			log.Printf("WARNING: reveal: booking %d: notification failed: %v", booking.ID, err)
		}
	}

	return &SelectResult{Decision: decision, Destination: *destination}, nil
}

func (s *RevealService) existing(ctx context.Context, bookingID int64) (*SelectResult, error) {
	decision, err := s.decisions.GetDecision(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if decision == nil {
		return nil, fmt.Errorf("booking %d is revealed but has no decision: %w", bookingID, domain.ErrAlreadyRevealed)
	}
	destination, err := s.destinations.GetByID(ctx, decision.DestinationID)
	if err != nil {
		return nil, err
	}
	return &SelectResult{Decision: *decision, Destination: *destination, AlreadyRevealed: true}, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DecisionRepository interface {
	GetDecision(ctx context.Context, bookingID int64) (*domain.SelectionDecision, error)
	RecordDecision(ctx context.Context, decision domain.SelectionDecision) (domain.SelectionDecision, bool, error)
}

type PGDecisionRepository struct {
	db *pgxpool.Pool
}

func NewDecisionRepository(db *pgxpool.Pool) DecisionRepository {
	return &PGDecisionRepository{db: db}
}

// GetDecision returns nil when the booking has not been revealed.
func (r *PGDecisionRepository) GetDecision(ctx context.Context, bookingID int64) (*domain.SelectionDecision, error) {
	var d domain.SelectionDecision
	err := conn(ctx, r.db).QueryRow(ctx, `
SELECT id, booking_id, destination_id, notes, source, revealed_at
FROM selection_decisions WHERE booking_id = $1`, bookingID).
		Scan(&d.ID, &d.BookingID, &d.DestinationID, &d.Notes, &d.Source, &d.RevealedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get decision: %w", err)
	}
	return &d, nil
}

// RecordDecision reveals the booking: it stores the decision, fixes the
// booking's destination and reveal time and finalizes the current shortlist,
// all in one transaction. If the booking already has a decision that one is
// returned with created=false and nothing is written. A booking revealed
// without a decision row yields ErrAlreadyRevealed.
func (r *PGDecisionRepository) RecordDecision(ctx context.Context, decision domain.SelectionDecision) (domain.SelectionDecision, bool, error) {
	var (
		result  domain.SelectionDecision
		created bool
	)

	err := withTx(ctx, r.db, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		var revealedAt *time.Time
		if err := q.QueryRow(ctx, `SELECT revealed_at FROM bookings WHERE id = $1 FOR UPDATE`, decision.BookingID).Scan(&revealedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrBookingNotFound
			}
			return err
		}

		existing, err := r.GetDecision(ctx, decision.BookingID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = *existing
			return nil
		}
		if revealedAt != nil {
			// revealed without a decision row; never overwrite it
			return domain.ErrAlreadyRevealed
		}

		if err := q.QueryRow(ctx, `
INSERT INTO selection_decisions (booking_id, destination_id, notes, source, revealed_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`, decision.BookingID, decision.DestinationID, decision.Notes, decision.Source, decision.RevealedAt).
			Scan(&decision.ID); err != nil {
			return err
		}

		if _, err := q.Exec(ctx, `
UPDATE bookings SET destination_id = $2, revealed_at = $3, needs_attention = FALSE, updated_at = NOW()
WHERE id = $1`, decision.BookingID, decision.DestinationID, decision.RevealedAt); err != nil {
			return err
		}

		if _, err := q.Exec(ctx, `
UPDATE suggestion_batches SET finalized_at = $2
WHERE id = (SELECT current_batch_id FROM booking_shortlists WHERE booking_id = $1)`, decision.BookingID, decision.RevealedAt); err != nil {
			return err
		}

		result = decision
		created = true
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			// lost a race with another reveal; hand back the winner
			existing, getErr := r.GetDecision(ctx, decision.BookingID)
			if getErr == nil && existing != nil {
				return *existing, false, nil
			}
		}
		if errors.Is(err, domain.ErrBookingNotFound) || errors.Is(err, domain.ErrAlreadyRevealed) {
			return domain.SelectionDecision{}, false, err
		}
		return domain.SelectionDecision{}, false, fmt.Errorf("%w: record decision for booking %d: %v", domain.ErrPersistence, decision.BookingID, err)
	}
	return result, created, nil
}

var _ DecisionRepository = (*PGDecisionRepository)(nil)

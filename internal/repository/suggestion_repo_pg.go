package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SuggestionStore keeps ranked shortlists as immutable batches. Each booking
// has a pointer to its current batch; readers only ever see that batch.
type SuggestionStore interface {
	SaveSuggestions(ctx context.Context, bookingID int64, suggestions []domain.Suggestion) (uuid.UUID, error)
	GetSuggestions(ctx context.Context, bookingID int64) ([]domain.Suggestion, error)
	GetTopSuggestion(ctx context.Context, bookingID int64) (*domain.Suggestion, error)
	HasSuggestions(ctx context.Context, bookingID int64) (bool, error)
	ListBatches(ctx context.Context, bookingID int64) ([]domain.SuggestionBatch, error)
}

type PGSuggestionStore struct {
	db *pgxpool.Pool
}

func NewSuggestionStore(db *pgxpool.Pool) SuggestionStore {
	return &PGSuggestionStore{db: db}
}

// SaveSuggestions writes a new batch and makes it current, superseding the
// previous one. The booking row is locked for the duration, so of two racing
// runs the one committing last ends up current. Suggestions are stored in
// slice order with 1-based ranks; BatchID and BookingID are stamped in place.
func (r *PGSuggestionStore) SaveSuggestions(ctx context.Context, bookingID int64, suggestions []domain.Suggestion) (uuid.UUID, error) {
	batchID := uuid.New()

	err := withTx(ctx, r.db, func(ctx context.Context) error {
		q := conn(ctx, r.db)

		var revealedAt *time.Time
		if err := q.QueryRow(ctx, `SELECT revealed_at FROM bookings WHERE id = $1 FOR UPDATE`, bookingID).Scan(&revealedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrBookingNotFound
			}
			return err
		}
		if revealedAt != nil {
			return domain.ErrAlreadyRevealed
		}

		if _, err := q.Exec(ctx, `INSERT INTO suggestion_batches (id, booking_id) VALUES ($1, $2)`, batchID, bookingID); err != nil {
			return err
		}

		if len(suggestions) > 0 {
			batch := &pgx.Batch{}
			for i := range suggestions {
				s := &suggestions[i]
				s.BatchID = batchID
				s.BookingID = bookingID
				s.Rank = i + 1
				batch.Queue(`
INSERT INTO suggestions (batch_id, booking_id, destination_id, rank, flight_price_cents, currency, justification, price_stale)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
					batchID, bookingID, s.DestinationID, s.Rank, s.FlightPriceCents, s.Currency, s.Justification, s.PriceStale)
			}
			if err := q.SendBatch(ctx, batch).Close(); err != nil {
				return err
			}
		}

		if _, err := q.Exec(ctx, `
UPDATE suggestion_batches SET superseded_at = NOW()
WHERE booking_id = $1 AND id <> $2 AND superseded_at IS NULL`, bookingID, batchID); err != nil {
			return err
		}

		_, err := q.Exec(ctx, `
INSERT INTO booking_shortlists (booking_id, current_batch_id) VALUES ($1, $2)
ON CONFLICT (booking_id) DO UPDATE SET current_batch_id = EXCLUDED.current_batch_id, updated_at = NOW()`, bookingID, batchID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) || errors.Is(err, domain.ErrAlreadyRevealed) {
			return uuid.Nil, err
		}
		return uuid.Nil, fmt.Errorf("%w: save suggestions for booking %d: %v", domain.ErrPersistence, bookingID, err)
	}
	return batchID, nil
}

func (r *PGSuggestionStore) GetSuggestions(ctx context.Context, bookingID int64) ([]domain.Suggestion, error) {
	return r.query(ctx, bookingID, 0)
}

func (r *PGSuggestionStore) GetTopSuggestion(ctx context.Context, bookingID int64) (*domain.Suggestion, error) {
	list, err := r.query(ctx, bookingID, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return &list[0], nil
}

func (r *PGSuggestionStore) HasSuggestions(ctx context.Context, bookingID int64) (bool, error) {
	var has bool
	err := conn(ctx, r.db).QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM booking_shortlists s
	JOIN suggestions g ON g.batch_id = s.current_batch_id
	WHERE s.booking_id = $1
)`, bookingID).Scan(&has)
	if err != nil {
		return false, fmt.Errorf("has suggestions: %w", err)
	}
	return has, nil
}

// ListBatches returns every ranking run kept for the booking, newest first.
func (r *PGSuggestionStore) ListBatches(ctx context.Context, bookingID int64) ([]domain.SuggestionBatch, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
SELECT b.id, b.booking_id, COUNT(g.id), s.current_batch_id IS NOT NULL,
	b.created_at, b.superseded_at, b.finalized_at
FROM suggestion_batches b
LEFT JOIN suggestions g ON g.batch_id = b.id
LEFT JOIN booking_shortlists s ON s.current_batch_id = b.id
WHERE b.booking_id = $1
GROUP BY b.id, s.current_batch_id
ORDER BY b.created_at DESC, b.id`, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	batches := make([]domain.SuggestionBatch, 0)
	for rows.Next() {
		var b domain.SuggestionBatch
		if err := rows.Scan(&b.ID, &b.BookingID, &b.Size, &b.Current, &b.CreatedAt, &b.SupersededAt, &b.FinalizedAt); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (r *PGSuggestionStore) query(ctx context.Context, bookingID int64, limit int) ([]domain.Suggestion, error) {
	sql := `
SELECT g.id, g.batch_id, g.booking_id, g.destination_id, g.rank, g.flight_price_cents, g.currency,
	g.justification, g.price_stale, g.created_at,
	d.name, d.city, d.country, d.stadium, d.league, d.airport_code
FROM booking_shortlists s
JOIN suggestions g ON g.batch_id = s.current_batch_id
JOIN destinations d ON d.id = g.destination_id
WHERE s.booking_id = $1
ORDER BY g.rank`
	args := []any{bookingID}
	if limit > 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("get suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := make([]domain.Suggestion, 0)
	for rows.Next() {
		var s domain.Suggestion
		if err := rows.Scan(&s.ID, &s.BatchID, &s.BookingID, &s.DestinationID, &s.Rank, &s.FlightPriceCents, &s.Currency,
			&s.Justification, &s.PriceStale, &s.CreatedAt,
			&s.Destination.Name, &s.Destination.City, &s.Destination.Country, &s.Destination.Stadium,
			&s.Destination.League, &s.Destination.AirportCode); err != nil {
			return nil, err
		}
		s.Destination.ID = s.DestinationID
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

var _ SuggestionStore = (*PGSuggestionStore)(nil)

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

// BookingRepository reads bookings owned by the booking lifecycle. The engine
// only writes the needs-attention flag; reveal fields go through DecisionRepository.
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	SetNeedsAttention(ctx context.Context, id int64, needs bool) error
	ListAwaitingReveal(ctx context.Context, travelBefore time.Time) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.email, b.package_tier, b.travel_date, b.return_date, b.travelers, b.preferences,
	b.destination_id, b.revealed_at, b.needs_attention, b.created_at, b.updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Email, &b.PackageTier, &b.TravelDate, &b.ReturnDate, &b.Travelers, &b.Preferences,
		&b.DestinationID, &b.RevealedAt, &b.NeedsAttention, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(conn(ctx, r.db).QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *PGBookingRepository) SetNeedsAttention(ctx context.Context, id int64, needs bool) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE bookings SET needs_attention = $2, updated_at = NOW() WHERE id = $1`, id, needs)
	if err != nil {
		return fmt.Errorf("%w: set needs_attention: %v", domain.ErrPersistence, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// ListAwaitingReveal returns unrevealed bookings travelling on or before
// travelBefore whose current shortlist is not empty.
func (r *PGBookingRepository) ListAwaitingReveal(ctx context.Context, travelBefore time.Time) ([]domain.Booking, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `
SELECT `+bookingColumns+`
FROM bookings b
JOIN booking_shortlists s ON s.booking_id = b.id
WHERE b.revealed_at IS NULL
  AND b.travel_date <= $1
  AND EXISTS (SELECT 1 FROM suggestions g WHERE g.batch_id = s.current_batch_id)
ORDER BY b.travel_date, b.id`, travelBefore)
	if err != nil {
		return nil, fmt.Errorf("list awaiting reveal: %w", err)
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)

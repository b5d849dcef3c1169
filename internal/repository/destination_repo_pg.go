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

// DestinationRepository reads the catalog and writes back the flight-related cache fields.
type DestinationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Destination, error)
	ListActive(ctx context.Context) ([]domain.Destination, error)
	UpdateAirportCode(ctx context.Context, id int64, code string) error
	UpdateFlightPrice(ctx context.Context, id int64, priceCents int64, currency string, checkedAt time.Time) error
}

type PGDestinationRepository struct {
	db *pgxpool.Pool
}

func NewDestinationRepository(db *pgxpool.Pool) DestinationRepository {
	return &PGDestinationRepository{db: db}
}

const destinationColumns = `id, name, city, country, stadium, league, airport_code, active,
	last_flight_check, avg_flight_price_cents, currency, created_at, updated_at`

func scanDestination(row pgx.Row) (*domain.Destination, error) {
	var d domain.Destination
	if err := row.Scan(&d.ID, &d.Name, &d.City, &d.Country, &d.Stadium, &d.League, &d.AirportCode, &d.Active,
		&d.LastFlightCheck, &d.AvgFlightPriceCents, &d.Currency, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PGDestinationRepository) GetByID(ctx context.Context, id int64) (*domain.Destination, error) {
	d, err := scanDestination(conn(ctx, r.db).QueryRow(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDestinationNotFound
		}
		return nil, fmt.Errorf("get destination: %w", err)
	}
	return d, nil
}

func (r *PGDestinationRepository) ListActive(ctx context.Context) ([]domain.Destination, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active destinations: %w", err)
	}
	defer rows.Close()

	destinations := make([]domain.Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		destinations = append(destinations, *d)
	}
	return destinations, rows.Err()
}

func (r *PGDestinationRepository) UpdateAirportCode(ctx context.Context, id int64, code string) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `UPDATE destinations SET airport_code = $2, updated_at = NOW() WHERE id = $1`, id, code)
	if err != nil {
		return fmt.Errorf("%w: update airport code: %v", domain.ErrPersistence, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrDestinationNotFound
	}
	return nil
}

// UpdateFlightPrice overwrites the cached price. Concurrent writers simply race to the fresher value.
func (r *PGDestinationRepository) UpdateFlightPrice(ctx context.Context, id int64, priceCents int64, currency string, checkedAt time.Time) error {
	cmd, err := conn(ctx, r.db).Exec(ctx, `
UPDATE destinations
SET avg_flight_price_cents = $2, currency = $3, last_flight_check = $4, updated_at = NOW()
WHERE id = $1`, id, priceCents, currency, checkedAt)
	if err != nil {
		return fmt.Errorf("%w: update flight price: %v", domain.ErrPersistence, err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrDestinationNotFound
	}
	return nil
}

var _ DestinationRepository = (*PGDestinationRepository)(nil)

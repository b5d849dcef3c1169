package suggestion

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/flightprice"
	"github.com/Domenick1991/mysterytrips/internal/repository"
)

// PricedDestination is a destination with the price the ranker may use.
// PriceCents is per person and only meaningful when HasPrice is set.
type PricedDestination struct {
	Destination domain.Destination
	PriceCents  int64
	Currency    string
	HasPrice    bool
	Stale       bool
	CheckedAt   *time.Time
}

// RefreshStats summarises one refresher run.
type RefreshStats struct {
	Requested int // destinations sent to the provider
	Found     int // destinations the provider priced
	Updated   int // prices written back
	Fresh     int // destinations skipped because their price is recent
	Deferred  int // stale destinations left over once the cap was reached
}

// PriceRefresher applies the freshness policy on top of a Provider: recent
// prices are reused, at most maxPerRun stale destinations are re-queried
// (oldest check first) and new prices are written back to the catalog.
type PriceRefresher struct {
	provider     flightprice.Provider
	destinations repository.DestinationRepository
	clock        clock.Clock
	origin       string
	freshness    time.Duration
	maxPerRun    int
}

func NewPriceRefresher(
	provider flightprice.Provider,
	destinations repository.DestinationRepository,
	clk clock.Clock,
	origin string,
	freshness time.Duration,
	maxPerRun int,
) *PriceRefresher {
	return &PriceRefresher{
		provider:     provider,
		destinations: destinations,
		clock:        clk,
		origin:       origin,
		freshness:    freshness,
		maxPerRun:    maxPerRun,
	}
}

// Refresh prices dests for the given dates and party size. Every destination
// must carry an airport code. The result keeps the input order. Provider
// failures never fail the run: affected destinations fall back to their last
// known price, flagged stale.
func (r *PriceRefresher) Refresh(ctx context.Context, dests []domain.Destination, depart time.Time, ret *time.Time, travelers int) ([]PricedDestination, RefreshStats) {
	now := r.clock.Now()
	priced := make([]PricedDestination, len(dests))
	var stats RefreshStats

	var stale []int
	for i, d := range dests {
		priced[i] = PricedDestination{Destination: d}
		if d.IsFresh(now, r.freshness) {
			priced[i].setPrice(*d.AvgFlightPriceCents, d.Currency, *d.LastFlightCheck, false)
			stats.Fresh++
			continue
		}
		stale = append(stale, i)
	}

	sort.SliceStable(stale, func(a, b int) bool {
		da, db := dests[stale[a]], dests[stale[b]]
		switch {
		case da.LastFlightCheck == nil && db.LastFlightCheck == nil:
			return da.ID < db.ID
		case da.LastFlightCheck == nil:
			return true
		case db.LastFlightCheck == nil:
			return false
		case !da.LastFlightCheck.Equal(*db.LastFlightCheck):
			return da.LastFlightCheck.Before(*db.LastFlightCheck)
		}
		return da.ID < db.ID
	})

	batch := stale
	if r.maxPerRun > 0 && len(batch) > r.maxPerRun {
		batch = stale[:r.maxPerRun]
		stats.Deferred = len(stale) - r.maxPerRun
	}

	quotes := r.quote(ctx, dests, batch, depart, ret, travelers)
	stats.Requested = len(batch)

	for _, i := range batch {
		d := dests[i]
		q, ok := quotes[strings.ToUpper(d.AirportCode)]
		if !ok {
			continue
		}
		stats.Found++
		priced[i].setPrice(q.PriceCents, q.Currency, now, false)
		if err := r.destinations.UpdateFlightPrice(ctx, d.ID, q.PriceCents, q.Currency, now); err != nil {
			log.Printf("WARNING: suggest: failed to store price for destination %d: %v", d.ID, err)
			continue
		}
		stats.Updated++
	}

	for _, i := range stale {
		p := &priced[i]
		if p.HasPrice {
			continue
		}
		d := dests[i]
		if d.HasPrice() {
			p.setPrice(*d.AvgFlightPriceCents, d.Currency, *d.LastFlightCheck, true)
		}
	}

	return priced, stats
}

// quote asks the provider for the airports of the selected destinations and
// indexes the answers by upper-case airport code.
func (r *PriceRefresher) quote(ctx context.Context, dests []domain.Destination, batch []int, depart time.Time, ret *time.Time, travelers int) map[string]domain.FlightPriceQuote {
	if len(batch) == 0 {
		return nil
	}

	airports := make([]string, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for _, i := range batch {
		code := strings.ToUpper(dests[i].AirportCode)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		airports = append(airports, code)
	}

	quotes, err := r.provider.QuotePrices(ctx, flightprice.QuoteRequest{
		Origin:       r.origin,
		Destinations: airports,
		DepartDate:   depart,
		ReturnDate:   ret,
		Travelers:    travelers,
	})
	switch {
	case errors.Is(err, domain.ErrFlightProviderUnavailable):
		log.Printf("WARNING: suggest: flight prices unavailable, using cached prices: %v", err)
	case err != nil:
		log.Printf("WARNING: suggest: flight price lookup failed, using cached prices: %v", err)
	}

	byAirport := make(map[string]domain.FlightPriceQuote, len(quotes))
	for _, q := range quotes {
		byAirport[strings.ToUpper(q.AirportCode)] = q
	}
	return byAirport
}

func (p *PricedDestination) setPrice(cents int64, currency string, checkedAt time.Time, stale bool) {
	p.PriceCents = cents
	p.Currency = currency
	p.HasPrice = true
	p.Stale = stale
	at := checkedAt
	p.CheckedAt = &at
}

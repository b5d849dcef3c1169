package suggestion

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/airport"
	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/repository"
)

const (
	justCheapest   = "cheapest flight option for the requested dates"
	justTicketOnly = "match ticket package, no flights needed"
	staleLayout    = "2006-01-02 15:04 MST"
)

// Ranker prices eligible destinations and orders them cheapest first.
type Ranker struct {
	refresher    *PriceRefresher
	destinations repository.DestinationRepository
	resolver     airport.Resolver
	currency     string
	tripNights   int
}

func NewRanker(refresher *PriceRefresher, destinations repository.DestinationRepository, resolver airport.Resolver, currency string, tripNights int) *Ranker {
	return &Ranker{
		refresher:    refresher,
		destinations: destinations,
		resolver:     resolver,
		currency:     currency,
		tripNights:   tripNights,
	}
}

// Rank returns suggestions with Rank set from 1. Flight-tier destinations
// without any price are left out. Ties on price keep destination ID order.
func (r *Ranker) Rank(ctx context.Context, booking *domain.Booking, eligible []domain.Destination) ([]domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ordered := make([]domain.Destination, len(eligible))
	copy(ordered, eligible)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	if !booking.PackageTier.IncludesFlights() {
		suggestions := make([]domain.Suggestion, 0, len(ordered))
		for _, d := range ordered {
			suggestions = append(suggestions, domain.Suggestion{
				BookingID:     booking.ID,
				DestinationID: d.ID,
				Destination:   d,
				Currency:      r.currency,
				Justification: justTicketOnly,
			})
		}
		return numbered(suggestions), nil
	}

	withAirport := r.resolveAirports(ctx, ordered)
	priced, stats := r.refresher.Refresh(ctx, withAirport, booking.TravelDate, r.returnDate(booking), booking.Travelers)
	log.Printf("suggest: booking %d: %d fresh, %d refreshed (%d priced), %d deferred",
		booking.ID, stats.Fresh, stats.Requested, stats.Found, stats.Deferred)

	candidates := make([]PricedDestination, 0, len(priced))
	for _, p := range priced {
		if !p.HasPrice {
			log.Printf("suggest: booking %d: destination %d has no flight price, left out", booking.ID, p.Destination.ID)
			continue
		}
		candidates = append(candidates, p)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].PriceCents != candidates[j].PriceCents {
			return candidates[i].PriceCents < candidates[j].PriceCents
		}
		return candidates[i].Destination.ID < candidates[j].Destination.ID
	})

	travelers := int64(booking.Travelers)
	if travelers < 1 {
		travelers = 1
	}

	suggestions := make([]domain.Suggestion, 0, len(candidates))
	for i, p := range candidates {
		currency := p.Currency
		if currency == "" {
			currency = r.currency
		}
		suggestions = append(suggestions, domain.Suggestion{
			BookingID:        booking.ID,
			DestinationID:    p.Destination.ID,
			Destination:      p.Destination,
			FlightPriceCents: p.PriceCents * travelers,
			Currency:         currency,
			Justification:    justify(i, p, candidates[0].PriceCents*travelers, travelers, currency),
			PriceStale:       p.Stale,
		})
	}
	return numbered(suggestions), nil
}

// resolveAirports fills missing airport codes and writes them back. Destinations
// the resolver cannot place are dropped.
func (r *Ranker) resolveAirports(ctx context.Context, dests []domain.Destination) []domain.Destination {
	out := make([]domain.Destination, 0, len(dests))
	for _, d := range dests {
		if !d.HasAirport() {
			code, ok := r.resolver.Resolve(d.City, d.Country)
			if !ok {
				log.Printf("WARNING: suggest: destination %d (%s, %s) has no resolvable airport", d.ID, d.City, d.Country)
				continue
			}
			d.AirportCode = code
			if err := r.destinations.UpdateAirportCode(ctx, d.ID, code); err != nil {
				log.Printf("WARNING: suggest: failed to store airport %s for destination %d: %v", code, d.ID, err)
			}
		}
		out = append(out, d)
	}
	return out
}

func (r *Ranker) returnDate(b *domain.Booking) *time.Time {
	if b.ReturnDate != nil {
		return b.ReturnDate
	}
	ret := b.TravelDate.AddDate(0, 0, r.tripNights)
	return &ret
}

func justify(pos int, p PricedDestination, cheapestTotal, travelers int64, currency string) string {
	var text string
	if pos == 0 {
		text = justCheapest
	} else {
		text = fmt.Sprintf("flight option %s %s above the cheapest", formatCents(p.PriceCents*travelers-cheapestTotal), currency)
	}
	if p.Stale && p.CheckedAt != nil {
		text += fmt.Sprintf(" (price last checked %s, may be outdated)", p.CheckedAt.UTC().Format(staleLayout))
	}
	return text
}

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}

func numbered(s []domain.Suggestion) []domain.Suggestion {
	for i := range s {
		s[i].Rank = i + 1
	}
	return s
}

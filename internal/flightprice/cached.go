package flightprice

import (
	"context"
	"log"
	"strings"

	"github.com/Domenick1991/mysterytrips/internal/domain"
)

// QuoteCache stores quotes transiently under QuoteKey keys. A miss is (nil, nil).
type QuoteCache interface {
	GetQuote(ctx context.Context, key string) (*domain.FlightPriceQuote, error)
	SetQuote(ctx context.Context, key string, quote domain.FlightPriceQuote) error
}

// CachedProvider answers from the quote cache and forwards misses to next.
type CachedProvider struct {
	next  Provider
	cache QuoteCache
}

func NewCachedProvider(next Provider, cache QuoteCache) *CachedProvider {
	return &CachedProvider{next: next, cache: cache}
}

func (p *CachedProvider) QuotePrices(ctx context.Context, req QuoteRequest) ([]domain.FlightPriceQuote, error) {
	if p.cache == nil {
		return p.next.QuotePrices(ctx, req)
	}

	hits := make([]domain.FlightPriceQuote, 0, len(req.Destinations))
	misses := make([]string, 0, len(req.Destinations))
	for _, dest := range req.Destinations {
		code := strings.ToUpper(strings.TrimSpace(dest))
		cached, err := p.cache.GetQuote(ctx, QuoteKey(code, req.DepartDate, req.ReturnDate, req.Travelers))
		if err != nil {
			log.Printf("WARNING: flightprice: quote cache read %s: %v", code, err)
		}
		if cached != nil {
			hits = append(hits, *cached)
			continue
		}
		misses = append(misses, dest)
	}

	if len(misses) == 0 {
		return hits, nil
	}

	missReq := req
	missReq.Destinations = misses
	fresh, err := p.next.QuotePrices(ctx, missReq)
	for _, q := range fresh {
		if setErr := p.cache.SetQuote(ctx, QuoteKey(q.AirportCode, q.DepartDate, q.ReturnDate, q.Travelers), q); setErr != nil {
			log.Printf("WARNING: flightprice: quote cache write %s: %v", q.AirportCode, setErr)
		}
	}
	return append(hits, fresh...), err
}

var _ Provider = (*CachedProvider)(nil)

// Package flightprice quotes round-trip flight prices for candidate destinations.
package flightprice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/domain"
)

const dateLayout = "2006-01-02"

// Provider returns one quote per destination airport it could price.
//
// A destination that cannot be priced is left out of the result. When the
// source as a whole is down, the error wraps domain.ErrFlightProviderUnavailable;
// any quotes returned alongside that error are still usable.
type Provider interface {
	QuotePrices(ctx context.Context, req QuoteRequest) ([]domain.FlightPriceQuote, error)
}

type QuoteRequest struct {
	Origin       string
	Destinations []string
	DepartDate   time.Time
	ReturnDate   *time.Time
	Travelers    int
}

// Validate checks the request against today's date (midnight UTC).
func (r QuoteRequest) Validate(today time.Time) error {
	if strings.TrimSpace(r.Origin) == "" {
		return domain.Invalid("origin", "is required")
	}
	if r.DepartDate.IsZero() {
		return domain.Invalid("depart_date", "is required")
	}
	if dateOnly(r.DepartDate).Before(dateOnly(today)) {
		return domain.Invalid("depart_date", "must not be in the past")
	}
	if r.ReturnDate != nil && dateOnly(*r.ReturnDate).Before(dateOnly(r.DepartDate)) {
		return domain.Invalid("return_date", "must not be before depart_date")
	}
	if r.Travelers < 1 {
		return domain.Invalid("travelers", "must be at least 1")
	}
	if len(r.Destinations) == 0 {
		return domain.Invalid("destinations", "must not be empty")
	}
	seen := make(map[string]struct{}, len(r.Destinations))
	for _, d := range r.Destinations {
		code := strings.ToUpper(strings.TrimSpace(d))
		if code == "" {
			return domain.Invalid("destinations", "must not contain blank codes")
		}
		if _, dup := seen[code]; dup {
			return domain.Invalid("destinations", fmt.Sprintf("contains duplicate %s", code))
		}
		seen[code] = struct{}{}
	}
	return nil
}

// QuoteKey identifies a cached quote: airport, date pair and party size.
func QuoteKey(airport string, depart time.Time, ret *time.Time, travelers int) string {
	r := "oneway"
	if ret != nil {
		r = ret.Format(dateLayout)
	}
	return fmt.Sprintf("%s:%s:%s:%d", strings.ToUpper(airport), depart.Format(dateLayout), r, travelers)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

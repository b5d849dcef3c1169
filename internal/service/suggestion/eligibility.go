package suggestion

import (
	"context"
	"fmt"
	"log"

	"github.com/Domenick1991/mysterytrips/internal/airport"
	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/repository"
)

// EligibilityFilter narrows the catalog to destinations a booking may be sent to.
// It only reads; airport codes it resolves are not written back.
type EligibilityFilter struct {
	destinations repository.DestinationRepository
	resolver     airport.Resolver
	exclusions   ExclusionFactory
}

func NewEligibilityFilter(destinations repository.DestinationRepository, resolver airport.Resolver, exclusions ExclusionFactory) *EligibilityFilter {
	if exclusions == nil {
		exclusions = NewPreferenceExclusion
	}
	return &EligibilityFilter{destinations: destinations, resolver: resolver, exclusions: exclusions}
}

// EligibleDestinations keeps the catalog order. An empty
// result is reported as domain.ErrNoEligibleDestinations.
func (f *EligibilityFilter) EligibleDestinations(ctx context.Context, booking *domain.Booking) ([]domain.Destination, error) {
	if !booking.PackageTier.IsValid() {
		return nil, domain.Invalid("package_tier", fmt.Sprintf("%q is unknown", booking.PackageTier))
	}

	catalog, err := f.destinations.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	excluded := f.exclusions(booking.Preferences)
	needsAirport := booking.PackageTier.IncludesFlights()

	eligible := make([]domain.Destination, 0, len(catalog))
	for _, d := range catalog {
		if !d.Active {
			continue
		}
		if needsAirport && !d.HasAirport() {
			if _, ok := f.resolver.Resolve(d.City, d.Country); !ok {
				log.Printf("WARNING: suggest: booking %d: destination %d (%s, %s) has no resolvable airport, skipped", booking.ID, d.ID, d.City, d.Country)
				continue
			}
		}
		if excluded.Excludes(d) {
			continue
		}
		eligible = append(eligible, d)
	}

	if len(eligible) == 0 {
		return nil, domain.ErrNoEligibleDestinations
	}
	return eligible, nil
}

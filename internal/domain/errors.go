package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation                = errors.New("validation failed")
	ErrNotFound                  = errors.New("not found")
	ErrBookingNotFound           = fmt.Errorf("booking %w", ErrNotFound)
	ErrDestinationNotFound       = fmt.Errorf("destination %w", ErrNotFound)
	ErrFlightProviderUnavailable = errors.New("flight price provider unavailable")
	ErrPersistence               = errors.New("persistence failed")
	ErrNoEligibleDestinations    = errors.New("no eligible destinations")
	ErrNoSuggestions             = errors.New("booking has no suggestions")
	ErrAlreadyRevealed           = errors.New("booking destination already revealed")
	ErrUnauthorized              = errors.New("unauthorized")
)

// Invalid returns a validation error naming the offending field.
func Invalid(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

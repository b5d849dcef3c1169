package domain

import "time"

type PackageTier string

const (
	PackageTicketOnly   PackageTier = "ticket_only"
	PackageFlightTicket PackageTier = "flight_ticket"
	PackageAllInclusive PackageTier = "all_inclusive"
)

func (t PackageTier) IsValid() bool {
	switch t {
	case PackageTicketOnly, PackageFlightTicket, PackageAllInclusive:
		return true
	}
	return false
}

// IncludesFlights reports whether destinations need a priced flight for this tier.
func (t PackageTier) IncludesFlights() bool {
	return t == PackageFlightTicket || t == PackageAllInclusive
}

// Preferences is the free-text part of a booking. Excluded holds club, league
// or city names the customer does not want to visit.
type Preferences struct {
	Excluded []string `json:"excluded"`
	Notes    string   `json:"notes,omitempty"`
}

type Booking struct {
	ID             int64
	Email          string
	PackageTier    PackageTier
	TravelDate     time.Time
	ReturnDate     *time.Time
	Travelers      int
	Preferences    Preferences
	DestinationID  *int64
	RevealedAt     *time.Time
	NeedsAttention bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (b *Booking) IsRevealed() bool {
	return b.RevealedAt != nil
}

type RevealStatus string

const (
	RevealStatusPending   RevealStatus = "pending"
	RevealStatusSuggested RevealStatus = "suggested"
	RevealStatusRevealed  RevealStatus = "revealed"
)

// StatusOf derives where a booking stands given whether its current shortlist is non-empty.
func StatusOf(b *Booking, hasSuggestions bool) RevealStatus {
	switch {
	case b.IsRevealed():
		return RevealStatusRevealed
	case hasSuggestions:
		return RevealStatusSuggested
	default:
		return RevealStatusPending
	}
}

type DecisionSource string

const (
	DecisionSourceOperator      DecisionSource = "operator"
	DecisionSourceTopSuggestion DecisionSource = "top_suggestion"
	DecisionSourceAuto          DecisionSource = "auto"
)

// SelectionDecision fixes the destination of a booking. There is at most one per booking.
type SelectionDecision struct {
	ID            int64
	BookingID     int64
	DestinationID int64
	Notes         string
	Source        DecisionSource
	RevealedAt    time.Time
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion is one ranked candidate destination within a shortlist batch.
type Suggestion struct {
	ID               int64
	BatchID          uuid.UUID
	BookingID        int64
	DestinationID    int64
	Destination      Destination
	Rank             int
	FlightPriceCents int64
	Currency         string
	Justification    string
	PriceStale       bool
	CreatedAt        time.Time
}

// SuggestionBatch is one ranking run for a booking. Only the batch the
// booking's shortlist pointer names is current.
type SuggestionBatch struct {
	ID           uuid.UUID
	BookingID    int64
	Size         int
	Current      bool
	CreatedAt    time.Time
	SupersededAt *time.Time
	FinalizedAt  *time.Time
}

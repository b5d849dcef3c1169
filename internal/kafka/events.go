package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ReasonBookingCreated = "booking_created"
	ReasonManual         = "manual"

	EventDestinationRevealed = "destination_revealed"
)

// RankingRequest asks the worker to build a shortlist for a booking.
type RankingRequest struct {
	BookingID   int64     `json:"booking_id"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// RevealEvent tells the customer which destination they are travelling to.
type RevealEvent struct {
	Type            string    `json:"type"`
	BookingID       int64     `json:"booking_id"`
	Email           string    `json:"email"`
	Travelers       int       `json:"travelers"`
	TravelDate      time.Time `json:"travel_date"`
	DestinationID   int64     `json:"destination_id"`
	DestinationName string    `json:"destination_name"`
	City            string    `json:"city"`
	Country         string    `json:"country"`
	Stadium         string    `json:"stadium"`
	League          string    `json:"league"`
	Source          string    `json:"source"`
	RevealedAt      time.Time `json:"revealed_at"`
}

func DecodeRankingRequest(data []byte) (RankingRequest, error) {
	var req RankingRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("failed to decode ranking request: %w", err)
	}
	if req.BookingID <= 0 {
		return req, fmt.Errorf("ranking request without booking_id")
	}
	return req, nil
}

func DecodeRevealEvent(data []byte) (RevealEvent, error) {
	var event RevealEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return event, fmt.Errorf("failed to decode reveal event: %w", err)
	}
	if event.Type != EventDestinationRevealed {
		return event, fmt.Errorf("unexpected event type %q", event.Type)
	}
	return event, nil
}

package reveal

import (
	"context"
	"strconv"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
)

// Notifier tells the customer where they are going.
type Notifier interface {
	NotifyReveal(ctx context.Context, booking domain.Booking, destination domain.Destination, decision domain.SelectionDecision) error
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

const publishTimeout = 5 * time.Second

// EventNotifier hands reveal notifications to the worker, which sends the email.
type EventNotifier struct {
	producer Producer
	topic    string
	retries  int
}

func NewEventNotifier(producer Producer, topic string, retries int) *EventNotifier {
	if retries < 1 {
		retries = 1
	}
	return &EventNotifier{producer: producer, topic: topic, retries: retries}
}

func (n *EventNotifier) NotifyReveal(ctx context.Context, booking domain.Booking, destination domain.Destination, decision domain.SelectionDecision) error {
	event := kafka.RevealEvent{
		Type:            kafka.EventDestinationRevealed,
		BookingID:       booking.ID,
		Email:           booking.Email,
		Travelers:       booking.Travelers,
		TravelDate:      booking.TravelDate,
		DestinationID:   destination.ID,
		DestinationName: destination.Name,
		City:            destination.City,
		Country:         destination.Country,
		Stadium:         destination.Stadium,
		League:          destination.League,
		Source:          string(decision.Source),
		RevealedAt:      decision.RevealedAt,
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return n.producer.PublishWithRetry(ctx, n.topic, strconv.FormatInt(booking.ID, 10), event, n.retries)
}

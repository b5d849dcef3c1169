package suggestion

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
)

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

const publishTimeout = 5 * time.Second

// Trigger hands new bookings to the ranking worker through Kafka.
type Trigger struct {
	producer Producer
	topic    string
	retries  int
	clock    clock.Clock
}

// NewTrigger publishes to topic, making up to retries attempts per request.
func NewTrigger(producer Producer, topic string, retries int, clk clock.Clock) *Trigger {
	if clk == nil {
		clk = clock.NewSystem()
	}
	if retries < 1 {
		retries = 1
	}
	return &Trigger{producer: producer, topic: topic, retries: retries, clock: clk}
}

// BookingCreated never reports failure to the caller. A lost request leaves
// the booking to the operator.
func (t *Trigger) BookingCreated(ctx context.Context, bookingID int64) {
	req := kafka.RankingRequest{
		BookingID:   bookingID,
		Reason:      kafka.ReasonBookingCreated,
		RequestedAt: t.clock.Now(),
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := t.producer.PublishWithRetry(ctx, t.topic, strconv.FormatInt(bookingID, 10), req, t.retries); err != nil {
		log.Printf("WARNING: suggest: failed to enqueue ranking for booking %d: %v", bookingID, err)
		return
	}
	log.Printf("suggest: ranking for booking %d enqueued", bookingID)
}

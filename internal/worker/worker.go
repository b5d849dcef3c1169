// Package worker runs the background side of the engine: Kafka consumers for
// ranking requests and reveal notifications, and the scheduled jobs.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/email"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
	"github.com/Domenick1991/mysterytrips/internal/service/reveal"
	"github.com/Domenick1991/mysterytrips/internal/service/suggestion"
	"github.com/go-co-op/gocron/v2"
	kafkaGo "github.com/segmentio/kafka-go"
)

// RankingHandler runs ranking for each request. Malformed messages are
// logged and skipped so the consumer keeps going.
func RankingHandler(uc suggestion.SuggestionUseCase) kafka.Handler {
	return func(ctx context.Context, msg kafkaGo.Message) error {
		req, err := kafka.DecodeRankingRequest(msg.Value)
		if err != nil {
			log.Printf("WARNING: worker: skip %s message at offset %d: %v", msg.Topic, msg.Offset, err)
			return nil
		}
		return uc.HandleRankingRequest(ctx, req)
	}
}

// NotificationHandler emails each reveal. A failed delivery is logged; the
// decision it reports is already committed.
func NotificationHandler(sender email.Sender) kafka.Handler {
	return func(ctx context.Context, msg kafkaGo.Message) error {
		event, err := kafka.DecodeRevealEvent(msg.Value)
		if err != nil {
			log.Printf("WARNING: worker: skip %s message at offset %d: %v", msg.Topic, msg.Offset, err)
			return nil
		}
		if err := sender.SendReveal(ctx, event); err != nil {
			log.Printf("WARNING: worker: reveal email for booking %d failed: %v", event.BookingID, err)
			return nil
		}
		log.Printf("worker: reveal email for booking %d sent", event.BookingID)
		return nil
	}
}

type Schedule struct {
	BulkRefreshInterval time.Duration
	AutoRevealInterval  time.Duration
	BulkLeadDays        int
	TripNights          int
}

type Jobs struct {
	suggestions suggestion.SuggestionUseCase
	reveal      reveal.RevealUseCase
	clock       clock.Clock
	schedule    Schedule
}

func NewJobs(suggestions suggestion.SuggestionUseCase, revealUC reveal.RevealUseCase, clk clock.Clock, schedule Schedule) *Jobs {
	return &Jobs{suggestions: suggestions, reveal: revealUC, clock: clk, schedule: schedule}
}

// Register adds the periodic jobs to s. Runs of the same job never overlap.
func (j *Jobs) Register(ctx context.Context, s gocron.Scheduler) error {
	if _, err := s.NewJob(
		gocron.DurationJob(j.schedule.BulkRefreshInterval),
		gocron.NewTask(j.BulkRefresh, ctx),
		gocron.WithName("bulk-price-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}
	if _, err := s.NewJob(
		gocron.DurationJob(j.schedule.AutoRevealInterval),
		gocron.NewTask(j.AutoReveal, ctx),
		gocron.WithName("auto-reveal"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		return err
	}
	return nil
}

// BulkRefresh warms prices for a trip BulkLeadDays from today.
func (j *Jobs) BulkRefresh(ctx context.Context) {
	depart := clock.Today(j.clock).AddDate(0, 0, j.schedule.BulkLeadDays)
	ret := depart.AddDate(0, 0, j.schedule.TripNights)

	result, err := j.suggestions.BulkRefreshPrices(ctx, depart, &ret)
	if err != nil {
		log.Printf("WARNING: worker: bulk price refresh failed: %v", err)
		return
	}
	log.Printf("worker: bulk price refresh updated %d destinations, %d skipped as fresh", result.DestinationsUpdated, result.Skipped)
}

func (j *Jobs) AutoReveal(ctx context.Context) {
	n, err := j.reveal.AutoReveal(ctx)
	if err != nil {
		log.Printf("WARNING: worker: auto reveal failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("worker: auto revealed %d bookings", n)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Domenick1991/mysterytrips/config"
	"github.com/Domenick1991/mysterytrips/internal/bootstrap"
	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/email"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
	"github.com/Domenick1991/mysterytrips/internal/worker"
	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARNING: load .env: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer app.Close()

	sender, err := email.NewSender(ctx, cfg.Email)
	if err != nil {
		log.Fatalf("email sender: %v", err)
	}

	rankingConsumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.RankingTopic)
	defer rankingConsumer.Close()
	notificationsConsumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID+"-notifications", cfg.Kafka.NotificationsTopic)
	defer notificationsConsumer.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := rankingConsumer.Consume(ctx, worker.RankingHandler(app.Suggestions)); err != nil {
			log.Printf("worker: %s consumer stopped: %v", rankingConsumer.Topic(), err)
			stop()
		}
	}()
	go func() {
		defer wg.Done()
		if err := notificationsConsumer.Consume(ctx, worker.NotificationHandler(sender)); err != nil {
			log.Printf("worker: %s consumer stopped: %v", notificationsConsumer.Topic(), err)
			stop()
		}
	}()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	jobs := worker.NewJobs(app.Suggestions, app.Reveal, clock.NewSystem(), worker.Schedule{
		BulkRefreshInterval: cfg.Worker.BulkRefreshInterval,
		AutoRevealInterval:  cfg.Worker.AutoRevealInterval,
		BulkLeadDays:        cfg.Pricing.BulkLeadDays,
		TripNights:          cfg.Pricing.DefaultTripNights,
	})
	if err := jobs.Register(ctx, scheduler); err != nil {
		log.Fatalf("register jobs: %v", err)
	}
	scheduler.Start()
	log.Printf("worker: consuming %s and %s", cfg.Kafka.RankingTopic, cfg.Kafka.NotificationsTopic)

	<-ctx.Done()
	log.Printf("worker: shutting down")
	if err := scheduler.Shutdown(); err != nil {
		log.Printf("WARNING: worker: scheduler shutdown: %v", err)
	}
	wg.Wait()
}

package bootstrap

import (
	"context"
	"fmt"
	"log"

	"github.com/Domenick1991/mysterytrips/config"
	"github.com/Domenick1991/mysterytrips/internal/airport"
	"github.com/Domenick1991/mysterytrips/internal/cache"
	"github.com/Domenick1991/mysterytrips/internal/clock"
	"github.com/Domenick1991/mysterytrips/internal/flightprice"
	"github.com/Domenick1991/mysterytrips/internal/kafka"
	"github.com/Domenick1991/mysterytrips/internal/repository"
	"github.com/Domenick1991/mysterytrips/internal/service/reveal"
	"github.com/Domenick1991/mysterytrips/internal/service/suggestion"
	"github.com/Domenick1991/mysterytrips/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App holds the wired services shared by the API server and the worker.
type App struct {
	Pool        *pgxpool.Pool
	Cache       *cache.RedisCache
	Producer    *kafka.Producer
	Suggestions *suggestion.SuggestionService
	Reveal      *reveal.RevealService
	Trigger     *suggestion.Trigger
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.Apply(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	clk := clock.NewSystem()
	producer := kafka.NewProducer(cfg.Kafka.Brokers)

	var provider flightprice.Provider = flightprice.NewAmadeusClient(flightprice.AmadeusConfig{
		BaseURL:      cfg.Pricing.AmadeusBaseURL,
		ClientID:     cfg.Pricing.AmadeusClientID,
		ClientSecret: cfg.Pricing.AmadeusSecret,
		Currency:     cfg.Pricing.Currency,
		CallTimeout:  cfg.Pricing.CallTimeout,
	}, flightprice.WithClock(clk))

	var redisCache *cache.RedisCache
	if cfg.Redis.Addr != "" {
		redisCache = cache.NewRedisCache(cfg.Redis, cfg.Pricing.QuoteCacheTTL)
		provider = flightprice.NewCachedProvider(provider, redisCache)
	} else {
		log.Printf("WARNING: redis address not set, flight quotes are not cached")
	}

	bookings := repository.NewBookingRepository(pool)
	destinations := repository.NewDestinationRepository(pool)
	store := repository.NewSuggestionStore(pool)
	decisions := repository.NewDecisionRepository(pool)

	suggestions := suggestion.NewSuggestionService(
		bookings,
		destinations,
		store,
		provider,
		airport.NewDefaultResolver(),
		cfg.Pricing.OriginAirport,
		suggestion.WithClock(clk),
		suggestion.WithCurrency(cfg.Pricing.Currency),
		suggestion.WithFreshnessWindow(cfg.Pricing.FreshnessWindow),
		suggestion.WithMaxRefreshPerRun(cfg.Pricing.MaxRefreshPerRun),
		suggestion.WithTripNights(cfg.Pricing.DefaultTripNights),
	)

	revealService := reveal.NewRevealService(
		bookings,
		destinations,
		store,
		decisions,
		reveal.NewEventNotifier(producer, cfg.Kafka.NotificationsTopic, cfg.Kafka.PublishRetries),
		reveal.WithClock(clk),
		reveal.WithAutoRevealLead(cfg.Reveal.AutoRevealLead),
	)

	return &App{
		Pool:        pool,
		Cache:       redisCache,
		Producer:    producer,
		Suggestions: suggestions,
		Reveal:      revealService,
		Trigger:     suggestion.NewTrigger(producer, cfg.Kafka.RankingTopic, cfg.Kafka.PublishRetries, clk),
	}, nil
}

// Checks returns the dependency probes used for health reporting.
func (a *App) Checks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"postgres": a.Pool.Ping,
		"kafka":    a.Producer.CheckConnection,
	}
	if a.Cache != nil {
		checks["redis"] = a.Cache.Ping
	}
	return checks
}

func (a *App) Close() {
	if err := a.Producer.Close(); err != nil {
		log.Printf("WARNING: close kafka producer: %v", err)
	}
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			log.Printf("WARNING: close redis: %v", err)
		}
	}
	a.Pool.Close()
}

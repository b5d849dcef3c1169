package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/mysterytrips/config"
	"github.com/Domenick1991/mysterytrips/internal/bootstrap"
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

	if err := bootstrap.Run(ctx, cfg, bootstrap.Services{
		Suggestions: app.Suggestions,
		Reveal:      app.Reveal,
		Trigger:     app.Trigger,
		Checks:      app.Checks(),
	}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

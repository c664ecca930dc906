package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardroid/ruleta/internal/config"
	"github.com/cardroid/ruleta/internal/console"
	"github.com/cardroid/ruleta/internal/i18n"
	"github.com/cardroid/ruleta/internal/models"
	mongorepo "github.com/cardroid/ruleta/internal/repositories/mongodb"
	"github.com/cardroid/ruleta/internal/services"
	"github.com/cardroid/ruleta/internal/wheel"
	mongodb "github.com/cardroid/ruleta/pkg/mongodb"
	"github.com/cardroid/ruleta/pkg/ruletaapi"
)

func main() {
	configDir := flag.String("config", ".", "directory holding config.yaml and .env")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Keep the terminal for the session UI
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loc := i18n.New(cfg.Locale)
	ui := console.New(os.Stdout, loc, cfg.OpenCommand)

	var tracker services.Tracker = services.LogTracker{}
	if cfg.Tracking.Enabled {
		mongoClient, err := mongodb.NewClient(ctx, cfg.Tracking.MongoURI, 10*time.Second)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
			}
		}()
		repo := mongorepo.NewTrackingEventRepository(mongoClient.Database(cfg.Tracking.Database), cfg.Tracking.Collection)
		tracker = services.NewStoreTracker(repo, 5*time.Second)
	}

	wheelOpts := wheel.Options{
		Duration:      cfg.Wheel.Duration,
		Spins:         cfg.Wheel.Spins,
		FrameInterval: cfg.Wheel.FrameInterval,
	}

	session := services.NewSessionService(services.SessionDeps{
		API: ruletaapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout),
		NewWheel: func(wc models.WheelConfig) (services.Wheel, error) {
			w, err := wheel.New(wc, wheelOpts, ui)
			if err != nil {
				return nil, err
			}
			return w, nil
		},
		Presenter: ui,
		Effects:   ui,
		Opener:    ui,
		Countdown: services.NewCountdownBoard(ui, cfg.Countdown.Interval, loc.T(i18n.CountdownExpired), nil),
		Tracker:   tracker,
		Links: services.LinkBuilder{
			LandingURL:     cfg.Share.LandingURL,
			ShareQuote:     cfg.Share.Quote,
			WhatsAppNumber: cfg.Redeem.WhatsAppNumber,
		},
		Localizer: loc,
	})
	defer session.Close()

	// The wheel is built once; a failure leaves spins rejected until restart
	if _, err := session.LoadWheelConfiguration(ctx); err != nil {
		log.Printf("Failed to load wheel configuration: %v", err)
	}

	log.Printf("Session %s started against %s", session.SessionID(), cfg.API.BaseURL)
	if err := ui.Run(ctx, os.Stdin, session); err != nil && err != context.Canceled {
		log.Printf("Console stopped: %v", err)
	}
	log.Println("Session exiting")
}

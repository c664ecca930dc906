package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cardroid/ruleta/api/routes"
	"github.com/cardroid/ruleta/internal/config"
	"github.com/cardroid/ruleta/internal/handlers"
	"github.com/cardroid/ruleta/internal/repositories"
	"github.com/cardroid/ruleta/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// The stub keeps players in memory only
	var playerRepo repositories.PlayerRepository = repositories.NewMemoryPlayerRepository()

	gameService := services.NewGameService(playerRepo, services.GameConfig{
		InitialSpins: cfg.Stub.InitialSpins,
		ShareBonus:   cfg.Stub.ShareBonus,
		PrizeTTL:     cfg.Stub.PrizeTTL,
	})

	handlerDeps := routes.HandlerDependencies{
		PrizeHandler: handlers.NewPrizeHandler(gameService),
	}
	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:    ":" + cfg.Stub.Port,
		Handler: router,
	}

	log.Printf("Stub API starting on port %s", cfg.Stub.Port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Server exiting")
}

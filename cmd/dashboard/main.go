package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"demo-trade-bot-go/internal/config"
	"demo-trade-bot-go/internal/engine"
	"demo-trade-bot-go/internal/insight"
	"demo-trade-bot-go/internal/logger"
	"demo-trade-bot-go/internal/names"
	"demo-trade-bot-go/internal/notify"
	"demo-trade-bot-go/internal/social"
	"demo-trade-bot-go/internal/store"
	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Open the durable store
	st, err := store.Open(cfg.Database.DSN, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	log.Info("Store opened and schema migrated")

	// math/rand generators are not safe for concurrent use; the engine, the
	// name pool and the leaderboard each run on different goroutines, so each
	// gets its own.
	seed := time.Now().UnixNano()
	engineRNG := rand.New(rand.NewSource(seed))
	boardRNG := rand.New(rand.NewSource(seed + 1))
	pool := names.NewPool(rand.New(rand.NewSource(seed + 2)))
	clk := clock.New()

	// Notification sinks: the in-process hub feeds the UI; the Telegram
	// relay, when configured, pushes operator messages.
	hub := notify.NewHub(log)
	sink := notify.Multi{hub}

	if cfg.Telegram.Enabled {
		relay, err := notify.NewRelay(&cfg.Telegram, log)
		if err != nil {
			log.Error("Failed to create telegram relay, continuing without it", zap.Error(err))
		} else {
			sink = append(sink, relay)
			relay.SessionStarted(uuid.NewString(), runtime.GOOS, "en")
		}
	}

	controller := engine.New(log, &cfg.Demo, st, clk, engineRNG, sink, pool)
	board := social.New(st, pool, boardRNG, clk, log)
	assistant := insight.NewAssistant(&cfg.Insight, log)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	engineDone := make(chan struct{})
	go func() {
		controller.Run(ctx)
		close(engineDone)
	}()

	// Setup HTTP server
	mux := http.NewServeMux()
	apiHandler := NewAPIHandler(log, controller, hub, board, assistant)

	mux.HandleFunc("GET /api/status", apiHandler.StatusHandler)
	mux.HandleFunc("GET /api/trades", apiHandler.TradesHandler)
	mux.HandleFunc("GET /api/statistics", apiHandler.StatisticsHandler)
	mux.HandleFunc("GET /api/events", apiHandler.EventsHandler)
	mux.HandleFunc("GET /api/leaderboard", apiHandler.LeaderboardHandler)
	mux.HandleFunc("POST /api/start", apiHandler.StartHandler)
	mux.HandleFunc("POST /api/stop", apiHandler.StopHandler)
	mux.HandleFunc("POST /api/bot", apiHandler.BotHandler)
	mux.HandleFunc("POST /api/onboarding/complete", apiHandler.OnboardingHandler)
	mux.HandleFunc("POST /api/chat", apiHandler.ChatHandler)

	// Static file serving for the dashboard assets.
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("web/static"))))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/templates/index.html")
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info("Starting web server", zap.String("address", addr))
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Error("Web server failed", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Web server shutdown failed", zap.Error(err))
	}

	<-engineDone
	log.Info("Dashboard has been shut down.")
}

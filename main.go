package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/bgcoach/internal/api"
	"github.com/example/bgcoach/internal/catalog"
	"github.com/example/bgcoach/internal/coach"
	"github.com/example/bgcoach/internal/errorlog"
	"github.com/example/bgcoach/internal/notify"
	"github.com/example/bgcoach/internal/progress"
	"github.com/example/bgcoach/internal/recorder"
	"github.com/example/bgcoach/internal/report"
	"github.com/example/bgcoach/internal/storage"
	"github.com/example/bgcoach/internal/throttle"
	"github.com/example/bgcoach/internal/trigger"
)

func main() {
	// Load .env if present; real environment takes precedence
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Connect to the database; a connection failure degrades to an
	// in-memory session rather than refusing to start
	var store storage.Store
	db, err := storage.Connect()
	if err != nil {
		log.Printf("Failed to connect to database, progress will not persist: %v", err)
		store = storage.NewMemoryStore()
	} else {
		defer db.Close()
		store = db
	}

	progressStore := progress.New(store, progress.DefaultConfig())
	errorLog := errorlog.New(0)

	catalogURL := os.Getenv("CATALOG_URL")
	if catalogURL == "" {
		catalogURL = "http://localhost:8100"
	}
	catalogClient := catalog.New(catalogURL)

	notifier := buildNotifier()

	controller := coach.New(
		coach.ConfigFromEnv(),
		errorLog,
		trigger.New(catalogClient),
		throttle.New(store, throttle.DefaultConfig()),
		progressStore,
		notifier,
	)
	controller.Start()
	defer controller.Stop()

	server := api.New(progressStore, controller, recorder.New(progressStore), report.New(progressStore))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	httpServer := &http.Server{
		Addr:    ":" + port,
		Handler: server.Handler(),
	}

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}

		close(done)
	}()

	log.Printf("Coach started on port %s. Press Ctrl+C to stop.", port)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Coach stopped successfully")
}

// buildNotifier returns the Telegram notifier when credentials are
// configured, otherwise the log-only fallback
func buildNotifier() coach.Notifier {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if token == "" || chatIDStr == "" {
		log.Println("Telegram credentials not set, logging notifications instead")
		return notify.Logger{}
	}
	chatID, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		log.Printf("Invalid TELEGRAM_CHAT_ID, logging notifications instead: %v", err)
		return notify.Logger{}
	}
	tg, err := notify.NewTelegram(token, chatID)
	if err != nil {
		log.Printf("Failed to create Telegram notifier, logging instead: %v", err)
		return notify.Logger{}
	}
	return tg
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orbit-gateway/auth"
	"orbit-gateway/contract"
	"orbit-gateway/domain/event"
	"orbit-gateway/infrastructure/ws"
	"orbit-gateway/internal"
	"orbit-gateway/moderation"
	"orbit-gateway/projection"
	"orbit-gateway/repositories"
	"orbit-gateway/runtime"
	"orbit-gateway/runtime/workers"
	"orbit-gateway/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so every defer executes before exit.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Moderation dictionary
	censoredChar, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	censored, err := runtime.NewCensoredLoader().LoadAll(config.CensoredDirPath)
	if err != nil {
		return fmt.Errorf("censored words loading failed: %w", err)
	}
	log.Info("Censored dictionary loaded",
		"words", len(censored.Words), "languages", censored.Languages)
	moderator, err := moderation.NewModerator(censored.Words, censoredChar)
	if err != nil {
		return fmt.Errorf("moderator build failed: %w", err)
	}

	// 4. Repositories & Services
	directory := repositories.NewBadgerDirectory(db)
	messageRepository := repositories.NewMessageRepository(db, log)
	notificationRepository := repositories.NewNotificationRepository(db, log)
	userRepository := repositories.NewUserRepository(db)

	gate := auth.NewGate(config.AuthSecret, config.AuthTokenDuration)
	chatService := services.NewChatService(log, messageRepository, directory,
		&moderator, config.MaxPageSize)
	authService := services.NewAuthService(log, userRepository, directory, gate)

	// 5. Runtime wiring
	events := make(chan event.DomainEvent, config.BufferSize)
	registry := runtime.NewRegistry()
	rooms := runtime.NewRooms(log, directory)
	timeline := projection.NewTimeline(config.TimelineLimit)
	sup := workers.NewSupervisor(log, config.RestartInterval)

	dispatcher := runtime.NewDispatcher(log, registry, rooms, sup, chatService,
		events, config.BufferSize, config.HistoryPageSize)
	notificationService := services.NewNotificationService(log, notificationRepository,
		dispatcher.Emit, config.MaxPageSize)

	sup.Add(
		workers.NewEventFanout(log, registry, rooms, events,
			[]contract.EventSink{timeline}, config.SinkTimeout),
		workers.NewTelemetryWorker(log,
			[]workers.NamedChannel{{Name: "events", Channel: events}},
			config.MetricInterval),
	)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher.Start(ctx)
	go sup.Run(ctx)

	if config.DebugPort > 0 {
		internal.StartDebugServer(db, config.DebugPort, nil, func() map[string]any {
			return map[string]any{
				"events_len": len(events),
				"events_cap": cap(events),
			}
		})
	}

	// 7. HTTP / WebSocket server
	mux := http.NewServeMux()
	server := ws.NewServer(log, gate, dispatcher, notificationService, authService,
		config.ConnectionBufferSize)
	server.Routes(mux)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{Addr: address, Handler: mux}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting gateway", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}

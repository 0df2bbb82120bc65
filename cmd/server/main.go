package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/meetmind/internal/adapters/ai/groq"
	"github.com/vncsmyrnk/meetmind/internal/adapters/calendar/google"
	"github.com/vncsmyrnk/meetmind/internal/adapters/handler/http"
	"github.com/vncsmyrnk/meetmind/internal/adapters/webhook"
	"github.com/vncsmyrnk/meetmind/internal/bootstrap"
	"github.com/vncsmyrnk/meetmind/internal/config"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
	"github.com/vncsmyrnk/meetmind/internal/core/services"
	"github.com/vncsmyrnk/meetmind/internal/logger"
)

const startupTimeout = 30 * time.Second

func main() {
	cfg := config.MustLoad()
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		stop()
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		Output:    os.Stderr,
		AddSource: cfg.Log.Level == "debug",
		File:      cfg.Log.File,
	})
}

// run serves until ctx is cancelled, then shuts the server down gracefully.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	startCtx, cancelStart := context.WithTimeout(ctx, startupTimeout)
	defer cancelStart()

	repo, closeRepo, err := bootstrap.OpenRepository(startCtx, cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to open %s repository: %w", cfg.DB.Driver, err)
	}
	defer closeRepo(context.Background())

	blobs, err := bootstrap.NewBlobStore(startCtx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create %s blob store: %w", cfg.Storage.Driver, err)
	}

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newHandler(cfg, log, repo, blobs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr, "db_driver", cfg.DB.Driver, "storage_driver", cfg.Storage.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	log.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// newHandler wires the services and adapters behind the HTTP router.
func newHandler(cfg *config.Config, log *slog.Logger, repo ports.MeetingRepository, blobs ports.BlobStore) stdhttp.Handler {
	ai := groq.NewClient(groq.Config{
		APIKey:             cfg.AI.APIKey,
		BaseURL:            cfg.AI.BaseURL,
		TranscriptionModel: cfg.AI.TranscriptionModel,
		SummaryModel:       cfg.AI.SummaryModel,
		Timeout:            cfg.AI.Timeout,
	})
	if cfg.AI.APIKey == "" {
		log.Warn("GROQ_API_KEY is not set, processing endpoints will fail")
	}

	calendar := google.NewCalendar(cfg.GoogleCalendarEndpoint)
	notifier := webhook.NewNotifier(cfg.PostMeetingWebhookURL, 0)

	meetingService := services.NewMeetingService(repo, calendar, blobs, cfg.DefaultTimeZone)
	processingService := services.NewProcessingService(repo, ai, ai, blobs, cfg.AI.MaxUploadBytes)
	shareService := services.NewShareService(repo, notifier)

	return http.NewHandler(log,
		http.NewMeetingHandler(meetingService, processingService, shareService, cfg.AI.MaxUploadBytes),
		http.NewProcessHandler(processingService, cfg.AI.MaxUploadBytes))
}

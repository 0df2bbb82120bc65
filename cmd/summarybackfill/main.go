package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vncsmyrnk/meetmind/internal/adapters/ai/groq"
	"github.com/vncsmyrnk/meetmind/internal/bootstrap"
	"github.com/vncsmyrnk/meetmind/internal/config"
	"github.com/vncsmyrnk/meetmind/internal/core/services"
	"github.com/vncsmyrnk/meetmind/internal/logger"
)

func main() {
	var dbDriver, dbURL, mongoURI string
	var timeout time.Duration
	flag.StringVar(&dbDriver, "db-driver", "", "Database driver (postgres or mongo), overrides DB_DRIVER")
	flag.StringVar(&dbURL, "database-url", "", "Postgres connection string, overrides DATABASE_URL")
	flag.StringVar(&mongoURI, "mongodb-uri", "", "MongoDB connection string, overrides MONGODB_URI")
	flag.DurationVar(&timeout, "timeout", 5*time.Minute, "Maximum job duration")
	flag.Parse()

	overrideEnv("DB_DRIVER", dbDriver)
	overrideEnv("DATABASE_URL", dbURL)
	overrideEnv("MONGODB_URI", mongoURI)

	cfg := config.MustLoad()

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
		File:   cfg.Log.File,
	})

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	log.Info("starting summary backfill")

	n, err := run(ctx, cfg)
	if err != nil {
		log.Error("summary backfill failed", "error", err, "summarized", n)
		cancel()
		os.Exit(1)
	}

	log.Info("summary backfill completed", "summarized", n)
}

// run summarizes every pending meeting once and reports how many were done.
func run(ctx context.Context, cfg *config.Config) (int, error) {
	repo, closeRepo, err := bootstrap.OpenRepository(ctx, cfg.DB)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s repository: %w", cfg.DB.Driver, err)
	}
	defer func() {
		if err := closeRepo(context.Background()); err != nil {
			logger.FromContext(ctx).Warn("failed to close repository", slog.String("error", err.Error()))
		}
	}()

	ai := groq.NewClient(groq.Config{
		APIKey:             cfg.AI.APIKey,
		BaseURL:            cfg.AI.BaseURL,
		TranscriptionModel: cfg.AI.TranscriptionModel,
		SummaryModel:       cfg.AI.SummaryModel,
		Timeout:            cfg.AI.Timeout,
	})

	processing := services.NewProcessingService(repo, ai, ai, nil, cfg.AI.MaxUploadBytes)
	return services.NewSummaryService(repo, processing).SummarizePending(ctx)
}

func overrideEnv(key, value string) {
	if value != "" {
		os.Setenv(key, value)
	}
}

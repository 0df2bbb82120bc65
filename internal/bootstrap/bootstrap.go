// Package bootstrap builds the adapters selected by configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	mongoadapter "github.com/vncsmyrnk/meetmind/internal/adapters/repository/mongo"
	"github.com/vncsmyrnk/meetmind/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/meetmind/internal/adapters/storage/local"
	"github.com/vncsmyrnk/meetmind/internal/adapters/storage/s3"
	"github.com/vncsmyrnk/meetmind/internal/config"
	"github.com/vncsmyrnk/meetmind/internal/core/ports"
)

// OpenRepository connects to the configured database. The returned close
// function releases the connection pool.
func OpenRepository(ctx context.Context, cfg config.DBConfig) (ports.MeetingRepository, func(context.Context) error, error) {
	switch cfg.Driver {
	case "postgres":
		db, err := sql.Open("postgres", cfg.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping postgres: %w", err)
		}
		closeFn := func(context.Context) error { return db.Close() }
		return postgres.NewMeetingRepository(db), closeFn, nil

	case "mongo":
		client, err := mongoadapter.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.MongoDatabase)
		if err := mongoadapter.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return mongoadapter.NewMeetingRepository(db), client.Disconnect, nil

	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.Driver)
	}
}

// NewBlobStore returns the configured blob store.
func NewBlobStore(ctx context.Context, cfg config.StorageConfig) (ports.BlobStore, error) {
	switch cfg.Driver {
	case "local":
		return local.NewStore(cfg.LocalPath, cfg.PublicURL)
	case "s3":
		return s3.NewStore(ctx, s3.Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			Endpoint:       cfg.S3Endpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			ForcePathStyle: cfg.S3PathStyle,
			PublicURL:      cfg.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Driver)
	}
}

// Package db opens the storage backend selected by configuration.
package db

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hbnb/hbnb-api/internal/core/ports"
	"github.com/hbnb/hbnb-api/internal/infrastructure/db/filestore"
	"github.com/hbnb/hbnb-api/internal/infrastructure/db/mongo"
	"github.com/hbnb/hbnb-api/internal/infrastructure/db/relational"
	"github.com/hbnb/hbnb-api/internal/pkg/config"
)

// Open returns the engine named by cfg.Storage. The backend is fixed for the
// lifetime of the process.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.Engine, error) {
	log = log.With().Str("storage", cfg.Storage).Logger()

	var (
		engine ports.Engine
		err    error
	)
	switch cfg.Storage {
	case config.StorageFile:
		engine, err = asEngine(filestore.Open(filestore.Config{Path: cfg.FilePath}, log))
	case config.StorageDB:
		engine, err = asEngine(relational.Open(ctx, relational.Config{
			Driver: cfg.Database.Driver,
			DSN:    cfg.Database.ConnString(),
		}, log))
	case config.StorageMongo:
		engine, err = asEngine(mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database}, log))
	default:
		return nil, fmt.Errorf("db: unknown storage %q", cfg.Storage)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("backend", engine.Name()).Msg("storage opened")
	return engine, nil
}

// asEngine keeps a failed open from yielding a non-nil interface.
func asEngine[E ports.Engine](e E, err error) (ports.Engine, error) {
	if err != nil {
		return nil, err
	}
	return e, nil
}

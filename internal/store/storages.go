package store

import (
	"context"
	"fmt"

	"whisp/internal/config"
	"whisp/internal/logger"
)

// Storages bundles every persistence backend the service layer depends on.
type Storages struct {
	WhispRepository WhispRepository
	BlobStorage     BlobStorage

	db *DB
}

// NewStorages opens the record database, applies pending migrations and
// prepares the blob directory.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migrations: %w", err)
	}

	blobs, err := NewWhispBlobStorage(cfg.Files.BinaryDataDir, log)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing blob storage: %w", err)
	}

	return &Storages{
		WhispRepository: NewWhispRepository(db, log),
		BlobStorage:     blobs,
		db:              db,
	}, nil
}

// Close releases the underlying database connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

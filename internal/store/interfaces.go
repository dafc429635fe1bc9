package store

import (
	"context"
	"io"
	"time"

	"whisp/models"
)

// WhispRepository is the persistent record store for whisps.
//
// ClaimAndDelete is the concurrency-critical primitive: it removes the
// record and returns its previous contents in one atomic storage operation,
// so that of any number of racing claims (retrievals or the sweeper) exactly
// one observes the record and every other caller gets [ErrWhispNotFound].
type WhispRepository interface {
	// Create persists a new whisp. Returns ErrWhispAlreadyExists if the id
	// is already taken.
	Create(ctx context.Context, whisp models.Whisp) error

	// Get returns the whisp without mutating it, or ErrWhispNotFound.
	// Expiry is not checked here; callers decide what "visible" means.
	Get(ctx context.Context, id string) (models.Whisp, error)

	// ClaimAndDelete atomically deletes the whisp and returns its previous
	// state, provided it exists and expires strictly after now. Returns
	// ErrWhispNotFound otherwise — including when a concurrent claim won.
	ClaimAndDelete(ctx context.Context, id string, now time.Time) (models.Whisp, error)

	// Delete removes the whisp. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// Exists reports whether a record with the given id is present,
	// regardless of expiry.
	Exists(ctx context.Context, id string) (bool, error)

	// FindExpired returns every whisp whose expiry is at or before now.
	// Rows are not deleted: the caller removes blobs first, then records.
	FindExpired(ctx context.Context, now time.Time) ([]models.Whisp, error)
}

// BlobStorage persists whisp file payloads outside the relational store.
// Blobs are keyed by record id only; client-supplied filenames never reach
// the storage path.
type BlobStorage interface {
	// Save streams r into the blob for id and returns the byte count.
	// The write is atomic: a partially written blob is never visible.
	Save(ctx context.Context, id string, r io.Reader) (int64, error)

	// Open returns a reader over the blob, or ErrBlobNotFound.
	Open(ctx context.Context, id string) (io.ReadCloser, error)

	// Exists reports whether the blob for id is present on the medium.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes the blob. Deleting an absent blob is a no-op.
	Delete(ctx context.Context, id string) error

	// ModTime returns when the blob was last written, or ErrBlobNotFound.
	ModTime(ctx context.Context, id string) (time.Time, error)

	// List returns the ids of every stored blob. Used by the sweeper to
	// reap blobs whose record is already gone.
	List(ctx context.Context) ([]string, error)
}

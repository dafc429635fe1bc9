package service

//go:generate mockgen -source=interfaces.go -destination=../mock/whisp_service_mock.go -package=mock

import (
	"context"
	"io"
	"time"

	"whisp/models"
)

// WhispService is the whisp lifecycle: creation, at-most-once retrieval, and
// destruction of expired leftovers.
type WhispService interface {
	// Create validates the request, generates an id and persists the whisp.
	// For file whisps the blob is written before the record so that a
	// visible record always has its blob.
	Create(ctx context.Context, req models.CreateWhispRequest) (models.Whisp, error)

	// Retrieve returns the whisp, consuming it when it is text-only. File
	// whisps are returned without consumption; OpenFile performs the claim.
	// Missing, expired, and already-consumed ids are indistinguishable:
	// all return store.ErrWhispNotFound.
	Retrieve(ctx context.Context, id string, password string) (models.Whisp, error)

	// OpenFile consumes a file whisp and streams its blob. The blob is
	// removed when the returned reader is closed.
	OpenFile(ctx context.Context, id string, password string) (io.ReadCloser, models.Whisp, error)

	// PurgeExpired destroys every whisp expired at now, blob first, and
	// returns the number of records removed.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)

	// ReapOrphanBlobs removes blobs whose record no longer exists and
	// returns the number reaped.
	ReapOrphanBlobs(ctx context.Context) (int, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"whisp/internal/config"
	"whisp/internal/crypto"
	"whisp/internal/logger"
	"whisp/internal/store"
	"whisp/internal/utils"
	"whisp/models"
)

const (
	// TTL bounds in minutes. The default applies when the client omits the
	// field entirely; an explicit zero is rejected.
	TTLMinMinutes     = 1
	TTLMaxMinutes     = 10080 // 7 days
	TTLDefaultMinutes = 60
)

type whispService struct {
	whispRepository store.WhispRepository
	blobStorage     store.BlobStorage

	maxBlobBytes int64
	uuid         *utils.UUIDGenerator
	logger       *logger.Logger
}

// NewWhispService wires the lifecycle manager over the record and blob
// stores. cfg supplies the blob size cap.
func NewWhispService(whispRepository store.WhispRepository, blobStorage store.BlobStorage, cfg config.Storage, logger *logger.Logger) WhispService {
	return &whispService{
		whispRepository: whispRepository,
		blobStorage:     blobStorage,
		maxBlobBytes:    cfg.Files.MaxBlobBytes,
		uuid:            utils.NewUUIDGenerator(),
		logger:          logger,
	}
}

// Create validates the request and persists a new whisp. For file whisps the
// blob is written before the record: a record visible to readers always has
// its blob, and a blob without a record is cleaned up by the orphan reaper.
func (s *whispService) Create(ctx context.Context, req models.CreateWhispRequest) (models.Whisp, error) {
	log := logger.FromContext(ctx)

	ttl := req.TTLMinutes
	if ttl < TTLMinMinutes || ttl > TTLMaxMinutes {
		return models.Whisp{}, fmt.Errorf("%w: %d minutes", ErrInvalidTTL, ttl)
	}

	if req.File == nil && req.EncryptedPayload == "" {
		return models.Whisp{}, fmt.Errorf("%w: empty payload", ErrInvalidDataProvided)
	}
	if int64(len(req.EncryptedPayload)) > s.maxBlobBytes {
		return models.Whisp{}, fmt.Errorf("%w: payload exceeds %d bytes", ErrPayloadTooLarge, s.maxBlobBytes)
	}

	var passwordHash string
	if req.Password != "" {
		hash, err := crypto.HashPassword(req.Password)
		if err != nil {
			log.Err(err).Str("func", "whispService.Create").Msg("failed to hash password")
			return models.Whisp{}, fmt.Errorf("hashing password: %w", err)
		}
		passwordHash = hash
	}

	now := time.Now().UTC()
	whisp := models.Whisp{
		ID:               s.uuid.Generate(),
		EncryptedPayload: req.EncryptedPayload,
		IsFile:           req.File != nil,
		PasswordHash:     passwordHash,
		CreatedAt:        now,
		ExpiresAt:        now.Add(time.Duration(ttl) * time.Minute),
		MaxAccess:        1,
	}

	if whisp.IsFile {
		if err := s.saveBlob(ctx, whisp.ID, req.File); err != nil {
			return models.Whisp{}, err
		}
	}

	if err := s.whispRepository.Create(ctx, whisp); err != nil {
		if whisp.IsFile {
			// Compensate: a record insert failure must not leave the blob
			// behind.
			if delErr := s.blobStorage.Delete(ctx, whisp.ID); delErr != nil {
				log.Err(delErr).
					Str("func", "whispService.Create").
					Str("whisp_id", whisp.ID).
					Msg("failed to remove blob after record insert failure")
			}
		}
		return models.Whisp{}, err
	}

	return whisp, nil
}

// saveBlob streams the upload into the blob store, enforcing the size cap.
// One byte past the cap is enough to reject; the partial blob is removed.
func (s *whispService) saveBlob(ctx context.Context, id string, r io.Reader) error {
	log := logger.FromContext(ctx)

	written, err := s.blobStorage.Save(ctx, id, io.LimitReader(r, s.maxBlobBytes+1))
	if err != nil {
		log.Err(err).Str("func", "whispService.saveBlob").Str("whisp_id", id).Msg("failed to save blob")
		return fmt.Errorf("saving blob: %w", err)
	}

	if written > s.maxBlobBytes {
		if delErr := s.blobStorage.Delete(ctx, id); delErr != nil {
			log.Err(delErr).Str("func", "whispService.saveBlob").Str("whisp_id", id).Msg("failed to remove oversized blob")
		}
		return fmt.Errorf("%w: file exceeds %d bytes", ErrPayloadTooLarge, s.maxBlobBytes)
	}

	return nil
}

// Retrieve implements the at-most-once read. Text whisps are claimed and
// destroyed here; file whisps are returned without consumption so the
// client can follow up with OpenFile. A wrong password never consumes the
// record, so the rightful reader keeps their one chance.
func (s *whispService) Retrieve(ctx context.Context, id string, password string) (models.Whisp, error) {
	log := logger.FromContext(ctx)
	now := time.Now().UTC()

	whisp, err := s.checkAccess(ctx, id, password, now)
	if err != nil {
		return models.Whisp{}, err
	}

	if whisp.IsFile {
		// Self-heal: a record whose blob vanished is unservable. Remove it
		// so the id stops answering.
		ok, existsErr := s.blobStorage.Exists(ctx, id)
		if existsErr != nil {
			log.Err(existsErr).Str("func", "whispService.Retrieve").Str("whisp_id", id).Msg("failed to check blob existence")
			return models.Whisp{}, fmt.Errorf("checking blob: %w", existsErr)
		}
		if !ok {
			log.Warn().Str("func", "whispService.Retrieve").Str("whisp_id", id).Msg("record has no blob, removing dangling record")
			if delErr := s.whispRepository.Delete(ctx, id); delErr != nil {
				log.Err(delErr).Str("func", "whispService.Retrieve").Str("whisp_id", id).Msg("failed to remove dangling record")
			}
			return models.Whisp{}, store.ErrWhispNotFound
		}

		return whisp, nil
	}

	claimed, err := s.whispRepository.ClaimAndDelete(ctx, id, now)
	if err != nil {
		// A concurrent claim may have won between Get and here.
		return models.Whisp{}, err
	}

	return claimed, nil
}

// OpenFile consumes a file whisp and returns a stream over its blob. The
// record is claimed before the blob is opened; the blob itself is deleted
// when the returned reader is closed, with the orphan reaper as backstop
// should the deferred delete fail.
func (s *whispService) OpenFile(ctx context.Context, id string, password string) (io.ReadCloser, models.Whisp, error) {
	log := logger.FromContext(ctx)
	now := time.Now().UTC()

	whisp, err := s.lookupLive(ctx, id, now)
	if err != nil {
		return nil, models.Whisp{}, err
	}
	if !whisp.IsFile {
		// A text id probed via the file route must be indistinguishable
		// from a missing one, and must not reach the password check.
		return nil, models.Whisp{}, store.ErrWhispNotFound
	}
	if err := verifyPassword(whisp, password); err != nil {
		return nil, models.Whisp{}, err
	}

	claimed, err := s.whispRepository.ClaimAndDelete(ctx, id, now)
	if err != nil {
		return nil, models.Whisp{}, err
	}

	blob, err := s.blobStorage.Open(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrBlobNotFound) {
			// The record is already gone; the claim doubled as self-heal.
			log.Warn().Str("func", "whispService.OpenFile").Str("whisp_id", id).Msg("claimed record had no blob")
			return nil, models.Whisp{}, store.ErrWhispNotFound
		}
		log.Err(err).Str("func", "whispService.OpenFile").Str("whisp_id", id).Msg("failed to open blob")
		return nil, models.Whisp{}, fmt.Errorf("opening blob: %w", err)
	}

	deleteCtx := context.WithoutCancel(ctx)
	rc := &consumingReadCloser{
		ReadCloser: blob,
		onClose: func() {
			if delErr := s.blobStorage.Delete(deleteCtx, id); delErr != nil {
				log.Err(delErr).Str("func", "whispService.OpenFile").Str("whisp_id", id).Msg("failed to remove blob after download")
			}
		},
	}

	return rc, claimed, nil
}

// checkAccess performs the read-only part of retrieval: lookup, expiry
// check, and password verification. Expired rows not yet swept are treated
// as absent.
func (s *whispService) checkAccess(ctx context.Context, id string, password string, now time.Time) (models.Whisp, error) {
	whisp, err := s.lookupLive(ctx, id, now)
	if err != nil {
		return models.Whisp{}, err
	}

	if err := verifyPassword(whisp, password); err != nil {
		return models.Whisp{}, err
	}

	return whisp, nil
}

// lookupLive returns the record only if it exists and has not expired.
func (s *whispService) lookupLive(ctx context.Context, id string, now time.Time) (models.Whisp, error) {
	whisp, err := s.whispRepository.Get(ctx, id)
	if err != nil {
		return models.Whisp{}, err
	}

	if whisp.Expired(now) {
		return models.Whisp{}, store.ErrWhispNotFound
	}

	return whisp, nil
}

func verifyPassword(whisp models.Whisp, password string) error {
	if whisp.HasPassword() && !crypto.VerifyPassword(password, whisp.PasswordHash) {
		return ErrWrongPassword
	}
	return nil
}

// PurgeExpired destroys every whisp expired at now. Blobs are removed before
// their records so an interrupted sweep never leaves a record pointing at
// nothing; an orphaned blob left by the reverse failure is reclaimed by
// ReapOrphanBlobs. Failures on one id do not stop the sweep.
func (s *whispService) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	log := logger.FromContext(ctx)

	expired, err := s.whispRepository.FindExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("finding expired whisps: %w", err)
	}

	purged := 0
	for _, whisp := range expired {
		if whisp.IsFile {
			if err := s.blobStorage.Delete(ctx, whisp.ID); err != nil {
				log.Err(err).Str("func", "whispService.PurgeExpired").Str("whisp_id", whisp.ID).Msg("failed to remove expired blob, skipping record")
				continue
			}
		}

		if err := s.whispRepository.Delete(ctx, whisp.ID); err != nil {
			log.Err(err).Str("func", "whispService.PurgeExpired").Str("whisp_id", whisp.ID).Msg("failed to remove expired record")
			continue
		}

		purged++
	}

	return purged, nil
}

// orphanBlobGracePeriod is how old a recordless blob must be before the
// reaper may remove it. Create writes the blob before inserting the record,
// so a fresh blob without a record is usually a creation still in flight,
// not an orphan.
const orphanBlobGracePeriod = 15 * time.Minute

// ReapOrphanBlobs deletes blobs whose record no longer exists: leftovers of
// interrupted creations and of downloads whose deferred blob delete failed.
// Blobs younger than the grace period are left alone.
func (s *whispService) ReapOrphanBlobs(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)
	now := time.Now()

	ids, err := s.blobStorage.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing blobs: %w", err)
	}

	reaped := 0
	for _, id := range ids {
		exists, err := s.whispRepository.Exists(ctx, id)
		if err != nil {
			log.Err(err).Str("func", "whispService.ReapOrphanBlobs").Str("whisp_id", id).Msg("failed to check record existence")
			continue
		}
		if exists {
			continue
		}

		modTime, err := s.blobStorage.ModTime(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrBlobNotFound) {
				// Deleted since List, nothing left to reap.
				continue
			}
			log.Err(err).Str("func", "whispService.ReapOrphanBlobs").Str("whisp_id", id).Msg("failed to check blob age")
			continue
		}
		if now.Sub(modTime) < orphanBlobGracePeriod {
			continue
		}

		if err := s.blobStorage.Delete(ctx, id); err != nil {
			log.Err(err).Str("func", "whispService.ReapOrphanBlobs").Str("whisp_id", id).Msg("failed to remove orphaned blob")
			continue
		}

		reaped++
	}

	return reaped, nil
}

// consumingReadCloser runs onClose once after the underlying reader closes.
type consumingReadCloser struct {
	io.ReadCloser
	onClose func()
	closed  bool
}

func (c *consumingReadCloser) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	err := c.ReadCloser.Close()
	c.onClose()
	return err
}

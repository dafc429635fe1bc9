package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"whisp/internal/logger"
)

// whispBlobStorage is the filesystem implementation of [BlobStorage]. Each
// blob lives in a flat directory under a name derived from the record id
// alone; client-supplied filenames never influence the path. Writes go to a
// temp file first and are renamed into place, so a blob is either fully
// present or absent — readers never observe a partial upload.
type whispBlobStorage struct {
	root   string
	logger *logger.Logger
}

// NewWhispBlobStorage constructs a [BlobStorage] rooted at dir, creating the
// directory if it does not exist.
func NewWhispBlobStorage(dir string, log *logger.Logger) (BlobStorage, error) {
	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving blob root path: %w", err)
	}
	if err := os.MkdirAll(absRoot, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob root directory: %w", err)
	}

	return &whispBlobStorage{
		root:   absRoot,
		logger: log,
	}, nil
}

// Save streams r into the blob for id and returns the number of bytes
// written. The data is first written to a temp file in the same directory
// and renamed over the destination, making the write atomic.
func (s *whispBlobStorage) Save(ctx context.Context, id string, r io.Reader) (int64, error) {
	log := logger.FromContext(ctx)

	path, err := s.blobPath(id)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp blob file: %w", err)
	}
	tmpPath := tmp.Name()

	// Clean up the temp file on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmp, r)
	if err != nil {
		log.Err(err).Str("func", "whispBlobStorage.Save").Str("whisp_id", id).Msg("failed to write blob data")
		return 0, fmt.Errorf("writing blob data: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("syncing blob file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp blob file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		log.Err(err).Str("func", "whispBlobStorage.Save").Str("whisp_id", id).Msg("failed to move blob into place")
		return 0, fmt.Errorf("renaming temp blob file: %w", err)
	}

	success = true
	return written, nil
}

// Open returns a reader over the stored blob, or [ErrBlobNotFound].
func (s *whispBlobStorage) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	path, err := s.blobPath(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("opening blob file: %w", err)
	}

	return f, nil
}

// Exists reports whether the blob for id is present on disk.
func (s *whispBlobStorage) Exists(ctx context.Context, id string) (bool, error) {
	path, err := s.blobPath(id)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}

	return false, fmt.Errorf("checking blob file: %w", err)
}

// ModTime returns when the blob for id was last written.
func (s *whispBlobStorage) ModTime(ctx context.Context, id string) (time.Time, error) {
	path, err := s.blobPath(id)
	if err != nil {
		return time.Time{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, ErrBlobNotFound
		}
		return time.Time{}, fmt.Errorf("checking blob file: %w", err)
	}

	return info.ModTime(), nil
}

// Delete removes the blob for id. Deleting an absent blob is a no-op.
func (s *whispBlobStorage) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	path, err := s.blobPath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Err(err).Str("func", "whispBlobStorage.Delete").Str("whisp_id", id).Msg("failed to remove blob file")
		return fmt.Errorf("removing blob file: %w", err)
	}

	return nil
}

// List returns the ids of every stored blob, skipping in-flight temp files.
func (s *whispBlobStorage) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("reading blob directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".tmp-") {
			continue
		}
		ids = append(ids, entry.Name())
	}

	return ids, nil
}

// blobPath maps a record id to its on-disk location. Ids are generated
// server-side, but path-unsafe input is still rejected outright.
func (s *whispBlobStorage) blobPath(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", errors.New("invalid blob id")
	}

	return filepath.Join(s.root, id), nil
}

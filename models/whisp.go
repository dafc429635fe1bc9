package models

import (
	"io"
	"time"
)

// Whisp is a single self-destructing secret: a client-side-encrypted payload
// (or a reference to an uploaded file) that is readable at most once and is
// destroyed when its expiry passes.
//
// The server never sees plaintext — EncryptedPayload is opaque to it. When
// IsFile is true a companion blob exists in the file store under a path
// derived from ID, and EncryptedPayload carries whatever metadata the client
// chose to attach to the upload.
type Whisp struct {
	// ID is the opaque unique identifier, generated at creation. It is the
	// sole lookup key and also keys the blob store.
	ID string

	// EncryptedPayload is the ciphertext envelope produced by the client,
	// or client-supplied file metadata when IsFile is set.
	EncryptedPayload string

	// IsFile reports whether a binary artifact accompanies this record.
	IsFile bool

	// PasswordHash is the bcrypt digest of the optional access password.
	// Empty means no server-side gating beyond existence and expiry.
	PasswordHash string

	CreatedAt time.Time

	// ExpiresAt is fixed at creation and never mutated afterwards.
	ExpiresAt time.Time

	// MaxAccess and AccessCount are reserved for future multi-access
	// semantics. The current lifecycle always behaves as MaxAccess=1:
	// the record is destroyed on its first successful retrieval.
	MaxAccess   int
	AccessCount int
}

// HasPassword reports whether retrieval of this whisp is password-gated.
func (w Whisp) HasPassword() bool {
	return w.PasswordHash != ""
}

// Expired reports whether the whisp's lifetime has passed at the given instant.
func (w Whisp) Expired(now time.Time) bool {
	return !now.Before(w.ExpiresAt)
}

// CreateWhispRequest carries everything needed to create a whisp.
type CreateWhispRequest struct {
	// EncryptedPayload is required unless File is attached.
	EncryptedPayload string

	// TTLMinutes is the requested lifetime in minutes. The transport layer
	// fills in the default when the client omits the field; out-of-range
	// values (zero included) are rejected.
	TTLMinutes int

	// Password optionally gates retrieval. Hashed before storage,
	// never persisted in the clear.
	Password string

	// File is the optional binary attachment. A nil reader means a
	// text-only whisp.
	File io.Reader
}

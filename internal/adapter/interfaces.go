// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating
// with the whisp server.
//
// The primary abstraction is [ServerAdapter], which decouples client code
// from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"io"

	"whisp/models"
)

// CreateRequest carries the fields of a whisp creation call. File and
// FileName are both set for file whisps; File is streamed as a multipart
// attachment.
type CreateRequest struct {
	EncryptedPayload string
	TTLMinutes       int
	Password         string
	File             io.Reader
	FileName         string
}

// ServerAdapter defines transport-agnostic communication with the whisp
// server. Implementations are responsible for serialisation and for mapping
// transport-level errors to the sentinel values defined in this package.
type ServerAdapter interface {
	// CreateWhisp submits a new whisp and returns the server's view of it.
	CreateWhisp(ctx context.Context, req CreateRequest) (models.WhispResponse, error)

	// ClaimWhisp performs the one-time read of a whisp. For file whisps the
	// returned record carries metadata only; follow up with
	// DownloadWhispFile for the consuming transfer.
	ClaimWhisp(ctx context.Context, id string, password string) (models.WhispResponse, error)

	// DownloadWhispFile streams the blob of a file whisp into dst,
	// consuming the whisp.
	DownloadWhispFile(ctx context.Context, id string, password string, dst io.Writer) error
}

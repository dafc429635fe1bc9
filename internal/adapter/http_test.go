// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisp/internal/logger"
	"whisp/models"
)

func newTestAdapter(t *testing.T, handler http.Handler) ServerAdapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewHTTPServerAdapter(srv.URL, 5*time.Second, logger.Nop())
	require.NoError(t, err)
	return a
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain host gets a scheme", "localhost:8080", "http://localhost:8080", false},
		{"trailing slash is trimmed", "http://example.com/", "http://example.com", false},
		{"https is preserved", "https://whisp.example.com", "https://whisp.example.com", false},
		{"empty address", "   ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHTTPAdapterCreateWhisp(t *testing.T) {
	t.Run("submits form and decodes response", func(t *testing.T) {
		var gotPayload, gotTTL string
		a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/whisps", r.URL.Path)
			require.NoError(t, r.ParseForm())
			gotPayload = r.FormValue("encrypted_payload")
			gotTTL = r.FormValue("ttl_minutes")

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(models.WhispResponse{ID: "new-id", EncryptedPayload: gotPayload})
		}))

		created, err := a.CreateWhisp(context.Background(), CreateRequest{
			EncryptedPayload: "ciphertext",
			TTLMinutes:       10,
		})

		require.NoError(t, err)
		assert.Equal(t, "new-id", created.ID)
		assert.Equal(t, "ciphertext", gotPayload)
		assert.Equal(t, "10", gotTTL)
	})

	t.Run("attaches the file part", func(t *testing.T) {
		var uploaded string
		a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			f, _, err := r.FormFile("file")
			require.NoError(t, err)
			defer f.Close()

			var buf bytes.Buffer
			_, err = buf.ReadFrom(f)
			require.NoError(t, err)
			uploaded = buf.String()

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(models.WhispResponse{ID: "file-id", IsFile: true})
		}))

		created, err := a.CreateWhisp(context.Background(), CreateRequest{
			TTLMinutes: 10,
			File:       strings.NewReader("encrypted file bytes"),
			FileName:   "secret.bin",
		})

		require.NoError(t, err)
		assert.True(t, created.IsFile)
		assert.Equal(t, "encrypted file bytes", uploaded)
	})

	t.Run("maps 400 to ErrBadRequest", func(t *testing.T) {
		a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "ttl out of range"})
		}))

		_, err := a.CreateWhisp(context.Background(), CreateRequest{TTLMinutes: 0})

		require.ErrorIs(t, err, ErrBadRequest)
		assert.Contains(t, err.Error(), "ttl out of range")
	})
}

func TestHTTPAdapterClaimWhisp(t *testing.T) {
	t.Run("passes the password as a query parameter", func(t *testing.T) {
		a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/whisps/some-id", r.URL.Path)
			require.Equal(t, "securepassword", r.URL.Query().Get("password"))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(models.WhispResponse{ID: "some-id", EncryptedPayload: "ciphertext"})
		}))

		claimed, err := a.ClaimWhisp(context.Background(), "some-id", "securepassword")

		require.NoError(t, err)
		assert.Equal(t, "ciphertext", claimed.EncryptedPayload)
	})

	t.Run("maps 404 to ErrNotFound", func(t *testing.T) {
		a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "whisp not found"})
		}))

		_, err := a.ClaimWhisp(context.Background(), "gone", "")

		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("maps 401 to ErrUnauthorized", func(t *testing.T) {
		a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "wrong password"})
		}))

		_, err := a.ClaimWhisp(context.Background(), "locked", "nope")

		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestHTTPAdapterDownloadWhispFile(t *testing.T) {
	t.Run("streams the blob", func(t *testing.T) {
		a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/whisps/file-id/file", r.URL.Path)
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("encrypted file bytes"))
		}))

		var dst bytes.Buffer
		err := a.DownloadWhispFile(context.Background(), "file-id", "", &dst)

		require.NoError(t, err)
		assert.Equal(t, "encrypted file bytes", dst.String())
	})

	t.Run("maps 404 without writing to dst", func(t *testing.T) {
		a := newTestAdapter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: "whisp not found"})
		}))

		var dst bytes.Buffer
		err := a.DownloadWhispFile(context.Background(), "gone", "", &dst)

		require.ErrorIs(t, err, ErrNotFound)
		assert.Zero(t, dst.Len())
	})
}

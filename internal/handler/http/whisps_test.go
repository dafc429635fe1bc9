// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"whisp/internal/logger"
	"whisp/internal/mock"
	"whisp/internal/service"
	"whisp/internal/store"
	"whisp/models"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func newTestRouter(t *testing.T) (*chi.Mux, *mock.MockWhispService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	whispSvc := mock.NewMockWhispService(ctrl)

	handler := NewHandler(&service.Services{WhispService: whispSvc}, logger.Nop())
	return handler.Init(), whispSvc
}

func doRequest(t *testing.T, router *chi.Mux, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeWhisp(t *testing.T, body *bytes.Buffer) models.WhispResponse {
	t.Helper()
	var resp models.WhispResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func decodeError(t *testing.T, body *bytes.Buffer) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func sampleWhisp(id string) models.Whisp {
	now := time.Now().UTC().Truncate(time.Second)
	return models.Whisp{
		ID:               id,
		EncryptedPayload: "ciphertext",
		CreatedAt:        now,
		ExpiresAt:        now.Add(time.Hour),
		MaxAccess:        1,
	}
}

// ─────────────────────────────────────────────
// POST /api/whisps
// ─────────────────────────────────────────────

func TestHandlerCreate(t *testing.T) {
	t.Run("urlencoded form", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)
		whisp := sampleWhisp("new-id")

		whispSvc.EXPECT().
			Create(gomock.Any(), models.CreateWhispRequest{
				EncryptedPayload: "ciphertext",
				TTLMinutes:       10,
				Password:         "pw",
			}).
			Return(whisp, nil)

		form := url.Values{
			"encrypted_payload": {"ciphertext"},
			"ttl_minutes":       {"10"},
			"password":          {"pw"},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/whisps", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeWhisp(t, rec.Body)
		assert.Equal(t, whisp.ID, resp.ID)
		assert.Equal(t, whisp.EncryptedPayload, resp.EncryptedPayload)
		assert.False(t, resp.IsFile)
	})

	t.Run("omitted ttl falls back to the default", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)

		whispSvc.EXPECT().
			Create(gomock.Any(), models.CreateWhispRequest{
				EncryptedPayload: "ciphertext",
				TTLMinutes:       service.TTLDefaultMinutes,
			}).
			Return(sampleWhisp("new-id"), nil)

		form := url.Values{"encrypted_payload": {"ciphertext"}}
		req := httptest.NewRequest(http.MethodPost, "/api/whisps", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("multipart form with file", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)

		var uploaded string
		whispSvc.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req models.CreateWhispRequest) (models.Whisp, error) {
				require.NotNil(t, req.File)
				data, err := io.ReadAll(req.File)
				require.NoError(t, err)
				uploaded = string(data)

				whisp := sampleWhisp("file-id")
				whisp.IsFile = true
				return whisp, nil
			})

		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("ttl_minutes", "10"))
		part, err := mw.CreateFormFile("file", "secret.bin")
		require.NoError(t, err)
		_, err = part.Write([]byte("encrypted file bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/whisps", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "encrypted file bytes", uploaded)
		assert.True(t, decodeWhisp(t, rec.Body).IsFile)
	})

	t.Run("unparseable ttl", func(t *testing.T) {
		router, _ := newTestRouter(t)

		form := url.Values{
			"encrypted_payload": {"ciphertext"},
			"ttl_minutes":       {"soon"},
		}
		req := httptest.NewRequest(http.MethodPost, "/api/whisps", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotEmpty(t, decodeError(t, rec.Body).Error)
	})

	t.Run("service rejections map to statuses", func(t *testing.T) {
		tests := []struct {
			name       string
			serviceErr error
			wantStatus int
		}{
			{"invalid ttl", service.ErrInvalidTTL, http.StatusBadRequest},
			{"empty payload", service.ErrInvalidDataProvided, http.StatusBadRequest},
			{"file too large", service.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
			{"storage failure", store.ErrExecutingStatement, http.StatusInternalServerError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router, whispSvc := newTestRouter(t)

				whispSvc.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(models.Whisp{}, tt.serviceErr)

				form := url.Values{"encrypted_payload": {"ciphertext"}}
				req := httptest.NewRequest(http.MethodPost, "/api/whisps", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

				rec := doRequest(t, router, req)

				require.Equal(t, tt.wantStatus, rec.Code)
				assert.NotEmpty(t, decodeError(t, rec.Body).Error)
			})
		}
	})

	t.Run("internal failures carry no detail", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)

		whispSvc.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(models.Whisp{}, store.ErrExecutingStatement)

		form := url.Values{"encrypted_payload": {"ciphertext"}}
		req := httptest.NewRequest(http.MethodPost, "/api/whisps", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", decodeError(t, rec.Body).Error)
	})
}

// ─────────────────────────────────────────────
// GET /api/whisps/{id}
// ─────────────────────────────────────────────

func TestHandlerRetrieve(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)
		whisp := sampleWhisp("some-id")

		whispSvc.EXPECT().
			Retrieve(gomock.Any(), "some-id", "").
			Return(whisp, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/whisps/some-id", nil)
		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, whisp.EncryptedPayload, decodeWhisp(t, rec.Body).EncryptedPayload)
	})

	t.Run("password travels via query", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)

		whispSvc.EXPECT().
			Retrieve(gomock.Any(), "some-id", "securepassword").
			Return(sampleWhisp("some-id"), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/whisps/some-id?password=securepassword", nil)
		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing, expired and consumed are the same 404", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)

		whispSvc.EXPECT().
			Retrieve(gomock.Any(), "gone", "").
			Return(models.Whisp{}, store.ErrWhispNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/whisps/gone", nil)
		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)

		whispSvc.EXPECT().
			Retrieve(gomock.Any(), "locked", "nope").
			Return(models.Whisp{}, service.ErrWrongPassword)

		req := httptest.NewRequest(http.MethodGet, "/api/whisps/locked?password=nope", nil)
		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// ─────────────────────────────────────────────
// GET /api/whisps/{id}/file
// ─────────────────────────────────────────────

func TestHandlerDownloadFile(t *testing.T) {
	t.Run("streams the blob", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)
		whisp := sampleWhisp("file-id")
		whisp.IsFile = true

		whispSvc.EXPECT().
			OpenFile(gomock.Any(), "file-id", "").
			Return(io.NopCloser(strings.NewReader("encrypted file bytes")), whisp, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/whisps/file-id/file", nil)
		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "file-id.bin")
		assert.Equal(t, "encrypted file bytes", rec.Body.String())
	})

	t.Run("blob already consumed", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)

		whispSvc.EXPECT().
			OpenFile(gomock.Any(), "gone", "").
			Return(nil, models.Whisp{}, store.ErrWhispNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/whisps/gone/file", nil)
		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("text whisp reads as missing on the file endpoint", func(t *testing.T) {
		router, whispSvc := newTestRouter(t)

		whispSvc.EXPECT().
			OpenFile(gomock.Any(), "text-id", "").
			Return(nil, models.Whisp{}, store.ErrWhispNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/whisps/text-id/file", nil)
		rec := doRequest(t, router, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// ─────────────────────────────────────────────
// Ancillary routes
// ─────────────────────────────────────────────

func TestHandlerHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandlerIndex(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Whisp")
}

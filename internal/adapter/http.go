package adapter

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"whisp/internal/logger"
	"whisp/internal/utils"
	"whisp/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL and configures
// the underlying HTTP client with the resolved base URL and request timeout.
//
// Returns an error if address is empty or cannot be parsed as a valid URL.
func NewHTTPServerAdapter(address string, timeout time.Duration, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid server address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// CreateWhisp implements [ServerAdapter]. It POSTs the creation form to
// POST /api/whisps, attaching the file as a multipart part when present.
func (h *httpServerAdapter) CreateWhisp(ctx context.Context, req CreateRequest) (models.WhispResponse, error) {
	var created models.WhispResponse

	r := h.client.R().
		SetContext(ctx).
		SetFormData(createFormData(req)).
		SetResult(&created)

	if req.File != nil {
		fileName := req.FileName
		if fileName == "" {
			fileName = "whisp.bin"
		}
		r.SetFileReader("file", fileName, req.File)
	}

	resp, err := r.Post("/api/whisps")
	if err != nil {
		return models.WhispResponse{}, fmt.Errorf("create whisp request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.WhispResponse{}, err
	}

	return created, nil
}

// ClaimWhisp implements [ServerAdapter]. It GETs /api/whisps/{id}, which
// consumes text whisps on the server side.
func (h *httpServerAdapter) ClaimWhisp(ctx context.Context, id string, password string) (models.WhispResponse, error) {
	var claimed models.WhispResponse

	r := h.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&claimed)

	if password != "" {
		r.SetQueryParam("password", password)
	}

	resp, err := r.Get("/api/whisps/{id}")
	if err != nil {
		return models.WhispResponse{}, fmt.Errorf("claim whisp request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.WhispResponse{}, err
	}

	return claimed, nil
}

// DownloadWhispFile implements [ServerAdapter]. It streams the blob from
// GET /api/whisps/{id}/file into dst without buffering it in memory.
func (h *httpServerAdapter) DownloadWhispFile(ctx context.Context, id string, password string, dst io.Writer) error {
	r := h.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetDoNotParseResponse(true)

	if password != "" {
		r.SetQueryParam("password", password)
	}

	resp, err := r.Get("/api/whisps/{id}/file")
	if err != nil {
		return fmt.Errorf("download whisp file request: %w", err)
	}

	raw := resp.RawBody()
	defer raw.Close()

	if resp.StatusCode() >= 300 {
		body, _ := io.ReadAll(io.LimitReader(raw, 4096))
		return mapStatus(resp.StatusCode(), errorDetail(body, resp.StatusCode()))
	}

	if _, err := io.Copy(dst, raw); err != nil {
		return fmt.Errorf("download whisp file transfer: %w", err)
	}

	return nil
}

func createFormData(req CreateRequest) map[string]string {
	form := map[string]string{
		"ttl_minutes": strconv.Itoa(req.TTLMinutes),
	}
	if req.EncryptedPayload != "" {
		form["encrypted_payload"] = req.EncryptedPayload
	}
	if req.Password != "" {
		form["password"] = req.Password
	}
	return form
}

package http

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"whisp/internal/logger"
	"whisp/internal/service"
	"whisp/models"
	"whisp/web"
)

const (
	// maxRequestBodyBytes bounds the whole inbound request. It sits above
	// the blob cap so that an oversized upload reaches the service layer
	// and fails there with a clean PayloadTooLarge.
	maxRequestBodyBytes = 12 << 20

	// maxFormMemory is the in-memory threshold for multipart parsing;
	// larger parts spill to temp files.
	maxFormMemory = 4 << 20
)

// create handles POST /api/whisps. It accepts multipart/form-data and
// urlencoded forms with fields encrypted_payload, ttl_minutes, password and
// an optional file part.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)

	req, file, err := parseCreateForm(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.create").Msg("failed to parse create form")
		h.writeError(w, err)
		return
	}
	if file != nil {
		defer file.Close()
		req.File = file
	}

	whisp, err := h.services.WhispService.Create(r.Context(), req)
	if err != nil {
		log.Err(err).Str("func", "*Handler.create").Msg("failed to create whisp")
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, models.NewWhispResponse(whisp))
}

// retrieve handles GET /api/whisps/{id}. Text whisps are consumed by this
// read; file whisps return their metadata and stay claimable via the file
// endpoint.
func (h *Handler) retrieve(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id := chi.URLParam(r, "id")
	password := r.URL.Query().Get("password")

	whisp, err := h.services.WhispService.Retrieve(r.Context(), id, password)
	if err != nil {
		log.Err(err).Str("func", "*Handler.retrieve").Str("whisp_id", id).Msg("failed to retrieve whisp")
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, models.NewWhispResponse(whisp))
}

// downloadFile handles GET /api/whisps/{id}/file: the consuming read for
// file whisps. The blob is gone once the transfer completes.
func (h *Handler) downloadFile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	id := chi.URLParam(r, "id")
	password := r.URL.Query().Get("password")

	blob, whisp, err := h.services.WhispService.OpenFile(r.Context(), id, password)
	if err != nil {
		log.Err(err).Str("func", "*Handler.downloadFile").Str("whisp_id", id).Msg("failed to open whisp file")
		h.writeError(w, err)
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+whisp.ID+`.bin"`)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, blob); err != nil {
		// Headers are out; all we can do is note the broken transfer.
		log.Err(err).Str("func", "*Handler.downloadFile").Str("whisp_id", id).Msg("failed to stream whisp file")
	}
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	page, err := web.IndexPage()
	if err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.index").Msg("failed to read landing page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// parseCreateForm extracts the creation fields from a multipart or
// urlencoded body. The returned file is nil for text-only whisps; the
// caller closes it.
func parseCreateForm(r *http.Request) (models.CreateWhispRequest, multipart.File, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var file multipart.File
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return models.CreateWhispRequest{}, nil, requestTooLargeOr(err, service.ErrInvalidDataProvided)
		}

		f, _, err := r.FormFile("file")
		switch {
		case err == nil:
			file = f
		case errors.Is(err, http.ErrMissingFile):
			// text-only whisp
		default:
			return models.CreateWhispRequest{}, nil, service.ErrInvalidDataProvided
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return models.CreateWhispRequest{}, nil, requestTooLargeOr(err, service.ErrInvalidDataProvided)
		}
	}

	ttl := service.TTLDefaultMinutes
	if raw := r.FormValue("ttl_minutes"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			closeQuietly(file)
			return models.CreateWhispRequest{}, nil, service.ErrInvalidTTL
		}
		ttl = parsed
	}

	return models.CreateWhispRequest{
		EncryptedPayload: r.FormValue("encrypted_payload"),
		TTLMinutes:       ttl,
		Password:         r.FormValue("password"),
	}, file, nil
}

// requestTooLargeOr maps the MaxBytesReader overflow to PayloadTooLarge and
// every other parse failure to fallback.
func requestTooLargeOr(err error, fallback error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return service.ErrPayloadTooLarge
	}
	return fallback
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

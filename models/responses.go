package models

import "time"

// WhispResponse is the public view of a whisp returned by the HTTP API.
// It exposes only the fields a client needs; the password digest and
// access counters never leave the server.
type WhispResponse struct {
	ID               string    `json:"id"`
	EncryptedPayload string    `json:"encrypted_payload"`
	IsFile           bool      `json:"is_file"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// NewWhispResponse builds the API view of a whisp.
func NewWhispResponse(w Whisp) WhispResponse {
	return WhispResponse{
		ID:               w.ID,
		EncryptedPayload: w.EncryptedPayload,
		IsFile:           w.IsFile,
		CreatedAt:        w.CreatedAt,
		ExpiresAt:        w.ExpiresAt,
	}
}

// ErrorResponse is the JSON body returned for every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
}

package http

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/MKhiriev/go-calendar-sync/internal/utils"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// openWindowHashing verifies the transport integrity hash of an open-window
// request before the handler runs. The client computes an HMAC-SHA256 over
// the JSON encoding of the window number and sends it in the "hash" field;
// the middleware recomputes it with the shared key and rejects mismatches
// with HTTP 400.
//
// Requests without a hash pass through unchanged: clients configured without
// an integrity key never send one. A server running without a key has nothing
// to verify against and passes hash-bearing requests through as well.
func (h *Handler) openWindowHashing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.OpenWindowRequest

		h.logger.Debug().Str("func", "*Handler.openWindowHashing").Msg("checking hash begins")

		// read bytes from body
		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.logger.Err(err).Str("func", "*Handler.openWindowHashing").Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		// Decode JSON from []byte
		if err := json.NewDecoder(bytes.NewReader(body)).Decode(&req); err != nil {
			h.logger.Err(err).Str("func", "*Handler.openWindowHashing").Msg("failed to decode JSON")
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if req.Hash == "" {
			h.logger.Debug().Str("func", "*Handler.openWindowHashing").Msg("no hash provided, skipping integrity check")
			next.ServeHTTP(w, r)
			return
		}

		// A server without a hash key cannot verify anything the client sent.
		if !utils.HashingEnabled() {
			h.logger.Warn().Str("func", "*Handler.openWindowHashing").Msg("hash provided but no hash key configured, skipping integrity check")
			next.ServeHTTP(w, r)
			return
		}

		// Serialize the window number back to JSON for hashing
		payloadBytes, err := json.Marshal(req.Window)
		if err != nil {
			h.logger.Err(err).Str("func", "*Handler.openWindowHashing").Msg("failed to marshal window number")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		// Calculate hash from JSON Payload
		hashedBody := hex.EncodeToString(utils.Hash(payloadBytes))
		if hashedBody != req.Hash {
			h.logger.Error().Str("func", "*Handler.openWindowHashing").
				Str("hash from request", req.Hash).
				Str("hashed body", hashedBody).
				Msg("hashes are not equal")
			http.Error(w, "Integrity check failed", http.StatusBadRequest)
			return
		}

		h.logger.Debug().Str("func", "*Handler.openWindowHashing").
			Str("hash from request", req.Hash).
			Str("hashed body", hashedBody).
			Msg("hashes are equal")

		next.ServeHTTP(w, r)
	})
}

package http

import (
	"net/http"
)

// health answers reachability probes. It is intentionally unauthenticated:
// clients use it to decide whether the backend is online before they hold a
// valid token.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

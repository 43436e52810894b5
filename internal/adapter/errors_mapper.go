package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-calendar-sync/models"
	"github.com/go-resty/resty/v2"
)

// mapHTTPError translates a completed HTTP response into one of the
// package sentinels. Any 2xx status maps to nil; any 5xx maps to
// [ErrBackendUnavailable] since the server answered but cannot currently
// serve, and the caller should retry later.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	if resp.StatusCode() >= http.StatusInternalServerError {
		return fmt.Errorf("%w: http %d: %s", ErrBackendUnavailable, resp.StatusCode(), body)
	}

	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, body)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, body)
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}
}

// mapOpenWindowError is the response mapping for the open-window call.
// Duplicate detection runs before the generic status classification so
// that even a misbehaving backend that answers 500 with a raw
// constraint-violation text is treated as a duplicate rather than an
// outage, and the queued event is confirmed instead of retried forever.
func mapOpenWindowError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if isDuplicateResponse(resp.StatusCode(), body) {
		return fmt.Errorf("%w: %s", ErrDuplicateWindow, body)
	}

	return mapHTTPError(resp)
}

// isDuplicateResponse reports whether the response says the window was
// already recorded. An HTTP 409 or a JSON body carrying
// [models.CodeWindowAlreadyOpened] is authoritative. The substring match
// on "duplicate"/"unique" is a compatibility shim for backends that
// surface a raw constraint error in plain text; prefer the structured
// code when designing new endpoints.
func isDuplicateResponse(status int, body string) bool {
	if status == http.StatusConflict {
		return true
	}

	var er models.ErrorResponse
	if err := json.Unmarshal([]byte(body), &er); err == nil && er.Code == models.CodeWindowAlreadyOpened {
		return true
	}

	bodyLower := strings.ToLower(body)
	return strings.Contains(bodyLower, "duplicate") || strings.Contains(bodyLower, "unique")
}

// mapTransportError classifies request-level failures (DNS errors, refused
// connections, timeouts) as backend unavailability: the outcome of the
// call is unknown and the caller must retry.
func mapTransportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, err)
}

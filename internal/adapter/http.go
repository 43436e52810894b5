package adapter

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-calendar-sync/internal/config"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/internal/utils"
	"github.com/MKhiriev/go-calendar-sync/models"
	"github.com/go-resty/resty/v2"
)

type httpBackend struct {
	client *utils.HTTPClient

	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPBackend constructs an HTTP/REST implementation of [Backend].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL and request
// timeout, and initialises the shared HMAC hasher pool used for transport
// integrity hashes (skipped when appCfg.HashKey is empty).
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPBackend(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (Backend, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	utils.InitHasherPool(appCfg.HashKey)

	return &httpBackend{client: client, hashKey: appCfg.HashKey, logger: logger}, nil
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

// SetToken implements [Backend]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpBackend) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [Backend]. It returns the bearer token currently held
// by the adapter, or an empty string if none has been set.
func (h *httpBackend) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Register implements [Backend]. It POSTs the user credentials to
// POST /api/auth/register. On success the bearer token is extracted from the
// Authorization response header, the user ID is read from the token subject,
// and the token is stored via SetToken. Returns an error if the request
// fails, the server returns a non-2xx status, or the token cannot be parsed.
func (h *httpBackend) Register(ctx context.Context, user models.User) (models.User, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, mapTransportError("register request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.User{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.User{}, fmt.Errorf("register parse bearer token: %w", err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.User{}, fmt.Errorf("register parse user id: %w", err)
	}

	h.SetToken(token)
	return models.User{UserID: userID, Login: user.Login, Name: user.Name}, nil
}

// Login implements [Backend]. It POSTs the user credentials to
// POST /api/auth/login. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken. Returns the signed
// token together with the user ID read from its subject. Returns an error if
// the request fails, the server returns a non-2xx status, or the token cannot
// be parsed.
func (h *httpBackend) Login(ctx context.Context, user models.User) (models.Token, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/login")
	if err != nil {
		return models.Token{}, mapTransportError("login request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Token{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse bearer token: %w", err)
	}
	userID, err := utils.ParseUserIDFromJWT(token)
	if err != nil {
		return models.Token{}, fmt.Errorf("login parse user id: %w", err)
	}

	h.SetToken(token)
	return models.Token{SignedString: token, UserID: userID}, nil
}

// RecordOpen implements [Backend]. It POSTs the window number to
// POST /api/progress/open with an optional transport integrity hash.
// Requires a valid bearer token. A duplicate answer from the server maps to
// [ErrDuplicateWindow]; outages and transport failures map to
// [ErrBackendUnavailable].
func (h *httpBackend) RecordOpen(ctx context.Context, userID int64, window int) error {
	req := models.OpenWindowRequest{Window: window}
	req.Hash = h.computeTransportHash(req.Window)

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/progress/open")
	if err != nil {
		return mapTransportError("record open request", err)
	}

	return mapOpenWindowError(resp)
}

// FetchOpened implements [Backend]. It GETs the progress endpoint
// GET /api/progress/ and decodes the response into the opened window
// numbers. Requires a valid bearer token. Returns an error if the request,
// response mapping, or JSON decoding fails.
func (h *httpBackend) FetchOpened(ctx context.Context, userID int64) ([]int, error) {
	resp, err := h.authedRequest(ctx).Get("/api/progress/")
	if err != nil {
		return nil, mapTransportError("fetch opened request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var pr models.ProgressResponse
	if err = json.Unmarshal(resp.Body(), &pr); err != nil {
		return nil, fmt.Errorf("decode progress response: %w", err)
	}

	return pr.Windows, nil
}

// Ping implements [Backend]. It GETs the unauthenticated health endpoint
// GET /api/health/ and reports whether the server answered.
func (h *httpBackend) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/health/")
	if err != nil {
		return mapTransportError("health request", err)
	}

	return mapHTTPError(resp)
}

func (h *httpBackend) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// computeTransportHash returns the hex HMAC-SHA256 of v's JSON encoding,
// or an empty string when integrity checking is disabled.
func (h *httpBackend) computeTransportHash(v any) string {
	if h.hashKey == "" {
		return ""
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	return hex.EncodeToString(utils.Hash(payload))
}

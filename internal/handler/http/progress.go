package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-calendar-sync/internal/app"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/internal/store"
	"github.com/MKhiriev/go-calendar-sync/internal/utils"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// openWindow records a single opened calendar window for the authenticated
// user. A repeated open of the same window answers HTTP 409 with a structured
// [models.ErrorResponse] carrying [models.CodeWindowAlreadyOpened], which
// syncing clients treat as a confirmation of an earlier write.
func (h *Handler) openWindow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.openWindow").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	var req models.OpenWindowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.openWindow").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	record, err := h.services.ProgressService.OpenWindow(ctx, userID, req.Window)
	if err != nil {
		if errors.Is(err, store.ErrWindowAlreadyOpened) {
			log.Debug().Str("func", "*Handler.openWindow").
				Int64("user_id", userID).
				Int("window_number", req.Window).
				Msg("window already opened")
			utils.WriteJSON(w, models.ErrorResponse{
				Code:    models.CodeWindowAlreadyOpened,
				Message: app.MsgWindowAlreadyOpened,
			}, http.StatusConflict)
			return
		}

		log.Err(err).Str("func", "*Handler.openWindow").
			Int64("user_id", userID).
			Int("window_number", req.Window).
			Msg("error recording opened window")
		http.Error(w, app.MsgOpenWindowFailed, statusFromError(err))
		return
	}

	utils.WriteJSON(w, record, http.StatusCreated)
}

// getProgress returns every window the authenticated user has opened,
// in ascending window order.
func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	userID, found := utils.GetUserIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.getProgress").Msg("no user ID was given")
		http.Error(w, app.MsgNoUserIDProvided, http.StatusBadRequest)
		return
	}

	progress, err := h.services.ProgressService.GetProgress(ctx, userID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getProgress").
			Int64("user_id", userID).
			Msg("error getting user progress")
		http.Error(w, app.MsgGetProgressFailed, statusFromError(err))
		return
	}

	utils.WriteJSON(w, progress, http.StatusOK)
}

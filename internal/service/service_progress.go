package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-calendar-sync/internal/config"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/internal/store"
	"github.com/MKhiriev/go-calendar-sync/internal/validators"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// progressService is the concrete implementation of ProgressService.
// It validates window numbers against the configured calendar size and
// delegates persistence to a ProgressRepository.
type progressService struct {
	progressRepository store.ProgressRepository
	validator          validators.Validator

	logger *logger.Logger
}

// NewProgressService constructs a ProgressService for a calendar of
// cfg.WindowCount windows, wired to the given repository.
func NewProgressService(progressRepository store.ProgressRepository, cfg config.App, logger *logger.Logger) ProgressService {
	return &progressService{
		progressRepository: progressRepository,
		validator:          validators.NewProgressValidator(cfg.WindowCount),
		logger:             logger,
	}
}

// OpenWindow records that userID opened windowNumber.
//
// The pair is validated first (positive user ID, window within the calendar
// range). A repeat open returns store.ErrWindowAlreadyOpened unchanged:
// clients that re-send an open after a lost confirmation treat it as an
// acknowledgement, so it must stay recognisable with errors.Is.
func (p *progressService) OpenWindow(ctx context.Context, userID int64, windowNumber int) (models.OpenedWindow, error) {
	log := logger.FromContext(ctx)

	record := models.OpenedWindow{UserID: userID, WindowNumber: windowNumber}
	if err := p.validator.Validate(ctx, record); err != nil {
		log.Err(err).
			Int64("user_id", userID).
			Int("window_number", windowNumber).
			Msg("open window validation failed")
		return models.OpenedWindow{}, fmt.Errorf("error during open window validation: %w", err)
	}

	opened, err := p.progressRepository.OpenWindow(ctx, userID, windowNumber)
	if errors.Is(err, store.ErrWindowAlreadyOpened) {
		// expected on client retries after a lost confirmation
		log.Debug().
			Int64("user_id", userID).
			Int("window_number", windowNumber).
			Msg("window already opened")
		return models.OpenedWindow{}, err
	}
	if err != nil {
		log.Err(err).
			Int64("user_id", userID).
			Int("window_number", windowNumber).
			Msg("recording opened window failed")
		return models.OpenedWindow{}, fmt.Errorf("recording opened window failed: %w", err)
	}

	return opened, nil
}

// GetProgress returns the opened-window numbers of the user in ascending
// order, together with their count.
func (p *progressService) GetProgress(ctx context.Context, userID int64) (models.ProgressResponse, error) {
	log := logger.FromContext(ctx)

	if err := p.validator.Validate(ctx, models.OpenedWindow{UserID: userID}, validators.FieldUserID); err != nil {
		log.Err(err).Int64("user_id", userID).Msg("progress request validation failed")
		return models.ProgressResponse{}, fmt.Errorf("error during progress request validation: %w", err)
	}

	opened, err := p.progressRepository.GetOpenedWindows(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("getting opened windows failed")
		return models.ProgressResponse{}, fmt.Errorf("getting opened windows failed: %w", err)
	}

	windows := make([]int, 0, len(opened))
	for _, w := range opened {
		windows = append(windows, w.WindowNumber)
	}

	return models.ProgressResponse{
		Windows: windows,
		Length:  len(windows),
	}, nil
}

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-calendar-sync/internal/logger"
	"github.com/MKhiriev/go-calendar-sync/models"
)

// progressRepository is the SQL implementation of [ProgressRepository]. It
// records and reads opened calendar windows in the "opened_windows" table
// using the embedded [*DB] connection.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced with
// structured fields (user_id, window_number).
type progressRepository struct {
	*DB
	logger *logger.Logger
}

// NewProgressRepository constructs a [ProgressRepository] backed by the
// provided database connection and logger.
func NewProgressRepository(db *DB, logger *logger.Logger) ProgressRepository {
	return &progressRepository{
		DB:     db,
		logger: logger,
	}
}

// OpenWindow inserts the (userID, windowNumber) pair and returns the stored
// record with the server-assigned OpenedAt timestamp.
//
// A repeated open of the same window trips the table's uniqueness constraint
// and is reported as [ErrWindowAlreadyOpened]; the original row keeps its
// timestamp. Clients re-sending an open after a lost confirmation rely on
// that answer to settle their queues.
func (p *progressRepository) OpenWindow(ctx context.Context, userID int64, windowNumber int) (models.OpenedWindow, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildOpenWindowQuery(ctx, userID, windowNumber)
	if err != nil {
		log.Err(err).
			Str("func", "progressRepository.OpenWindow").
			Int64("user_id", userID).
			Int("window_number", windowNumber).
			Msg("failed to create query")
		return models.OpenedWindow{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	row := p.DB.QueryRowContext(ctx, query, args...)

	if err := row.Err(); err != nil {
		if p.DB.errorClassificator.IsUniqueViolation(err) {
			return models.OpenedWindow{}, ErrWindowAlreadyOpened
		}

		log.Err(err).
			Str("func", "progressRepository.OpenWindow").
			Int64("user_id", userID).
			Int("window_number", windowNumber).
			Msg("failed to execute query for opening window")
		return models.OpenedWindow{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	// scan stored record with server-assigned timestamp
	var opened models.OpenedWindow
	if err := row.Scan(&opened.UserID, &opened.WindowNumber, &opened.OpenedAt); err != nil {
		if p.DB.errorClassificator.IsUniqueViolation(err) {
			return models.OpenedWindow{}, ErrWindowAlreadyOpened
		}

		log.Err(err).
			Str("func", "progressRepository.OpenWindow").
			Int64("user_id", userID).
			Int("window_number", windowNumber).
			Msg("failed to scan opened window row")
		return models.OpenedWindow{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return opened, nil
}

// GetOpenedWindows retrieves every window the given user has opened, ordered
// by window number.
//
// Returns an empty slice when no records are found.
func (p *progressRepository) GetOpenedWindows(ctx context.Context, userID int64) ([]models.OpenedWindow, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetOpenedWindowsQuery(ctx, userID)
	if err != nil {
		log.Err(err).
			Str("func", "progressRepository.GetOpenedWindows").
			Int64("user_id", userID).
			Msg("failed to create query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, queryErr := p.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "progressRepository.GetOpenedWindows").
			Int64("user_id", userID).
			Msg("failed to execute query for getting opened windows")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	results := make([]models.OpenedWindow, 0, 31)

	for rows.Next() {
		var opened models.OpenedWindow

		scanErr := rows.Scan(&opened.UserID, &opened.WindowNumber, &opened.OpenedAt)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "progressRepository.GetOpenedWindows").
				Int64("user_id", userID).
				Msg("failed to scan opened window row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, opened)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "progressRepository.GetOpenedWindows").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

package store

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-calendar-sync/internal/config"
	"github.com/MKhiriev/go-calendar-sync/internal/logger"
)

// Storages aggregates every repository the service layer depends on.
type Storages struct {
	UserRepository     UserRepository
	ProgressRepository ProgressRepository
}

// NewStorages connects to the database selected by cfg.DSN, applies pending
// migrations and returns the repository set.
//
// A "postgres://" or "postgresql://" DSN prefix selects PostgreSQL; any other
// value is treated as a SQLite file path.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	db, err := connect(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		log.Err(err).Str("func", "NewStorages").Msg("error applying migrations")
		return nil, err
	}

	return &Storages{
		UserRepository:     NewUserRepository(db, log),
		ProgressRepository: NewProgressRepository(db, log),
	}, nil
}

func connect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.HasPrefix(cfg.DSN, "postgresql://") {
		return NewConnectPostgres(ctx, cfg, log)
	}

	return NewConnectSQLite(ctx, cfg, log)
}

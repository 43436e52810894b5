package store

import (
	"context"

	"github.com/MKhiriev/go-calendar-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists and looks up user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByLogin(ctx context.Context, user models.User) (models.User, error)
}

// ProgressRepository persists opened calendar windows.
type ProgressRepository interface {
	OpenWindow(ctx context.Context, userID int64, windowNumber int) (models.OpenedWindow, error)
	GetOpenedWindows(ctx context.Context, userID int64) ([]models.OpenedWindow, error)
}

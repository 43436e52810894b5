package service

import (
	"context"

	"github.com/MKhiriev/go-calendar-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AuthService interface {
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	Login(ctx context.Context, user models.User) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// ProgressService records and reports opened calendar windows for
// authenticated users.
type ProgressService interface {
	// OpenWindow records that userID opened windowNumber. A repeat open of
	// the same window returns store.ErrWindowAlreadyOpened unchanged so the
	// transport layer can answer with a conflict.
	OpenWindow(ctx context.Context, userID int64, windowNumber int) (models.OpenedWindow, error)

	// GetProgress returns the authoritative opened-window numbers of the
	// user in ascending order.
	GetProgress(ctx context.Context, userID int64) (models.ProgressResponse, error)
}

// AppInfoService exposes application metadata such as the running version.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

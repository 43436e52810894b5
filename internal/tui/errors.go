// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
)

// humanizeError rewords adapter sentinels for the login screens. The main
// loop never needs it: there the engine absorbs failures into the status
// line instead of raising them.
func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, adapter.ErrBackendUnavailable):
		return "Отсутствует сеть или Сервер недоступен"
	case errors.Is(err, adapter.ErrUnauthorized):
		return "Неверный логин/пароль"
	case errors.Is(err, adapter.ErrConflict):
		return "Такой логин уже занят"
	default:
		return err.Error()
	}
}

package tui

import (
	"github.com/MKhiriev/go-calendar-sync/internal/engine"
	"github.com/MKhiriev/go-calendar-sync/models"
)

type authDoneMsg struct {
	token models.Token
}

type authFailedMsg struct {
	err error
}

type statusChangedMsg struct {
	status models.SyncStatus
}

type openDoneMsg struct {
	window int
	err    error
}

type drainDoneMsg struct {
	result engine.DrainResult
}

type copiedMsg struct{}

type clearNoteMsg struct{}

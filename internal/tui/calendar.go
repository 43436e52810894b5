package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-calendar-sync/internal/engine"
	"github.com/MKhiriev/go-calendar-sync/models"
	"github.com/charmbracelet/bubbles/spinner"
)

// calendarColumns is the grid width of the window grid.
const calendarColumns = 6

// calendarModel renders the window grid plus the sync status line.
// The opened set and pending count are snapshots refreshed from the
// engine whenever a message arrives; the engine itself stays the single
// source of truth.
type calendarModel struct {
	windowCount int
	cursor      int

	opened  models.WindowSet
	pending int
	status  models.SyncStatus

	spinner spinner.Model
	syncing bool
	note    string
}

func newCalendarModel(eng *engine.Engine, windowCount int) calendarModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return calendarModel{
		windowCount: windowCount,
		opened:      eng.Opened(),
		pending:     eng.Pending(),
		status:      eng.Status(),
		spinner:     s,
	}
}

// move shifts the cursor by delta cells, clamped to the grid.
func (m *calendarModel) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= m.windowCount {
		return
	}
	m.cursor = next
}

func (m calendarModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Календарь"))
	b.WriteString("\n\n")

	for i := 0; i < m.windowCount; i++ {
		window := i + 1
		cell := fmt.Sprintf(" %2d ", window)
		if m.opened.Contains(window) {
			cell = fmt.Sprintf(" %2d✓", window)
			cell = openedCellStyle.Render(cell)
		}
		if i == m.cursor {
			cell = cursorCellStyle.Render(cell)
		}

		b.WriteString(cell)
		if (i+1)%calendarColumns == 0 || i == m.windowCount-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.note != "" {
		b.WriteString(m.note)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter открыть/смотреть  s синхр.  o перелогин  q выход"))
	return b.String()
}

// statusLine renders the engine's sync status as one unobtrusive line:
// the user keeps opening windows no matter what it says.
func (m calendarModel) statusLine() string {
	switch m.status {
	case models.StatusSyncing:
		return m.spinner.View() + " Синхронизация..."
	case models.StatusOffline:
		return fmt.Sprintf("⚠ Офлайн, в очереди: %d", m.pending)
	case models.StatusError:
		return fmt.Sprintf("✗ Ошибка синхронизации, в очереди: %d", m.pending)
	default:
		return "✓ Синхронизировано"
	}
}

package tui

// errorOverlayModel renders a dismissable error box on top of the current
// screen. Sync failures never land here: the engine queues them and the
// status line reports the degraded state instead.
type errorOverlayModel struct {
	message string
}

func (m errorOverlayModel) View() string {
	content := "Ошибка\n\n" + m.message + "\n\nenter / esc закрыть"
	return overlayBoxStyle.Render(content)
}

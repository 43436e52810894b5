package tui

import (
	"fmt"
	"strings"
)

// detailModel shows one opened window with a link to its content.
type detailModel struct {
	window      int
	contentBase string
	note        string
}

// contentLink is the address of the window's media, served next to the
// progress API in the demo setup.
func (m detailModel) contentLink() string {
	return fmt.Sprintf("%s/calendar/window/%d", strings.TrimRight(m.contentBase, "/"), m.window)
}

func (m detailModel) View() string {
	out := titleStyle.Render(fmt.Sprintf("Окно %d", m.window)) + "\n\n"
	out += "Открыто ✓\n"
	out += fmt.Sprintf("Содержимое: %s\n", m.contentLink())

	if m.note != "" {
		out += "\n" + m.note + "\n"
	}

	out += "\n" + helpStyle.Render("c копир. ссылку  esc назад  q выход")
	return out
}

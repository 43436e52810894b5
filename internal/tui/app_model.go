package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-calendar-sync/internal/adapter"
	"github.com/MKhiriev/go-calendar-sync/internal/engine"
	"github.com/MKhiriev/go-calendar-sync/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenWelcome screen = iota
	screenLogin
	screenRegister
	screenCalendar
	screenDetail
)

type appMode int

const (
	modeLogin appMode = iota
	modeMain
)

type appModel struct {
	ctx           context.Context
	backend       adapter.Backend
	engine        *engine.Engine
	mode          appMode
	currentScreen screen

	welcome  welcomeModel
	login    loginModel
	register registerModel
	calendar calendarModel
	detail   detailModel

	statusCh chan models.SyncStatus

	err          error
	showError    bool
	errorOverlay errorOverlayModel
	logout       bool
	resultToken  models.Token
}

func newLoginAppModel(ctx context.Context, backend adapter.Backend) appModel {
	return appModel{
		ctx:           ctx,
		backend:       backend,
		mode:          modeLogin,
		currentScreen: screenWelcome,
		welcome:       newWelcomeModel(),
		login:         newLoginModel(),
		register:      newRegisterModel(),
	}
}

func newMainAppModel(ctx context.Context, eng *engine.Engine, windowCount int, contentBase string) appModel {
	return appModel{
		ctx:           ctx,
		engine:        eng,
		mode:          modeMain,
		currentScreen: screenCalendar,
		calendar:      newCalendarModel(eng, windowCount),
		detail:        detailModel{contentBase: contentBase},
		statusCh:      make(chan models.SyncStatus, 8),
	}
}

func (m appModel) Init() tea.Cmd {
	if m.mode == modeMain {
		return m.cmdWaitStatus()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.showError {
			if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
				m.showError = false
				m.errorOverlay.message = ""
			}
			return m, nil
		}
	case authDoneMsg:
		m.resultToken = msg.token
		return m, tea.Quit
	case authFailedMsg:
		m.login.submitting = false
		m.register.submitting = false
		m.showErrorf(humanizeError(msg.err))
		return m, nil
	case statusChangedMsg:
		m.calendar.status = msg.status
		m.calendar.pending = m.engine.Pending()
		m.calendar.opened = m.engine.Opened()
		var cmd tea.Cmd
		if msg.status == models.StatusSyncing && !m.calendar.syncing {
			m.calendar.syncing = true
			cmd = m.calendar.spinner.Tick
		}
		if msg.status != models.StatusSyncing {
			m.calendar.syncing = false
		}
		return m, tea.Batch(cmd, m.cmdWaitStatus())
	case openDoneMsg:
		m.calendar.opened = m.engine.Opened()
		m.calendar.pending = m.engine.Pending()
		if msg.err != nil {
			m.showErrorf(msg.err.Error())
		}
		return m, nil
	case drainDoneMsg:
		m.calendar.opened = m.engine.Opened()
		m.calendar.pending = m.engine.Pending()
		if msg.result.Failed > 0 {
			m.calendar.note = fmt.Sprintf("Не доставлено: %d, повторим позже", msg.result.Failed)
		} else if msg.result.Synced > 0 {
			m.calendar.note = fmt.Sprintf("Доставлено: %d", msg.result.Synced)
		}
		return m, cmdClearNote()
	case copiedMsg:
		m.detail.note = "Скопировано!"
		return m, cmdClearNote()
	case clearNoteMsg:
		m.detail.note = ""
		m.calendar.note = ""
		return m, nil
	case spinner.TickMsg:
		if m.calendar.syncing {
			var cmd tea.Cmd
			m.calendar.spinner, cmd = m.calendar.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		return m, nil
	}

	switch m.currentScreen {
	case screenWelcome:
		return m.updateWelcome(msg)
	case screenLogin:
		return m.updateLogin(msg)
	case screenRegister:
		return m.updateRegister(msg)
	case screenCalendar:
		return m.updateCalendar(msg)
	case screenDetail:
		return m.updateDetail(msg)
	}

	return m, nil
}

func (m appModel) View() string {
	var body string
	switch m.currentScreen {
	case screenWelcome:
		body = m.welcome.View()
	case screenLogin:
		body = m.login.View()
	case screenRegister:
		body = m.register.View()
	case screenCalendar:
		body = m.calendar.View()
	case screenDetail:
		body = m.detail.View()
	}

	if m.showError {
		body += "\n\n" + m.errorOverlay.View()
	}

	return appStyle.Render(body)
}

func (m *appModel) showErrorf(message string) {
	m.showError = true
	m.errorOverlay.message = message
}

func (m appModel) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		if m.welcome.idx > 0 {
			m.welcome.idx--
		}
	case key.Matches(keyMsg, keys.down):
		if m.welcome.idx < len(m.welcome.items)-1 {
			m.welcome.idx++
		}
	case key.Matches(keyMsg, keys.enter):
		if m.welcome.idx == 0 {
			m.currentScreen = screenLogin
		} else {
			m.currentScreen = screenRegister
		}
	case key.Matches(keyMsg, keys.quit):
		m.err = ErrUserQuit
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.forceQuit):
			m.err = ErrUserQuit
			return m, tea.Quit
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenWelcome
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.login = focusNext(m.login)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.login = focusPrev(m.login)
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			login := strings.TrimSpace(m.login.inputs[0].Value())
			pass := m.login.inputs[1].Value()
			if login == "" || pass == "" {
				m.showErrorf("Логин и пароль обязательны")
				return m, nil
			}
			m.login.submitting = true
			return m, m.cmdLogin(models.User{Login: login, Password: pass})
		}
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	return m, cmd
}

func (m appModel) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch {
		case key.Matches(keyMsg, keys.forceQuit):
			m.err = ErrUserQuit
			return m, tea.Quit
		case key.Matches(keyMsg, keys.esc):
			m.currentScreen = screenWelcome
			return m, nil
		case key.Matches(keyMsg, keys.tab):
			m.register = focusNextRegister(m.register)
			return m, nil
		case key.Matches(keyMsg, keys.backtab):
			m.register = focusPrevRegister(m.register)
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			name := strings.TrimSpace(m.register.inputs[0].Value())
			login := strings.TrimSpace(m.register.inputs[1].Value())
			pass := m.register.inputs[2].Value()
			repeat := m.register.inputs[3].Value()
			if name == "" || login == "" || pass == "" {
				m.showErrorf("Имя, логин и пароль обязательны")
				return m, nil
			}
			if pass != repeat {
				m.showErrorf("Пароли не совпадают")
				return m, nil
			}
			m.register.submitting = true
			return m, m.cmdRegisterAndLogin(models.User{
				Name:     name,
				Login:    login,
				Password: pass,
			})
		}
	}

	var cmd tea.Cmd
	m.register.inputs[m.register.focus], cmd = m.register.inputs[m.register.focus].Update(msg)
	return m, cmd
}

func (m appModel) updateCalendar(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.up):
		m.calendar.move(-calendarColumns)
	case key.Matches(keyMsg, keys.down):
		m.calendar.move(calendarColumns)
	case key.Matches(keyMsg, keys.left):
		m.calendar.move(-1)
	case key.Matches(keyMsg, keys.right):
		m.calendar.move(1)
	case key.Matches(keyMsg, keys.enter):
		window := m.calendar.cursor + 1
		if m.calendar.opened.Contains(window) {
			m.detail.window = window
			m.currentScreen = screenDetail
			return m, nil
		}
		return m, m.cmdOpenWindow(window)
	case key.Matches(keyMsg, keys.sync):
		return m, tea.Batch(m.calendar.spinner.Tick, m.cmdForceDrain())
	case key.Matches(keyMsg, keys.logout):
		m.logout = true
		return m, tea.Quit
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	}

	return m, nil
}

func (m appModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		m.currentScreen = screenCalendar
		return m, nil
	case key.Matches(keyMsg, keys.copy):
		return m, cmdCopyToClipboard(m.detail.contentLink())
	case key.Matches(keyMsg, keys.quit):
		return m, tea.Quit
	}

	return m, nil
}

func (m appModel) cmdLogin(user models.User) tea.Cmd {
	ctx := m.ctx
	backend := m.backend
	return func() tea.Msg {
		token, err := backend.Login(ctx, user)
		if err != nil {
			return authFailedMsg{err: err}
		}
		return authDoneMsg{token: token}
	}
}

func (m appModel) cmdRegisterAndLogin(user models.User) tea.Cmd {
	ctx := m.ctx
	backend := m.backend
	return func() tea.Msg {
		if _, err := backend.Register(ctx, user); err != nil {
			return authFailedMsg{err: err}
		}
		token, err := backend.Login(ctx, models.User{Login: user.Login, Password: user.Password})
		if err != nil {
			return authFailedMsg{err: err}
		}
		return authDoneMsg{token: token}
	}
}

func (m appModel) cmdOpenWindow(window int) tea.Cmd {
	ctx := m.ctx
	eng := m.engine
	return func() tea.Msg {
		err := eng.OpenWindow(ctx, window)
		return openDoneMsg{window: window, err: err}
	}
}

func (m appModel) cmdForceDrain() tea.Cmd {
	ctx := m.ctx
	eng := m.engine
	return func() tea.Msg {
		return drainDoneMsg{result: eng.ForceDrain(ctx)}
	}
}

// cmdWaitStatus blocks on the status bridge channel and re-arms itself
// after every delivery, so engine status changes keep flowing into the
// program for its whole lifetime.
func (m appModel) cmdWaitStatus() tea.Cmd {
	ch := m.statusCh
	return func() tea.Msg {
		return statusChangedMsg{status: <-ch}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return openDoneMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func cmdClearNote() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearNoteMsg{}
	})
}

func focusNext(m loginModel) loginModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func focusPrev(m loginModel) loginModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func focusNextRegister(m registerModel) registerModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + 1) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

func focusPrevRegister(m registerModel) registerModel {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
	m.inputs[m.focus].Focus()
	return m
}

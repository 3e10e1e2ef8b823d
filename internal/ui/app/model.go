// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jeranaias/clinic-tui/internal/auth"
	"github.com/jeranaias/clinic-tui/internal/session"
	"github.com/jeranaias/clinic-tui/internal/tokenstore"
	"github.com/jeranaias/clinic-tui/internal/ui/components"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
	"github.com/jeranaias/clinic-tui/internal/ui/views"
)

// logoutTimeout bounds the best-effort server logout.
const logoutTimeout = 5 * time.Second

// Backend is the API surface used by the TUI.
type Backend interface {
	views.Backend
	Logout(ctx context.Context) error
}

// Watcher reports changes to the persisted token record, including those
// made by other processes.
type Watcher interface {
	Watch(ctx context.Context, key string, log *zap.Logger, onChange func()) error
}

// loggedOutMsg is delivered when the server logout finished.
type loggedOutMsg struct {
	epoch   uint64
	overlay bool
	err     error
}

// Option configures a Model.
type Option func(*Model)

// WithWatcher enables cross-process change detection.
func WithWatcher(w Watcher) Option {
	return func(m *Model) { m.watcher = w }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(m *Model) {
		if log != nil {
			m.log = log
		}
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	ctx     context.Context
	ctrl    *auth.Controller
	store   tokenstore.Service
	backend Backend
	watcher Watcher
	theme   *styles.Theme
	log     *zap.Logger
	keys    KeyMap

	// Per-session resources, released by endSession
	sessCtx    context.Context
	cancelSess context.CancelFunc
	loggingOut bool

	// Views
	login    *views.LoginView
	register *views.RegisterView
	dash     views.Dashboard
	overlay  components.SessionTimeoutOverlay
	status   *components.StatusBar
	toasts   *components.ToastManager

	width  int
	height int
}

// New creates the root model. ctx bounds every request the UI makes.
func New(ctx context.Context, ctrl *auth.Controller, store tokenstore.Service, backend Backend, theme *styles.Theme, opts ...Option) *Model {
	m := &Model{
		ctx:      ctx,
		ctrl:     ctrl,
		store:    store,
		backend:  backend,
		theme:    theme,
		log:      zap.NewNop(),
		keys:     DefaultKeyMap(),
		login:    views.NewLoginView(ctx, backend, theme),
		register: views.NewRegisterView(ctx, backend, theme),
		overlay:  components.NewSessionTimeoutOverlay(),
		status:   components.NewStatusBar(theme),
		toasts:   components.NewToastManager(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init restores a persisted session, if any.
func (m *Model) Init() tea.Cmd {
	if m.ctrl.Restore() {
		return m.startSession()
	}
	return nil
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// startSession arms the per-session commands and builds the dashboard for
// the signed-in user.
func (m *Model) startSession() tea.Cmd {
	m.endSession()

	epoch := m.ctrl.Epoch()
	cfg := m.ctrl.Config()
	user := m.ctrl.State().User

	ctx, cancel := context.WithCancel(m.ctx)
	m.sessCtx, m.cancelSess = ctx, cancel

	if m.watcher != nil {
		sig, store := m.ctrl.Signal(), m.store
		err := m.watcher.Watch(ctx, tokenstore.TokenKey, m.log, func() {
			if !store.IsValid() {
				sig.Raise()
			}
		})
		if err != nil {
			m.log.Warn("token watch unavailable", zap.Error(err))
		}
	}

	m.overlay.Hide()
	m.status.User = user
	m.status.Remaining = m.store.Remaining()
	m.status.Warning = false
	m.dash = views.NewDashboard(ctx, epoch, user.Role, m.backend, m.theme)
	m.dash.SetSize(m.width, m.bodyHeight())
	m.syncShortcuts()

	return tea.Batch(
		session.TickCmd(epoch, cfg.TickInterval),
		session.PollCmd(epoch, cfg.PollInterval),
		session.WaitCmd(ctx, m.ctrl.Signal(), epoch),
		m.dash.Init(),
	)
}

// endSession releases the watcher, the signal waiter and in-flight
// dashboard requests.
func (m *Model) endSession() {
	if m.cancelSess != nil {
		m.cancelSess()
	}
	m.sessCtx, m.cancelSess = nil, nil
	m.loggingOut = false
}

// afterLogout tears down the dashboard once the controller has logged out,
// and shows the expiry alert when the session did not end by choice.
func (m *Model) afterLogout() (tea.Model, tea.Cmd) {
	m.endSession()
	m.dash = nil
	m.status.User = nil
	m.toasts.Clear()

	if reason, ok := m.ctrl.ExpiredNotice(); ok {
		m.overlay.ShowExpired(expiredText(reason))
	} else {
		m.overlay.Hide()
	}
	return m, m.login.Reset()
}

// beginLogout asks the server to end the session, then logs out locally
// whatever the answer. overlay is true when the request came from the
// warning overlay.
func (m *Model) beginLogout(overlay bool) (tea.Model, tea.Cmd) {
	if m.loggingOut {
		return m, nil
	}
	m.loggingOut = true
	m.status.Busy = true

	ctx, backend, epoch := m.ctx, m.backend, m.ctrl.Epoch()
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, logoutTimeout)
		defer cancel()
		return loggedOutMsg{epoch: epoch, overlay: overlay, err: backend.Logout(ctx)}
	}
}

func expiredText(reason auth.Reason) string {
	switch reason {
	case auth.ReasonAuthExpired:
		return "Your session is no longer valid. Please sign in again."
	case auth.ReasonValidityPoll:
		return "Your session has ended. Please sign in again."
	default:
		return "Your session has expired. Please sign in again."
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.login.SetSize(msg.Width, msg.Height)
		m.register.SetSize(msg.Width, msg.Height)
		m.overlay.SetSize(msg.Width, msg.Height)
		m.status.SetWidth(msg.Width)
		if m.dash != nil {
			m.dash.SetSize(msg.Width, m.bodyHeight())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if kind, ok := activityKind(msg); ok {
			m.ctrl.Activity(kind)
		}
		return m, nil

	// ==========================================================================
	// Session
	// ==========================================================================
	case session.TickMsg:
		return m.handleTick(msg)

	case session.PollMsg:
		if msg.Epoch != m.ctrl.Epoch() {
			return m, nil
		}
		if !m.ctrl.PollValidity() {
			return m.afterLogout()
		}
		return m, session.PollCmd(msg.Epoch, m.ctrl.Config().PollInterval)

	case session.AuthExpiredMsg:
		if msg.Epoch != m.ctrl.Epoch() {
			return m, nil
		}
		// A 401 from our own logout call is still a logout by choice
		if m.loggingOut {
			m.ctrl.Logout(auth.ReasonExplicit)
			return m.afterLogout()
		}
		if m.ctrl.AuthExpired() {
			return m.afterLogout()
		}
		return m, nil

	case loggedOutMsg:
		m.status.Busy = false
		if msg.epoch != m.ctrl.Epoch() {
			return m, nil
		}
		if msg.err != nil {
			m.log.Debug("server logout failed", zap.Error(msg.err))
		}
		if msg.overlay {
			m.ctrl.LogoutNow()
		} else {
			m.ctrl.Logout(auth.ReasonExplicit)
		}
		return m.afterLogout()

	// ==========================================================================
	// Overlay
	// ==========================================================================
	case components.SessionExtendRequestMsg:
		if err := m.ctrl.ExtendSession(); err != nil {
			m.log.Warn("extend failed", zap.Error(err))
			return m, nil
		}
		m.status.Remaining = m.store.Remaining()
		m.status.Warning = false
		return m, nil

	case components.SessionLogoutRequestMsg:
		return m.beginLogout(true)

	case components.SessionNoticeDismissedMsg:
		m.ctrl.DismissNotice()
		return m, nil

	// ==========================================================================
	// Views
	// ==========================================================================
	case views.LoginResultMsg:
		m.login.Finish(msg)
		if msg.Err != nil {
			return m, nil
		}
		m.ctrl.Login(msg.Email, msg.Role)
		return m, m.startSession()

	case views.RegisterResultMsg:
		m.register.Finish(msg)
		if msg.Err != nil {
			return m, nil
		}
		text := msg.Message
		if text == "" {
			text = "Account created. Please sign in."
		}
		m.ctrl.ShowLogin()
		m.login.SetInfo(text)
		return m, m.register.Reset()

	case views.ShowRegisterMsg:
		m.ctrl.ShowRegister()
		return m, nil

	case views.ShowLoginMsg:
		m.ctrl.ShowLogin()
		return m, nil

	case views.ToastMsg:
		m.toasts.Add(msg.Kind, msg.Text)
		return m, nil

	case views.Stamped:
		if m.dash == nil || msg.SessionEpoch() != m.ctrl.Epoch() {
			return m, nil
		}
		cmd := m.dash.Update(msg)
		m.syncShortcuts()
		return m, cmd
	}

	return m, m.forward(msg)
}

// handleTick advances the session timer and re-arms the tick.
func (m *Model) handleTick(msg session.TickMsg) (tea.Model, tea.Cmd) {
	if msg.Epoch != m.ctrl.Epoch() || !m.ctrl.Authenticated() {
		return m, nil
	}
	m.toasts.Prune()

	switch m.ctrl.Tick() {
	case session.EventExpired:
		return m.afterLogout()
	case session.EventWarningShown:
		m.overlay.Show(m.ctrl.Timer().Remaining())
	case session.EventWarningHidden:
		if !m.overlay.IsExpired() {
			m.overlay.Hide()
		}
	}

	remaining := m.ctrl.Timer().Remaining()
	if m.overlay.IsVisible() && !m.overlay.IsExpired() {
		m.overlay.UpdateTime(remaining)
	}
	m.status.Remaining = remaining
	m.status.Warning = m.ctrl.Timer().State() == session.StateWarning

	return m, session.TickCmd(msg.Epoch, m.ctrl.Config().TickInterval)
}

// handleKey records activity and routes the key to whatever has focus.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.endSession()
		return m, tea.Quit
	}

	m.ctrl.Activity(session.KeyPress)

	if m.overlay.IsVisible() {
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}

	if m.ctrl.Authenticated() && key.Matches(msg, m.keys.Logout) {
		return m.beginLogout(false)
	}

	return m, m.forward(msg)
}

// forward passes msg to the active view.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	switch m.ctrl.State().View {
	case auth.ViewLogin:
		return m.login.Update(msg)
	case auth.ViewRegister:
		return m.register.Update(msg)
	case auth.ViewDashboard:
		if m.dash == nil || m.loggingOut {
			return nil
		}
		cmd := m.dash.Update(msg)
		m.syncShortcuts()
		return cmd
	}
	return nil
}

func (m *Model) syncShortcuts() {
	if m.dash == nil {
		return
	}
	shortcuts := m.dash.Shortcuts()
	shortcuts = append(shortcuts,
		components.Shortcut{Key: m.keys.Logout.Help().Key, Desc: m.keys.Logout.Help().Desc},
		components.Shortcut{Key: m.keys.Quit.Help().Key, Desc: m.keys.Quit.Help().Desc},
	)
	m.status.Shortcuts = shortcuts
	m.status.Busy = m.dash.Busy() || m.loggingOut
}

// bodyHeight is the space left for the dashboard above the status bar.
func (m *Model) bodyHeight() int {
	return max(m.height-1, 0)
}

// View renders the current screen.
func (m *Model) View() string {
	st := m.ctrl.State()

	if st.LoadingAuth {
		msg := m.theme.Muted.Render("Restoring session...")
		if m.width == 0 || m.height == 0 {
			return msg
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	if m.overlay.IsVisible() {
		return m.overlay.View()
	}

	switch st.View {
	case auth.ViewRegister:
		return m.register.View()
	case auth.ViewDashboard:
		if m.dash != nil {
			return m.viewDashboard()
		}
	}
	return m.login.View()
}

func (m *Model) viewDashboard() string {
	body := m.dash.View()
	if toasts := m.toasts.Toasts(); len(toasts) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", components.RenderToastStack(toasts, m.width))
	}
	if m.width > 0 && m.height > 1 {
		body = lipgloss.Place(m.width, m.bodyHeight(), lipgloss.Left, lipgloss.Top, body)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.status.View())
}

// Authenticated reports whether a dashboard is showing.
func (m *Model) Authenticated() bool { return m.ctrl.Authenticated() }

// Overlay returns the session overlay.
func (m *Model) Overlay() *components.SessionTimeoutOverlay { return &m.overlay }

// Dashboard returns the active dashboard, or nil.
func (m *Model) Dashboard() views.Dashboard { return m.dash }

// SessionContext returns the context of the active session, or nil.
func (m *Model) SessionContext() context.Context { return m.sessCtx }

// Shutdown releases per-session resources.
func (m *Model) Shutdown() { m.endSession() }

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"go.uber.org/zap"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/session"
	"github.com/jeranaias/clinic-tui/internal/tokenstore"
)

// =============================================================================
// VIEW STATE
// =============================================================================

// View is the top-level screen.
type View int

const (
	ViewLogin View = iota
	ViewRegister
	ViewDashboard
)

// String returns the string representation of the view.
func (v View) String() string {
	switch v {
	case ViewLogin:
		return "login"
	case ViewRegister:
		return "register"
	case ViewDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// Reason records why a session ended.
type Reason int

const (
	ReasonExplicit Reason = iota
	ReasonExpired
	ReasonValidityPoll
	ReasonAuthExpired
)

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case ReasonExplicit:
		return "explicit"
	case ReasonExpired:
		return "timer_expired"
	case ReasonValidityPoll:
		return "validity_poll"
	case ReasonAuthExpired:
		return "auth_expired"
	default:
		return "unknown"
	}
}

// State is a snapshot of the session view state.
type State struct {
	View        View
	User        *model.User
	LoadingAuth bool
}

// IdentityFunc extracts display claims from a bearer token.
type IdentityFunc func(token string) model.Identity

// =============================================================================
// CONTROLLER
// =============================================================================

// Option configures a Controller.
type Option func(*Controller)

// WithSessionConfig sets the timer and listener configuration.
func WithSessionConfig(cfg session.Config) Option {
	return func(c *Controller) { c.cfg = cfg }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithSignal shares an auth-expired signal with the HTTP client.
func WithSignal(sig *session.Signal) Option {
	return func(c *Controller) {
		if sig != nil {
			c.signal = sig
		}
	}
}

// WithIdentity sets how display claims are read from the token.
func WithIdentity(fn IdentityFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.identify = fn
		}
	}
}

// Controller owns the session view state.
type Controller struct {
	store    tokenstore.Service
	cfg      session.Config
	timer    *session.Timer
	listener *session.ActivityListener
	signal   *session.Signal
	identify IdentityFunc
	log      *zap.Logger

	view    View
	user    *model.User
	loading bool
	epoch   uint64

	// notice is set by a forced logout and cleared by the next login
	notice     bool
	lastReason Reason
}

// New creates a Controller over store. LoadingAuth is true until Restore.
func New(store tokenstore.Service, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		cfg:      session.DefaultConfig(),
		signal:   session.NewSignal(),
		identify: func(string) model.Identity { return model.Identity{} },
		log:      zap.NewNop(),
		view:     ViewLogin,
		loading:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.timer = session.NewTimer(store, c.cfg)
	c.cfg = c.timer.Config()
	c.listener = session.NewActivityListener(store, c.cfg.Validity, c.log)
	return c
}

// State returns the current view state.
func (c *Controller) State() State {
	return State{View: c.view, User: c.user, LoadingAuth: c.loading}
}

// Authenticated reports whether a user is signed in.
func (c *Controller) Authenticated() bool {
	return c.user != nil
}

// Epoch identifies the current session generation.
func (c *Controller) Epoch() uint64 {
	return c.epoch
}

// Timer exposes the session timer for rendering.
func (c *Controller) Timer() *session.Timer {
	return c.timer
}

// Signal returns the auth-expired signal.
func (c *Controller) Signal() *session.Signal {
	return c.signal
}

// Config returns the effective session configuration.
func (c *Controller) Config() session.Config {
	return c.cfg
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Restore resumes a persisted session. It reports whether one was found and
// always ends the loading state.
func (c *Controller) Restore() bool {
	defer func() { c.loading = false }()

	rec, ok := c.store.TokenData()
	if !ok {
		c.view = ViewLogin
		return false
	}

	c.begin(rec.Email, rec.Role, rec.Token)
	c.log.Info("SESSION_RESTORED",
		zap.String("email", rec.Email),
		zap.String("role", rec.Role.String()),
		zap.Duration("remaining", c.store.Remaining()),
	)
	return true
}

// Login switches to the dashboard for a user whose token has already been
// stored.
func (c *Controller) Login(email string, role model.Role) {
	token, _ := c.store.Token()
	c.loading = false
	c.begin(email, role, token)
	c.log.Info("login", zap.String("email", email), zap.String("role", role.String()))
}

func (c *Controller) begin(email string, role model.Role, token string) {
	c.user = model.NewUser(email, role, c.identify(token))
	c.view = ViewDashboard
	c.notice = false
	c.epoch++
	c.timer.Reset()
	c.signal.Reset()
}

// Logout clears the store and returns to the login view. It is safe to
// call from several expiry paths at once: only the first call ends the
// session and returns true.
func (c *Controller) Logout(reason Reason) bool {
	if err := c.store.Clear(); err != nil {
		c.log.Warn("failed to clear token store", zap.Error(err))
	}
	if c.user == nil {
		return false
	}

	c.log.Info("SESSION_TERMINATED",
		zap.String("email", c.user.Email),
		zap.Stringer("reason", reason),
	)

	c.user = nil
	c.view = ViewLogin
	c.epoch++
	c.lastReason = reason
	c.notice = reason != ReasonExplicit
	c.timer.Reset()
	return true
}

// ShowRegister switches to the registration form. Ignored while signed in.
func (c *Controller) ShowRegister() {
	if c.user == nil {
		c.view = ViewRegister
	}
}

// ShowLogin switches to the login form. Ignored while signed in.
func (c *Controller) ShowLogin() {
	if c.user == nil {
		c.view = ViewLogin
	}
}

// ExpiredNotice reports whether the last session was ended by expiry
// rather than by the user, and why.
func (c *Controller) ExpiredNotice() (Reason, bool) {
	return c.lastReason, c.notice
}

// DismissNotice clears the expiry notice.
func (c *Controller) DismissNotice() {
	c.notice = false
}

// =============================================================================
// SESSION WIRING
// =============================================================================

// Tick advances the session timer. Expiry logs the user out.
func (c *Controller) Tick() session.Event {
	if c.user == nil {
		return session.EventNone
	}

	ev := c.timer.Tick()
	switch ev {
	case session.EventWarningShown:
		c.log.Info("SESSION_WARNING",
			zap.String("email", c.user.Email),
			zap.Duration("remaining", c.timer.Remaining()),
		)
	case session.EventExpired:
		c.log.Info("SESSION_EXPIRED", zap.String("email", c.user.Email))
		c.Logout(ReasonExpired)
	}
	return ev
}

// Activity reports an interaction and whether it extended the session.
func (c *Controller) Activity(kind session.ActivityKind) bool {
	if c.user == nil {
		return false
	}
	return c.listener.Observe(kind)
}

// PollValidity runs the periodic validity check and logs out when the
// token is gone. It reports whether the session is still valid.
func (c *Controller) PollValidity() bool {
	if c.user == nil {
		return false
	}
	if c.listener.Poll() {
		return true
	}
	c.Logout(ReasonValidityPoll)
	return false
}

// AuthExpired handles the auth-expired signal.
func (c *Controller) AuthExpired() bool {
	return c.Logout(ReasonAuthExpired)
}

// ExtendSession is the warning overlay's "extend" action.
func (c *Controller) ExtendSession() error {
	if err := c.timer.Extend(); err != nil {
		return err
	}
	c.log.Info("SESSION_EXTENDED", zap.Duration("window", c.cfg.Validity))
	return nil
}

// LogoutNow is the warning overlay's "logout now" action.
func (c *Controller) LogoutNow() bool {
	if c.timer.LogoutNow() != session.EventLogout {
		return false
	}
	return c.Logout(ReasonExplicit)
}

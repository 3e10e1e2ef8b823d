// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/session"
	"github.com/jeranaias/clinic-tui/internal/tokenstore"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type harness struct {
	clock   *fakeClock
	backend *tokenstore.MemoryBackend
	store   *tokenstore.Store
	ctrl    *Controller
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	backend := tokenstore.NewMemoryBackend()
	store := tokenstore.New(backend, tokenstore.WithClock(clock.Now))
	return &harness{
		clock:   clock,
		backend: backend,
		store:   store,
		ctrl:    New(store),
	}
}

// login stores a token the way the API client does, then tells the
// controller.
func (h *harness) login(t *testing.T, email string, role model.Role) {
	t.Helper()
	require.NoError(t, h.store.SetToken("tok-"+email, email, role, 0))
	h.ctrl.Login(email, role)
}

// =============================================================================
// RESTORE
// =============================================================================

func TestController_InitialState(t *testing.T) {
	h := newHarness(t)
	st := h.ctrl.State()
	assert.True(t, st.LoadingAuth)
	assert.Equal(t, ViewLogin, st.View)
	assert.Nil(t, st.User)
}

func TestController_RestoreWithoutSession(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.ctrl.Restore())

	st := h.ctrl.State()
	assert.False(t, st.LoadingAuth)
	assert.Equal(t, ViewLogin, st.View)
}

func TestController_RestoreValidSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SetToken("T", "doc@x.ro", model.RoleDoctor, 0))

	// Simulates a restart: a fresh controller over the same store
	ctrl := New(h.store)
	assert.True(t, ctrl.Restore())

	st := ctrl.State()
	assert.False(t, st.LoadingAuth)
	assert.Equal(t, ViewDashboard, st.View)
	require.NotNil(t, st.User)
	assert.Equal(t, "doc@x.ro", st.User.Email)
	assert.Equal(t, model.RoleDoctor, st.User.Role)
}

func TestController_RestoreExpiredSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SetToken("T", "a@x.ro", model.RoleClient, time.Minute))
	h.clock.Advance(2 * time.Minute)

	assert.False(t, h.ctrl.Restore())
	assert.Equal(t, ViewLogin, h.ctrl.State().View)
	_, err := h.backend.Get(tokenstore.TokenKey)
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestController_RestoreRejectsEmptyRole(t *testing.T) {
	h := newHarness(t)
	raw := fmt.Sprintf(`{"token":"T","email":"a@x.ro","role":"","expiresAt":%d}`,
		h.clock.Now().Add(2*time.Minute).UnixMilli())
	require.NoError(t, h.backend.Put(tokenstore.TokenKey, []byte(raw)))

	assert.False(t, h.ctrl.Restore())
	st := h.ctrl.State()
	assert.Equal(t, ViewLogin, st.View)
	assert.Nil(t, st.User)
	_, err := h.backend.Get(tokenstore.TokenKey)
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
}

func TestController_RestoreUsesIdentity(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.SetToken("T", "a@x.ro", model.RoleClient, 0))

	ctrl := New(h.store, WithIdentity(func(token string) model.Identity {
		assert.Equal(t, "T", token)
		return model.Identity{Subject: "u-1", Name: "Ana Pop"}
	}))
	require.True(t, ctrl.Restore())
	assert.Equal(t, "u-1", ctrl.State().User.ID)
	assert.Equal(t, "Ana Pop", ctrl.State().User.DisplayName)
}

// =============================================================================
// SCENARIOS
// =============================================================================

func TestScenarioA_LoginShowsDashboard(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Restore()
	h.login(t, "a@x.com", model.RoleClient)

	st := h.ctrl.State()
	assert.Equal(t, ViewDashboard, st.View)
	require.NotNil(t, st.User)
	assert.Equal(t, model.RoleClient, st.User.Role)
	assert.Equal(t, 180000*time.Millisecond, h.store.Remaining())
	assert.Equal(t, session.EventNone, h.ctrl.Tick())
}

func TestScenarioB_WarningAndExtend(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@x.com", model.RoleClient)
	h.ctrl.Tick()

	h.clock.Advance(130 * time.Second) // 50s left
	assert.Equal(t, session.EventWarningShown, h.ctrl.Tick())
	assert.Equal(t, session.StateWarning, h.ctrl.Timer().State())
	assert.Equal(t, "0:50", session.FormatRemaining(h.ctrl.Timer().Remaining()))

	require.NoError(t, h.ctrl.ExtendSession())
	assert.Equal(t, 180000*time.Millisecond, h.store.Remaining())
	assert.Equal(t, session.StateHidden, h.ctrl.Timer().State())
	assert.Equal(t, session.EventNone, h.ctrl.Tick())
}

func TestScenarioC_ExpiryLogsOutOnce(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@x.com", model.RoleClient)
	epoch := h.ctrl.Epoch()

	h.clock.Advance(3*time.Minute + time.Second)
	assert.Equal(t, session.EventExpired, h.ctrl.Tick())

	st := h.ctrl.State()
	assert.Equal(t, ViewLogin, st.View)
	assert.Nil(t, st.User)
	assert.NotEqual(t, epoch, h.ctrl.Epoch())
	_, ok := h.store.TokenData()
	assert.False(t, ok)

	reason, notice := h.ctrl.ExpiredNotice()
	assert.True(t, notice)
	assert.Equal(t, ReasonExpired, reason)

	// A stale tick after logout does nothing
	assert.Equal(t, session.EventNone, h.ctrl.Tick())
	assert.False(t, h.ctrl.Logout(ReasonExpired))
}

func TestScenarioD_ActivityAboveHalfIgnored(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@x.com", model.RoleClient)

	h.clock.Advance(10 * time.Second) // 170s left
	assert.False(t, h.ctrl.Activity(session.KeyPress))
	assert.Equal(t, 170000*time.Millisecond, h.store.Remaining())
}

func TestScenarioE_ActivityBelowHalfExtends(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@x.com", model.RoleClient)

	h.clock.Advance(100 * time.Second) // 80s left
	assert.True(t, h.ctrl.Activity(session.PointerPress))
	assert.Equal(t, 180000*time.Millisecond, h.store.Remaining())
}

func TestScenarioF_AuthExpiredSignal(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@x.com", model.RoleClient)
	h.clock.Advance(30 * time.Second)

	// The HTTP client clears the store and raises the signal on 401
	require.NoError(t, h.store.Clear())
	h.ctrl.Signal().Raise()

	assert.True(t, h.ctrl.AuthExpired())
	assert.Equal(t, ViewLogin, h.ctrl.State().View)
	reason, notice := h.ctrl.ExpiredNotice()
	assert.True(t, notice)
	assert.Equal(t, ReasonAuthExpired, reason)
}

// =============================================================================
// OTHER TRANSITIONS
// =============================================================================

func TestController_ExplicitLogout(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@x.com", model.RoleAdmin)

	assert.True(t, h.ctrl.Logout(ReasonExplicit))
	assert.False(t, h.ctrl.Logout(ReasonExplicit), "second logout is a no-op")

	_, notice := h.ctrl.ExpiredNotice()
	assert.False(t, notice, "explicit logout shows no expiry notice")
	assert.False(t, h.store.IsValid())
}

func TestController_LogoutNowFromWarning(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@x.com", model.RoleClient)
	h.clock.Advance(150 * time.Second)
	require.Equal(t, session.EventWarningShown, h.ctrl.Tick())

	assert.True(t, h.ctrl.LogoutNow())
	assert.Equal(t, ViewLogin, h.ctrl.State().View)
}

func TestController_PollValidity(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@x.com", model.RoleClient)

	h.clock.Advance(30 * time.Second)
	assert.True(t, h.ctrl.PollValidity())

	h.clock.Advance(3 * time.Minute)
	assert.False(t, h.ctrl.PollValidity())
	assert.Equal(t, ViewLogin, h.ctrl.State().View)
	reason, _ := h.ctrl.ExpiredNotice()
	assert.Equal(t, ReasonValidityPoll, reason)
}

func TestController_LoginClearsNoticeAndStaleSignal(t *testing.T) {
	h := newHarness(t)
	h.login(t, "a@x.com", model.RoleClient)
	h.ctrl.Signal().Raise()
	h.ctrl.AuthExpired()

	// A late raise from a request of the old session
	h.ctrl.Signal().Raise()
	h.login(t, "a@x.com", model.RoleClient)

	_, notice := h.ctrl.ExpiredNotice()
	assert.False(t, notice)
	assert.Equal(t, ViewDashboard, h.ctrl.State().View)
}

func TestController_RegisterNavigation(t *testing.T) {
	h := newHarness(t)
	h.ctrl.Restore()

	h.ctrl.ShowRegister()
	assert.Equal(t, ViewRegister, h.ctrl.State().View)
	h.ctrl.ShowLogin()
	assert.Equal(t, ViewLogin, h.ctrl.State().View)

	h.login(t, "a@x.com", model.RoleClient)
	h.ctrl.ShowRegister()
	assert.Equal(t, ViewDashboard, h.ctrl.State().View, "navigation ignored while signed in")
}

func TestController_EpochAdvances(t *testing.T) {
	h := newHarness(t)
	e0 := h.ctrl.Epoch()
	h.login(t, "a@x.com", model.RoleClient)
	e1 := h.ctrl.Epoch()
	h.ctrl.Logout(ReasonExplicit)
	e2 := h.ctrl.Epoch()

	assert.Less(t, e0, e1)
	assert.Less(t, e1, e2)
}

func TestController_ActivityIgnoredWhenLoggedOut(t *testing.T) {
	h := newHarness(t)
	assert.False(t, h.ctrl.Activity(session.Click))
	assert.False(t, h.ctrl.PollValidity())
	assert.Equal(t, session.EventNone, h.ctrl.Tick())
}

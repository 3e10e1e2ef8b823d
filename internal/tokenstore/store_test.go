// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tokenstore

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/clinic-tui/internal/model"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
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

func newTestStore(t *testing.T) (*Store, *MemoryBackend, *fakeClock) {
	t.Helper()
	backend := NewMemoryBackend()
	clock := newFakeClock()
	return New(backend, WithClock(clock.Now)), backend, clock
}

// =============================================================================
// SET / GET
// =============================================================================

func TestStore_SetToken(t *testing.T) {
	store, backend, clock := newTestStore(t)

	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleClient, 3*time.Minute))

	assert.True(t, store.IsValid())
	assert.Equal(t, 3*time.Minute, store.Remaining())

	tok, ok := store.Token()
	require.True(t, ok)
	assert.Equal(t, "T1", tok)

	data, err := backend.Get(TokenKey)
	require.NoError(t, err)
	var persisted map[string]any
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, "T1", persisted["token"])
	assert.Equal(t, "a@x.ro", persisted["email"])
	assert.Equal(t, "Client", persisted["role"])
	assert.EqualValues(t, clock.Now().Add(3*time.Minute).UnixMilli(), persisted["expiresAt"])
}

func TestStore_SetTokenDefaultValidity(t *testing.T) {
	store, _, _ := newTestStore(t)
	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleAdmin, 0))
	assert.Equal(t, DefaultValidity, store.Remaining())
}

func TestStore_SetTokenOverwrites(t *testing.T) {
	store, _, clock := newTestStore(t)
	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleClient, time.Minute))
	clock.Advance(30 * time.Second)
	require.NoError(t, store.SetToken("T2", "b@x.ro", model.RoleDoctor, 5*time.Minute))

	rec, ok := store.TokenData()
	require.True(t, ok)
	assert.Equal(t, "T2", rec.Token)
	assert.Equal(t, "b@x.ro", rec.Email)
	assert.Equal(t, model.RoleDoctor, rec.Role)
	assert.Equal(t, 5*time.Minute, store.Remaining())
}

func TestStore_SetTokenRejectsBadInput(t *testing.T) {
	store, _, _ := newTestStore(t)
	assert.ErrorIs(t, store.SetToken("", "a@x.ro", model.RoleClient, 0), ErrEmptyToken)
	assert.ErrorIs(t, store.SetToken("T", "a@x.ro", model.Role("Nurse"), 0), model.ErrUnknownRole)
	assert.False(t, store.IsValid())
}

// =============================================================================
// EXPIRY
// =============================================================================

func TestStore_ExpiredRecordIsAbsent(t *testing.T) {
	store, backend, clock := newTestStore(t)
	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleClient, time.Minute))

	clock.Advance(time.Minute)

	assert.False(t, store.IsValid())
	assert.Zero(t, store.Remaining())

	// IsValid and Remaining do not heal
	_, err := backend.Get(TokenKey)
	require.NoError(t, err)

	_, ok := store.Token()
	assert.False(t, ok)

	_, err = backend.Get(TokenKey)
	assert.ErrorIs(t, err, ErrNotFound, "expired record should be removed on read")
}

func TestStore_TokenDataClearsExpired(t *testing.T) {
	store, backend, clock := newTestStore(t)
	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleClient, time.Minute))
	clock.Advance(2 * time.Minute)

	_, ok := store.TokenData()
	assert.False(t, ok)
	_, err := backend.Get(TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_RemainingCountsDown(t *testing.T) {
	store, _, clock := newTestStore(t)
	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleClient, 3*time.Minute))

	clock.Advance(100 * time.Second)
	assert.Equal(t, 80*time.Second, store.Remaining())
}

// =============================================================================
// MALFORMED DATA
// =============================================================================

func TestStore_MalformedRecord(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{not json"},
		{"missing token", `{"email":"a@x.ro","role":"Client","expiresAt":99999999999999}`},
		{"unknown role", `{"token":"T","email":"a@x.ro","role":"Nurse","expiresAt":99999999999999}`},
		{"empty role", `{"token":"T","email":"a@x.ro","role":"","expiresAt":99999999999999}`},
		{"missing role", `{"token":"T","email":"a@x.ro","expiresAt":99999999999999}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, backend, _ := newTestStore(t)
			require.NoError(t, backend.Put(TokenKey, []byte(tc.data)))

			assert.False(t, store.IsValid())
			assert.Zero(t, store.Remaining())

			_, ok := store.Token()
			assert.False(t, ok)
			_, err := backend.Get(TokenKey)
			assert.ErrorIs(t, err, ErrNotFound, "malformed record should be removed")
		})
	}
}

func TestStore_LowercaseRoleIsAccepted(t *testing.T) {
	store, backend, clock := newTestStore(t)
	raw := `{"token":"T","email":"a@x.ro","role":"doctor","expiresAt":` +
		jsonInt(clock.Now().Add(time.Minute).UnixMilli()) + `}`
	require.NoError(t, backend.Put(TokenKey, []byte(raw)))

	rec, ok := store.TokenData()
	require.True(t, ok)
	assert.Equal(t, model.RoleDoctor, rec.Role)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// =============================================================================
// EXTEND / CLEAR
// =============================================================================

func TestStore_Extend(t *testing.T) {
	store, _, clock := newTestStore(t)
	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleClient, 3*time.Minute))

	clock.Advance(2 * time.Minute)
	require.NoError(t, store.Extend(3*time.Minute))
	assert.Equal(t, 3*time.Minute, store.Remaining())

	rec, ok := store.TokenData()
	require.True(t, ok)
	assert.Equal(t, "T1", rec.Token, "extension keeps token")
}

func TestStore_ExtendWithoutRecordIsNoop(t *testing.T) {
	store, backend, clock := newTestStore(t)
	assert.ErrorIs(t, store.Extend(time.Minute), ErrNoSession)
	_, err := backend.Get(TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleClient, time.Minute))
	clock.Advance(time.Minute)
	assert.ErrorIs(t, store.Extend(time.Minute), ErrNoSession, "expired record is not revived")
	assert.False(t, store.IsValid())
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	store, _, _ := newTestStore(t)
	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleClient, 0))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok := store.Token()
	assert.False(t, ok)
	_, ok = store.TokenData()
	assert.False(t, ok)
	assert.False(t, store.IsValid())
	assert.Zero(t, store.Remaining())
}

// =============================================================================
// PERSISTENCE ACROSS RESTART
// =============================================================================

func TestStore_SurvivesRestart(t *testing.T) {
	backends := map[string]func(t *testing.T) Backend{
		"file": func(t *testing.T) Backend {
			b, err := NewFileBackend(filepath.Join(t.TempDir(), "store"))
			require.NoError(t, err)
			return b
		},
		"sqlite": func(t *testing.T) Backend {
			b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "clinic.db"))
			require.NoError(t, err)
			t.Cleanup(func() { b.Close() })
			return b
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			backend := open(t)
			clock := newFakeClock()

			first := New(backend, WithClock(clock.Now))
			require.NoError(t, first.SetToken("T1", "a@x.ro", model.RoleAdmin, 3*time.Minute))

			// A fresh Store has no in-memory copy
			clock.Advance(time.Minute)
			second := New(backend, WithClock(clock.Now))
			tok, ok := second.Token()
			require.True(t, ok)
			assert.Equal(t, "T1", tok)
			assert.Equal(t, 2*time.Minute, second.Remaining())

			require.NoError(t, second.Clear())
			assert.False(t, first.IsValid())
		})
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, _, _ := newTestStore(t)
	require.NoError(t, store.SetToken("T1", "a@x.ro", model.RoleClient, 0))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					store.Token()
				case 1:
					store.Extend(time.Minute)
				case 2:
					store.Remaining()
				case 3:
					store.IsValid()
				}
			}
		}(i)
	}
	wg.Wait()

	_, ok := store.TokenData()
	assert.True(t, ok)
}

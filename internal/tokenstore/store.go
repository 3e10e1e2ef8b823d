// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tokenstore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/util"
)

var (
	// ErrEmptyToken is returned by SetToken when token is empty.
	ErrEmptyToken = errors.New("empty token")

	// ErrNoSession is returned by Extend when there is no valid record.
	// The store is left unchanged.
	ErrNoSession = errors.New("no active session")
)

// Service is the credential API the rest of the application depends on.
type Service interface {
	SetToken(token, email string, role model.Role, validity time.Duration) error
	Token() (string, bool)
	TokenData() (Record, bool)
	IsValid() bool
	Remaining() time.Duration
	Extend(d time.Duration) error
	Clear() error
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for session audit events.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Store is the single owner of the persisted Record.
type Store struct {
	mu      sync.Mutex
	backend Backend
	now     func() time.Time
	log     *zap.Logger

	// token is the in-memory copy of the last token read or written.
	token string
}

var _ Service = (*Store)(nil)

// New creates a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetToken persists a new record expiring validity from now, replacing any
// previous record. A non-positive validity means DefaultValidity.
func (s *Store) SetToken(token, email string, role model.Role, validity time.Duration) error {
	if token == "" {
		return ErrEmptyToken
	}
	if !role.Valid() {
		return fmt.Errorf("%w: %q", model.ErrUnknownRole, role)
	}
	if validity <= 0 {
		validity = DefaultValidity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		Token:     token,
		Email:     email,
		Role:      role,
		ExpiresAt: s.now().Add(validity).UnixMilli(),
	}
	if err := s.writeLocked(rec); err != nil {
		return err
	}
	s.token = token

	s.log.Info("SESSION_CREATED",
		zap.String("email", email),
		zap.String("role", role.String()),
		zap.Time("expires_at", rec.Expiry()),
		zap.String("token_fp", util.Fingerprint(token)),
	)
	return nil
}

// Token returns the bearer token when the persisted record is still valid.
// An expired or malformed record is removed.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.readLocked(true)
	if !ok {
		return "", false
	}
	if s.token != rec.Token {
		// Another process replaced the record
		s.token = rec.Token
	}
	return s.token, true
}

// TokenData returns the full record when it is still valid. An expired or
// malformed record is removed.
func (s *Store) TokenData() (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked(true)
}

// IsValid reports whether a record exists and has not expired. It never
// modifies the store and fails closed on unreadable data.
func (s *Store) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.readLocked(false)
	return ok
}

// Remaining returns the time until expiry, or zero when there is no valid
// record.
func (s *Store) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.readLocked(false)
	if !ok {
		return 0
	}
	return rec.RemainingAt(s.now())
}

// Extend moves the expiry to d from now. A non-positive d means
// DefaultValidity. Returns ErrNoSession without changing anything when
// there is no valid record.
func (s *Store) Extend(d time.Duration) error {
	if d <= 0 {
		d = DefaultValidity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.readLocked(true)
	if !ok {
		return ErrNoSession
	}
	rec.ExpiresAt = s.now().Add(d).UnixMilli()
	if err := s.writeLocked(rec); err != nil {
		return err
	}

	s.log.Debug("SESSION_EXTENDED",
		zap.String("email", rec.Email),
		zap.Time("expires_at", rec.Expiry()),
	)
	return nil
}

// Clear removes the in-memory and persisted copies. Clearing an empty store
// is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

func (s *Store) clearLocked() error {
	s.token = ""
	if err := s.backend.Delete(TokenKey); err != nil {
		return fmt.Errorf("failed to delete token record: %w", err)
	}
	return nil
}

func (s *Store) writeLocked(rec Record) error {
	data, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("failed to encode token record: %w", err)
	}
	if err := s.backend.Put(TokenKey, data); err != nil {
		return fmt.Errorf("failed to persist token record: %w", err)
	}
	return nil
}

// readLocked loads and validates the persisted record. When heal is true an
// expired or malformed record is deleted.
func (s *Store) readLocked(heal bool) (Record, bool) {
	data, err := s.backend.Get(TokenKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("token record unreadable", zap.Error(err))
		}
		return Record{}, false
	}

	rec, err := decodeRecord(data)
	if err != nil {
		if heal {
			s.log.Warn("discarding malformed token record", zap.Error(err))
			if err := s.clearLocked(); err != nil {
				s.log.Warn("failed to remove malformed token record", zap.Error(err))
			}
		}
		return Record{}, false
	}

	if rec.ExpiredAt(s.now()) {
		if heal {
			s.log.Info("SESSION_EXPIRED",
				zap.String("email", rec.Email),
				zap.Time("expired_at", rec.Expiry()),
			)
			if err := s.clearLocked(); err != nil {
				s.log.Warn("failed to remove expired token record", zap.Error(err))
			}
		}
		return Record{}, false
	}
	return rec, true
}

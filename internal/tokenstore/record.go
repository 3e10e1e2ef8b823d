// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jeranaias/clinic-tui/internal/model"
)

// TokenKey is the backend key holding the serialized Record.
const TokenKey = "authTokenData"

// DefaultValidity is the validity window applied by SetToken and Extend
// when the caller passes zero.
const DefaultValidity = 3 * time.Minute

// Record is the persisted credential. ExpiresAt is milliseconds since the
// Unix epoch.
type Record struct {
	Token     string     `json:"token"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	ExpiresAt int64      `json:"expiresAt"`
}

// Expiry returns ExpiresAt as a time.Time.
func (r Record) Expiry() time.Time {
	return time.UnixMilli(r.ExpiresAt)
}

// ExpiredAt reports whether the record is expired at now.
func (r Record) ExpiredAt(now time.Time) bool {
	return now.UnixMilli() >= r.ExpiresAt
}

// RemainingAt returns the time left at now, never negative.
func (r Record) RemainingAt(now time.Time) time.Duration {
	left := time.Duration(r.ExpiresAt-now.UnixMilli()) * time.Millisecond
	if left < 0 {
		return 0
	}
	return left
}

var errMalformed = errors.New("malformed token record")

func decodeRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if r.Token == "" || r.ExpiresAt == 0 {
		return Record{}, fmt.Errorf("%w: missing token or expiresAt", errMalformed)
	}
	if !r.Role.Valid() {
		return Record{}, fmt.Errorf("%w: role %q", errMalformed, r.Role)
	}
	return r, nil
}

func encodeRecord(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// ErrUnknownRole is returned when a role string is not Admin, Client or Doctor.
var ErrUnknownRole = errors.New("unknown role")

// Role is the account role that selects a dashboard.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleClient Role = "Client"
	RoleDoctor Role = "Doctor"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleClient, RoleDoctor}

var titleCaser = cases.Title(language.Und)

// ParseRole normalizes s to a canonical Role. Matching is case-insensitive
// so "client", "CLIENT" and "Client" are all RoleClient.
func ParseRole(s string) (Role, error) {
	r := Role(titleCaser.String(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Valid reports whether r is one of the canonical roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleDoctor:
		return true
	}
	return false
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleClient:
		return "Patient"
	case RoleDoctor:
		return "Doctor"
	default:
		return string(r)
	}
}

// UnmarshalJSON accepts any casing the backend sends. An empty string
// leaves the role unset.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		*r = ""
		return nil
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

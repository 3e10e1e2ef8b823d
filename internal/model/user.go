// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"

	"github.com/google/uuid"
)

// User is what the UI knows about the signed-in account. It is derived from
// the token record and never persisted.
type User struct {
	ID          string
	Email       string
	Role        Role
	DisplayName string
}

// Identity carries optional claims decoded from the bearer token.
type Identity struct {
	Subject string
	Name    string
}

// NewUser builds the display projection for email and role. Claims from the
// token fill in the id and name when present. Otherwise the id is a random
// placeholder and the name is the local part of the email.
func NewUser(email string, role Role, id Identity) *User {
	u := &User{
		ID:          id.Subject,
		Email:       email,
		Role:        role,
		DisplayName: id.Name,
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.DisplayName == "" {
		u.DisplayName = emailLocalPart(email)
	}
	return u
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}

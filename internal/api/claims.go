// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/jeranaias/clinic-tui/internal/model"
)

// tokenClaims are the claims the backend puts in its bearer tokens.
type tokenClaims struct {
	Name      string `json:"name,omitempty"`
	GivenName string `json:"given_name,omitempty"`
	jwt.RegisteredClaims
}

// Identity reads display claims from a JWT without verifying it. The
// signature is the backend's concern; these values are only shown on
// screen. Opaque or malformed tokens yield an empty Identity.
func Identity(token string) model.Identity {
	if token == "" {
		return model.Identity{}
	}
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return model.Identity{}
	}
	name := claims.Name
	if name == "" {
		name = claims.GivenName
	}
	return model.Identity{Subject: claims.Subject, Name: name}
}

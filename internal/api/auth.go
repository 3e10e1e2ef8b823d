// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/jeranaias/clinic-tui/internal/model"
)

// Login authenticates and stores the returned token. The role in the
// response is normalized to the canonical casing.
func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/Auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrNoToken
	}

	role, err := model.ParseRole(resp.Role)
	if err != nil {
		return nil, err
	}
	resp.Role = role.String()
	if resp.Email == "" {
		resp.Email = email
	}

	if err := c.creds.SetToken(resp.Token, resp.Email, role, c.validity); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	return &resp, nil
}

// Logout tells the backend the session is over and clears the local
// credential. The local clear happens even if the request fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/Auth/logout", nil, nil)
	if clearErr := c.creds.Clear(); clearErr != nil {
		c.log.Warn("failed to clear token store", zap.Error(clearErr))
	}
	return err
}

// Register creates an account and returns the server's message.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	var resp model.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/Auth/register", req, &resp); err != nil {
		return "", err
	}
	if resp.Message == "" {
		resp.Message = "Registration successful"
	}
	return resp.Message, nil
}

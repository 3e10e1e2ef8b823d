// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jeranaias/clinic-tui/internal/model"
)

// AdminDashboard returns the admin statistics.
func (c *Client) AdminDashboard(ctx context.Context) (*model.AdminDashboard, error) {
	var out model.AdminDashboard
	if err := c.do(ctx, http.MethodGet, "/Admin/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists every account.
func (c *Client) Users(ctx context.Context) ([]model.Account, error) {
	var out []model.Account
	if err := c.do(ctx, http.MethodGet, "/Admin/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AllAppointments lists appointments across all doctors.
func (c *Client) AllAppointments(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	if err := c.do(ctx, http.MethodGet, "/Admin/getAppointments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateUserRole changes an account's role.
func (c *Client) UpdateUserRole(ctx context.Context, req model.UpdateUserRoleRequest) (string, error) {
	var out model.MessageResponse
	if err := c.do(ctx, http.MethodPut, "/Doctor/update-user-role", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// UpdateAppointmentStatus sets an appointment's status.
func (c *Client) UpdateAppointmentStatus(ctx context.Context, id string, req model.UpdateAppointmentStatusRequest) (string, error) {
	var out model.MessageResponse
	path := "/Admin/appointments/" + url.PathEscape(id) + "/status"
	if err := c.do(ctx, http.MethodPut, path, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

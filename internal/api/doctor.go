// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/jeranaias/clinic-tui/internal/model"
)

// DoctorReviews lists reviews about the signed-in doctor.
func (c *Client) DoctorReviews(ctx context.Context) ([]model.Review, error) {
	var out []model.Review
	if err := c.do(ctx, http.MethodGet, "/Doctor/my-reviews", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DoctorAppointments lists the signed-in doctor's appointments.
func (c *Client) DoctorAppointments(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	if err := c.do(ctx, http.MethodGet, "/Doctor/my-appointments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMedicalReport files a report for an appointment.
func (c *Client) CreateMedicalReport(ctx context.Context, req model.CreateMedicalReportRequest) (*model.MedicalReport, error) {
	var out model.MedicalReport
	if err := c.do(ctx, http.MethodPost, "/Doctor/medical-reports", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

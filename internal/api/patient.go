// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jeranaias/clinic-tui/internal/model"
)

// Endpoints under /Client serve the patient dashboard.

// Doctors lists doctors available for booking.
func (c *Client) Doctors(ctx context.Context) ([]model.Doctor, error) {
	var out []model.Doctor
	if err := c.do(ctx, http.MethodGet, "/Client/doctors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAppointment books an appointment.
func (c *Client) CreateAppointment(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	var out model.Appointment
	if err := c.do(ctx, http.MethodPost, "/Client/appointments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyAppointments lists the signed-in patient's appointments.
func (c *Client) MyAppointments(ctx context.Context) ([]model.Appointment, error) {
	var out []model.Appointment
	if err := c.do(ctx, http.MethodGet, "/Client/getAppointments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReview leaves a review for a completed appointment.
func (c *Client) CreateReview(ctx context.Context, req model.CreateReviewRequest) (*model.Review, error) {
	var out model.Review
	if err := c.do(ctx, http.MethodPost, "/Client/reviews", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyReviews lists reviews written by the signed-in patient.
func (c *Client) MyReviews(ctx context.Context) ([]model.Review, error) {
	var out []model.Review
	if err := c.do(ctx, http.MethodGet, "/Client/getReviews", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AppointmentHours lists a doctor's bookable hours on a weekday.
func (c *Client) AppointmentHours(ctx context.Context, doctorID, day string) ([]model.AppointmentHour, error) {
	var out []model.AppointmentHour
	path := "/Client/appointment-hours/doctor/" + url.PathEscape(doctorID) + "/day/" + url.PathEscape(day)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

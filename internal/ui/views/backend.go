// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"

	"github.com/jeranaias/clinic-tui/internal/api"
	"github.com/jeranaias/clinic-tui/internal/model"
)

// AuthBackend is what the login and register forms need.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
	Register(ctx context.Context, req model.RegisterRequest) (string, error)
}

// AdminBackend is what the admin dashboard needs.
type AdminBackend interface {
	AdminDashboard(ctx context.Context) (*model.AdminDashboard, error)
	Users(ctx context.Context) ([]model.Account, error)
	AllAppointments(ctx context.Context) ([]model.Appointment, error)
	UpdateUserRole(ctx context.Context, req model.UpdateUserRoleRequest) (string, error)
	UpdateAppointmentStatus(ctx context.Context, id string, req model.UpdateAppointmentStatusRequest) (string, error)
}

// ClientBackend is what the patient dashboard needs.
type ClientBackend interface {
	Doctors(ctx context.Context) ([]model.Doctor, error)
	CreateAppointment(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error)
	MyAppointments(ctx context.Context) ([]model.Appointment, error)
	CreateReview(ctx context.Context, req model.CreateReviewRequest) (*model.Review, error)
	MyReviews(ctx context.Context) ([]model.Review, error)
	AppointmentHours(ctx context.Context, doctorID, day string) ([]model.AppointmentHour, error)
}

// DoctorBackend is what the doctor dashboard needs.
type DoctorBackend interface {
	DoctorReviews(ctx context.Context) ([]model.Review, error)
	DoctorAppointments(ctx context.Context) ([]model.Appointment, error)
	CreateMedicalReport(ctx context.Context, req model.CreateMedicalReportRequest) (*model.MedicalReport, error)
}

// Backend is the full API surface used by the TUI.
type Backend interface {
	AuthBackend
	AdminBackend
	ClientBackend
	DoctorBackend
}

var _ Backend = (*api.Client)(nil)

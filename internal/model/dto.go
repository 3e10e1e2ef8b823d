// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the body of POST /Auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /Auth/login.
type LoginResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token,omitempty"`
}

// Gender values accepted by registration.
type Gender int

const (
	GenderMale Gender = iota
	GenderFemale
	GenderOther
)

// RegisterRequest is the body of POST /Auth/register. Optional fields are
// omitted from the JSON when unset.
type RegisterRequest struct {
	UserName    string  `json:"userName"`
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	DisplayName string  `json:"displayName"`
	DateOfBirth string  `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Gender      *Gender `json:"gender,omitempty"`
}

// MessageResponse is the generic {"message": "..."} body.
type MessageResponse struct {
	Message string `json:"message"`
}

// =============================================================================
// ADMIN
// =============================================================================

// AppointmentsByStatus breaks down appointment counts.
type AppointmentsByStatus struct {
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	NoShow    int `json:"noShow"`
}

// AdminDashboard is returned by GET /Admin/dashboard.
type AdminDashboard struct {
	TotalUsers           int                  `json:"totalUsers"`
	ClientUsers          int                  `json:"clientUsers"`
	AdminUsers           int                  `json:"adminUsers"`
	DoctorUsers          int                  `json:"doctorUsers"`
	NewUsersThisMonth    int                  `json:"newUsersThisMonth"`
	TotalAppointments    int                  `json:"totalAppointments"`
	TodayAppointments    int                  `json:"todayAppointments"`
	WeeklyAppointments   int                  `json:"weeklyAppointments"`
	AppointmentsByStatus AppointmentsByStatus `json:"appointmentsByStatus"`
}

// Account is a user row from GET /Admin/users.
type Account struct {
	ID          string  `json:"id"`
	UserName    string  `json:"userName"`
	Email       string  `json:"email"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	DisplayName string  `json:"displayName"`
	DateOfBirth string  `json:"dateOfBirth,omitempty"`
	Gender      *Gender `json:"gender,omitempty"`
	Role        Role    `json:"role"`
	CreatedAt   string  `json:"createdAt"`
	IsActive    bool    `json:"isActive"`
}

// UpdateUserRoleRequest is the body of PUT /Doctor/update-user-role.
// Specialization is required by the backend when RoleName is Doctor.
type UpdateUserRoleRequest struct {
	UserID         string `json:"userId"`
	RoleName       string `json:"roleName"`
	Specialization string `json:"specialization,omitempty"`
	Phone          string `json:"phone,omitempty"`
}

// Appointment statuses understood by the backend.
const (
	StatusScheduled  = "scheduled"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
	StatusNoShow     = "no-show"
	StatusInProgress = "in-progress"
)

// AppointmentStatuses lists the statuses an admin may set.
var AppointmentStatuses = []string{
	StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow,
}

// UpdateAppointmentStatusRequest is the body of
// PUT /Admin/appointments/{id}/status.
type UpdateAppointmentStatusRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes,omitempty"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Doctor is a row from GET /Client/doctors.
type Doctor struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Specialization string  `json:"specialization"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone,omitempty"`
	IsActive       bool    `json:"isActive"`
	AverageRating  float64 `json:"averageRating"`
	TotalReviews   int     `json:"totalReviews"`
}

// FullName returns "First Last".
func (d Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}

// CreateAppointmentRequest is the body of POST /Client/appointments.
type CreateAppointmentRequest struct {
	DoctorID        string `json:"doctorId"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	Reason          string `json:"reason"`
	Notes           string `json:"notes,omitempty"`
}

// Appointment is returned by the appointment listing endpoints.
type Appointment struct {
	ID                   string `json:"id"`
	ClientID             string `json:"clientId"`
	ClientName           string `json:"clientName"`
	DoctorID             string `json:"doctorId"`
	DoctorName           string `json:"doctorName"`
	DoctorSpecialization string `json:"doctorSpecialization"`
	AppointmentDate      string `json:"appointmentDate"`
	AppointmentTime      string `json:"appointmentTime"`
	Status               string `json:"status"`
	Reason               string `json:"reason"`
	Notes                string `json:"notes,omitempty"`
	CreatedAt            string `json:"createdAt"`
}

// CreateReviewRequest is the body of POST /Client/reviews.
type CreateReviewRequest struct {
	DoctorID      string `json:"doctorId"`
	AppointmentID string `json:"appointmentId"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// Review is returned by the review listing endpoints.
type Review struct {
	ID              string `json:"id"`
	DoctorID        string `json:"doctorId"`
	DoctorName      string `json:"doctorName"`
	ClientID        string `json:"clientId"`
	ClientName      string `json:"clientName"`
	Rating          int    `json:"rating"`
	Comment         string `json:"comment,omitempty"`
	CreatedAt       string `json:"createdAt"`
	AppointmentID   string `json:"appointmentId"`
	AppointmentDate string `json:"appointmentDate"`
}

// AppointmentHour is a bookable slot from
// GET /Client/appointment-hours/doctor/{id}/day/{day}.
type AppointmentHour struct {
	ID        string `json:"id"`
	DoctorID  string `json:"doctorId"`
	Hour      string `json:"hour"` // HH:mm
	DayOfWeek string `json:"dayOfWeek"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// =============================================================================
// DOCTOR
// =============================================================================

// CreateMedicalReportRequest is the body of POST /Doctor/medical-reports.
type CreateMedicalReportRequest struct {
	AppointmentID string `json:"appointmentId"`
	Antecedente   string `json:"antecedente,omitempty"` // medical history
	Simptome      string `json:"simptome,omitempty"`    // symptoms
	Clinice       string `json:"clinice,omitempty"`     // clinical findings
	Paraclinice   string `json:"paraclinice,omitempty"` // paraclinical findings
	Diagnostic    string `json:"diagnostic,omitempty"`
	Recomandari   string `json:"recomandari,omitempty"` // recommendations
}

// MedicalReport is returned after filing a report.
type MedicalReport struct {
	ID                   string `json:"id"`
	AppointmentID        string `json:"appointmentId"`
	DoctorID             string `json:"doctorId"`
	DoctorName           string `json:"doctorName"`
	DoctorSpecialization string `json:"doctorSpecialization"`
	PatientID            string `json:"patientId"`
	PatientName          string `json:"patientName"`
	AppointmentDate      string `json:"appointmentDate"`
	AppointmentTime      string `json:"appointmentTime"`
	Antecedente          string `json:"antecedente,omitempty"`
	Simptome             string `json:"simptome,omitempty"`
	Clinice              string `json:"clinice,omitempty"`
	Paraclinice          string `json:"paraclinice,omitempty"`
	Diagnostic           string `json:"diagnostic,omitempty"`
	Recomandari          string `json:"recomandari,omitempty"`
	CreatedAt            string `json:"createdAt"`
	UpdatedAt            string `json:"updatedAt,omitempty"`
}

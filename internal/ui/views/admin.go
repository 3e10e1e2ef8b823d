// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/ui/components"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
)

// Admin dashboard tabs.
const (
	AdminTabOverview = iota
	AdminTabUsers
	AdminTabAppointments
)

const (
	statusFieldStatus = iota
	statusFieldNotes
)

const (
	roleFieldRole = iota
	roleFieldSpecialization
	roleFieldPhone
)

// AdminDashboard shows clinic statistics and manages users and
// appointments.
type AdminDashboard struct {
	*base
	backend AdminBackend

	stats        *model.AdminDashboard
	users        []model.Account
	appointments []model.Appointment

	setStatus key.Binding
	setRole   key.Binding
}

// NewAdminDashboard creates the admin dashboard.
func NewAdminDashboard(ctx context.Context, epoch uint64, backend AdminBackend, theme *styles.Theme) *AdminDashboard {
	d := &AdminDashboard{
		base:      newBase(ctx, epoch, theme, "Admin Console"),
		backend:   backend,
		setStatus: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "set status")),
		setRole:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "change role")),
	}

	d.addTab("Overview", []components.Column{
		{Title: "Metric", Width: 24},
		{Title: "Value", Width: 10},
	}, "No statistics yet.", d.loadStats)

	d.addTab("Users", []components.Column{
		{Title: "Name", Width: 22},
		{Title: "Email", Width: 28},
		{Title: "Role", Width: 8},
		{Title: "Active", Width: 6},
		{Title: "Joined", Width: 10},
	}, "No users found.", d.loadUsers)

	d.addTab("Appointments", []components.Column{
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Patient", Width: 20},
		{Title: "Doctor", Width: 20},
		{Title: "Status", Width: 11},
	}, "No appointments found.", d.loadAppointments)

	return d
}

func (d *AdminDashboard) loadStats() tea.Cmd {
	return fetch(d.base, AdminTabOverview, d.backend.AdminDashboard, func(s *model.AdminDashboard) [][]string {
		d.stats = s
		return statsRows(s)
	})
}

func statsRows(s *model.AdminDashboard) [][]string {
	if s == nil {
		return nil
	}
	row := func(name string, v int) []string { return []string{name, strconv.Itoa(v)} }
	return [][]string{
		row("Total users", s.TotalUsers),
		row("Patients", s.ClientUsers),
		row("Doctors", s.DoctorUsers),
		row("Administrators", s.AdminUsers),
		row("New this month", s.NewUsersThisMonth),
		row("Total appointments", s.TotalAppointments),
		row("Today", s.TodayAppointments),
		row("This week", s.WeeklyAppointments),
		row("Scheduled", s.AppointmentsByStatus.Scheduled),
		row("Completed", s.AppointmentsByStatus.Completed),
		row("Cancelled", s.AppointmentsByStatus.Cancelled),
		row("No-show", s.AppointmentsByStatus.NoShow),
	}
}

func (d *AdminDashboard) loadUsers() tea.Cmd {
	return fetch(d.base, AdminTabUsers, d.backend.Users, func(users []model.Account) [][]string {
		d.users = users
		rows := make([][]string, len(users))
		for i, u := range users {
			active := "no"
			if u.IsActive {
				active = "yes"
			}
			rows[i] = []string{accountName(u), u.Email, u.Role.String(), active, shortDate(u.CreatedAt)}
		}
		return rows
	})
}

func (d *AdminDashboard) loadAppointments() tea.Cmd {
	return fetch(d.base, AdminTabAppointments, d.backend.AllAppointments, func(appts []model.Appointment) [][]string {
		d.appointments = appts
		rows := make([][]string, len(appts))
		for i, a := range appts {
			rows[i] = []string{shortDate(a.AppointmentDate), a.AppointmentTime, a.ClientName, a.DoctorName, a.Status}
		}
		return rows
	})
}

func accountName(u model.Account) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.UserName
}

// shortDate trims an ISO timestamp to its date.
func shortDate(s string) string {
	if len(s) > 10 && s[10] == 'T' {
		return s[:10]
	}
	return s
}

// Stats returns the last loaded statistics.
func (d *AdminDashboard) Stats() *model.AdminDashboard { return d.stats }

// Update handles messages.
func (d *AdminDashboard) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && d.form == nil {
		switch {
		case d.active == AdminTabAppointments && key.Matches(km, d.setStatus):
			return d.openStatusForm()
		case d.active == AdminTabUsers && key.Matches(km, d.setRole):
			return d.openRoleForm()
		}
	}
	cmd, _ := d.update(msg)
	return cmd
}

// Shortcuts returns the key hints for the status bar.
func (d *AdminDashboard) Shortcuts() []components.Shortcut {
	switch d.active {
	case AdminTabAppointments:
		return d.shortcuts(components.Shortcut{Key: "s", Desc: "status"})
	case AdminTabUsers:
		return d.shortcuts(components.Shortcut{Key: "o", Desc: "role"})
	}
	return d.shortcuts()
}

func (d *AdminDashboard) openStatusForm() tea.Cmd {
	i := d.tabs[AdminTabAppointments].table.Cursor()
	if i < 0 || i >= len(d.appointments) {
		return nil
	}
	appt := d.appointments[i]

	f := NewForm(d.theme, fmt.Sprintf("Appointment %s %s", shortDate(appt.AppointmentDate), appt.AppointmentTime),
		NewField("Status", true, Placeholder(strings.Join(model.AppointmentStatuses, " / "))),
		NewField("Admin Notes", false, Limit(500)),
	)
	f.SetValue(statusFieldStatus, appt.Status)
	d.openForm(f, func() tea.Cmd {
		status := strings.ToLower(f.Value(statusFieldStatus))
		if !slices.Contains(model.AppointmentStatuses, status) {
			d.formErr = "Status must be one of: " + strings.Join(model.AppointmentStatuses, ", ")
			return nil
		}
		req := model.UpdateAppointmentStatusRequest{Status: status, AdminNotes: f.Value(statusFieldNotes)}
		return d.save("Appointment status updated", func(ctx context.Context) error {
			_, err := d.backend.UpdateAppointmentStatus(ctx, appt.ID, req)
			return err
		}, func() tea.Cmd {
			return tea.Batch(d.reload(AdminTabAppointments), d.reload(AdminTabOverview))
		})
	})
	return nil
}

func (d *AdminDashboard) openRoleForm() tea.Cmd {
	i := d.tabs[AdminTabUsers].table.Cursor()
	if i < 0 || i >= len(d.users) {
		return nil
	}
	user := d.users[i]

	f := NewForm(d.theme, "Change role: "+accountName(user),
		NewField("Role", true, Placeholder("Admin / Client / Doctor")),
		NewField("Specialization", false, Placeholder("required for doctors")),
		NewField("Phone", false, Limit(32)),
	)
	f.SetValue(roleFieldRole, user.Role.String())
	d.openForm(f, func() tea.Cmd {
		role, err := model.ParseRole(f.Value(roleFieldRole))
		if err != nil {
			d.formErr = "Role must be Admin, Client or Doctor"
			return nil
		}
		req := model.UpdateUserRoleRequest{
			UserID:         user.ID,
			RoleName:       role.String(),
			Specialization: f.Value(roleFieldSpecialization),
			Phone:          f.Value(roleFieldPhone),
		}
		if role == model.RoleDoctor && req.Specialization == "" {
			d.formErr = "Doctors need a specialization"
			return nil
		}
		return d.save("Role updated", func(ctx context.Context) error {
			_, err := d.backend.UpdateUserRole(ctx, req)
			return err
		}, func() tea.Cmd {
			return tea.Batch(d.reload(AdminTabUsers), d.reload(AdminTabOverview))
		})
	})
	return nil
}

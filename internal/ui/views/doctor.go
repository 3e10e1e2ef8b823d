// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/ui/components"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
)

// Doctor dashboard tabs.
const (
	DoctorTabAppointments = iota
	DoctorTabReviews
)

const (
	reportFieldHistory = iota
	reportFieldSymptoms
	reportFieldClinical
	reportFieldParaclinical
	reportFieldDiagnosis
	reportFieldRecommendations
)

// DoctorDashboard lists a doctor's appointments and reviews and files
// medical reports.
type DoctorDashboard struct {
	*base
	backend DoctorBackend

	appointments []model.Appointment
	reviews      []model.Review

	report key.Binding
}

// NewDoctorDashboard creates the doctor dashboard.
func NewDoctorDashboard(ctx context.Context, epoch uint64, backend DoctorBackend, theme *styles.Theme) *DoctorDashboard {
	d := &DoctorDashboard{
		base:    newBase(ctx, epoch, theme, "Doctor Workspace"),
		backend: backend,
		report:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "medical report")),
	}

	d.addTab("Appointments", []components.Column{
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Patient", Width: 22},
		{Title: "Reason", Width: 28},
		{Title: "Status", Width: 11},
	}, "No appointments scheduled.", d.loadAppointments)

	d.addTab("Reviews", []components.Column{
		{Title: "Patient", Width: 22},
		{Title: "Rating", Width: 6},
		{Title: "Comment", Width: 36},
		{Title: "Date", Width: 10},
	}, "No reviews yet.", d.loadReviews)

	return d
}

func (d *DoctorDashboard) loadAppointments() tea.Cmd {
	return fetch(d.base, DoctorTabAppointments, d.backend.DoctorAppointments, func(appts []model.Appointment) [][]string {
		d.appointments = appts
		rows := make([][]string, len(appts))
		for i, a := range appts {
			rows[i] = []string{shortDate(a.AppointmentDate), a.AppointmentTime, a.ClientName, a.Reason, a.Status}
		}
		return rows
	})
}

func (d *DoctorDashboard) loadReviews() tea.Cmd {
	return fetch(d.base, DoctorTabReviews, d.backend.DoctorReviews, func(reviews []model.Review) [][]string {
		d.reviews = reviews
		rows := make([][]string, len(reviews))
		for i, r := range reviews {
			rows[i] = []string{r.ClientName, Stars(r.Rating), r.Comment, shortDate(r.CreatedAt)}
		}
		return rows
	})
}

// AverageRating returns the mean rating of the loaded reviews.
func (d *DoctorDashboard) AverageRating() (float64, bool) {
	if len(d.reviews) == 0 {
		return 0, false
	}
	sum := 0
	for _, r := range d.reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(d.reviews)), true
}

// Update handles messages.
func (d *DoctorDashboard) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && d.form == nil {
		if d.active == DoctorTabAppointments && key.Matches(km, d.report) {
			return d.openReportForm()
		}
	}
	cmd, _ := d.update(msg)
	return cmd
}

// Shortcuts returns the key hints for the status bar.
func (d *DoctorDashboard) Shortcuts() []components.Shortcut {
	if d.active == DoctorTabAppointments {
		return d.shortcuts(components.Shortcut{Key: "m", Desc: "report"})
	}
	return d.shortcuts()
}

// View adds the average rating under the reviews tab.
func (d *DoctorDashboard) View() string {
	out := d.base.View()
	if d.form == nil && d.active == DoctorTabReviews {
		if avg, ok := d.AverageRating(); ok {
			out += "\n\n" + d.theme.InfoStyle.Render(fmt.Sprintf("Average rating %.1f from %d reviews", avg, len(d.reviews)))
		}
	}
	return out
}

func (d *DoctorDashboard) openReportForm() tea.Cmd {
	i := d.tabs[DoctorTabAppointments].table.Cursor()
	if i < 0 || i >= len(d.appointments) {
		return nil
	}
	appt := d.appointments[i]

	f := NewForm(d.theme, fmt.Sprintf("Medical report: %s, %s", appt.ClientName, shortDate(appt.AppointmentDate)),
		NewField("History", false, Limit(2000)),
		NewField("Symptoms", false, Limit(2000)),
		NewField("Clinical", false, Limit(2000)),
		NewField("Paraclinical", false, Limit(2000)),
		NewField("Diagnosis", true, Limit(2000)),
		NewField("Recommendations", false, Limit(2000)),
	)
	d.openForm(f, func() tea.Cmd {
		req := model.CreateMedicalReportRequest{
			AppointmentID: appt.ID,
			Antecedente:   f.Value(reportFieldHistory),
			Simptome:      f.Value(reportFieldSymptoms),
			Clinice:       f.Value(reportFieldClinical),
			Paraclinice:   f.Value(reportFieldParaclinical),
			Diagnostic:    f.Value(reportFieldDiagnosis),
			Recomandari:   f.Value(reportFieldRecommendations),
		}
		return d.save("Medical report saved", func(ctx context.Context) error {
			_, err := d.backend.CreateMedicalReport(ctx, req)
			return err
		}, func() tea.Cmd {
			return d.reload(DoctorTabAppointments)
		})
	})
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/ui/components"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
)

// Patient dashboard tabs.
const (
	ClientTabAppointments = iota
	ClientTabDoctors
	ClientTabReviews
)

const (
	bookFieldDate = iota
	bookFieldTime
	bookFieldReason
	bookFieldNotes
)

const (
	reviewFieldRating = iota
	reviewFieldComment
)

// hoursMsg carries a doctor's bookable hours for one weekday.
type hoursMsg struct {
	stamp
	doctorID string
	date     string
	hours    []model.AppointmentHour
	err      error
}

// ClientDashboard lets a patient book appointments and review doctors.
type ClientDashboard struct {
	*base
	backend ClientBackend
	now     func() time.Time

	appointments []model.Appointment
	doctors      []model.Doctor
	reviews      []model.Review

	// hours are bookingDoctor's active slots for hoursDate
	bookingDoctor string
	hours         []string
	hoursDate     string

	book   key.Binding
	review key.Binding
}

// NewClientDashboard creates the patient dashboard.
func NewClientDashboard(ctx context.Context, epoch uint64, backend ClientBackend, theme *styles.Theme) *ClientDashboard {
	d := &ClientDashboard{
		base:    newBase(ctx, epoch, theme, "My Health"),
		backend: backend,
		now:     time.Now,
		book:    key.NewBinding(key.WithKeys("enter", "b"), key.WithHelp("enter", "book")),
		review:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "review")),
	}

	d.addTab("My Appointments", []components.Column{
		{Title: "Date", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Doctor", Width: 22},
		{Title: "Specialization", Width: 16},
		{Title: "Status", Width: 11},
	}, "No appointments yet. Book one from the Doctors tab.", d.loadAppointments)

	d.addTab("Doctors", []components.Column{
		{Title: "Doctor", Width: 22},
		{Title: "Specialization", Width: 18},
		{Title: "Rating", Width: 6},
		{Title: "Reviews", Width: 7},
	}, "No doctors available.", d.loadDoctors)

	d.addTab("My Reviews", []components.Column{
		{Title: "Doctor", Width: 22},
		{Title: "Rating", Width: 6},
		{Title: "Comment", Width: 36},
		{Title: "Date", Width: 10},
	}, "You have not reviewed anyone yet.", d.loadReviews)

	return d
}

func (d *ClientDashboard) loadAppointments() tea.Cmd {
	return fetch(d.base, ClientTabAppointments, d.backend.MyAppointments, func(appts []model.Appointment) [][]string {
		d.appointments = appts
		rows := make([][]string, len(appts))
		for i, a := range appts {
			rows[i] = []string{shortDate(a.AppointmentDate), a.AppointmentTime, a.DoctorName, a.DoctorSpecialization, a.Status}
		}
		return rows
	})
}

func (d *ClientDashboard) loadDoctors() tea.Cmd {
	return fetch(d.base, ClientTabDoctors, d.backend.Doctors, func(docs []model.Doctor) [][]string {
		d.doctors = docs
		rows := make([][]string, len(docs))
		for i, doc := range docs {
			rows[i] = []string{
				doc.FullName(),
				doc.Specialization,
				strconv.FormatFloat(doc.AverageRating, 'f', 1, 64),
				strconv.Itoa(doc.TotalReviews),
			}
		}
		return rows
	})
}

func (d *ClientDashboard) loadReviews() tea.Cmd {
	return fetch(d.base, ClientTabReviews, d.backend.MyReviews, func(reviews []model.Review) [][]string {
		d.reviews = reviews
		rows := make([][]string, len(reviews))
		for i, r := range reviews {
			rows[i] = []string{r.DoctorName, Stars(r.Rating), r.Comment, shortDate(r.CreatedAt)}
		}
		return rows
	})
}

// Stars renders a 1-5 rating.
func Stars(rating int) string {
	rating = max(0, min(rating, 5))
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// Update handles messages.
func (d *ClientDashboard) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case hoursMsg:
		d.applyHours(msg)
		return nil
	case tea.KeyMsg:
		if d.form != nil {
			break
		}
		switch {
		case d.active == ClientTabDoctors && key.Matches(msg, d.book):
			return d.openBookingForm()
		case d.active == ClientTabAppointments && key.Matches(msg, d.review):
			return d.openReviewForm()
		}
	}
	cmd, _ := d.update(msg)
	return cmd
}

// Shortcuts returns the key hints for the status bar.
func (d *ClientDashboard) Shortcuts() []components.Shortcut {
	switch d.active {
	case ClientTabDoctors:
		return d.shortcuts(components.Shortcut{Key: "enter", Desc: "book"})
	case ClientTabAppointments:
		return d.shortcuts(components.Shortcut{Key: "v", Desc: "review"})
	}
	return d.shortcuts()
}

// =============================================================================
// BOOKING
// =============================================================================

func (d *ClientDashboard) openBookingForm() tea.Cmd {
	i := d.tabs[ClientTabDoctors].table.Cursor()
	if i < 0 || i >= len(d.doctors) {
		return nil
	}
	doc := d.doctors[i]
	doctorID := strconv.FormatInt(doc.ID, 10)

	f := NewForm(d.theme, "Book with "+doc.FullName(),
		NewField("Date", true, Placeholder("YYYY-MM-DD"), Limit(10)),
		NewField("Time", true, Placeholder("HH:MM"), Limit(5)),
		NewField("Reason", true, Limit(200)),
		NewField("Notes", false, Limit(500)),
	)
	d.bookingDoctor = doctorID
	d.hours = nil
	d.hoursDate = ""
	f.OnBlur = func(field int) tea.Cmd {
		if field != bookFieldDate {
			return nil
		}
		return d.loadHours(doctorID, f.Value(bookFieldDate))
	}

	d.openForm(f, func() tea.Cmd {
		req, err := d.bookingRequest(doctorID, f)
		if err != nil {
			d.formErr = sentence(err)
			return nil
		}
		return d.save("Appointment booked", func(ctx context.Context) error {
			_, err := d.backend.CreateAppointment(ctx, req)
			return err
		}, func() tea.Cmd {
			return d.switchAndReload(ClientTabAppointments)
		})
	})
	return nil
}

// loadHours fetches the doctor's slots for the weekday of date.
func (d *ClientDashboard) loadHours(doctorID, date string) tea.Cmd {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil || date == d.hoursDate {
		return nil
	}
	d.formNote = "Checking availability..."
	ctx, epoch, backend := d.ctx, d.epoch, d.backend
	return func() tea.Msg {
		hours, err := backend.AppointmentHours(ctx, doctorID, day.Weekday().String())
		return hoursMsg{stamp: stamp{epoch}, doctorID: doctorID, date: date, hours: hours, err: err}
	}
}

func (d *ClientDashboard) applyHours(msg hoursMsg) {
	if d.form == nil || msg.doctorID != d.bookingDoctor {
		return
	}
	if msg.err != nil {
		d.hours = nil
		d.hoursDate = ""
		d.formNote = "Could not load available hours: " + ErrorText(msg.err)
		return
	}

	var active []string
	for _, h := range msg.hours {
		if h.IsActive {
			active = append(active, h.Hour)
		}
	}
	d.hours = active
	d.hoursDate = msg.date
	if len(active) == 0 {
		d.formNote = "No available hours on that day."
		return
	}
	d.formNote = "Available: " + strings.Join(active, ", ")
}

// Hours returns the loaded slots for the booking form's date.
func (d *ClientDashboard) Hours() []string { return d.hours }

func (d *ClientDashboard) bookingRequest(doctorID string, f *Form) (model.CreateAppointmentRequest, error) {
	date := f.Value(bookFieldDate)
	at := f.Value(bookFieldTime)

	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return model.CreateAppointmentRequest{}, errors.New("date must be YYYY-MM-DD")
	}
	now := d.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(today) {
		return model.CreateAppointmentRequest{}, errors.New("please choose a date from today on")
	}
	if _, err := time.Parse("15:04", at); err != nil {
		return model.CreateAppointmentRequest{}, errors.New("time must be HH:MM")
	}
	if d.hoursDate == date && !containsHour(d.hours, at) {
		return model.CreateAppointmentRequest{}, fmt.Errorf("%s is not an available hour", at)
	}

	return model.CreateAppointmentRequest{
		DoctorID:        doctorID,
		AppointmentDate: date,
		AppointmentTime: at,
		Reason:          f.Value(bookFieldReason),
		Notes:           f.Value(bookFieldNotes),
	}, nil
}

// containsHour matches "09:00" against slots that may carry seconds.
func containsHour(hours []string, at string) bool {
	for _, h := range hours {
		if strings.HasPrefix(h, at) {
			return true
		}
	}
	return false
}

func (d *ClientDashboard) switchAndReload(i int) tea.Cmd {
	d.active = i
	return d.reload(i)
}

// =============================================================================
// REVIEWS
// =============================================================================

func (d *ClientDashboard) openReviewForm() tea.Cmd {
	i := d.tabs[ClientTabAppointments].table.Cursor()
	if i < 0 || i >= len(d.appointments) {
		return nil
	}
	appt := d.appointments[i]
	if appt.Status != model.StatusCompleted && appt.Status != model.StatusScheduled {
		return toast(components.ToastKindWarning, "Only scheduled or completed appointments can be reviewed")
	}

	f := NewForm(d.theme, "Review "+appt.DoctorName,
		NewField("Rating", true, Placeholder("1-5"), Limit(1)),
		NewField("Comment", false, Limit(1000)),
	)
	d.openForm(f, func() tea.Cmd {
		rating, err := strconv.Atoi(f.Value(reviewFieldRating))
		if err != nil || rating < 1 || rating > 5 {
			d.formErr = "Rating must be a number from 1 to 5"
			return nil
		}
		req := model.CreateReviewRequest{
			DoctorID:      appt.DoctorID,
			AppointmentID: appt.ID,
			Rating:        rating,
			Comment:       f.Value(reviewFieldComment),
		}
		return d.save("Thanks for your review", func(ctx context.Context) error {
			_, err := d.backend.CreateReview(ctx, req)
			return err
		}, func() tea.Cmd {
			return d.reload(ClientTabReviews)
		})
	})
	return nil
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/clinic-tui/internal/api"
	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/ui/components"
	"github.com/jeranaias/clinic-tui/internal/ui/styles"
)

// =============================================================================
// FAKE BACKEND
// =============================================================================

type fakeBackend struct {
	mu sync.Mutex

	loginResp *model.LoginResponse
	loginErr  error
	regMsg    string
	regErr    error
	lastReg   model.RegisterRequest

	stats        *model.AdminDashboard
	users        []model.Account
	appointments []model.Appointment
	doctors      []model.Doctor
	reviews      []model.Review
	hours        []model.AppointmentHour
	fetchErr     error
	saveErr      error

	hoursDay  string
	roleReq   *model.UpdateUserRoleRequest
	statusID  string
	statusReq *model.UpdateAppointmentStatusRequest
	booked    *model.CreateAppointmentRequest
	reviewed  *model.CreateReviewRequest
	reported  *model.CreateMedicalReportRequest
	calls     map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: make(map[string]int)}
}

func (f *fakeBackend) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeBackend) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	f.hit("Login")
	return f.loginResp, f.loginErr
}

func (f *fakeBackend) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	f.hit("Register")
	f.lastReg = req
	return f.regMsg, f.regErr
}

func (f *fakeBackend) AdminDashboard(ctx context.Context) (*model.AdminDashboard, error) {
	f.hit("AdminDashboard")
	return f.stats, f.fetchErr
}

func (f *fakeBackend) Users(ctx context.Context) ([]model.Account, error) {
	f.hit("Users")
	return f.users, f.fetchErr
}

func (f *fakeBackend) AllAppointments(ctx context.Context) ([]model.Appointment, error) {
	f.hit("AllAppointments")
	return f.appointments, f.fetchErr
}

func (f *fakeBackend) UpdateUserRole(ctx context.Context, req model.UpdateUserRoleRequest) (string, error) {
	f.hit("UpdateUserRole")
	f.roleReq = &req
	return "ok", f.saveErr
}

func (f *fakeBackend) UpdateAppointmentStatus(ctx context.Context, id string, req model.UpdateAppointmentStatusRequest) (string, error) {
	f.hit("UpdateAppointmentStatus")
	f.statusID = id
	f.statusReq = &req
	return "ok", f.saveErr
}

func (f *fakeBackend) Doctors(ctx context.Context) ([]model.Doctor, error) {
	f.hit("Doctors")
	return f.doctors, f.fetchErr
}

func (f *fakeBackend) CreateAppointment(ctx context.Context, req model.CreateAppointmentRequest) (*model.Appointment, error) {
	f.hit("CreateAppointment")
	f.booked = &req
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &model.Appointment{ID: "new"}, nil
}

func (f *fakeBackend) MyAppointments(ctx context.Context) ([]model.Appointment, error) {
	f.hit("MyAppointments")
	return f.appointments, f.fetchErr
}

func (f *fakeBackend) CreateReview(ctx context.Context, req model.CreateReviewRequest) (*model.Review, error) {
	f.hit("CreateReview")
	f.reviewed = &req
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &model.Review{ID: "r1"}, nil
}

func (f *fakeBackend) MyReviews(ctx context.Context) ([]model.Review, error) {
	f.hit("MyReviews")
	return f.reviews, f.fetchErr
}

func (f *fakeBackend) AppointmentHours(ctx context.Context, doctorID, day string) ([]model.AppointmentHour, error) {
	f.hit("AppointmentHours")
	f.mu.Lock()
	f.hoursDay = day
	f.mu.Unlock()
	return f.hours, f.fetchErr
}

func (f *fakeBackend) DoctorReviews(ctx context.Context) ([]model.Review, error) {
	f.hit("DoctorReviews")
	return f.reviews, f.fetchErr
}

func (f *fakeBackend) DoctorAppointments(ctx context.Context) ([]model.Appointment, error) {
	f.hit("DoctorAppointments")
	return f.appointments, f.fetchErr
}

func (f *fakeBackend) CreateMedicalReport(ctx context.Context, req model.CreateMedicalReportRequest) (*model.MedicalReport, error) {
	f.hit("CreateMedicalReport")
	f.reported = &req
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return &model.MedicalReport{ID: "m1"}, nil
}

var _ Backend = (*fakeBackend)(nil)

// =============================================================================
// HELPERS
// =============================================================================

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain runs cmd and any batch it returns. Commands that block, like
// cursor blinks, are abandoned after a short wait.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(100 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

type updater interface {
	Update(msg tea.Msg) tea.Cmd
}

// pump feeds the results of cmd back into u until nothing is left and
// returns the messages meant for the app.
func pump(u updater, cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := drain(cmd)
	for depth := 0; len(queue) > 0 && depth < 20; depth++ {
		var next []tea.Msg
		for _, msg := range queue {
			switch msg.(type) {
			case spinner.TickMsg:
			case ToastMsg, LoginResultMsg, RegisterResultMsg, ShowLoginMsg, ShowRegisterMsg:
				out = append(out, msg)
			default:
				next = append(next, drain(u.Update(msg))...)
			}
		}
		queue = next
	}
	return out
}

func toasts(msgs []tea.Msg) []ToastMsg {
	var out []ToastMsg
	for _, m := range msgs {
		if t, ok := m.(ToastMsg); ok {
			out = append(out, t)
		}
	}
	return out
}

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// ERROR TEXT
// =============================================================================

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unauthorized", api.ErrUnauthorized, "Your session is no longer valid."},
		{"api error", &api.Error{Status: 409, Message: "Slot already taken"}, "Slot already taken"},
		{"network", errors.New("dial tcp: refused"), "Could not reach the server: dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorText(tt.err))
		})
	}
}

func TestLoginErrorText(t *testing.T) {
	assert.Equal(t, "Invalid credentials", loginErrorText(api.ErrUnauthorized))
	assert.Equal(t, "Invalid credentials", loginErrorText(&api.Error{Status: 400, Message: "bad"}))
	assert.Contains(t, loginErrorText(api.ErrNoToken), "did not issue a session")
	assert.Contains(t, loginErrorText(&api.Error{Status: 500, Message: "boom"}), "boom")
}

// =============================================================================
// LOGIN
// =============================================================================

func TestLoginView_RequiresFields(t *testing.T) {
	v := NewLoginView(context.Background(), newFakeBackend(), testTheme())

	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, v.Error(), "Email Address")
	assert.False(t, v.Busy())
}

func TestLoginView_RejectsBadEmail(t *testing.T) {
	v := NewLoginView(context.Background(), newFakeBackend(), testTheme())
	v.form.SetValue(loginEmail, "not-an-email")
	v.form.SetValue(loginPassword, "pw")

	assert.Nil(t, v.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "Please enter a valid email address", v.Error())
}

func TestLoginView_Success(t *testing.T) {
	be := newFakeBackend()
	be.loginResp = &model.LoginResponse{Email: "ana@clinic.ro", Role: "Client", Token: "tok"}
	v := NewLoginView(context.Background(), be, testTheme())
	v.form.SetValue(loginEmail, "ana@clinic.ro")
	v.form.SetValue(loginPassword, "secret")

	msgs := pump(v, v.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.Len(t, msgs, 1)
	res, ok := msgs[0].(LoginResultMsg)
	require.True(t, ok)
	assert.NoError(t, res.Err)
	assert.Equal(t, model.RoleClient, res.Role)
	assert.Equal(t, "ana@clinic.ro", res.Email)

	v.Finish(res)
	assert.False(t, v.Busy())
	assert.Empty(t, v.form.Value(loginPassword))
}

func TestLoginView_FailureClearsPassword(t *testing.T) {
	be := newFakeBackend()
	be.loginErr = api.ErrUnauthorized
	v := NewLoginView(context.Background(), be, testTheme())
	v.form.SetValue(loginEmail, "ana@clinic.ro")
	v.form.SetValue(loginPassword, "wrong")

	msgs := pump(v, v.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.Len(t, msgs, 1)
	v.Finish(msgs[0].(LoginResultMsg))

	assert.Equal(t, "Invalid credentials", v.Error())
	assert.Empty(t, v.form.Value(loginPassword))
	assert.Equal(t, "ana@clinic.ro", v.form.Value(loginEmail))
}

func TestLoginView_IgnoresKeysWhileBusy(t *testing.T) {
	be := newFakeBackend()
	be.loginResp = &model.LoginResponse{Email: "a@b.c", Role: "Admin", Token: "t"}
	v := NewLoginView(context.Background(), be, testTheme())
	v.form.SetValue(loginEmail, "a@b.c")
	v.form.SetValue(loginPassword, "x")

	require.NotNil(t, v.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.True(t, v.Busy())
	assert.Nil(t, v.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, 0, be.count("Login"), "command not run yet")
}

func TestLoginView_RegisterKey(t *testing.T) {
	v := NewLoginView(context.Background(), newFakeBackend(), testTheme())
	msgs := drain(v.Update(tea.KeyMsg{Type: tea.KeyCtrlR}))
	require.Len(t, msgs, 1)
	assert.IsType(t, ShowRegisterMsg{}, msgs[0])
}

func TestLoginView_InfoLine(t *testing.T) {
	v := NewLoginView(context.Background(), newFakeBackend(), testTheme())
	v.SetInfo("Registration successful")
	assert.Contains(t, v.View(), "Registration successful")
}

// =============================================================================
// REGISTER
// =============================================================================

func fillRegister(v *RegisterView) {
	v.form.SetValue(regUserName, "ana")
	v.form.SetValue(regEmail, "ana@clinic.ro")
	v.form.SetValue(regPassword, "Secret1!")
	v.form.SetValue(regFirstName, "Ana")
	v.form.SetValue(regLastName, "Pop")
	v.form.SetValue(regDisplayName, "Ana P")
}

func TestParseGender(t *testing.T) {
	g, err := ParseGender("")
	require.NoError(t, err)
	assert.Nil(t, g)

	g, err = ParseGender("Female")
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, model.GenderFemale, *g)

	_, err = ParseGender("robot")
	assert.Error(t, err)
}

func TestRegisterView_Request(t *testing.T) {
	v := NewRegisterView(context.Background(), newFakeBackend(), testTheme())

	_, err := v.Request()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username")

	fillRegister(v)
	req, err := v.Request()
	require.NoError(t, err)
	assert.Empty(t, req.DateOfBirth)
	assert.Nil(t, req.Gender)

	v.form.SetValue(regDateOfBirth, "1990-13-01")
	_, err = v.Request()
	assert.ErrorContains(t, err, "YYYY-MM-DD")

	v.form.SetValue(regDateOfBirth, "1990-05-01")
	v.form.SetValue(regGender, "other")
	req, err = v.Request()
	require.NoError(t, err)
	assert.Equal(t, "1990-05-01", req.DateOfBirth)
	require.NotNil(t, req.Gender)
	assert.Equal(t, model.GenderOther, *req.Gender)
}

func TestRegisterView_Submit(t *testing.T) {
	be := newFakeBackend()
	be.regMsg = "User registered successfully"
	v := NewRegisterView(context.Background(), be, testTheme())
	fillRegister(v)

	msgs := pump(v, v.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.Len(t, msgs, 1)
	res := msgs[0].(RegisterResultMsg)
	assert.NoError(t, res.Err)
	assert.Equal(t, "User registered successfully", res.Message)
	assert.Equal(t, "ana", be.lastReg.UserName)
}

func TestRegisterView_ServerError(t *testing.T) {
	be := newFakeBackend()
	be.regErr = &api.Error{Status: 400, Message: "Email already in use"}
	v := NewRegisterView(context.Background(), be, testTheme())
	fillRegister(v)

	msgs := pump(v, v.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.Len(t, msgs, 1)
	v.Finish(msgs[0].(RegisterResultMsg))
	assert.Equal(t, "Email already in use", v.Error())
}

func TestRegisterView_EscGoesBack(t *testing.T) {
	v := NewRegisterView(context.Background(), newFakeBackend(), testTheme())
	msgs := drain(v.Update(tea.KeyMsg{Type: tea.KeyEsc}))
	require.Len(t, msgs, 1)
	assert.IsType(t, ShowLoginMsg{}, msgs[0])
}

// =============================================================================
// FORM
// =============================================================================

func TestForm_NavigationAndBlur(t *testing.T) {
	var blurred []int
	f := NewForm(testTheme(), "T", NewField("A", true), NewField("B", false))
	f.OnBlur = func(i int) tea.Cmd {
		blurred = append(blurred, i)
		return nil
	}

	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, f.Focused())
	f.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, f.Focused())
	assert.Equal(t, []int{0, 1}, blurred)

	f.Update(runes("x"))
	assert.Equal(t, "x", f.Value(0))

	submitted, _ := f.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, submitted)
	assert.Empty(t, f.Missing())
}

// =============================================================================
// DASHBOARDS
// =============================================================================

func TestNewDashboard_PicksRole(t *testing.T) {
	be := newFakeBackend()
	ctx := context.Background()
	assert.IsType(t, &AdminDashboard{}, NewDashboard(ctx, 1, model.RoleAdmin, be, testTheme()))
	assert.IsType(t, &DoctorDashboard{}, NewDashboard(ctx, 1, model.RoleDoctor, be, testTheme()))
	assert.IsType(t, &ClientDashboard{}, NewDashboard(ctx, 1, model.RoleClient, be, testTheme()))
}

func TestDashboard_RepliesCarryEpoch(t *testing.T) {
	d := NewDoctorDashboard(context.Background(), 7, newFakeBackend(), testTheme())
	msgs := drain(d.Init())

	var found bool
	for _, m := range msgs {
		if s, ok := m.(Stamped); ok {
			found = true
			assert.Equal(t, uint64(7), s.SessionEpoch())
		}
	}
	assert.True(t, found, "expected a stamped reply")
}

func TestAdminDashboard_LoadsTabsLazily(t *testing.T) {
	be := newFakeBackend()
	be.stats = &model.AdminDashboard{TotalUsers: 12, ClientUsers: 9}
	be.users = []model.Account{{ID: "u1", DisplayName: "Ana", Email: "ana@clinic.ro", Role: model.RoleClient}}
	d := NewAdminDashboard(context.Background(), 1, be, testTheme())

	pump(d, d.Init())
	assert.Equal(t, 1, be.count("AdminDashboard"))
	assert.Equal(t, 0, be.count("Users"))
	require.NotNil(t, d.Stats())
	assert.Equal(t, 12, d.Table(AdminTabOverview).Len())
	assert.False(t, d.Busy())

	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyTab}))
	assert.Equal(t, AdminTabUsers, d.Active())
	assert.Equal(t, 1, be.count("Users"))
	assert.Equal(t, 1, d.Table(AdminTabUsers).Len())

	// second visit reuses the loaded rows
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyShiftTab}))
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyTab}))
	assert.Equal(t, 1, be.count("Users"))

	pump(d, d.Update(runes("r")))
	assert.Equal(t, 2, be.count("Users"))
}

func TestAdminDashboard_FetchError(t *testing.T) {
	be := newFakeBackend()
	be.fetchErr = api.ErrUnauthorized
	d := NewAdminDashboard(context.Background(), 1, be, testTheme())

	pump(d, d.Init())
	assert.Equal(t, "Your session is no longer valid.", d.TabError(AdminTabOverview))
	assert.Contains(t, d.View(), "Your session is no longer valid.")
}

func TestAdminDashboard_ChangeRole(t *testing.T) {
	be := newFakeBackend()
	be.users = []model.Account{{ID: "u1", DisplayName: "Ana", Role: model.RoleClient}}
	d := NewAdminDashboard(context.Background(), 1, be, testTheme())
	pump(d, d.Init())
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyTab}))

	pump(d, d.Update(runes("o")))
	require.True(t, d.FormOpen())
	assert.Equal(t, "Client", d.Form().Value(roleFieldRole))

	d.Form().SetValue(roleFieldRole, "doctor")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "Doctors need a specialization", d.FormError())
	assert.Equal(t, 0, be.count("UpdateUserRole"))

	d.Form().SetValue(roleFieldSpecialization, "Cardiology")
	msgs := pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.NotNil(t, be.roleReq)
	assert.Equal(t, "u1", be.roleReq.UserID)
	assert.Equal(t, "Doctor", be.roleReq.RoleName)
	assert.False(t, d.FormOpen())
	assert.Equal(t, 2, be.count("Users"), "users reload after save")

	ts := toasts(msgs)
	require.Len(t, ts, 1)
	assert.Equal(t, components.ToastKindSuccess, ts[0].Kind)
}

func TestAdminDashboard_StatusForm(t *testing.T) {
	be := newFakeBackend()
	be.appointments = []model.Appointment{{ID: "a1", Status: model.StatusScheduled}}
	d := NewAdminDashboard(context.Background(), 1, be, testTheme())
	pump(d, d.Init())
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyShiftTab}))
	require.Equal(t, AdminTabAppointments, d.Active())

	// status key only applies on the appointments tab
	pump(d, d.Update(runes("s")))
	require.True(t, d.FormOpen())

	d.Form().SetValue(statusFieldStatus, "lost")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Contains(t, d.FormError(), "Status must be one of")

	d.Form().SetValue(statusFieldStatus, "Completed")
	d.Form().SetValue(statusFieldNotes, "done")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.NotNil(t, be.statusReq)
	assert.Equal(t, "a1", be.statusID)
	assert.Equal(t, model.StatusCompleted, be.statusReq.Status)
	assert.Equal(t, "done", be.statusReq.AdminNotes)
}

func TestAdminDashboard_SaveErrorKeepsForm(t *testing.T) {
	be := newFakeBackend()
	be.appointments = []model.Appointment{{ID: "a1", Status: model.StatusScheduled}}
	be.saveErr = &api.Error{Status: 400, Message: "Invalid status transition"}
	d := NewAdminDashboard(context.Background(), 1, be, testTheme())
	pump(d, d.Init())
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyShiftTab}))
	pump(d, d.Update(runes("s")))

	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.True(t, d.FormOpen())
	assert.Equal(t, "Invalid status transition", d.FormError())

	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEsc}))
	assert.False(t, d.FormOpen())
}

func newBookingDashboard(t *testing.T, be *fakeBackend) *ClientDashboard {
	t.Helper()
	be.doctors = []model.Doctor{{ID: 4, FirstName: "Ion", LastName: "Popescu", Specialization: "Cardiology"}}
	d := NewClientDashboard(context.Background(), 1, be, testTheme())
	d.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local) }
	pump(d, d.Init())
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyTab}))
	require.Equal(t, ClientTabDoctors, d.Active())
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.True(t, d.FormOpen())
	return d
}

func TestClientDashboard_BookingLoadsHours(t *testing.T) {
	be := newFakeBackend()
	be.hours = []model.AppointmentHour{
		{Hour: "09:00", IsActive: true},
		{Hour: "10:00", IsActive: false},
		{Hour: "11:00", IsActive: true},
	}
	d := newBookingDashboard(t, be)

	d.Form().SetValue(bookFieldDate, "2026-10-19")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyTab}))

	assert.Equal(t, "Monday", be.hoursDay)
	assert.Equal(t, []string{"09:00", "11:00"}, d.Hours())
	assert.Contains(t, d.View(), "Available: 09:00, 11:00")

	d.Form().SetValue(bookFieldTime, "10:00")
	d.Form().SetValue(bookFieldReason, "Checkup")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "10:00 is not an available hour", d.FormError())
	assert.Nil(t, be.booked)

	d.Form().SetValue(bookFieldTime, "11:00")
	msgs := pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.NotNil(t, be.booked)
	assert.Equal(t, "4", be.booked.DoctorID)
	assert.Equal(t, "2026-10-19", be.booked.AppointmentDate)
	assert.Equal(t, "11:00", be.booked.AppointmentTime)
	assert.Equal(t, ClientTabAppointments, d.Active())
	assert.Equal(t, 2, be.count("MyAppointments"))
	require.Len(t, toasts(msgs), 1)
}

func TestClientDashboard_BookingValidation(t *testing.T) {
	be := newFakeBackend()
	d := newBookingDashboard(t, be)

	d.Form().SetValue(bookFieldReason, "Checkup")
	d.Form().SetValue(bookFieldTime, "09:00")

	d.Form().SetValue(bookFieldDate, "19/10/2026")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "Date must be YYYY-MM-DD", d.FormError())

	d.Form().SetValue(bookFieldDate, "2026-10-15")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "Please choose a date from today on", d.FormError())

	d.Form().SetValue(bookFieldDate, "2026-10-16")
	d.Form().SetValue(bookFieldTime, "9am")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "Time must be HH:MM", d.FormError())
	assert.Equal(t, 0, be.count("CreateAppointment"))
}

func TestClientDashboard_Review(t *testing.T) {
	be := newFakeBackend()
	be.appointments = []model.Appointment{
		{ID: "a1", DoctorID: "4", DoctorName: "Ion Popescu", Status: model.StatusCancelled},
		{ID: "a2", DoctorID: "4", DoctorName: "Ion Popescu", Status: model.StatusCompleted},
	}
	d := NewClientDashboard(context.Background(), 1, be, testTheme())
	pump(d, d.Init())

	msgs := pump(d, d.Update(runes("v")))
	assert.False(t, d.FormOpen(), "cancelled appointments cannot be reviewed")
	require.Len(t, toasts(msgs), 1)

	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyDown}))
	pump(d, d.Update(runes("v")))
	require.True(t, d.FormOpen())

	d.Form().SetValue(reviewFieldRating, "9")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "Rating must be a number from 1 to 5", d.FormError())

	d.Form().SetValue(reviewFieldRating, "5")
	d.Form().SetValue(reviewFieldComment, "Great")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.NotNil(t, be.reviewed)
	assert.Equal(t, "a2", be.reviewed.AppointmentID)
	assert.Equal(t, 5, be.reviewed.Rating)
	assert.Equal(t, 1, be.count("MyReviews"))
}

func TestDoctorDashboard_MedicalReport(t *testing.T) {
	be := newFakeBackend()
	be.appointments = []model.Appointment{{ID: "a9", ClientName: "Ana Pop", AppointmentDate: "2026-10-16T00:00:00"}}
	d := NewDoctorDashboard(context.Background(), 1, be, testTheme())
	pump(d, d.Init())

	pump(d, d.Update(runes("m")))
	require.True(t, d.FormOpen())

	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, "Please fill in: Diagnosis", d.FormError())

	d.Form().SetValue(reportFieldDiagnosis, "Hypertension")
	d.Form().SetValue(reportFieldRecommendations, "Rest")
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyEnter}))
	require.NotNil(t, be.reported)
	assert.Equal(t, "a9", be.reported.AppointmentID)
	assert.Equal(t, "Hypertension", be.reported.Diagnostic)
	assert.Equal(t, "Rest", be.reported.Recomandari)
	assert.False(t, d.FormOpen())
}

func TestDoctorDashboard_AverageRating(t *testing.T) {
	be := newFakeBackend()
	be.reviews = []model.Review{{Rating: 4}, {Rating: 5}}
	d := NewDoctorDashboard(context.Background(), 1, be, testTheme())

	_, ok := d.AverageRating()
	assert.False(t, ok)

	pump(d, d.Init())
	pump(d, d.Update(tea.KeyMsg{Type: tea.KeyTab}))
	avg, ok := d.AverageRating()
	require.True(t, ok)
	assert.InDelta(t, 4.5, avg, 0.001)
	assert.Contains(t, d.View(), "Average rating 4.5 from 2 reviews")
}

func TestStars(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
	assert.Equal(t, "★★★★★", Stars(9))
}

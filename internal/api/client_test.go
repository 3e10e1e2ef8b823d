// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/clinic-tui/internal/model"
	"github.com/jeranaias/clinic-tui/internal/session"
	"github.com/jeranaias/clinic-tui/internal/tokenstore"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *tokenstore.Store, *session.Signal) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := tokenstore.New(tokenstore.NewMemoryBackend())
	sig := session.NewSignal()
	client := New(server.URL+"/api", store, sig).WithHTTPClient(server.Client())
	return client, store, sig
}

func raised(sig *session.Signal) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	return sig.Wait(ctx)
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin_StoresToken(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/Auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@x.com", req.Email)
		assert.Equal(t, "secret", req.Password)

		json.NewEncoder(w).Encode(model.LoginResponse{Email: "a@x.com", Role: "client", Token: "T1"})
	})

	resp, err := client.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Client", resp.Role)

	rec, ok := store.TokenData()
	require.True(t, ok)
	assert.Equal(t, "T1", rec.Token)
	assert.Equal(t, model.RoleClient, rec.Role)
	assert.InDelta(t, float64(tokenstore.DefaultValidity), float64(store.Remaining()), float64(time.Second))
}

func TestLogin_WithoutTokenFails(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@x.com","role":"Client"}`))
	})

	_, err := client.Login(context.Background(), "a@x.com", "secret")
	assert.ErrorIs(t, err, ErrNoToken)
	assert.False(t, store.IsValid())
}

func TestLogin_UnknownRoleFails(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@x.com","role":"Nurse","token":"T"}`))
	})

	_, err := client.Login(context.Background(), "a@x.com", "secret")
	assert.ErrorIs(t, err, model.ErrUnknownRole)
	assert.False(t, store.IsValid())
}

func TestLogin_ValidityOverride(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@x.com","role":"Admin","token":"T"}`))
	})
	client.WithValidity(10 * time.Minute)

	_, err := client.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Greater(t, store.Remaining(), 9*time.Minute)
}

func TestLogout_ClearsEvenOnFailure(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	require.NoError(t, store.SetToken("T", "a@x.com", model.RoleClient, 0))

	err := client.Logout(context.Background())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.False(t, store.IsValid())
}

func TestRegister_OmitsOptionalFields(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "dateOfBirth")
		assert.NotContains(t, body, "gender")
		assert.Equal(t, "ana", body["userName"])
		w.Write([]byte(`{"message":"User registered"}`))
	})

	msg, err := client.Register(context.Background(), model.RegisterRequest{
		UserName: "ana", Email: "ana@x.ro", Password: "Secret1!",
		FirstName: "Ana", LastName: "Pop", DisplayName: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "User registered", msg)
}

// =============================================================================
// BEARER + 401
// =============================================================================

func TestRequests_AttachBearer(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"id":1,"firstName":"Ion","lastName":"Rusu","specialization":"Cardiology","averageRating":4.5,"totalReviews":2}]`))
	})
	require.NoError(t, store.SetToken("T1", "a@x.com", model.RoleClient, 0))

	doctors, err := client.Doctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Ion Rusu", doctors[0].FullName())
}

func TestRequests_NoBearerWhenExpired(t *testing.T) {
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})
	require.NoError(t, store.SetToken("T1", "a@x.com", model.RoleClient, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := client.MyAppointments(context.Background())
	require.NoError(t, err)
}

func TestUnauthorized_ClearsAndRaises(t *testing.T) {
	client, store, sig := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, store.SetToken("T1", "a@x.com", model.RoleDoctor, 0))

	_, err := client.DoctorAppointments(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, store.IsValid())
	assert.True(t, raised(sig))
}

func TestAPIError_Messages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message field", 400, `{"message":"Slot already booked"}`, "Slot already booked"},
		{"problem details", 400, `{"title":"One or more validation errors occurred.","errors":{"Email":["Email is invalid"]}}`, "Email is invalid"},
		{"title only", 404, `{"title":"Not Found"}`, "Not Found"},
		{"plain text", 409, `Review already exists`, "Review already exists"},
		{"empty", 503, ``, "Service Unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, _, sig := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.CreateReview(context.Background(), model.CreateReviewRequest{Rating: 5})
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Message)
			assert.False(t, raised(sig), "only 401 raises the signal")
		})
	}
}

func TestResponseTooLarge(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", MaxResponseSize+10)))
	})
	_, err := client.Users(context.Background())
	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

// =============================================================================
// ENDPOINT ROUTING
// =============================================================================

func TestEndpoints_Routes(t *testing.T) {
	var hits atomic.Int32
	seen := make(chan string, 32)
	client, store, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		seen <- r.Method + " " + r.URL.EscapedPath()
		switch {
		case strings.HasSuffix(r.URL.Path, "/dashboard"),
			strings.HasSuffix(r.URL.Path, "/appointments"),
			strings.HasSuffix(r.URL.Path, "/medical-reports"),
			strings.HasSuffix(r.URL.Path, "/status"),
			strings.HasSuffix(r.URL.Path, "/update-user-role"):
			w.Write([]byte(`{}`))
		default:
			w.Write([]byte(`[]`))
		}
	})
	require.NoError(t, store.SetToken("T", "a@x.com", model.RoleAdmin, 0))
	ctx := context.Background()

	calls := []struct {
		want string
		call func() error
	}{
		{"GET /api/Admin/dashboard", func() error { _, err := client.AdminDashboard(ctx); return err }},
		{"GET /api/Admin/users", func() error { _, err := client.Users(ctx); return err }},
		{"GET /api/Admin/getAppointments", func() error { _, err := client.AllAppointments(ctx); return err }},
		{"PUT /api/Doctor/update-user-role", func() error {
			_, err := client.UpdateUserRole(ctx, model.UpdateUserRoleRequest{UserID: "u", RoleName: "Doctor"})
			return err
		}},
		{"PUT /api/Admin/appointments/a%2F1/status", func() error {
			_, err := client.UpdateAppointmentStatus(ctx, "a/1", model.UpdateAppointmentStatusRequest{Status: model.StatusCompleted})
			return err
		}},
		{"GET /api/Client/doctors", func() error { _, err := client.Doctors(ctx); return err }},
		{"POST /api/Client/appointments", func() error {
			_, err := client.CreateAppointment(ctx, model.CreateAppointmentRequest{DoctorID: "1"})
			return err
		}},
		{"GET /api/Client/getAppointments", func() error { _, err := client.MyAppointments(ctx); return err }},
		{"GET /api/Client/getReviews", func() error { _, err := client.MyReviews(ctx); return err }},
		{"GET /api/Client/appointment-hours/doctor/3/day/Monday", func() error {
			_, err := client.AppointmentHours(ctx, "3", "Monday")
			return err
		}},
		{"GET /api/Doctor/my-reviews", func() error { _, err := client.DoctorReviews(ctx); return err }},
		{"GET /api/Doctor/my-appointments", func() error { _, err := client.DoctorAppointments(ctx); return err }},
		{"POST /api/Doctor/medical-reports", func() error {
			_, err := client.CreateMedicalReport(ctx, model.CreateMedicalReportRequest{AppointmentID: "9"})
			return err
		}},
	}

	for _, c := range calls {
		require.NoError(t, c.call(), c.want)
		assert.Equal(t, c.want, <-seen)
	}
	assert.EqualValues(t, len(calls), hits.Load())
}

func TestRateLimit_RespectsContext(t *testing.T) {
	client, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	client.WithRateLimit(0.001, 1)

	_, err := client.Doctors(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Doctors(ctx)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized))
}

// =============================================================================
// CLAIMS
// =============================================================================

func TestIdentity_FromJWT(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Name:             "Dr. Ion Rusu",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	id := Identity(token)
	assert.Equal(t, "42", id.Subject)
	assert.Equal(t, "Dr. Ion Rusu", id.Name)
}

func TestIdentity_OpaqueToken(t *testing.T) {
	assert.Equal(t, model.Identity{}, Identity("not-a-jwt"))
	assert.Equal(t, model.Identity{}, Identity(""))
}

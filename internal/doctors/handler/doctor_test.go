package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doctorsportal/internal/auth"
	apperrors "doctorsportal/pkg/errors"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockDoctorService struct {
	createFunc func(ctx context.Context, doctor *model.Doctor) error
	deleteFunc func(ctx context.Context, email string) error
}

func (m *mockDoctorService) List(context.Context) ([]model.Doctor, error) {
	return []model.Doctor{{Name: "Dr. Ann", Email: "ann@clinic.com", Specialty: "Orthodontics"}}, nil
}

func (m *mockDoctorService) Create(ctx context.Context, doctor *model.Doctor) error {
	return m.createFunc(ctx, doctor)
}

func (m *mockDoctorService) Delete(ctx context.Context, email string) error {
	return m.deleteFunc(ctx, email)
}

type staticRoles map[string]string

func (s staticRoles) Role(_ context.Context, email string) (string, error) {
	return s[email], nil
}

func TestDoctorRoutes(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	gate := auth.NewMiddleware(tokens, staticRoles{"admin@example.com": "admin"}, logger.Discard())
	svc := &mockDoctorService{
		createFunc: func(_ context.Context, d *model.Doctor) error {
			if d.Email == "dup@clinic.com" {
				return apperrors.Conflict("Doctor already exists")
			}
			return nil
		},
		deleteFunc: func(_ context.Context, email string) error {
			if email == "ghost@clinic.com" {
				return apperrors.NotFoundWithID("Doctor", email)
			}
			return nil
		},
	}

	router := httprouter.New()
	NewDoctorHandler(svc, gate, logger.Discard()).RegisterRoutes(router)

	do := func(method, path, as, body string) int {
		req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
		if as != "" {
			token, err := tokens.Issue(as)
			if err != nil {
				t.Fatalf("issue token: %v", err)
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	tests := []struct {
		name   string
		method string
		path   string
		as     string
		body   string
		want   int
	}{
		{"list without token", http.MethodGet, "/api/doctors", "", "", http.StatusForbidden},
		{"list as patient", http.MethodGet, "/api/doctors", "bob@example.com", "", http.StatusForbidden},
		{"list as admin", http.MethodGet, "/api/doctors", "admin@example.com", "", http.StatusOK},
		{"create", http.MethodPost, "/api/doctors", "admin@example.com", `{"name":"Dr. Ann","email":"ann@clinic.com","specialty":"Ortho"}`, http.StatusCreated},
		{"create duplicate", http.MethodPost, "/api/doctors", "admin@example.com", `{"email":"dup@clinic.com"}`, http.StatusConflict},
		{"create bad json", http.MethodPost, "/api/doctors", "admin@example.com", `{`, http.StatusBadRequest},
		{"delete", http.MethodDelete, "/api/doctors/ann@clinic.com", "admin@example.com", "", http.StatusNoContent},
		{"delete missing", http.MethodDelete, "/api/doctors/ghost@clinic.com", "admin@example.com", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := do(tt.method, tt.path, tt.as, tt.body); got != tt.want {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, got, tt.want)
			}
		})
	}
}

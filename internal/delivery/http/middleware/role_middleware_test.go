package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func roleRequest(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role == "" {
		return req
	}
	ctx := context.WithValue(req.Context(), RoleKey, role)
	return req.WithContext(ctx)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		role       string
		wantStatus int
	}{
		{"exact match", []string{"admin"}, "admin", http.StatusOK},
		{"case insensitive match", []string{"admin"}, "Admin", http.StatusOK},
		{"one of several", []string{"hospital", "admin"}, "admin", http.StatusOK},
		{"wrong role", []string{"admin"}, "patient", http.StatusForbidden},
		{"missing role", []string{"admin"}, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			RequireRole(tt.allowed...)(next).ServeHTTP(rec, roleRequest(tt.role))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if wantCalled := tt.wantStatus == http.StatusOK; called != wantCalled {
				t.Errorf("next handler called = %v, want %v", called, wantCalled)
			}
		})
	}
}

func TestRequireHospitalOrAdmin(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus int
	}{
		{"hospital", http.StatusOK},
		{"admin", http.StatusOK},
		{"doctor", http.StatusForbidden},
		{"patient", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			RequireHospitalOrAdmin(next).ServeHTTP(rec, roleRequest(tt.role))

			if rec.Code != tt.wantStatus {
				t.Errorf("role %q: status = %d, want %d", tt.role, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireHospitalStaff(t *testing.T) {
	tests := []struct {
		role       string
		wantStatus int
	}{
		{"hospital", http.StatusOK},
		{"doctor", http.StatusOK},
		{"admin", http.StatusForbidden},
		{"patient", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			RequireHospitalStaff(next).ServeHTTP(rec, roleRequest(tt.role))

			if rec.Code != tt.wantStatus {
				t.Errorf("role %q: status = %d, want %d", tt.role, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuthenticateRejectsBadHeaders(t *testing.T) {
	m := NewAuthMiddleware(nil, nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not run without valid credentials")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"missing token", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			m.Authenticate(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
			}
		})
	}
}

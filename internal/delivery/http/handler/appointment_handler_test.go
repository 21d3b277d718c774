package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/usecase"
	"github.com/echanneling/echanneling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type fakeAppointmentUsecase struct {
	createErr   error
	completeErr error
	resp        *dto.AppointmentResponse
}

func (f *fakeAppointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.resp, nil
}

func (f *fakeAppointmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	return f.resp, nil
}

func (f *fakeAppointmentUsecase) Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return f.resp, nil
}

func (f *fakeAppointmentUsecase) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdatePaymentStatusRequest) (*dto.AppointmentResponse, error) {
	return f.resp, nil
}

func (f *fakeAppointmentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (f *fakeAppointmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	return f.resp, nil
}

func (f *fakeAppointmentUsecase) ListBySession(ctx context.Context, sessionID uuid.UUID) (*dto.AppointmentListResponse, error) {
	return &dto.AppointmentListResponse{}, nil
}

func validCreateBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(dto.CreateAppointmentRequest{
		SessionID:    uuid.New(),
		PatientName:  "Nimal Perera",
		PatientPhone: "0771234567",
		PatientNIC:   "912345678V",
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return bytes.NewBuffer(body)
}

func TestAppointmentCreateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"created", nil, http.StatusCreated},
		{"session missing", usecase.ErrSessionNotFound, http.StatusNotFound},
		{"session not bookable", usecase.ErrSessionNotBookable, http.StatusBadRequest},
		{"session full", usecase.ErrSessionFull, http.StatusConflict},
		{"duplicate booking", usecase.ErrDuplicateBooking, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAppointmentHandler(&fakeAppointmentUsecase{
				createErr: tt.err,
				resp:      &dto.AppointmentResponse{ID: uuid.New()},
			}, validator.NewValidator())

			req := httptest.NewRequest(http.MethodPost, "/appointments", validCreateBody(t))
			rec := httptest.NewRecorder()
			h.Create(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAppointmentCreateValidation(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	// Missing patient name and NIC
	body, _ := json.Marshal(map[string]interface{}{"session_id": uuid.New()})
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAppointmentCompleteTerminal(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{
		completeErr: usecase.ErrAppointmentTerminal,
	}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/appointments/"+uuid.NewString()+"/complete", nil)
	req = mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
	rec := httptest.NewRecorder()
	h.Complete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAppointmentCompleteBadID(t *testing.T) {
	h := NewAppointmentHandler(&fakeAppointmentUsecase{}, validator.NewValidator())

	req := httptest.NewRequest(http.MethodPost, "/appointments/not-a-uuid/complete", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "not-a-uuid"})
	rec := httptest.NewRecorder()
	h.Complete(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

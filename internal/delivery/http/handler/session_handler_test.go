package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/usecase"
	"github.com/echanneling/echanneling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type fakeSessionUsecase struct {
	updateErr error
	cancelErr error
	deleteErr error
	resp      *dto.SessionResponse
}

func (f *fakeSessionUsecase) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	return f.resp, nil
}

func (f *fakeSessionUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.resp, nil
}

func (f *fakeSessionUsecase) Cancel(ctx context.Context, id uuid.UUID) error {
	return f.cancelErr
}

func (f *fakeSessionUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteErr
}

func (f *fakeSessionUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	return f.resp, nil
}

func (f *fakeSessionUsecase) ListAvailable(ctx context.Context, filter *entity.SessionFilter) (*dto.SessionListResponse, error) {
	return &dto.SessionListResponse{}, nil
}

func (f *fakeSessionUsecase) GetRemainingSlots(ctx context.Context, id uuid.UUID) (*dto.SessionSlotsResponse, error) {
	return &dto.SessionSlotsResponse{SessionID: id}, nil
}

func sessionRequest(t *testing.T, method string, payload interface{}) *http.Request {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, "/sessions/"+uuid.NewString(), body)
	return mux.SetURLVars(req, map[string]string{"id": uuid.NewString()})
}

func TestSessionUpdateErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"updated", nil, http.StatusOK},
		{"not found", usecase.ErrSessionNotFound, http.StatusNotFound},
		{"not owned", usecase.ErrHospitalNotOwned, http.StatusForbidden},
		{"not editable", usecase.ErrSessionNotEditable, http.StatusConflict},
		{"capacity below booked", usecase.ErrCapacityBelowBooked, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSessionHandler(&fakeSessionUsecase{
				updateErr: tt.err,
				resp:      &dto.SessionResponse{ID: uuid.New()},
			}, validator.NewValidator())

			capacity := 10
			rec := httptest.NewRecorder()
			h.Update(rec, sessionRequest(t, http.MethodPut, dto.UpdateSessionRequest{Capacity: &capacity}))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestSessionCancelAlreadyCancelled(t *testing.T) {
	h := NewSessionHandler(&fakeSessionUsecase{
		cancelErr: usecase.ErrSessionAlreadyCancelled,
	}, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.Cancel(rec, sessionRequest(t, http.MethodPost, nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestSessionDeleteWithBookings(t *testing.T) {
	h := NewSessionHandler(&fakeSessionUsecase{
		deleteErr: usecase.ErrSessionHasBookings,
	}, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.Delete(rec, sessionRequest(t, http.MethodDelete, nil))

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

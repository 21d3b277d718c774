package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/delivery/http/handler"
	"github.com/echanneling/echanneling/internal/delivery/http/middleware"
	"github.com/echanneling/echanneling/pkg/validator"

	"github.com/google/uuid"
)

type stubPrescriptionUsecase struct{}

func (stubPrescriptionUsecase) Issue(_ context.Context, _ uuid.UUID, _ *dto.IssuePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	return nil, nil
}

func (stubPrescriptionUsecase) GetByNumber(_ context.Context, number string) (*dto.PrescriptionResponse, error) {
	return &dto.PrescriptionResponse{PrescriptionNumber: number}, nil
}

func (stubPrescriptionUsecase) ListByAppointment(_ context.Context, _ uuid.UUID) (*dto.PrescriptionListResponse, error) {
	return &dto.PrescriptionListResponse{}, nil
}

// newTestRouter registers the full route table with only the handlers the
// test exercises. Untouched routes hold nil receivers that would panic if a
// request reached them.
func newTestRouter() http.Handler {
	r := NewRouter(
		nil,
		nil,
		nil,
		nil,
		nil,
		nil,
		handler.NewPrescriptionHandler(stubPrescriptionUsecase{}, validator.NewValidator()),
		nil,
		nil,
		nil,
		nil,
		middleware.NewAuthMiddleware(nil, nil),
		middleware.NewCORSMiddleware(),
		middleware.NewRateLimitMiddleware(middleware.RateLimiterConfig{RequestsPerSecond: 100, Burst: 100}),
	)
	return r.Setup()
}

func TestPrescriptionLookupIsPublic(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/prescriptions/RX-20260101-AB12CD", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d (lookup must not require credentials)", rec.Code, http.StatusOK)
	}
}

func TestSessionCreateIsRegisteredBehindAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// 401 proves the route exists and is gated; an unregistered route
	// would fall through to 405 or 404.
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

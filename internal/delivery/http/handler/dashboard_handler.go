package handler

import (
	"net/http"

	"github.com/echanneling/echanneling/internal/usecase"
	"github.com/echanneling/echanneling/pkg/response"
)

type DashboardHandler struct {
	dashboardUsecase usecase.DashboardUsecase
}

func NewDashboardHandler(dashboardUsecase usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{
		dashboardUsecase: dashboardUsecase,
	}
}

func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardUsecase.AdminDashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to build dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (h *DashboardHandler) Hospital(w http.ResponseWriter, r *http.Request) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}

	dashboard, err := h.dashboardUsecase.HospitalDashboard(r.Context(), hospitalID)
	if err != nil {
		switch err {
		case usecase.ErrHospitalNotFound:
			response.NotFound(w, "Hospital not found")
		case usecase.ErrHospitalNotOwned:
			response.Forbidden(w, "Hospital is not managed by this account")
		default:
			response.InternalServerError(w, "Failed to build dashboard")
		}
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

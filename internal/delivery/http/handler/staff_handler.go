package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/usecase"
	"github.com/echanneling/echanneling/pkg/response"
	"github.com/echanneling/echanneling/pkg/validator"

	"github.com/google/uuid"
)

// StaffHandler serves both nurse and cashier endpoints; the flows only
// differ in which usecase method they hit.
type StaffHandler struct {
	staffUsecase usecase.StaffUsecase
	validator    *validator.CustomValidator
}

func NewStaffHandler(staffUsecase usecase.StaffUsecase, validator *validator.CustomValidator) *StaffHandler {
	return &StaffHandler{
		staffUsecase: staffUsecase,
		validator:    validator,
	}
}

func (h *StaffHandler) CreateNurse(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.staffUsecase.CreateNurse, "nurse")
}

func (h *StaffHandler) CreateCashier(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, h.staffUsecase.CreateCashier, "cashier")
}

func (h *StaffHandler) UpdateNurse(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.staffUsecase.UpdateNurse, "nurse")
}

func (h *StaffHandler) UpdateCashier(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.staffUsecase.UpdateCashier, "cashier")
}

func (h *StaffHandler) DeleteNurse(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.staffUsecase.DeleteNurse, "nurse")
}

func (h *StaffHandler) DeleteCashier(w http.ResponseWriter, r *http.Request) {
	h.delete(w, r, h.staffUsecase.DeleteCashier, "cashier")
}

func (h *StaffHandler) ListNurses(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.staffUsecase.ListNurses, "nurses")
}

func (h *StaffHandler) ListCashiers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.staffUsecase.ListCashiers, "cashiers")
}

func (h *StaffHandler) create(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateStaffRequest) (*dto.StaffResponse, error),
	kind string,
) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}

	var req dto.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	staff, err := fn(r.Context(), hospitalID, &req)
	if err != nil {
		h.writeStaffError(w, err, kind)
		return
	}

	response.Success(w, http.StatusCreated, "Staff member created successfully", staff)
}

func (h *StaffHandler) update(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, hospitalID, staffID uuid.UUID, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error),
	kind string,
) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}
	staffID, ok := parseIDParam(w, r, "staffId")
	if !ok {
		return
	}

	var req dto.UpdateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	staff, err := fn(r.Context(), hospitalID, staffID, &req)
	if err != nil {
		h.writeStaffError(w, err, kind)
		return
	}

	response.Success(w, http.StatusOK, "Staff member updated successfully", staff)
}

func (h *StaffHandler) delete(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, hospitalID, staffID uuid.UUID) error,
	kind string,
) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}
	staffID, ok := parseIDParam(w, r, "staffId")
	if !ok {
		return
	}

	if err := fn(r.Context(), hospitalID, staffID); err != nil {
		h.writeStaffError(w, err, kind)
		return
	}

	response.Success(w, http.StatusOK, "Staff member deleted successfully", nil)
}

func (h *StaffHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, hospitalID uuid.UUID) (*dto.StaffListResponse, error),
	kind string,
) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}

	staff, err := fn(r.Context(), hospitalID)
	if err != nil {
		h.writeStaffError(w, err, kind)
		return
	}

	response.Success(w, http.StatusOK, "Staff retrieved successfully", staff)
}

func (h *StaffHandler) writeStaffError(w http.ResponseWriter, err error, kind string) {
	switch err {
	case usecase.ErrHospitalNotFound:
		response.NotFound(w, "Hospital not found")
	case usecase.ErrHospitalNotOwned:
		response.Forbidden(w, "Hospital is not managed by this account")
	case usecase.ErrStaffNotFound:
		response.NotFound(w, "Staff member not found")
	case usecase.ErrEmailAlreadyExists:
		response.Error(w, http.StatusConflict, "Email already exists", nil)
	default:
		response.InternalServerError(w, "Failed to process "+kind+" request")
	}
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/usecase"
	"github.com/echanneling/echanneling/pkg/response"
	"github.com/echanneling/echanneling/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}

	var req dto.CreateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.Create(r.Context(), hospitalID, &req)
	if err != nil {
		switch err {
		case usecase.ErrHospitalNotFound:
			response.NotFound(w, "Hospital not found")
		case usecase.ErrHospitalNotOwned:
			response.Forbidden(w, "Hospital is not managed by this account")
		case usecase.ErrEmailAlreadyExists:
			response.Error(w, http.StatusConflict, "Email already exists", nil)
		case usecase.ErrRegistrationNumberExists:
			response.Error(w, http.StatusConflict, "Registration number already exists", nil)
		case usecase.ErrSpecializationNotFound:
			response.Error(w, http.StatusBadRequest, "Specialization not found", nil)
		default:
			response.InternalServerError(w, "Failed to create doctor")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Doctor created successfully", doctor)
}

func (h *DoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}
	doctorID, ok := parseIDParam(w, r, "doctorId")
	if !ok {
		return
	}

	var req dto.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	doctor, err := h.doctorUsecase.Update(r.Context(), hospitalID, doctorID, &req)
	if err != nil {
		switch err {
		case usecase.ErrHospitalNotFound:
			response.NotFound(w, "Hospital not found")
		case usecase.ErrHospitalNotOwned:
			response.Forbidden(w, "Hospital is not managed by this account")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDoctorAffiliationNotFound:
			response.Forbidden(w, "Doctor is not affiliated with this hospital")
		case usecase.ErrSpecializationNotFound:
			response.Error(w, http.StatusBadRequest, "Specialization not found", nil)
		default:
			response.InternalServerError(w, "Failed to update doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		default:
			response.InternalServerError(w, "Failed to get doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor retrieved successfully", doctor)
}

func (h *DoctorHandler) ListByHospital(w http.ResponseWriter, r *http.Request) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}

	doctors, err := h.doctorUsecase.ListByHospital(r.Context(), hospitalID)
	if err != nil {
		response.InternalServerError(w, "Failed to list doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *DoctorHandler) Affiliate(w http.ResponseWriter, r *http.Request) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}
	doctorID, ok := parseIDParam(w, r, "doctorId")
	if !ok {
		return
	}

	if err := h.doctorUsecase.Affiliate(r.Context(), hospitalID, doctorID); err != nil {
		switch err {
		case usecase.ErrHospitalNotFound:
			response.NotFound(w, "Hospital not found")
		case usecase.ErrHospitalNotOwned:
			response.Forbidden(w, "Hospital is not managed by this account")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrDoctorAlreadyAffiliated:
			response.Error(w, http.StatusConflict, "Doctor is already affiliated with this hospital", nil)
		default:
			response.InternalServerError(w, "Failed to affiliate doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor affiliated successfully", nil)
}

func (h *DoctorHandler) Unaffiliate(w http.ResponseWriter, r *http.Request) {
	hospitalID, ok := parseIDParam(w, r, "hospitalId")
	if !ok {
		return
	}
	doctorID, ok := parseIDParam(w, r, "doctorId")
	if !ok {
		return
	}

	if err := h.doctorUsecase.Unaffiliate(r.Context(), hospitalID, doctorID); err != nil {
		switch err {
		case usecase.ErrHospitalNotFound:
			response.NotFound(w, "Hospital not found")
		case usecase.ErrHospitalNotOwned:
			response.Forbidden(w, "Hospital is not managed by this account")
		case usecase.ErrDoctorAffiliationNotFound:
			response.NotFound(w, "Doctor is not affiliated with this hospital")
		default:
			response.InternalServerError(w, "Failed to unaffiliate doctor")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor unaffiliated successfully", nil)
}

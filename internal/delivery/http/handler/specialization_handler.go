package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/usecase"
	"github.com/echanneling/echanneling/pkg/response"
	"github.com/echanneling/echanneling/pkg/validator"

	"github.com/gorilla/mux"
)

type SpecializationHandler struct {
	specializationUsecase usecase.SpecializationUsecase
	validator             *validator.CustomValidator
}

func NewSpecializationHandler(specializationUsecase usecase.SpecializationUsecase, validator *validator.CustomValidator) *SpecializationHandler {
	return &SpecializationHandler{
		specializationUsecase: specializationUsecase,
		validator:             validator,
	}
}

func (h *SpecializationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSpecializationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	specialization, err := h.specializationUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrSpecializationExists:
			response.Conflict(w, "Specialization already exists")
		default:
			response.InternalServerError(w, "Failed to create specialization")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Specialization created successfully", specialization)
}

func (h *SpecializationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIntParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateSpecializationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	specialization, err := h.specializationUsecase.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrSpecializationNotFound:
			response.NotFound(w, "Specialization not found")
		case usecase.ErrSpecializationExists:
			response.Conflict(w, "Specialization already exists")
		default:
			response.InternalServerError(w, "Failed to update specialization")
		}
		return
	}

	response.Success(w, http.StatusOK, "Specialization updated successfully", specialization)
}

func (h *SpecializationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIntParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.specializationUsecase.Delete(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrSpecializationNotFound:
			response.NotFound(w, "Specialization not found")
		case usecase.ErrSpecializationInUse:
			response.Conflict(w, "Specialization is still assigned to doctors")
		default:
			response.InternalServerError(w, "Failed to delete specialization")
		}
		return
	}

	response.Success(w, http.StatusOK, "Specialization deleted successfully", nil)
}

func (h *SpecializationHandler) List(w http.ResponseWriter, r *http.Request) {
	specializations, err := h.specializationUsecase.List(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list specializations")
		return
	}

	response.Success(w, http.StatusOK, "Specializations retrieved successfully", specializations)
}

func parseIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	value, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name+" parameter", nil)
		return 0, false
	}
	return value, true
}

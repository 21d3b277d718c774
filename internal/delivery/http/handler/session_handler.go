package handler

import (
	"encoding/json"
	"net/http"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/usecase"
	"github.com/echanneling/echanneling/pkg/response"
	"github.com/echanneling/echanneling/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type SessionHandler struct {
	sessionUsecase usecase.SessionUsecase
	validator      *validator.CustomValidator
}

func NewSessionHandler(sessionUsecase usecase.SessionUsecase, validator *validator.CustomValidator) *SessionHandler {
	return &SessionHandler{
		sessionUsecase: sessionUsecase,
		validator:      validator,
	}
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.sessionUsecase.Create(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrHospitalNotFound:
			response.NotFound(w, "Hospital not found")
		case usecase.ErrHospitalNotOwned:
			response.Forbidden(w, "Hospital is not managed by this account")
		case usecase.ErrNotSessionDoctor:
			response.Forbidden(w, "Doctors can only schedule sessions for themselves")
		case usecase.ErrDoctorNotAffiliated:
			response.Error(w, http.StatusBadRequest, "Doctor is not affiliated with this hospital", nil)
		case usecase.ErrNurseNotFound:
			response.Error(w, http.StatusBadRequest, "Nurse not found", nil)
		case usecase.ErrSessionInPast:
			response.Error(w, http.StatusBadRequest, "Session start time is in the past", nil)
		default:
			response.InternalServerError(w, "Failed to create session")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Session created successfully", session)
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	session, err := h.sessionUsecase.Update(r.Context(), id, &req)
	if err != nil {
		switch err {
		case usecase.ErrSessionNotFound:
			response.NotFound(w, "Session not found")
		case usecase.ErrHospitalNotOwned:
			response.Forbidden(w, "Session belongs to another hospital")
		case usecase.ErrSessionNotEditable:
			response.Error(w, http.StatusConflict, "Only scheduled sessions can be modified", nil)
		case usecase.ErrNurseNotFound:
			response.Error(w, http.StatusBadRequest, "Nurse not found", nil)
		case usecase.ErrCapacityBelowBooked:
			response.Error(w, http.StatusConflict, "Capacity cannot be lower than booked slots", nil)
		default:
			response.InternalServerError(w, "Failed to update session")
		}
		return
	}

	response.Success(w, http.StatusOK, "Session updated successfully", session)
}

func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.sessionUsecase.Cancel(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrSessionNotFound:
			response.NotFound(w, "Session not found")
		case usecase.ErrHospitalNotOwned:
			response.Forbidden(w, "Session belongs to another hospital")
		case usecase.ErrSessionAlreadyCancelled:
			response.Error(w, http.StatusConflict, "Session is already cancelled", nil)
		case usecase.ErrSessionNotEditable:
			response.Error(w, http.StatusConflict, "Only scheduled sessions can be cancelled", nil)
		default:
			response.InternalServerError(w, "Failed to cancel session")
		}
		return
	}

	response.Success(w, http.StatusOK, "Session cancelled successfully", nil)
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.sessionUsecase.Delete(r.Context(), id); err != nil {
		switch err {
		case usecase.ErrSessionNotFound:
			response.NotFound(w, "Session not found")
		case usecase.ErrHospitalNotOwned:
			response.Forbidden(w, "Session belongs to another hospital")
		case usecase.ErrSessionHasBookings:
			response.Error(w, http.StatusConflict, "Session has bookings, cancel it instead", nil)
		default:
			response.InternalServerError(w, "Failed to delete session")
		}
		return
	}

	response.Success(w, http.StatusOK, "Session deleted successfully", nil)
}

func (h *SessionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	session, err := h.sessionUsecase.GetByID(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrSessionNotFound:
			response.NotFound(w, "Session not found")
		default:
			response.InternalServerError(w, "Failed to get session")
		}
		return
	}

	response.Success(w, http.StatusOK, "Session retrieved successfully", session)
}

// ListAvailable is the public browse endpoint. Optional query parameters:
// doctor_id, hospital_id, date (YYYY-MM-DD).
func (h *SessionHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	filter := &entity.SessionFilter{
		Date: r.URL.Query().Get("date"),
	}

	if raw := r.URL.Query().Get("doctor_id"); raw != "" {
		doctorID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
			return
		}
		filter.DoctorID = &doctorID
	}
	if raw := r.URL.Query().Get("hospital_id"); raw != "" {
		hospitalID, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid hospital ID", nil)
			return
		}
		filter.HospitalID = &hospitalID
	}

	sessions, err := h.sessionUsecase.ListAvailable(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list sessions")
		return
	}

	response.Success(w, http.StatusOK, "Sessions retrieved successfully", sessions)
}

func (h *SessionHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	slots, err := h.sessionUsecase.GetRemainingSlots(r.Context(), id)
	if err != nil {
		switch err {
		case usecase.ErrSessionNotFound:
			response.NotFound(w, "Session not found")
		default:
			response.InternalServerError(w, "Failed to get remaining slots")
		}
		return
	}

	response.Success(w, http.StatusOK, "Remaining slots retrieved successfully", slots)
}

// parseIDParam reads a UUID path variable, writing a 400 on failure.
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+name+" parameter", nil)
		return uuid.Nil, false
	}
	return id, true
}

package converter

import (
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/google/uuid"
)

// SessionToResponse converts a Session entity to SessionResponse DTO.
// Availability annotations are derived from the row's own counters, not
// from the slot cache, so the response is consistent with the database.
func SessionToResponse(session *entity.Session) *dto.SessionResponse {
	if session == nil {
		return nil
	}

	response := &dto.SessionResponse{
		ID:             session.ID,
		DoctorID:       session.DoctorID,
		HospitalID:     session.HospitalID,
		NurseID:        session.NurseID,
		StartTime:      session.StartTime,
		EndTime:        session.EndTime,
		Location:       session.Location,
		Capacity:       session.Capacity,
		BookedSlots:    session.BookedCount,
		AvailableSlots: session.AvailableSlots(),
		IsAvailable:    session.IsScheduled() && !session.IsFull(),
		Status:         string(session.Status),
		CreatedAt:      session.CreatedAt,
		UpdatedAt:      session.UpdatedAt,
	}

	// Include doctor and hospital info if preloaded
	if session.Doctor.ID != uuid.Nil {
		response.Doctor = DoctorToResponse(&session.Doctor)
	}
	if session.Hospital.ID != uuid.Nil {
		response.Hospital = HospitalToResponse(&session.Hospital)
	}

	return response
}

// SessionsToResponses converts a slice of Session entities to DTOs
func SessionsToResponses(sessions []entity.Session) []dto.SessionResponse {
	responses := make([]dto.SessionResponse, len(sessions))
	for i, session := range sessions {
		resp := SessionToResponse(&session)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

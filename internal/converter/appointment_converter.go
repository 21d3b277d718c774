package converter

import (
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:                 appointment.ID,
		SessionID:          appointment.SessionID,
		AppointmentNumber:  appointment.AppointmentNumber,
		PatientName:        appointment.PatientName,
		PatientPhone:       appointment.PatientPhone,
		PatientNIC:         appointment.PatientNIC,
		PatientEmail:       appointment.PatientEmail,
		BookedByID:         appointment.BookedByID,
		Status:             string(appointment.Status),
		PaymentStatus:      string(appointment.PaymentStatus),
		Notes:              appointment.Notes,
		CancelledAt:        appointment.CancelledAt,
		CancellationReason: appointment.CancellationReason,
		CreatedAt:          appointment.CreatedAt,
		UpdatedAt:          appointment.UpdatedAt,
	}

	// Include session info if preloaded
	if appointment.Session.ID != uuid.Nil {
		response.Session = SessionToResponse(&appointment.Session)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

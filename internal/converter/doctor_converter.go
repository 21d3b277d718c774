package converter

import (
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:                 doctor.ID,
		FullName:           doctor.FullName,
		Email:              doctor.Email,
		PhoneNumber:        doctor.PhoneNumber,
		RegistrationNumber: doctor.RegistrationNumber,
		IsActive:           doctor.IsActive,
		CreatedAt:          doctor.CreatedAt,
		UpdatedAt:          doctor.UpdatedAt,
	}

	// Include specialization name if preloaded
	if doctor.Specialization != nil {
		response.Specialization = doctor.Specialization.Name
	}

	return response
}

// DoctorsToResponses converts a slice of Doctor entities to DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i, doctor := range doctors {
		resp := DoctorToResponse(&doctor)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

package converter

import (
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
)

// HospitalToResponse converts a Hospital entity to HospitalResponse DTO
func HospitalToResponse(hospital *entity.Hospital) *dto.HospitalResponse {
	if hospital == nil {
		return nil
	}

	return &dto.HospitalResponse{
		ID:              hospital.ID,
		Name:            hospital.Name,
		RegisteredEmail: hospital.RegisteredEmail,
		Address:         hospital.Address,
		PhoneNumber:     hospital.PhoneNumber,
		IsActive:        hospital.IsActive,
		CreatedAt:       hospital.CreatedAt,
		UpdatedAt:       hospital.UpdatedAt,
	}
}

// HospitalsToResponses converts a slice of Hospital entities to DTOs
func HospitalsToResponses(hospitals []entity.Hospital) []dto.HospitalResponse {
	responses := make([]dto.HospitalResponse, len(hospitals))
	for i, hospital := range hospitals {
		resp := HospitalToResponse(&hospital)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

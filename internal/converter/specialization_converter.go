package converter

import (
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
)

// SpecializationToResponse converts a Specialization entity to SpecializationResponse DTO
func SpecializationToResponse(specialization *entity.Specialization) *dto.SpecializationResponse {
	if specialization == nil {
		return nil
	}

	return &dto.SpecializationResponse{
		ID:          specialization.ID,
		Name:        specialization.Name,
		Description: specialization.Description,
		CreatedAt:   specialization.CreatedAt,
		UpdatedAt:   specialization.UpdatedAt,
	}
}

// SpecializationsToResponses converts a slice of Specialization entities to DTOs
func SpecializationsToResponses(specializations []entity.Specialization) []dto.SpecializationResponse {
	responses := make([]dto.SpecializationResponse, len(specializations))
	for i, specialization := range specializations {
		resp := SpecializationToResponse(&specialization)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

package converter

import (
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
)

// NurseToResponse converts a Nurse entity to StaffResponse DTO
func NurseToResponse(nurse *entity.Nurse) *dto.StaffResponse {
	if nurse == nil {
		return nil
	}

	return &dto.StaffResponse{
		ID:          nurse.ID,
		HospitalID:  nurse.HospitalID,
		FullName:    nurse.FullName,
		Email:       nurse.Email,
		PhoneNumber: nurse.PhoneNumber,
		IsActive:    nurse.IsActive,
		CreatedAt:   nurse.CreatedAt,
		UpdatedAt:   nurse.UpdatedAt,
	}
}

// NursesToResponses converts a slice of Nurse entities to DTOs
func NursesToResponses(nurses []entity.Nurse) []dto.StaffResponse {
	responses := make([]dto.StaffResponse, len(nurses))
	for i, nurse := range nurses {
		resp := NurseToResponse(&nurse)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// CashierToResponse converts a Cashier entity to StaffResponse DTO
func CashierToResponse(cashier *entity.Cashier) *dto.StaffResponse {
	if cashier == nil {
		return nil
	}

	return &dto.StaffResponse{
		ID:          cashier.ID,
		HospitalID:  cashier.HospitalID,
		FullName:    cashier.FullName,
		Email:       cashier.Email,
		PhoneNumber: cashier.PhoneNumber,
		IsActive:    cashier.IsActive,
		CreatedAt:   cashier.CreatedAt,
		UpdatedAt:   cashier.UpdatedAt,
	}
}

// CashiersToResponses converts a slice of Cashier entities to DTOs
func CashiersToResponses(cashiers []entity.Cashier) []dto.StaffResponse {
	responses := make([]dto.StaffResponse, len(cashiers))
	for i, cashier := range cashiers {
		resp := CashierToResponse(&cashier)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

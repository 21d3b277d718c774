package converter

import (
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
)

// PrescriptionToResponse converts a Prescription entity to PrescriptionResponse DTO
func PrescriptionToResponse(prescription *entity.Prescription) *dto.PrescriptionResponse {
	if prescription == nil {
		return nil
	}

	return &dto.PrescriptionResponse{
		ID:                 prescription.ID,
		AppointmentID:      prescription.AppointmentID,
		DoctorID:           prescription.DoctorID,
		PrescriptionNumber: prescription.PrescriptionNumber,
		DoctorName:         prescription.DoctorName,
		PatientName:        prescription.PatientName,
		Medications:        prescription.Medications,
		Instructions:       prescription.Instructions,
		Version:            prescription.Version,
		IsLatestVersion:    prescription.IsLatestVersion,
		CreatedAt:          prescription.CreatedAt,
		UpdatedAt:          prescription.UpdatedAt,
	}
}

// PrescriptionsToResponses converts a slice of Prescription entities to DTOs
func PrescriptionsToResponses(prescriptions []entity.Prescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, len(prescriptions))
	for i, prescription := range prescriptions {
		resp := PrescriptionToResponse(&prescription)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

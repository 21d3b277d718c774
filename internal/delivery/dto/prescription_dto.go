package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type IssuePrescriptionRequest struct {
	Medications  string `json:"medications" validate:"required"`
	Instructions string `json:"instructions" validate:"omitempty"`
}

// Response DTOs

type PrescriptionResponse struct {
	ID                 uuid.UUID `json:"id"`
	AppointmentID      uuid.UUID `json:"appointment_id"`
	DoctorID           uuid.UUID `json:"doctor_id"`
	PrescriptionNumber string    `json:"prescription_number"`
	DoctorName         string    `json:"doctor_name"`
	PatientName        string    `json:"patient_name"`
	Medications        string    `json:"medications"`
	Instructions       string    `json:"instructions,omitempty"`
	Version            int       `json:"version"`
	IsLatestVersion    bool      `json:"is_latest_version"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type PrescriptionListResponse struct {
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
	Total         int                    `json:"total"`
}

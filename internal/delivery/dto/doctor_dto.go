package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	FullName           string `json:"full_name" validate:"required,min=2,max=255"`
	Email              string `json:"email" validate:"required,email"`
	Password           string `json:"password" validate:"required,min=8"`
	PhoneNumber        string `json:"phone_number" validate:"omitempty,max=20"`
	RegistrationNumber string `json:"registration_number" validate:"required,max=50"`
	SpecializationID   *int   `json:"specialization_id" validate:"omitempty,gt=0"`
}

type UpdateDoctorRequest struct {
	FullName         string `json:"full_name" validate:"omitempty,min=2,max=255"`
	PhoneNumber      string `json:"phone_number" validate:"omitempty,max=20"`
	SpecializationID *int   `json:"specialization_id" validate:"omitempty,gt=0"`
	IsActive         *bool  `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID                 uuid.UUID `json:"id"`
	FullName           string    `json:"full_name"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phone_number,omitempty"`
	RegistrationNumber string    `json:"registration_number"`
	Specialization     string    `json:"specialization,omitempty"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateHospitalRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=255"`
	RegisteredEmail string `json:"registered_email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Address         string `json:"address" validate:"omitempty"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,max=20"`
}

type UpdateHospitalRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Address     string `json:"address" validate:"omitempty"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=20"`
	IsActive    *bool  `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type HospitalResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	RegisteredEmail string    `json:"registered_email"`
	Address         string    `json:"address,omitempty"`
	PhoneNumber     string    `json:"phone_number,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type HospitalListResponse struct {
	Hospitals []HospitalResponse `json:"hospitals"`
	Total     int                `json:"total"`
}

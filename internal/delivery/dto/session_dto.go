package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateSessionRequest struct {
	DoctorID   uuid.UUID  `json:"doctor_id" validate:"required"`
	HospitalID uuid.UUID  `json:"hospital_id" validate:"required"`
	NurseID    *uuid.UUID `json:"nurse_id" validate:"omitempty"`
	StartTime  time.Time  `json:"start_time" validate:"required"`
	EndTime    time.Time  `json:"end_time" validate:"required,gtfield=StartTime"`
	Location   string     `json:"location" validate:"omitempty,max=255"`
	// Capacity zero means "use the platform default", not invalid.
	Capacity int `json:"capacity" validate:"omitempty,gte=0"`
}

type UpdateSessionRequest struct {
	NurseID   *uuid.UUID `json:"nurse_id" validate:"omitempty"`
	StartTime *time.Time `json:"start_time" validate:"omitempty"`
	EndTime   *time.Time `json:"end_time" validate:"omitempty"`
	Location  string     `json:"location" validate:"omitempty,max=255"`
	Capacity  *int       `json:"capacity" validate:"omitempty,gt=0"`
}

// Response DTOs

type SessionResponse struct {
	ID             uuid.UUID         `json:"id"`
	DoctorID       uuid.UUID         `json:"doctor_id"`
	Doctor         *DoctorResponse   `json:"doctor,omitempty"`
	HospitalID     uuid.UUID         `json:"hospital_id"`
	Hospital       *HospitalResponse `json:"hospital,omitempty"`
	NurseID        *uuid.UUID        `json:"nurse_id,omitempty"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
	Location       string            `json:"location,omitempty"`
	Capacity       int               `json:"capacity"`
	BookedSlots    int               `json:"booked_slots"`
	AvailableSlots int               `json:"available_slots"`
	IsAvailable    bool              `json:"is_available"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

type SessionSlotsResponse struct {
	SessionID      uuid.UUID `json:"session_id"`
	AvailableSlots int       `json:"available_slots"`
}

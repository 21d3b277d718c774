package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	SessionID    uuid.UUID `json:"session_id" validate:"required"`
	PatientName  string    `json:"patient_name" validate:"required,min=2,max=255"`
	PatientPhone string    `json:"patient_phone" validate:"required,max=20"`
	PatientNIC   string    `json:"patient_nic" validate:"required,max=20"`
	PatientEmail string    `json:"patient_email" validate:"omitempty,email"`
}

type UpdateAppointmentRequest struct {
	PatientName        string `json:"patient_name" validate:"omitempty,min=2,max=255"`
	PatientPhone       string `json:"patient_phone" validate:"omitempty,max=20"`
	PatientEmail       string `json:"patient_email" validate:"omitempty,email"`
	Status             string `json:"status" validate:"omitempty,oneof=pending confirmed served cancelled"`
	Notes              string `json:"notes" validate:"omitempty"`
	CancellationReason string `json:"cancellation_reason" validate:"omitempty"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid refunded"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                 uuid.UUID        `json:"id"`
	SessionID          uuid.UUID        `json:"session_id"`
	Session            *SessionResponse `json:"session,omitempty"`
	AppointmentNumber  string           `json:"appointment_number"`
	PatientName        string           `json:"patient_name"`
	PatientPhone       string           `json:"patient_phone"`
	PatientNIC         string           `json:"patient_nic"`
	PatientEmail       string           `json:"patient_email,omitempty"`
	BookedByID         *uuid.UUID       `json:"booked_by_id,omitempty"`
	Status             string           `json:"status"`
	PaymentStatus      string           `json:"payment_status"`
	Notes              string           `json:"notes,omitempty"`
	CancelledAt        *time.Time       `json:"cancelled_at,omitempty"`
	CancellationReason string           `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusServed    AppointmentStatus = "served"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// PaymentStatus tracks payment of an appointment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Appointment is a patient booking against a Session. Patient identity is
// stored inline so walk-in bookings do not require a platform account.
type Appointment struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"session_id"`
	AppointmentNumber  string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"appointment_number"`
	PatientName        string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone       string            `gorm:"type:varchar(20);not null" json:"patient_phone"`
	PatientNIC         string            `gorm:"type:varchar(20);not null;index" json:"patient_nic"`
	PatientEmail       string            `gorm:"type:varchar(255)" json:"patient_email,omitempty"`
	BookedByID         *uuid.UUID        `gorm:"type:uuid;index" json:"booked_by_id,omitempty"`
	Status             AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus      PaymentStatus     `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Notes              string            `gorm:"type:text" json:"notes,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
	CancellationReason string            `gorm:"type:text" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Session       Session        `gorm:"foreignKey:SessionID" json:"session,omitempty"`
	Prescriptions []Prescription `gorm:"foreignKey:AppointmentID" json:"prescriptions,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment was cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsServed checks if the appointment was completed
func (a *Appointment) IsServed() bool {
	return a.Status == AppointmentStatusServed
}

// IsTerminal reports whether no further status transition is permitted.
// served and cancelled are both terminal states.
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusServed || a.Status == AppointmentStatusCancelled
}

// CanTransitionTo validates the appointment status state machine:
// pending -> confirmed -> served; pending|confirmed -> cancelled.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if a.IsTerminal() {
		return false
	}
	switch next {
	case AppointmentStatusConfirmed:
		return a.Status == AppointmentStatusPending
	case AppointmentStatusServed:
		return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
	case AppointmentStatusCancelled:
		return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
	case AppointmentStatusPending:
		return false
	default:
		return false
	}
}

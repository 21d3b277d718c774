package entity

import (
	"time"

	"github.com/google/uuid"
)

// Prescription is issued by a doctor against an appointment. Prescriptions
// are versioned: the latest carries IsLatestVersion=true, older versions are
// retained for history. DoctorName and PatientName are snapshots captured at
// creation time and never recomputed.
type Prescription struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID      uuid.UUID `gorm:"type:uuid;not null;index" json:"appointment_id"`
	DoctorID           uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	PrescriptionNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"prescription_number"`
	Version            int       `gorm:"not null;default:1" json:"version"`
	IsLatestVersion    bool      `gorm:"not null;default:true;index" json:"is_latest_version"`
	DoctorName         string    `gorm:"type:varchar(255);not null" json:"doctor_name"`
	PatientName        string    `gorm:"type:varchar(255);not null" json:"patient_name"`
	Medications        string    `gorm:"type:text;not null" json:"medications"`
	Instructions       string    `gorm:"type:text" json:"instructions,omitempty"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
	Doctor      Doctor      `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

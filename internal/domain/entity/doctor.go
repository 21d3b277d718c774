package entity

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a consulting practitioner. Doctors are onboarded by hospitals but
// may run sessions at several hospitals through DoctorHospital rows.
type Doctor struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName           string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PhoneNumber        string    `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	RegistrationNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"registration_number"`
	SpecializationID   *int      `gorm:"index" json:"specialization_id,omitempty"`
	IsActive           bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Specialization *Specialization `gorm:"foreignKey:SpecializationID" json:"specialization,omitempty"`
	Hospitals      []Hospital      `gorm:"many2many:doctor_hospitals" json:"hospitals,omitempty"`
	Sessions       []Session       `gorm:"foreignKey:DoctorID" json:"sessions,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// DoctorHospital links a doctor to a hospital they consult at. OnboardedBy
// records which hospital account created the row.
type DoctorHospital struct {
	DoctorID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"doctor_id"`
	HospitalID uuid.UUID `gorm:"type:uuid;primaryKey" json:"hospital_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Doctor   Doctor   `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Hospital Hospital `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
}

func (DoctorHospital) TableName() string {
	return "doctor_hospitals"
}

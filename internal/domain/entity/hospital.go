package entity

import (
	"time"

	"github.com/google/uuid"
)

// Hospital is a tenant of the platform. RegisteredEmail doubles as the
// ownership anchor: only the hospital account logged in with that email may
// mutate staff under this hospital.
type Hospital struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	RegisteredEmail string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"registered_email"`
	Address         string    `gorm:"type:text" json:"address,omitempty"`
	PhoneNumber     string    `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	IsActive        bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Nurses   []Nurse   `gorm:"foreignKey:HospitalID" json:"nurses,omitempty"`
	Cashiers []Cashier `gorm:"foreignKey:HospitalID" json:"cashiers,omitempty"`
	Sessions []Session `gorm:"foreignKey:HospitalID" json:"sessions,omitempty"`
}

func (Hospital) TableName() string {
	return "hospitals"
}

package repository

import (
	"github.com/echanneling/echanneling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindBySessionID(db *gorm.DB, sessionID uuid.UUID) ([]entity.Appointment, error)
	FindBySessionAndNIC(db *gorm.DB, sessionID uuid.UUID, nic string) (*entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	CountByStatus(db *gorm.DB, status entity.AppointmentStatus) (int64, error)
	Count(db *gorm.DB) (int64, error)

	// CountByHospital counts appointments across the hospital's sessions,
	// optionally narrowed to one status.
	CountByHospital(db *gorm.DB, hospitalID uuid.UUID, status *entity.AppointmentStatus) (int64, error)
}

package repository

import (
	"github.com/echanneling/echanneling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.Prescription) error
	FindByNumber(db *gorm.DB, number string) (*entity.Prescription, error)
	FindLatestByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Prescription, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.Prescription, error)

	// MarkSuperseded clears is_latest_version on every prescription of the
	// appointment. Called in the same transaction that inserts a new version.
	MarkSuperseded(db *gorm.DB, appointmentID uuid.UUID) error
}

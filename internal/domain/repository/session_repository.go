package repository

import (
	"github.com/echanneling/echanneling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(db *gorm.DB, session *entity.Session) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Session, error)
	FindAvailable(db *gorm.DB, filter *entity.SessionFilter) ([]entity.Session, error)
	Update(db *gorm.DB, session *entity.Session) error
	UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.SessionStatus) (int64, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)

	// ReserveSlot atomically increments booked_count when the session is still
	// scheduled and below capacity. Returns affected rows: 1 = slot reserved,
	// 0 = full/cancelled/missing. Must run inside the booking transaction.
	ReserveSlot(db *gorm.DB, id uuid.UUID) (int64, error)

	// ReleaseSlot decrements booked_count with a floor of zero.
	ReleaseSlot(db *gorm.DB, id uuid.UUID) error

	CountByStatus(db *gorm.DB, status entity.SessionStatus) (int64, error)
	Count(db *gorm.DB) (int64, error)

	// CountByHospital counts the hospital's sessions, optionally narrowed to
	// one status.
	CountByHospital(db *gorm.DB, hospitalID uuid.UUID, status *entity.SessionStatus) (int64, error)
}

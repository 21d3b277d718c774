package repository

import (
	"github.com/echanneling/echanneling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByEmail(db *gorm.DB, email string) (*entity.Doctor, error)
	FindByHospitalID(db *gorm.DB, hospitalID uuid.UUID) ([]entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	Affiliate(db *gorm.DB, doctorID, hospitalID uuid.UUID) error
	Unaffiliate(db *gorm.DB, doctorID, hospitalID uuid.UUID) (int64, error)
	IsAffiliated(db *gorm.DB, doctorID, hospitalID uuid.UUID) (bool, error)
	Count(db *gorm.DB) (int64, error)
}

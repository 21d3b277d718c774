package repository

import (
	"github.com/echanneling/echanneling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NurseRepository interface {
	Create(db *gorm.DB, nurse *entity.Nurse) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Nurse, error)
	FindByHospitalID(db *gorm.DB, hospitalID uuid.UUID) ([]entity.Nurse, error)
	Update(db *gorm.DB, nurse *entity.Nurse) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}

type CashierRepository interface {
	Create(db *gorm.DB, cashier *entity.Cashier) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Cashier, error)
	FindByHospitalID(db *gorm.DB, hospitalID uuid.UUID) ([]entity.Cashier, error)
	Update(db *gorm.DB, cashier *entity.Cashier) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}

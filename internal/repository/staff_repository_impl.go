package repository

import (
	"errors"

	"github.com/echanneling/echanneling/internal/domain/entity"
	domainRepo "github.com/echanneling/echanneling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type nurseRepository struct{}

func NewNurseRepository() domainRepo.NurseRepository {
	return &nurseRepository{}
}

func (r *nurseRepository) Create(db *gorm.DB, nurse *entity.Nurse) error {
	return db.Create(nurse).Error
}

func (r *nurseRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Nurse, error) {
	var nurse entity.Nurse
	err := db.Preload("Hospital").Where("id = ?", id).First(&nurse).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &nurse, nil
}

func (r *nurseRepository) FindByHospitalID(db *gorm.DB, hospitalID uuid.UUID) ([]entity.Nurse, error) {
	var nurses []entity.Nurse
	err := db.Where("hospital_id = ?", hospitalID).Order("full_name ASC").Find(&nurses).Error
	if err != nil {
		return nil, err
	}
	return nurses, nil
}

func (r *nurseRepository) Update(db *gorm.DB, nurse *entity.Nurse) error {
	return db.Omit("Hospital").Save(nurse).Error
}

func (r *nurseRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Nurse{})
	return result.RowsAffected, result.Error
}

type cashierRepository struct{}

func NewCashierRepository() domainRepo.CashierRepository {
	return &cashierRepository{}
}

func (r *cashierRepository) Create(db *gorm.DB, cashier *entity.Cashier) error {
	return db.Create(cashier).Error
}

func (r *cashierRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Cashier, error) {
	var cashier entity.Cashier
	err := db.Preload("Hospital").Where("id = ?", id).First(&cashier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cashier, nil
}

func (r *cashierRepository) FindByHospitalID(db *gorm.DB, hospitalID uuid.UUID) ([]entity.Cashier, error) {
	var cashiers []entity.Cashier
	err := db.Where("hospital_id = ?", hospitalID).Order("full_name ASC").Find(&cashiers).Error
	if err != nil {
		return nil, err
	}
	return cashiers, nil
}

func (r *cashierRepository) Update(db *gorm.DB, cashier *entity.Cashier) error {
	return db.Omit("Hospital").Save(cashier).Error
}

func (r *cashierRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Cashier{})
	return result.RowsAffected, result.Error
}

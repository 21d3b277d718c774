package repository

import (
	"errors"

	"github.com/echanneling/echanneling/internal/domain/entity"
	domainRepo "github.com/echanneling/echanneling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("Specialization").Preload("Hospitals").Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByEmail(db *gorm.DB, email string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Preload("Specialization").Where("email = ?", email).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindByHospitalID(db *gorm.DB, hospitalID uuid.UUID) ([]entity.Doctor, error) {
	var doctors []entity.Doctor
	err := db.
		Joins("JOIN doctor_hospitals ON doctor_hospitals.doctor_id = doctors.id").
		Where("doctor_hospitals.hospital_id = ?", hospitalID).
		Preload("Specialization").
		Order("doctors.full_name ASC").
		Find(&doctors).Error
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Omit("Hospitals", "Specialization").Save(doctor).Error
}

func (r *doctorRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Doctor{})
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) Affiliate(db *gorm.DB, doctorID, hospitalID uuid.UUID) error {
	return db.Create(&entity.DoctorHospital{DoctorID: doctorID, HospitalID: hospitalID}).Error
}

func (r *doctorRepository) Unaffiliate(db *gorm.DB, doctorID, hospitalID uuid.UUID) (int64, error) {
	result := db.Where("doctor_id = ? AND hospital_id = ?", doctorID, hospitalID).
		Delete(&entity.DoctorHospital{})
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) IsAffiliated(db *gorm.DB, doctorID, hospitalID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&entity.DoctorHospital{}).
		Where("doctor_id = ? AND hospital_id = ?", doctorID, hospitalID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *doctorRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Doctor{}).Count(&count).Error
	return count, err
}

package repository

import (
	"errors"
	"time"

	"github.com/echanneling/echanneling/internal/domain/entity"
	domainRepo "github.com/echanneling/echanneling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sessionRepository struct{}

func NewSessionRepository() domainRepo.SessionRepository {
	return &sessionRepository{}
}

func (r *sessionRepository) Create(db *gorm.DB, session *entity.Session) error {
	return db.Create(session).Error
}

func (r *sessionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Session, error) {
	var session entity.Session
	err := db.Preload("Doctor.Specialization").Preload("Hospital").Preload("Nurse").
		Where("id = ?", id).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) FindAvailable(db *gorm.DB, filter *entity.SessionFilter) ([]entity.Session, error) {
	var sessions []entity.Session
	query := db.
		Joins("JOIN doctors ON doctors.id = sessions.doctor_id").
		Joins("JOIN hospitals ON hospitals.id = sessions.hospital_id").
		Where("sessions.status = ?", entity.SessionStatusScheduled).
		Where("doctors.is_active = ? AND hospitals.is_active = ?", true, true).
		Where("sessions.booked_count < sessions.capacity")

	if filter != nil && filter.Date != "" {
		day, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return nil, err
		}
		query = query.Where("sessions.start_time >= ? AND sessions.start_time < ?", day, day.AddDate(0, 0, 1))
	} else {
		query = query.Where("sessions.start_time > ?", time.Now().UTC())
	}

	if filter != nil {
		if filter.DoctorID != nil {
			query = query.Where("sessions.doctor_id = ?", *filter.DoctorID)
		}
		if filter.HospitalID != nil {
			query = query.Where("sessions.hospital_id = ?", *filter.HospitalID)
		}
	}

	err := query.
		Preload("Doctor.Specialization").Preload("Hospital").
		Order("sessions.start_time ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Update(db *gorm.DB, session *entity.Session) error {
	return db.Omit("Doctor", "Hospital", "Nurse", "Appointments").Save(session).Error
}

func (r *sessionRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, status entity.SessionStatus) (int64, error) {
	result := db.Model(&entity.Session{}).
		Where("id = ? AND status = ?", id, entity.SessionStatusScheduled).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Session{})
	return result.RowsAffected, result.Error
}

// ReserveSlot is the single admission point for bookings. The conditional
// update makes concurrent bookings against the same session serialize on the
// row, so booked_count can never pass capacity.
func (r *sessionRepository) ReserveSlot(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Session{}).
		Where("id = ? AND status = ? AND booked_count < capacity", id, entity.SessionStatusScheduled).
		Update("booked_count", gorm.Expr("booked_count + 1"))
	return result.RowsAffected, result.Error
}

func (r *sessionRepository) ReleaseSlot(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Session{}).
		Where("id = ? AND booked_count > 0", id).
		Update("booked_count", gorm.Expr("booked_count - 1")).Error
}

func (r *sessionRepository) CountByStatus(db *gorm.DB, status entity.SessionStatus) (int64, error) {
	var count int64
	err := db.Model(&entity.Session{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *sessionRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Session{}).Count(&count).Error
	return count, err
}

func (r *sessionRepository) CountByHospital(db *gorm.DB, hospitalID uuid.UUID, status *entity.SessionStatus) (int64, error) {
	var count int64
	query := db.Model(&entity.Session{}).Where("hospital_id = ?", hospitalID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Count(&count).Error
	return count, err
}

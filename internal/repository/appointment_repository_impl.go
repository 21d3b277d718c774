package repository

import (
	"errors"

	"github.com/echanneling/echanneling/internal/domain/entity"
	domainRepo "github.com/echanneling/echanneling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Session.Doctor").Preload("Session.Hospital").
		Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindBySessionID(db *gorm.DB, sessionID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindBySessionAndNIC(db *gorm.DB, sessionID uuid.UUID, nic string) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Where("session_id = ? AND patient_nic = ? AND status != ?",
		sessionID, nic, entity.AppointmentStatusCancelled).
		First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit("Session", "Prescriptions").Save(appointment).Error
}

func (r *appointmentRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.Appointment{})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) CountByStatus(db *gorm.DB, status entity.AppointmentStatus) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *appointmentRepository) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&entity.Appointment{}).Count(&count).Error
	return count, err
}

func (r *appointmentRepository) CountByHospital(db *gorm.DB, hospitalID uuid.UUID, status *entity.AppointmentStatus) (int64, error) {
	var count int64
	query := db.Model(&entity.Appointment{}).
		Joins("JOIN sessions ON sessions.id = appointments.session_id").
		Where("sessions.hospital_id = ?", hospitalID)
	if status != nil {
		query = query.Where("appointments.status = ?", *status)
	}
	err := query.Count(&count).Error
	return count, err
}

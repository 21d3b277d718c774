package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/echanneling/echanneling/internal/converter"
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/delivery/http/middleware"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/domain/repository"
	"github.com/echanneling/echanneling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrNotAPrescriber       = errors.New("caller is not a registered doctor")
	ErrAppointmentCancelled = errors.New("cannot issue a prescription for a cancelled appointment")
)

type PrescriptionUsecase interface {
	Issue(ctx context.Context, appointmentID uuid.UUID, req *dto.IssuePrescriptionRequest) (*dto.PrescriptionResponse, error)
	GetByNumber(ctx context.Context, number string) (*dto.PrescriptionResponse, error)
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.PrescriptionListResponse, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.PrescriptionRepository
	appointmentRepo  repository.AppointmentRepository
	doctorRepo       repository.DoctorRepository
	audit            service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.PrescriptionRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	audit service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		appointmentRepo:  appointmentRepo,
		doctorRepo:       doctorRepo,
		audit:            audit,
	}
}

// Issue writes a new prescription version, retrying from scratch when the
// generated number collides with an existing one.
func (u *prescriptionUsecase) Issue(ctx context.Context, appointmentID uuid.UUID, req *dto.IssuePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	var resp *dto.PrescriptionResponse
	var err error
	for attempt := 0; attempt < documentNumberAttempts; attempt++ {
		resp, err = u.issueOnce(ctx, appointmentID, req)
		if !isDuplicateKeyError(err, "prescription_number") {
			return resp, err
		}
		u.log.Warnf("Prescription number collision, retrying: %+v", err)
	}
	return nil, err
}

// issueOnce writes a new prescription version. Issuing against an appointment
// that already has one supersedes it: the old rows keep their content for
// history, only is_latest_version flips. Both writes share one transaction
// so a reader never sees zero or two latest versions.
func (u *prescriptionUsecase) issueOnce(ctx context.Context, appointmentID uuid.UUID, req *dto.IssuePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	email, ok := middleware.GetUserEmailFromContext(ctx)
	if !ok {
		return nil, ErrNotAPrescriber
	}

	doctor, err := u.doctorRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		u.log.Warnf("Failed to find doctor by email: %+v", err)
		return nil, err
	}
	if doctor == nil || !doctor.IsActive {
		return nil, ErrNotAPrescriber
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.IsCancelled() {
		return nil, ErrAppointmentCancelled
	}

	latest, err := u.prescriptionRepo.FindLatestByAppointmentID(tx, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find latest prescription: %+v", err)
		return nil, err
	}

	version := 1
	if latest != nil {
		version = latest.Version + 1
		if err := u.prescriptionRepo.MarkSuperseded(tx, appointmentID); err != nil {
			u.log.Warnf("Failed to supersede prescriptions for appointment %s: %+v", appointmentID, err)
			return nil, err
		}
	}

	number, err := documentNumber("RX", time.Now().UTC())
	if err != nil {
		u.log.Warnf("Failed to generate prescription number: %+v", err)
		return nil, err
	}

	prescription := &entity.Prescription{
		AppointmentID:      appointmentID,
		DoctorID:           doctor.ID,
		PrescriptionNumber: number,
		Version:            version,
		IsLatestVersion:    true,
		DoctorName:         doctor.FullName,
		PatientName:        appointment.PatientName,
		Medications:        req.Medications,
		Instructions:       req.Instructions,
	}

	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		if !isDuplicateKeyError(err, "prescription_number") {
			u.log.Warnf("Failed to create prescription: %+v", err)
		}
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionPrescriptionIssue, "prescription", prescription.ID.String(), map[string]interface{}{
		"prescription_number": prescription.PrescriptionNumber,
		"appointment_id":      appointmentID,
		"version":             version,
	})

	u.log.Infof("Prescription issued: number=%s, appointment=%s, version=%d", prescription.PrescriptionNumber, appointmentID, version)
	return converter.PrescriptionToResponse(prescription), nil
}

// GetByNumber is the pharmacy lookup: any version can be fetched by its
// number, superseded ones included.
func (u *prescriptionUsecase) GetByNumber(ctx context.Context, number string) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByNumber(u.db.WithContext(ctx), number)
	if err != nil {
		u.log.Warnf("Failed to find prescription %s: %+v", number, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	return converter.PrescriptionToResponse(prescription), nil
}

func (u *prescriptionUsecase) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.PrescriptionListResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindByAppointmentID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to list prescriptions for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	return &dto.PrescriptionListResponse{
		Prescriptions: converter.PrescriptionsToResponses(prescriptions),
		Total:         len(prescriptions),
	}, nil
}

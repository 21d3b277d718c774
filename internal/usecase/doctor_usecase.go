package usecase

import (
	"context"
	"errors"

	"github.com/echanneling/echanneling/internal/converter"
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/delivery/http/middleware"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/domain/repository"
	"github.com/echanneling/echanneling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound            = errors.New("doctor not found")
	ErrRegistrationNumberExists  = errors.New("registration number already exists")
	ErrSpecializationNotFound    = errors.New("specialization not found")
	ErrDoctorAlreadyAffiliated   = errors.New("doctor is already affiliated with this hospital")
	ErrDoctorAffiliationNotFound = errors.New("doctor is not affiliated with this hospital")
)

type DoctorUsecase interface {
	Create(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	Update(ctx context.Context, hospitalID, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	ListByHospital(ctx context.Context, hospitalID uuid.UUID) (*dto.DoctorListResponse, error)
	Affiliate(ctx context.Context, hospitalID, doctorID uuid.UUID) error
	Unaffiliate(ctx context.Context, hospitalID, doctorID uuid.UUID) error
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	hospitalRepo repository.HospitalRepository
	userRepo     repository.UserRepository
	notifier     *service.NotificationService
	audit        service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	hospitalRepo repository.HospitalRepository,
	userRepo repository.UserRepository,
	notifier *service.NotificationService,
	audit service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		hospitalRepo: hospitalRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		audit:        audit,
	}
}

// Create onboards a doctor under the caller's hospital. One transaction
// creates the login account, the doctor record, and the first affiliation.
func (u *doctorUsecase) Create(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	hospital, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		RoleID:   entity.RoleIDDoctor,
		IsActive: true,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create doctor account: %+v", err)
		return nil, err
	}

	doctor := &entity.Doctor{
		FullName:           req.FullName,
		Email:              req.Email,
		PhoneNumber:        req.PhoneNumber,
		RegistrationNumber: req.RegistrationNumber,
		SpecializationID:   req.SpecializationID,
		IsActive:           true,
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "registration_number") {
			return nil, ErrRegistrationNumberExists
		}
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "specialization") {
			return nil, ErrSpecializationNotFound
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	if err := u.doctorRepo.Affiliate(tx, doctor.ID, hospitalID); err != nil {
		u.log.Warnf("Failed to affiliate doctor %s: %+v", doctor.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionDoctorCreate, "doctor", doctor.ID.String(), doctor)
	u.notifier.NotifyStaffOnboarded(ctx, doctor.Email, doctor.FullName, hospital.Name)

	u.log.Infof("Doctor created: id=%s, hospital=%s", doctor.ID, hospitalID)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) Update(ctx context.Context, hospitalID, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID); err != nil {
		return nil, err
	}

	affiliated, err := u.doctorRepo.IsAffiliated(u.db.WithContext(ctx), doctorID, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to check affiliation: %+v", err)
		return nil, err
	}
	if !affiliated {
		return nil, ErrDoctorAffiliationNotFound
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	before := *doctor

	if req.FullName != "" {
		doctor.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		doctor.PhoneNumber = req.PhoneNumber
	}
	if req.SpecializationID != nil {
		doctor.SpecializationID = req.SpecializationID
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	if err := u.doctorRepo.Update(u.db.WithContext(ctx), doctor); err != nil {
		if isForeignKeyError(err, "specialization") {
			return nil, ErrSpecializationNotFound
		}
		u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionDoctorUpdate, "doctor", doctor.ID.String(), before, doctor)

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", id, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) ListByHospital(ctx context.Context, hospitalID uuid.UUID) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindByHospitalID(u.db.WithContext(ctx), hospitalID)
	if err != nil {
		u.log.Warnf("Failed to list doctors for hospital %s: %+v", hospitalID, err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

// Affiliate links an already onboarded doctor to the caller's hospital.
func (u *doctorUsecase) Affiliate(ctx context.Context, hospitalID, doctorID uuid.UUID) error {
	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID); err != nil {
		return err
	}

	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if err := u.doctorRepo.Affiliate(u.db.WithContext(ctx), doctorID, hospitalID); err != nil {
		if isDuplicateKeyError(err, "doctor_hospitals") {
			return ErrDoctorAlreadyAffiliated
		}
		u.log.Warnf("Failed to affiliate doctor %s with hospital %s: %+v", doctorID, hospitalID, err)
		return err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionDoctorUpdate, "doctor_hospital", doctorID.String(), map[string]interface{}{
		"doctor_id":   doctorID,
		"hospital_id": hospitalID,
	})

	return nil
}

func (u *doctorUsecase) Unaffiliate(ctx context.Context, hospitalID, doctorID uuid.UUID) error {
	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID); err != nil {
		return err
	}

	rows, err := u.doctorRepo.Unaffiliate(u.db.WithContext(ctx), doctorID, hospitalID)
	if err != nil {
		u.log.Warnf("Failed to unaffiliate doctor %s from hospital %s: %+v", doctorID, hospitalID, err)
		return err
	}
	if rows == 0 {
		return ErrDoctorAffiliationNotFound
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogDelete(u.db.WithContext(ctx), &callerID, entity.AuditActionDoctorDelete, "doctor_hospital", doctorID.String(), map[string]interface{}{
		"doctor_id":   doctorID,
		"hospital_id": hospitalID,
	})

	return nil
}

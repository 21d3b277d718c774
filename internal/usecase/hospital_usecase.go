package usecase

import (
	"context"
	"errors"
	"strings"

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
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrHospitalNotOwned = errors.New("hospital is not managed by this account")
)

type HospitalUsecase interface {
	Create(ctx context.Context, req *dto.CreateHospitalRequest) (*dto.HospitalResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateHospitalRequest) (*dto.HospitalResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.HospitalResponse, error)
	List(ctx context.Context) (*dto.HospitalListResponse, error)
}

type hospitalUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	hospitalRepo repository.HospitalRepository
	userRepo     repository.UserRepository
	audit        service.AuditService
}

func NewHospitalUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	hospitalRepo repository.HospitalRepository,
	userRepo repository.UserRepository,
	audit service.AuditService,
) HospitalUsecase {
	return &hospitalUsecase{
		db:           db,
		log:          log,
		hospitalRepo: hospitalRepo,
		userRepo:     userRepo,
		audit:        audit,
	}
}

// Create registers a hospital and its login account in one transaction. The
// account's email is the hospital's registered email, which anchors every
// later ownership check.
func (u *hospitalUsecase) Create(ctx context.Context, req *dto.CreateHospitalRequest) (*dto.HospitalResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:    req.RegisteredEmail,
		Password: string(hashedPassword),
		FullName: req.Name,
		RoleID:   entity.RoleIDHospital,
		IsActive: true,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create hospital account: %+v", err)
		return nil, err
	}

	hospital := &entity.Hospital{
		Name:            req.Name,
		RegisteredEmail: req.RegisteredEmail,
		Address:         req.Address,
		PhoneNumber:     req.PhoneNumber,
		IsActive:        true,
	}

	if err := u.hospitalRepo.Create(tx, hospital); err != nil {
		if isDuplicateKeyError(err, "registered_email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create hospital: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionHospitalCreate, "hospital", hospital.ID.String(), hospital)

	u.log.Infof("Hospital created: id=%s, name=%s", hospital.ID, hospital.Name)
	return converter.HospitalToResponse(hospital), nil
}

func (u *hospitalUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateHospitalRequest) (*dto.HospitalResponse, error) {
	hospital, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, id)
	if err != nil {
		return nil, err
	}

	before := *hospital

	if req.Name != "" {
		hospital.Name = req.Name
	}
	if req.Address != "" {
		hospital.Address = req.Address
	}
	if req.PhoneNumber != "" {
		hospital.PhoneNumber = req.PhoneNumber
	}
	if req.IsActive != nil {
		hospital.IsActive = *req.IsActive
	}

	if err := u.hospitalRepo.Update(u.db.WithContext(ctx), hospital); err != nil {
		u.log.Warnf("Failed to update hospital %s: %+v", id, err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionHospitalUpdate, "hospital", hospital.ID.String(), before, hospital)

	return converter.HospitalToResponse(hospital), nil
}

func (u *hospitalUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.HospitalResponse, error) {
	hospital, err := u.hospitalRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", id, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	return converter.HospitalToResponse(hospital), nil
}

func (u *hospitalUsecase) List(ctx context.Context) (*dto.HospitalListResponse, error) {
	hospitals, err := u.hospitalRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list hospitals: %+v", err)
		return nil, err
	}

	return &dto.HospitalListResponse{
		Hospitals: converter.HospitalsToResponses(hospitals),
		Total:     len(hospitals),
	}, nil
}

// resolveOwnedHospital loads the hospital and verifies the caller controls
// it. A hospital account controls the hospital whose registered email matches
// its login email; admins control every hospital.
func resolveOwnedHospital(ctx context.Context, db *gorm.DB, hospitalRepo repository.HospitalRepository, id uuid.UUID) (*entity.Hospital, error) {
	hospital, err := hospitalRepo.FindByID(db, id)
	if err != nil {
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	role, _ := middleware.GetRoleFromContext(ctx)
	if strings.EqualFold(role, entity.RoleAdmin) {
		return hospital, nil
	}

	email, ok := middleware.GetUserEmailFromContext(ctx)
	if !ok || !strings.EqualFold(hospital.RegisteredEmail, email) {
		return nil, ErrHospitalNotOwned
	}

	return hospital, nil
}

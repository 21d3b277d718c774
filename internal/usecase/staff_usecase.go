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
	"gorm.io/gorm"
)

var ErrStaffNotFound = errors.New("staff member not found")

// StaffUsecase manages nurses and cashiers. Both are plain hospital records
// without login accounts, so the flows are symmetric and share DTOs.
type StaffUsecase interface {
	CreateNurse(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateStaffRequest) (*dto.StaffResponse, error)
	UpdateNurse(ctx context.Context, hospitalID, nurseID uuid.UUID, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error)
	DeleteNurse(ctx context.Context, hospitalID, nurseID uuid.UUID) error
	ListNurses(ctx context.Context, hospitalID uuid.UUID) (*dto.StaffListResponse, error)

	CreateCashier(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateStaffRequest) (*dto.StaffResponse, error)
	UpdateCashier(ctx context.Context, hospitalID, cashierID uuid.UUID, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error)
	DeleteCashier(ctx context.Context, hospitalID, cashierID uuid.UUID) error
	ListCashiers(ctx context.Context, hospitalID uuid.UUID) (*dto.StaffListResponse, error)
}

type staffUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	nurseRepo    repository.NurseRepository
	cashierRepo  repository.CashierRepository
	hospitalRepo repository.HospitalRepository
	notifier     *service.NotificationService
	audit        service.AuditService
}

func NewStaffUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	nurseRepo repository.NurseRepository,
	cashierRepo repository.CashierRepository,
	hospitalRepo repository.HospitalRepository,
	notifier *service.NotificationService,
	audit service.AuditService,
) StaffUsecase {
	return &staffUsecase{
		db:           db,
		log:          log,
		nurseRepo:    nurseRepo,
		cashierRepo:  cashierRepo,
		hospitalRepo: hospitalRepo,
		notifier:     notifier,
		audit:        audit,
	}
}

func (u *staffUsecase) CreateNurse(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	hospital, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID)
	if err != nil {
		return nil, err
	}

	nurse := &entity.Nurse{
		HospitalID:  hospitalID,
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	}

	if err := u.nurseRepo.Create(u.db.WithContext(ctx), nurse); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create nurse: %+v", err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionStaffCreate, "nurse", nurse.ID.String(), nurse)
	u.notifier.NotifyStaffOnboarded(ctx, nurse.Email, nurse.FullName, hospital.Name)

	return converter.NurseToResponse(nurse), nil
}

func (u *staffUsecase) UpdateNurse(ctx context.Context, hospitalID, nurseID uuid.UUID, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID); err != nil {
		return nil, err
	}

	nurse, err := u.nurseRepo.FindByID(u.db.WithContext(ctx), nurseID)
	if err != nil {
		u.log.Warnf("Failed to find nurse %s: %+v", nurseID, err)
		return nil, err
	}
	if nurse == nil || nurse.HospitalID != hospitalID {
		return nil, ErrStaffNotFound
	}

	before := *nurse

	if req.FullName != "" {
		nurse.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		nurse.PhoneNumber = req.PhoneNumber
	}
	if req.IsActive != nil {
		nurse.IsActive = *req.IsActive
	}

	if err := u.nurseRepo.Update(u.db.WithContext(ctx), nurse); err != nil {
		u.log.Warnf("Failed to update nurse %s: %+v", nurseID, err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionStaffUpdate, "nurse", nurse.ID.String(), before, nurse)

	return converter.NurseToResponse(nurse), nil
}

func (u *staffUsecase) DeleteNurse(ctx context.Context, hospitalID, nurseID uuid.UUID) error {
	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID); err != nil {
		return err
	}

	nurse, err := u.nurseRepo.FindByID(u.db.WithContext(ctx), nurseID)
	if err != nil {
		u.log.Warnf("Failed to find nurse %s: %+v", nurseID, err)
		return err
	}
	if nurse == nil || nurse.HospitalID != hospitalID {
		return ErrStaffNotFound
	}

	rows, err := u.nurseRepo.Delete(u.db.WithContext(ctx), nurseID)
	if err != nil {
		u.log.Warnf("Failed to delete nurse %s: %+v", nurseID, err)
		return err
	}
	if rows == 0 {
		return ErrStaffNotFound
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogDelete(u.db.WithContext(ctx), &callerID, entity.AuditActionStaffDelete, "nurse", nurseID.String(), nurse)

	return nil
}

func (u *staffUsecase) ListNurses(ctx context.Context, hospitalID uuid.UUID) (*dto.StaffListResponse, error) {
	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID); err != nil {
		return nil, err
	}

	nurses, err := u.nurseRepo.FindByHospitalID(u.db.WithContext(ctx), hospitalID)
	if err != nil {
		u.log.Warnf("Failed to list nurses for hospital %s: %+v", hospitalID, err)
		return nil, err
	}

	return &dto.StaffListResponse{
		Staff: converter.NursesToResponses(nurses),
		Total: len(nurses),
	}, nil
}

func (u *staffUsecase) CreateCashier(ctx context.Context, hospitalID uuid.UUID, req *dto.CreateStaffRequest) (*dto.StaffResponse, error) {
	hospital, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID)
	if err != nil {
		return nil, err
	}

	cashier := &entity.Cashier{
		HospitalID:  hospitalID,
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		IsActive:    true,
	}

	if err := u.cashierRepo.Create(u.db.WithContext(ctx), cashier); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create cashier: %+v", err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionStaffCreate, "cashier", cashier.ID.String(), cashier)
	u.notifier.NotifyStaffOnboarded(ctx, cashier.Email, cashier.FullName, hospital.Name)

	return converter.CashierToResponse(cashier), nil
}

func (u *staffUsecase) UpdateCashier(ctx context.Context, hospitalID, cashierID uuid.UUID, req *dto.UpdateStaffRequest) (*dto.StaffResponse, error) {
	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID); err != nil {
		return nil, err
	}

	cashier, err := u.cashierRepo.FindByID(u.db.WithContext(ctx), cashierID)
	if err != nil {
		u.log.Warnf("Failed to find cashier %s: %+v", cashierID, err)
		return nil, err
	}
	if cashier == nil || cashier.HospitalID != hospitalID {
		return nil, ErrStaffNotFound
	}

	before := *cashier

	if req.FullName != "" {
		cashier.FullName = req.FullName
	}
	if req.PhoneNumber != "" {
		cashier.PhoneNumber = req.PhoneNumber
	}
	if req.IsActive != nil {
		cashier.IsActive = *req.IsActive
	}

	if err := u.cashierRepo.Update(u.db.WithContext(ctx), cashier); err != nil {
		u.log.Warnf("Failed to update cashier %s: %+v", cashierID, err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionStaffUpdate, "cashier", cashier.ID.String(), before, cashier)

	return converter.CashierToResponse(cashier), nil
}

func (u *staffUsecase) DeleteCashier(ctx context.Context, hospitalID, cashierID uuid.UUID) error {
	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID); err != nil {
		return err
	}

	cashier, err := u.cashierRepo.FindByID(u.db.WithContext(ctx), cashierID)
	if err != nil {
		u.log.Warnf("Failed to find cashier %s: %+v", cashierID, err)
		return err
	}
	if cashier == nil || cashier.HospitalID != hospitalID {
		return ErrStaffNotFound
	}

	rows, err := u.cashierRepo.Delete(u.db.WithContext(ctx), cashierID)
	if err != nil {
		u.log.Warnf("Failed to delete cashier %s: %+v", cashierID, err)
		return err
	}
	if rows == 0 {
		return ErrStaffNotFound
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogDelete(u.db.WithContext(ctx), &callerID, entity.AuditActionStaffDelete, "cashier", cashierID.String(), cashier)

	return nil
}

func (u *staffUsecase) ListCashiers(ctx context.Context, hospitalID uuid.UUID) (*dto.StaffListResponse, error) {
	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, hospitalID); err != nil {
		return nil, err
	}

	cashiers, err := u.cashierRepo.FindByHospitalID(u.db.WithContext(ctx), hospitalID)
	if err != nil {
		u.log.Warnf("Failed to list cashiers for hospital %s: %+v", hospitalID, err)
		return nil, err
	}

	return &dto.StaffListResponse{
		Staff: converter.CashiersToResponses(cashiers),
		Total: len(cashiers),
	}, nil
}

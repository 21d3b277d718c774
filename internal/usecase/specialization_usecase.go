package usecase

import (
	"context"
	"errors"
	"strconv"

	"github.com/echanneling/echanneling/internal/converter"
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/delivery/http/middleware"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/domain/repository"
	"github.com/echanneling/echanneling/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSpecializationExists = errors.New("specialization name already exists")
	ErrSpecializationInUse  = errors.New("specialization is assigned to doctors")
)

type SpecializationUsecase interface {
	Create(ctx context.Context, req *dto.CreateSpecializationRequest) (*dto.SpecializationResponse, error)
	Update(ctx context.Context, id int, req *dto.UpdateSpecializationRequest) (*dto.SpecializationResponse, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) (*dto.SpecializationListResponse, error)
}

type specializationUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	specializationRepo repository.SpecializationRepository
	audit              service.AuditService
}

func NewSpecializationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	specializationRepo repository.SpecializationRepository,
	audit service.AuditService,
) SpecializationUsecase {
	return &specializationUsecase{
		db:                 db,
		log:                log,
		specializationRepo: specializationRepo,
		audit:              audit,
	}
}

func (u *specializationUsecase) Create(ctx context.Context, req *dto.CreateSpecializationRequest) (*dto.SpecializationResponse, error) {
	specialization := &entity.Specialization{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := u.specializationRepo.Create(u.db.WithContext(ctx), specialization); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrSpecializationExists
		}
		u.log.Warnf("Failed to create specialization: %+v", err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionSpecializationCreate, "specialization", strconv.Itoa(specialization.ID), specialization)

	return converter.SpecializationToResponse(specialization), nil
}

func (u *specializationUsecase) Update(ctx context.Context, id int, req *dto.UpdateSpecializationRequest) (*dto.SpecializationResponse, error) {
	specialization, err := u.specializationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find specialization %d: %+v", id, err)
		return nil, err
	}
	if specialization == nil {
		return nil, ErrSpecializationNotFound
	}

	before := *specialization

	if req.Name != "" {
		specialization.Name = req.Name
	}
	if req.Description != "" {
		specialization.Description = req.Description
	}

	if err := u.specializationRepo.Update(u.db.WithContext(ctx), specialization); err != nil {
		if isDuplicateKeyError(err, "name") {
			return nil, ErrSpecializationExists
		}
		u.log.Warnf("Failed to update specialization %d: %+v", id, err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionSpecializationUpdate, "specialization", strconv.Itoa(specialization.ID), before, specialization)

	return converter.SpecializationToResponse(specialization), nil
}

// Delete refuses while any doctor still carries the specialization; the FK
// surfaces that as a foreign key violation.
func (u *specializationUsecase) Delete(ctx context.Context, id int) error {
	specialization, err := u.specializationRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find specialization %d: %+v", id, err)
		return err
	}
	if specialization == nil {
		return ErrSpecializationNotFound
	}

	rows, err := u.specializationRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		if isForeignKeyError(err, "specialization") {
			return ErrSpecializationInUse
		}
		u.log.Warnf("Failed to delete specialization %d: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrSpecializationNotFound
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogDelete(u.db.WithContext(ctx), &callerID, entity.AuditActionSpecializationDelete, "specialization", strconv.Itoa(specialization.ID), specialization)

	return nil
}

func (u *specializationUsecase) List(ctx context.Context) (*dto.SpecializationListResponse, error) {
	specializations, err := u.specializationRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list specializations: %+v", err)
		return nil, err
	}

	return &dto.SpecializationListResponse{
		Specializations: converter.SpecializationsToResponses(specializations),
		Total:           len(specializations),
	}, nil
}

package service

import (
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService writes append-only audit rows after mutations succeed. Writes
// are best-effort: failures are logged, never propagated.
type AuditService interface {
	LogCreate(db *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, newValue interface{})
	LogUpdate(db *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{})
	LogDelete(db *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue interface{})
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) LogCreate(db *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) {
	s.write(db, userID, action, entityName, entityID, nil, newValue)
}

func (s *auditService) LogUpdate(db *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) {
	s.write(db, userID, action, entityName, entityID, oldValue, newValue)
}

func (s *auditService) LogDelete(db *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) {
	s.write(db, userID, action, entityName, entityID, oldValue, nil)
}

func (s *auditService) write(db *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) {
	auditLog := &entity.AuditLog{
		UserID: userID,
		Action: action,
		Metadata: entity.JSON{
			"entity":    entityName,
			"entity_id": entityID,
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(db, auditLog); err != nil {
		s.log.Warnf("Failed to write audit log %s/%s: %+v", action, entityID, err)
	}
}

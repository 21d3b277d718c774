package repository

import (
	"github.com/echanneling/echanneling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvoiceRepository interface {
	Create(db *gorm.DB, invoice *entity.Invoice) error
	FindByNumber(db *gorm.DB, number string) (*entity.Invoice, error)
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.Invoice, error)
	Update(db *gorm.DB, invoice *entity.Invoice) error
}

package repository

import (
	"errors"

	"github.com/echanneling/echanneling/internal/domain/entity"
	domainRepo "github.com/echanneling/echanneling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct{}

func NewInvoiceRepository() domainRepo.InvoiceRepository {
	return &invoiceRepository{}
}

func (r *invoiceRepository) Create(db *gorm.DB, invoice *entity.Invoice) error {
	return db.Create(invoice).Error
}

func (r *invoiceRepository) FindByNumber(db *gorm.DB, number string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := db.Preload("Appointment").Where("invoice_number = ?", number).First(&invoice).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := db.Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) Update(db *gorm.DB, invoice *entity.Invoice) error {
	return db.Omit("Appointment").Save(invoice).Error
}

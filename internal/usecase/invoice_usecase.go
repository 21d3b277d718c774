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
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvalidInvoiceAmount = errors.New("invoice amount must be positive")
)

type InvoiceUsecase interface {
	Issue(ctx context.Context, appointmentID uuid.UUID, req *dto.IssueInvoiceRequest) (*dto.InvoiceResponse, error)
	UpdateStatus(ctx context.Context, number string, req *dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error)
	GetByNumber(ctx context.Context, number string) (*dto.InvoiceResponse, error)
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.InvoiceListResponse, error)
}

type invoiceUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	invoiceRepo     repository.InvoiceRepository
	appointmentRepo repository.AppointmentRepository
	notifier        *service.NotificationService
	audit           service.AuditService
}

func NewInvoiceUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	invoiceRepo repository.InvoiceRepository,
	appointmentRepo repository.AppointmentRepository,
	notifier *service.NotificationService,
	audit service.AuditService,
) InvoiceUsecase {
	return &invoiceUsecase{
		db:              db,
		log:             log,
		invoiceRepo:     invoiceRepo,
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		audit:           audit,
	}
}

// Issue creates an invoice for an appointment. Amounts are exact decimals,
// never floats.
func (u *invoiceUsecase) Issue(ctx context.Context, appointmentID uuid.UUID, req *dto.IssueInvoiceRequest) (*dto.InvoiceResponse, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidInvoiceAmount
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	invoice := &entity.Invoice{
		AppointmentID: appointmentID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: entity.PaymentStatusPending,
		IssuedAt:      time.Now().UTC(),
	}

	// The insert runs outside a transaction, so a number collision is
	// retried in place with a fresh number.
	for attempt := 0; ; attempt++ {
		number, err := documentNumber("INV", time.Now().UTC())
		if err != nil {
			u.log.Warnf("Failed to generate invoice number: %+v", err)
			return nil, err
		}
		invoice.InvoiceNumber = number

		err = u.invoiceRepo.Create(u.db.WithContext(ctx), invoice)
		if err == nil {
			break
		}
		if isDuplicateKeyError(err, "invoice_number") && attempt < documentNumberAttempts-1 {
			u.log.Warnf("Invoice number collision, retrying: %+v", err)
			continue
		}
		u.log.Warnf("Failed to create invoice: %+v", err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionInvoiceIssue, "invoice", invoice.ID.String(), map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"appointment_id": appointmentID,
		"amount":         invoice.Amount.String(),
	})
	u.notifier.PublishEvent("invoice.issued", map[string]interface{}{
		"invoice_number": invoice.InvoiceNumber,
		"appointment_id": appointmentID,
		"amount":         invoice.Amount.String(),
	})

	u.log.Infof("Invoice issued: number=%s, appointment=%s, amount=%s", invoice.InvoiceNumber, appointmentID, invoice.Amount)
	return converter.InvoiceToResponse(invoice), nil
}

// UpdateStatus moves the invoice's payment status. Marking it paid also
// settles the appointment so the booking and the money stay in step.
func (u *invoiceUsecase) UpdateStatus(ctx context.Context, number string, req *dto.UpdateInvoiceStatusRequest) (*dto.InvoiceResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	invoice, err := u.invoiceRepo.FindByNumber(tx, number)
	if err != nil {
		u.log.Warnf("Failed to find invoice %s: %+v", number, err)
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	before := invoice.PaymentStatus
	invoice.PaymentStatus = entity.PaymentStatus(req.PaymentStatus)

	if err := u.invoiceRepo.Update(tx, invoice); err != nil {
		u.log.Warnf("Failed to update invoice %s: %+v", number, err)
		return nil, err
	}

	if invoice.PaymentStatus == entity.PaymentStatusPaid {
		appointment, err := u.appointmentRepo.FindByID(tx, invoice.AppointmentID)
		if err != nil {
			u.log.Warnf("Failed to find appointment %s: %+v", invoice.AppointmentID, err)
			return nil, err
		}
		if appointment != nil && appointment.PaymentStatus != entity.PaymentStatusPaid {
			appointment.PaymentStatus = entity.PaymentStatusPaid
			if err := u.appointmentRepo.Update(tx, appointment); err != nil {
				u.log.Warnf("Failed to settle appointment %s: %+v", appointment.ID, err)
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionInvoicePaid, "invoice", invoice.ID.String(), before, invoice.PaymentStatus)

	return converter.InvoiceToResponse(invoice), nil
}

func (u *invoiceUsecase) GetByNumber(ctx context.Context, number string) (*dto.InvoiceResponse, error) {
	invoice, err := u.invoiceRepo.FindByNumber(u.db.WithContext(ctx), number)
	if err != nil {
		u.log.Warnf("Failed to find invoice %s: %+v", number, err)
		return nil, err
	}
	if invoice == nil {
		return nil, ErrInvoiceNotFound
	}

	return converter.InvoiceToResponse(invoice), nil
}

func (u *invoiceUsecase) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.InvoiceListResponse, error) {
	invoices, err := u.invoiceRepo.FindByAppointmentID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to list invoices for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	return &dto.InvoiceListResponse{
		Invoices: converter.InvoicesToResponses(invoices),
		Total:    len(invoices),
	}, nil
}

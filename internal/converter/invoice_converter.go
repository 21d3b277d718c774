package converter

import (
	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
)

// InvoiceToResponse converts an Invoice entity to InvoiceResponse DTO
func InvoiceToResponse(invoice *entity.Invoice) *dto.InvoiceResponse {
	if invoice == nil {
		return nil
	}

	return &dto.InvoiceResponse{
		ID:            invoice.ID,
		AppointmentID: invoice.AppointmentID,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.Amount,
		PaymentMethod: invoice.PaymentMethod,
		PaymentStatus: string(invoice.PaymentStatus),
		IssuedAt:      invoice.IssuedAt,
		CreatedAt:     invoice.CreatedAt,
		UpdatedAt:     invoice.UpdatedAt,
	}
}

// InvoicesToResponses converts a slice of Invoice entities to DTOs
func InvoicesToResponses(invoices []entity.Invoice) []dto.InvoiceResponse {
	responses := make([]dto.InvoiceResponse, len(invoices))
	for i, invoice := range invoices {
		resp := InvoiceToResponse(&invoice)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

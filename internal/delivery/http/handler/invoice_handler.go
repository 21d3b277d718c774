package handler

import (
	"encoding/json"
	"net/http"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/usecase"
	"github.com/echanneling/echanneling/pkg/response"
	"github.com/echanneling/echanneling/pkg/validator"

	"github.com/gorilla/mux"
)

type InvoiceHandler struct {
	invoiceUsecase usecase.InvoiceUsecase
	validator      *validator.CustomValidator
}

func NewInvoiceHandler(invoiceUsecase usecase.InvoiceUsecase, validator *validator.CustomValidator) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceUsecase: invoiceUsecase,
		validator:      validator,
	}
}

func (h *InvoiceHandler) Issue(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req dto.IssueInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	invoice, err := h.invoiceUsecase.Issue(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidInvoiceAmount:
			response.BadRequest(w, "Invoice amount must be greater than zero")
		default:
			response.InternalServerError(w, "Failed to issue invoice")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Invoice issued successfully", invoice)
}

func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	var req dto.UpdateInvoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	invoice, err := h.invoiceUsecase.UpdateStatus(r.Context(), number, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvoiceNotFound:
			response.NotFound(w, "Invoice not found")
		default:
			response.InternalServerError(w, "Failed to update invoice status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Invoice status updated successfully", invoice)
}

func (h *InvoiceHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	number := mux.Vars(r)["number"]

	invoice, err := h.invoiceUsecase.GetByNumber(r.Context(), number)
	if err != nil {
		switch err {
		case usecase.ErrInvoiceNotFound:
			response.NotFound(w, "Invoice not found")
		default:
			response.InternalServerError(w, "Failed to get invoice")
		}
		return
	}

	response.Success(w, http.StatusOK, "Invoice retrieved successfully", invoice)
}

func (h *InvoiceHandler) ListByAppointment(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	invoices, err := h.invoiceUsecase.ListByAppointment(r.Context(), appointmentID)
	if err != nil {
		response.InternalServerError(w, "Failed to list invoices")
		return
	}

	response.Success(w, http.StatusOK, "Invoices retrieved successfully", invoices)
}

package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

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

var (
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrSessionFull             = errors.New("session has no available slots")
	ErrSessionNotBookable      = errors.New("session is not open for booking")
	ErrDuplicateBooking        = errors.New("this patient has already booked the session")
	ErrInvalidStatusTransition = errors.New("invalid appointment status transition")
	ErrAppointmentTerminal     = errors.New("appointment is in a terminal state")
	ErrAppointmentNotOwned     = errors.New("appointment belongs to another patient or hospital")
)

type AppointmentUsecase interface {
	Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error)
	Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdatePaymentStatusRequest) (*dto.AppointmentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) (*dto.AppointmentListResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	sessionRepo      repository.SessionRepository
	prescriptionRepo repository.PrescriptionRepository
	slotCache        SlotCache
	notifier         *service.NotificationService
	audit            service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	sessionRepo repository.SessionRepository,
	prescriptionRepo repository.PrescriptionRepository,
	slotCache SlotCache,
	notifier *service.NotificationService,
	audit service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		sessionRepo:      sessionRepo,
		prescriptionRepo: prescriptionRepo,
		slotCache:        slotCache,
		notifier:         notifier,
		audit:            audit,
	}
}

// Create books a slot. The generated appointment number can collide within
// a day, which aborts the transaction on the unique index; the booking is
// retried from scratch with a fresh number.
func (u *appointmentUsecase) Create(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	var resp *dto.AppointmentResponse
	var err error
	for attempt := 0; attempt < documentNumberAttempts; attempt++ {
		resp, err = u.createOnce(ctx, req)
		if !isDuplicateKeyError(err, "appointment_number") {
			return resp, err
		}
		u.log.Warnf("Appointment number collision, retrying: %+v", err)
	}
	return nil, err
}

// createOnce books a slot in one transaction.
//
// Flow:
// 1. Load session, verify it is scheduled and not past
// 2. Reject a second booking with the same NIC on this session
// 3. Conditional slot reservation on the session row (the critical section:
//    the UPDATE only matches while booked_count < capacity, so two racing
//    bookings for the last slot cannot both succeed)
// 4. Insert the appointment with a generated number
// 5. Commit; then refresh the read-side slot mirror
func (u *appointmentUsecase) createOnce(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	session, err := u.sessionRepo.FindByID(tx, req.SessionID)
	if err != nil {
		u.log.Warnf("Failed to find session %s: %+v", req.SessionID, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if !session.IsScheduled() || session.StartTime.Before(time.Now().UTC()) {
		return nil, ErrSessionNotBookable
	}

	existing, err := u.appointmentRepo.FindBySessionAndNIC(tx, req.SessionID, req.PatientNIC)
	if err != nil {
		u.log.Warnf("Failed to check existing booking: %+v", err)
		return nil, err
	}
	if existing != nil && !existing.IsCancelled() {
		return nil, ErrDuplicateBooking
	}

	rows, err := u.sessionRepo.ReserveSlot(tx, req.SessionID)
	if err != nil {
		u.log.Warnf("Failed slot reservation for session %s: %+v", req.SessionID, err)
		return nil, err
	}
	if rows == 0 {
		return nil, ErrSessionFull
	}

	number, err := documentNumber("AP", session.StartTime)
	if err != nil {
		u.log.Warnf("Failed to generate appointment number: %+v", err)
		return nil, err
	}

	appointment := &entity.Appointment{
		SessionID:         req.SessionID,
		AppointmentNumber: number,
		PatientName:       req.PatientName,
		PatientPhone:      req.PatientPhone,
		PatientNIC:        req.PatientNIC,
		PatientEmail:      req.PatientEmail,
		Status:            entity.AppointmentStatusPending,
		PaymentStatus:     entity.PaymentStatusPending,
	}

	// The booking account anchors the patient-side ownership check.
	if callerID, ok := middleware.GetUserIDFromContext(ctx); ok {
		appointment.BookedByID = &callerID
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if !isDuplicateKeyError(err, "appointment_number") {
			u.log.Warnf("Failed to create appointment: %+v", err)
		}
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit booking transaction: %+v", err)
		return nil, err
	}

	u.slotCache.Refresh(ctx, req.SessionID)

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), appointment)
	u.notifier.PublishEvent("appointment.created", map[string]interface{}{
		"appointment_id":     appointment.ID,
		"appointment_number": appointment.AppointmentNumber,
		"session_id":         appointment.SessionID,
	})

	u.log.Infof("Appointment created: id=%s, number=%s, session=%s", appointment.ID, appointment.AppointmentNumber, req.SessionID)
	return converter.AppointmentToResponse(appointment), nil
}

// Update edits patient details and drives the status state machine. Moving
// to cancelled stamps the cancellation and releases the session slot in the
// same transaction.
func (u *appointmentUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if err := authorizeAppointmentAccess(ctx, appointment); err != nil {
		return nil, err
	}

	before := *appointment

	if req.PatientName != "" {
		appointment.PatientName = req.PatientName
	}
	if req.PatientPhone != "" {
		appointment.PatientPhone = req.PatientPhone
	}
	if req.PatientEmail != "" {
		appointment.PatientEmail = req.PatientEmail
	}
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	cancelled := false
	if req.Status != "" {
		next := entity.AppointmentStatus(req.Status)
		if next != appointment.Status {
			if appointment.IsTerminal() {
				return nil, ErrAppointmentTerminal
			}
			if !appointment.CanTransitionTo(next) {
				return nil, ErrInvalidStatusTransition
			}
			appointment.Status = next
			if next == entity.AppointmentStatusCancelled {
				now := time.Now().UTC()
				appointment.CancelledAt = &now
				appointment.CancellationReason = req.CancellationReason
				cancelled = true
			}
		}
	}

	if err := u.appointmentRepo.Update(tx, appointment); err != nil {
		u.log.Warnf("Failed to update appointment %s: %+v", id, err)
		return nil, err
	}

	if cancelled {
		if err := u.sessionRepo.ReleaseSlot(tx, appointment.SessionID); err != nil {
			u.log.Warnf("Failed to release slot for session %s: %+v", appointment.SessionID, err)
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if cancelled {
		u.slotCache.Refresh(ctx, appointment.SessionID)
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	action := entity.AuditActionAppointmentUpdate
	if cancelled {
		action = entity.AuditActionAppointmentCancel
	}
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, action, "appointment", appointment.ID.String(), before, appointment)

	return converter.AppointmentToResponse(appointment), nil
}

// Complete marks the visit served and emails the patient a summary with the
// latest prescription when one was issued. The notification outcome never
// affects the result.
func (u *appointmentUsecase) Complete(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.IsTerminal() {
		return nil, ErrAppointmentTerminal
	}
	if !appointment.CanTransitionTo(entity.AppointmentStatusServed) {
		return nil, ErrInvalidStatusTransition
	}

	before := appointment.Status
	appointment.Status = entity.AppointmentStatusServed

	if err := u.appointmentRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to complete appointment %s: %+v", id, err)
		return nil, err
	}

	prescription, err := u.prescriptionRepo.FindLatestByAppointmentID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to load prescription for appointment %s: %+v", id, err)
		prescription = nil
	}

	outcome := u.notifier.NotifyAppointmentCompleted(ctx, appointment, prescription)

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionAppointmentComplete, "appointment", id.String(), before, appointment.Status)

	u.log.Infof("Appointment completed: id=%s, notification=%s", id, outcome)
	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, req *dto.UpdatePaymentStatusRequest) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	before := appointment.PaymentStatus
	appointment.PaymentStatus = entity.PaymentStatus(req.PaymentStatus)

	if err := u.appointmentRepo.Update(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to update payment status for %s: %+v", id, err)
		return nil, err
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionAppointmentUpdate, "appointment", id.String(), before, appointment.PaymentStatus)

	return converter.AppointmentToResponse(appointment), nil
}

// Delete removes an appointment outright. A slot is released only when the
// booking still held one (served and cancelled bookings do not).
func (u *appointmentUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	rows, err := u.appointmentRepo.Delete(tx, id)
	if err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrAppointmentNotFound
	}

	holdsSlot := !appointment.IsCancelled() && !appointment.IsServed()
	if holdsSlot {
		if err := u.sessionRepo.ReleaseSlot(tx, appointment.SessionID); err != nil {
			u.log.Warnf("Failed to release slot for session %s: %+v", appointment.SessionID, err)
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	if holdsSlot {
		u.slotCache.Refresh(ctx, appointment.SessionID)
	}

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogDelete(u.db.WithContext(ctx), &callerID, entity.AuditActionAppointmentDelete, "appointment", id.String(), appointment)

	return nil
}

func (u *appointmentUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if err := authorizeAppointmentAccess(ctx, appointment); err != nil {
		return nil, err
	}

	return converter.AppointmentToResponse(appointment), nil
}

func (u *appointmentUsecase) ListBySession(ctx context.Context, sessionID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindBySessionID(u.db.WithContext(ctx), sessionID)
	if err != nil {
		u.log.Warnf("Failed to list appointments for session %s: %+v", sessionID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// authorizeAppointmentAccess enforces who may read or edit a booking: the
// patient account that made it, the hospital hosting the session, that
// session's doctor, or an admin. Callers load the appointment with its
// session relations preloaded.
func authorizeAppointmentAccess(ctx context.Context, appointment *entity.Appointment) error {
	role, _ := middleware.GetRoleFromContext(ctx)
	switch {
	case strings.EqualFold(role, entity.RoleAdmin):
		return nil
	case strings.EqualFold(role, entity.RolePatient):
		callerID, ok := middleware.GetUserIDFromContext(ctx)
		if !ok || appointment.BookedByID == nil || *appointment.BookedByID != callerID {
			return ErrAppointmentNotOwned
		}
		return nil
	case strings.EqualFold(role, entity.RoleHospital):
		email, ok := middleware.GetUserEmailFromContext(ctx)
		if !ok || !strings.EqualFold(appointment.Session.Hospital.RegisteredEmail, email) {
			return ErrAppointmentNotOwned
		}
		return nil
	case strings.EqualFold(role, entity.RoleDoctor):
		email, ok := middleware.GetUserEmailFromContext(ctx)
		if !ok || !strings.EqualFold(appointment.Session.Doctor.Email, email) {
			return ErrAppointmentNotOwned
		}
		return nil
	default:
		return ErrAppointmentNotOwned
	}
}

// Day-scoped document numbers carry 3 random bytes, so collisions are rare
// but possible; writers retry this many times on the unique index.
const documentNumberAttempts = 3

// documentNumber builds a reference like AP-20260901-3F2A1C.
func documentNumber(prefix string, day time.Time) (string, error) {
	randomBytes := make([]byte, 3)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return fmt.Sprintf("%s-%s-%06X", prefix, day.Format("20060102"), randomBytes), nil
}

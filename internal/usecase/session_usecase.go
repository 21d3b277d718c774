package usecase

import (
	"context"
	"errors"
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
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionInPast           = errors.New("session start time is in the past")
	ErrSessionNotEditable      = errors.New("only scheduled sessions can be modified")
	ErrSessionAlreadyCancelled = errors.New("session is already cancelled")
	ErrDoctorNotAffiliated     = errors.New("doctor is not affiliated with this hospital")
	ErrNurseNotFound           = errors.New("nurse not found")
	ErrNotSessionDoctor        = errors.New("doctors can only schedule sessions for themselves")
	ErrCapacityBelowBooked     = errors.New("capacity cannot be lower than booked slots")
	ErrSessionHasBookings      = errors.New("session has bookings and cannot be deleted")
)

// SlotCache is the slice of the Redis slot mirror the usecases drive.
type SlotCache interface {
	Refresh(ctx context.Context, sessionID uuid.UUID)
	Forget(ctx context.Context, sessionID uuid.UUID)
	Remaining(ctx context.Context, sessionID uuid.UUID) (int, bool)
}

type SessionUsecase interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	ListAvailable(ctx context.Context, filter *entity.SessionFilter) (*dto.SessionListResponse, error)
	GetRemainingSlots(ctx context.Context, id uuid.UUID) (*dto.SessionSlotsResponse, error)
}

type sessionUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	sessionRepo  repository.SessionRepository
	doctorRepo   repository.DoctorRepository
	hospitalRepo repository.HospitalRepository
	slotCache    SlotCache
	notifier     *service.NotificationService
	audit        service.AuditService
}

func NewSessionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	sessionRepo repository.SessionRepository,
	doctorRepo repository.DoctorRepository,
	hospitalRepo repository.HospitalRepository,
	slotCache SlotCache,
	notifier *service.NotificationService,
	audit service.AuditService,
) SessionUsecase {
	return &sessionUsecase{
		db:           db,
		log:          log,
		sessionRepo:  sessionRepo,
		doctorRepo:   doctorRepo,
		hospitalRepo: hospitalRepo,
		slotCache:    slotCache,
		notifier:     notifier,
		audit:        audit,
	}
}

// Create schedules a session. The doctor must already be affiliated with the
// hospital. Hospital accounts schedule for their own hospital; a doctor
// account may schedule its own sessions at any affiliated hospital.
func (u *sessionUsecase) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	role, _ := middleware.GetRoleFromContext(ctx)
	if strings.EqualFold(role, entity.RoleDoctor) {
		if err := u.verifyDoctorScheduling(ctx, req); err != nil {
			return nil, err
		}
	} else if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, req.HospitalID); err != nil {
		return nil, err
	}

	if req.StartTime.Before(time.Now().UTC()) {
		return nil, ErrSessionInPast
	}

	affiliated, err := u.doctorRepo.IsAffiliated(u.db.WithContext(ctx), req.DoctorID, req.HospitalID)
	if err != nil {
		u.log.Warnf("Failed to check affiliation: %+v", err)
		return nil, err
	}
	if !affiliated {
		return nil, ErrDoctorNotAffiliated
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = entity.DefaultSessionCapacity
	}

	session := &entity.Session{
		DoctorID:   req.DoctorID,
		HospitalID: req.HospitalID,
		NurseID:    req.NurseID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Location:   req.Location,
		Capacity:   capacity,
		Status:     entity.SessionStatusScheduled,
	}

	if err := u.sessionRepo.Create(u.db.WithContext(ctx), session); err != nil {
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotAffiliated
		}
		if isForeignKeyError(err, "nurse") {
			return nil, ErrNurseNotFound
		}
		u.log.Warnf("Failed to create session: %+v", err)
		return nil, err
	}

	u.slotCache.Refresh(ctx, session.ID)

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogCreate(u.db.WithContext(ctx), &callerID, entity.AuditActionSessionCreate, "session", session.ID.String(), session)
	u.notifier.PublishEvent("session.created", map[string]interface{}{
		"session_id":  session.ID,
		"doctor_id":   session.DoctorID,
		"hospital_id": session.HospitalID,
		"start_time":  session.StartTime,
	})

	u.log.Infof("Session created: id=%s, doctor=%s, capacity=%d", session.ID, session.DoctorID, capacity)
	return converter.SessionToResponse(session), nil
}

// Update modifies a scheduled session. Shrinking capacity below the current
// booked count is rejected so the capacity invariant survives edits.
func (u *sessionUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateSessionRequest) (*dto.SessionResponse, error) {
	session, err := u.findOwnedSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.IsScheduled() {
		return nil, ErrSessionNotEditable
	}

	before := *session

	if req.NurseID != nil {
		session.NurseID = req.NurseID
	}
	if req.StartTime != nil {
		session.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		session.EndTime = *req.EndTime
	}
	if req.Location != "" {
		session.Location = req.Location
	}
	if req.Capacity != nil {
		if *req.Capacity < session.BookedCount {
			return nil, ErrCapacityBelowBooked
		}
		session.Capacity = *req.Capacity
	}

	if session.EndTime.Before(session.StartTime) || session.EndTime.Equal(session.StartTime) {
		return nil, ErrSessionNotEditable
	}

	if err := u.sessionRepo.Update(u.db.WithContext(ctx), session); err != nil {
		if isForeignKeyError(err, "nurse") {
			return nil, ErrNurseNotFound
		}
		u.log.Warnf("Failed to update session %s: %+v", id, err)
		return nil, err
	}

	u.slotCache.Refresh(ctx, session.ID)

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionSessionUpdate, "session", session.ID.String(), before, session)

	return converter.SessionToResponse(session), nil
}

// Cancel marks the session cancelled. Existing appointments are left intact;
// downstream consumers react to the session.cancelled event instead.
func (u *sessionUsecase) Cancel(ctx context.Context, id uuid.UUID) error {
	session, err := u.findOwnedSession(ctx, id)
	if err != nil {
		return err
	}
	if session.IsCancelled() {
		return ErrSessionAlreadyCancelled
	}
	if !session.IsScheduled() {
		return ErrSessionNotEditable
	}

	rows, err := u.sessionRepo.UpdateStatus(u.db.WithContext(ctx), id, entity.SessionStatusCancelled)
	if err != nil {
		u.log.Warnf("Failed to cancel session %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		// The status changed between the read above and the guarded update.
		return ErrSessionNotEditable
	}

	u.slotCache.Forget(ctx, id)

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogUpdate(u.db.WithContext(ctx), &callerID, entity.AuditActionSessionCancel, "session", id.String(), session.Status, entity.SessionStatusCancelled)
	u.notifier.PublishEvent("session.cancelled", map[string]interface{}{
		"session_id":  id,
		"hospital_id": session.HospitalID,
		"booked":      session.BookedCount,
	})

	u.log.Infof("Session cancelled: id=%s, booked=%d", id, session.BookedCount)
	return nil
}

// Delete removes a session that never took bookings. Sessions with bookings
// are cancelled instead so appointment history survives.
func (u *sessionUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	session, err := u.findOwnedSession(ctx, id)
	if err != nil {
		return err
	}
	if session.BookedCount > 0 {
		return ErrSessionHasBookings
	}

	rows, err := u.sessionRepo.Delete(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to delete session %s: %+v", id, err)
		return err
	}
	if rows == 0 {
		return ErrSessionNotFound
	}

	u.slotCache.Forget(ctx, id)

	callerID, _ := middleware.GetUserIDFromContext(ctx)
	u.audit.LogDelete(u.db.WithContext(ctx), &callerID, entity.AuditActionSessionDelete, "session", id.String(), session)

	return nil
}

func (u *sessionUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	session, err := u.sessionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find session %s: %+v", id, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	return converter.SessionToResponse(session), nil
}

// ListAvailable is the public browse endpoint: future scheduled sessions with
// free slots, optionally narrowed by doctor, hospital, or date.
func (u *sessionUsecase) ListAvailable(ctx context.Context, filter *entity.SessionFilter) (*dto.SessionListResponse, error) {
	sessions, err := u.sessionRepo.FindAvailable(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list available sessions: %+v", err)
		return nil, err
	}

	return &dto.SessionListResponse{
		Sessions: converter.SessionsToResponses(sessions),
		Total:    len(sessions),
	}, nil
}

// GetRemainingSlots answers the availability probe from the Redis mirror,
// falling back to the database row on a cache miss.
func (u *sessionUsecase) GetRemainingSlots(ctx context.Context, id uuid.UUID) (*dto.SessionSlotsResponse, error) {
	if remaining, ok := u.slotCache.Remaining(ctx, id); ok {
		return &dto.SessionSlotsResponse{SessionID: id, AvailableSlots: remaining}, nil
	}

	session, err := u.sessionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find session %s: %+v", id, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	u.slotCache.Refresh(ctx, id)

	return &dto.SessionSlotsResponse{SessionID: id, AvailableSlots: session.AvailableSlots()}, nil
}

// verifyDoctorScheduling admits a doctor-role caller creating a session for
// their own doctor record. The affiliation check in Create still applies.
func (u *sessionUsecase) verifyDoctorScheduling(ctx context.Context, req *dto.CreateSessionRequest) error {
	email, ok := middleware.GetUserEmailFromContext(ctx)
	if !ok {
		return ErrNotSessionDoctor
	}

	doctor, err := u.doctorRepo.FindByEmail(u.db.WithContext(ctx), email)
	if err != nil {
		u.log.Warnf("Failed to find doctor by email: %+v", err)
		return err
	}
	if doctor == nil || !doctor.IsActive || doctor.ID != req.DoctorID {
		return ErrNotSessionDoctor
	}

	hospital, err := u.hospitalRepo.FindByID(u.db.WithContext(ctx), req.HospitalID)
	if err != nil {
		u.log.Warnf("Failed to find hospital %s: %+v", req.HospitalID, err)
		return err
	}
	if hospital == nil {
		return ErrHospitalNotFound
	}

	return nil
}

func (u *sessionUsecase) findOwnedSession(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	session, err := u.sessionRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find session %s: %+v", id, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if _, err := resolveOwnedHospital(ctx, u.db.WithContext(ctx), u.hospitalRepo, session.HospitalID); err != nil {
		return nil, err
	}

	return session, nil
}

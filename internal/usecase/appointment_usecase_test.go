package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/delivery/http/middleware"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB returns a gorm handle over a stub connection. Repositories in
// these tests are in-memory fakes, so the mock only sees transaction
// boundaries (Begin, Commit, Rollback).
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Fatalf("gorm.Open() error = %v", err)
	}
	return gormDB, mock
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func authedContext(userID uuid.UUID, email, role string) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UserEmailKey, email)
	return context.WithValue(ctx, middleware.RoleKey, role)
}

func pgUniqueErr(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func pgFKErr(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

type noopMail struct{}

func (noopMail) Enabled() bool { return false }

func (noopMail) Send(_ context.Context, _ service.Message) error { return nil }

type recordSink struct {
	subjects []string
}

func (s *recordSink) Publish(subject string, _ interface{}) service.Outcome {
	s.subjects = append(s.subjects, subject)
	return service.OutcomeDelivered
}

func (s *recordSink) has(subject string) bool {
	for _, got := range s.subjects {
		if got == subject {
			return true
		}
	}
	return false
}

type fakeAudit struct{}

func (fakeAudit) LogCreate(_ *gorm.DB, _ *uuid.UUID, _, _, _ string, _ interface{}) {}

func (fakeAudit) LogUpdate(_ *gorm.DB, _ *uuid.UUID, _, _, _ string, _, _ interface{}) {}

func (fakeAudit) LogDelete(_ *gorm.DB, _ *uuid.UUID, _, _, _ string, _ interface{}) {}

type fakeSlotCache struct {
	refreshed []uuid.UUID
	forgotten []uuid.UUID
}

func (f *fakeSlotCache) Refresh(_ context.Context, id uuid.UUID) {
	f.refreshed = append(f.refreshed, id)
}

func (f *fakeSlotCache) Forget(_ context.Context, id uuid.UUID) {
	f.forgotten = append(f.forgotten, id)
}

func (f *fakeSlotCache) Remaining(_ context.Context, _ uuid.UUID) (int, bool) {
	return 0, false
}

// fakeSessionRepo keeps sessions in memory and honors the conditional
// reservation contract: a slot is granted only while the session is
// scheduled and below capacity.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
	releases int

	createErr error
}

func newFakeSessionRepo(sessions ...*entity.Session) *fakeSessionRepo {
	repo := &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.Session)}
	for _, session := range sessions {
		copied := *session
		repo.sessions[session.ID] = &copied
	}
	return repo
}

func (f *fakeSessionRepo) Create(_ *gorm.DB, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeSessionRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepo) FindAvailable(_ *gorm.DB, _ *entity.SessionFilter) ([]entity.Session, error) {
	return nil, nil
}

func (f *fakeSessionRepo) Update(_ *gorm.DB, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeSessionRepo) UpdateStatus(_ *gorm.DB, id uuid.UUID, status entity.SessionStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok || session.Status != entity.SessionStatusScheduled {
		return 0, nil
	}
	session.Status = status
	return 1, nil
}

func (f *fakeSessionRepo) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return 0, nil
	}
	delete(f.sessions, id)
	return 1, nil
}

func (f *fakeSessionRepo) ReserveSlot(_ *gorm.DB, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok || session.Status != entity.SessionStatusScheduled || session.BookedCount >= session.Capacity {
		return 0, nil
	}
	session.BookedCount++
	return 1, nil
}

func (f *fakeSessionRepo) ReleaseSlot(_ *gorm.DB, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	if session, ok := f.sessions[id]; ok && session.BookedCount > 0 {
		session.BookedCount--
	}
	return nil
}

func (f *fakeSessionRepo) CountByStatus(_ *gorm.DB, _ entity.SessionStatus) (int64, error) {
	return 0, nil
}

func (f *fakeSessionRepo) Count(_ *gorm.DB) (int64, error) { return 0, nil }

func (f *fakeSessionRepo) CountByHospital(_ *gorm.DB, _ uuid.UUID, _ *entity.SessionStatus) (int64, error) {
	return 0, nil
}

func (f *fakeSessionRepo) bookedCount(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions[id].BookedCount
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[uuid.UUID]*entity.Appointment

	// createErrs is consumed one entry per Create call before the insert
	// goes through, simulating constraint violations.
	createErrs []error
}

func newFakeAppointmentRepo(appointments ...*entity.Appointment) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*entity.Appointment)}
	for _, appointment := range appointments {
		copied := *appointment
		repo.appointments[appointment.ID] = &copied
	}
	return repo
}

func (f *fakeAppointmentRepo) Create(_ *gorm.DB, appointment *entity.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if appointment.ID == uuid.Nil {
		appointment.ID = uuid.New()
	}
	copied := *appointment
	f.appointments[appointment.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *appointment
	return &copied, nil
}

func (f *fakeAppointmentRepo) FindBySessionID(_ *gorm.DB, sessionID uuid.UUID) ([]entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Appointment
	for _, appointment := range f.appointments {
		if appointment.SessionID == sessionID {
			out = append(out, *appointment)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindBySessionAndNIC(_ *gorm.DB, sessionID uuid.UUID, nic string) (*entity.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, appointment := range f.appointments {
		if appointment.SessionID == sessionID && appointment.PatientNIC == nic {
			copied := *appointment
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAppointmentRepo) Update(_ *gorm.DB, appointment *entity.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *appointment
	f.appointments[appointment.ID] = &copied
	return nil
}

func (f *fakeAppointmentRepo) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.appointments[id]; !ok {
		return 0, nil
	}
	delete(f.appointments, id)
	return 1, nil
}

func (f *fakeAppointmentRepo) CountByStatus(_ *gorm.DB, _ entity.AppointmentStatus) (int64, error) {
	return 0, nil
}

func (f *fakeAppointmentRepo) Count(_ *gorm.DB) (int64, error) { return 0, nil }

func (f *fakeAppointmentRepo) CountByHospital(_ *gorm.DB, _ uuid.UUID, _ *entity.AppointmentStatus) (int64, error) {
	return 0, nil
}

type fakePrescriptionRepo struct {
	mu            sync.Mutex
	prescriptions []*entity.Prescription

	createErrs []error
}

func (f *fakePrescriptionRepo) Create(_ *gorm.DB, prescription *entity.Prescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if prescription.ID == uuid.Nil {
		prescription.ID = uuid.New()
	}
	copied := *prescription
	f.prescriptions = append(f.prescriptions, &copied)
	return nil
}

func (f *fakePrescriptionRepo) FindByNumber(_ *gorm.DB, number string) (*entity.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, prescription := range f.prescriptions {
		if prescription.PrescriptionNumber == number {
			copied := *prescription
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePrescriptionRepo) FindLatestByAppointmentID(_ *gorm.DB, appointmentID uuid.UUID) (*entity.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, prescription := range f.prescriptions {
		if prescription.AppointmentID == appointmentID && prescription.IsLatestVersion {
			copied := *prescription
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePrescriptionRepo) FindByAppointmentID(_ *gorm.DB, appointmentID uuid.UUID) ([]entity.Prescription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Prescription
	for _, prescription := range f.prescriptions {
		if prescription.AppointmentID == appointmentID {
			out = append(out, *prescription)
		}
	}
	return out, nil
}

func (f *fakePrescriptionRepo) MarkSuperseded(_ *gorm.DB, appointmentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, prescription := range f.prescriptions {
		if prescription.AppointmentID == appointmentID {
			prescription.IsLatestVersion = false
		}
	}
	return nil
}

func scheduledSession(capacity int) *entity.Session {
	start := time.Now().UTC().Add(24 * time.Hour)
	return &entity.Session{
		ID:          uuid.New(),
		DoctorID:    uuid.New(),
		HospitalID:  uuid.New(),
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		Capacity:    capacity,
		Status:      entity.SessionStatusScheduled,
	}
}

func bookingRequest(sessionID uuid.UUID, nic string) *dto.CreateAppointmentRequest {
	return &dto.CreateAppointmentRequest{
		SessionID:    sessionID,
		PatientName:  "Nimal Perera",
		PatientPhone: "0771234567",
		PatientNIC:   nic,
		PatientEmail: "nimal@example.com",
	}
}

func newAppointmentUsecaseForTest(db *gorm.DB, sessionRepo *fakeSessionRepo, appointmentRepo *fakeAppointmentRepo) (AppointmentUsecase, *recordSink) {
	sink := &recordSink{}
	notifier := service.NewNotificationService(noopMail{}, sink, testLogger())
	uc := NewAppointmentUsecase(db, testLogger(), appointmentRepo, sessionRepo, &fakePrescriptionRepo{}, &fakeSlotCache{}, notifier, fakeAudit{})
	return uc, sink
}

func TestAppointmentCreateSingleSlotSecondBookingRejected(t *testing.T) {
	db, mock := newTestDB(t)
	session := scheduledSession(1)
	sessionRepo := newFakeSessionRepo(session)
	uc, _ := newAppointmentUsecaseForTest(db, sessionRepo, newFakeAppointmentRepo())
	ctx := authedContext(uuid.New(), "patient@example.com", entity.RolePatient)

	mock.ExpectBegin()
	mock.ExpectCommit()
	if _, err := uc.Create(ctx, bookingRequest(session.ID, "911234567V")); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	if _, err := uc.Create(ctx, bookingRequest(session.ID, "921234567V")); err != ErrSessionFull {
		t.Fatalf("second Create() error = %v, want ErrSessionFull", err)
	}

	if got := sessionRepo.bookedCount(session.ID); got != 1 {
		t.Errorf("booked count = %d, want 1", got)
	}
}

func TestAppointmentCreateNeverExceedsCapacity(t *testing.T) {
	db, mock := newTestDB(t)
	session := scheduledSession(3)
	sessionRepo := newFakeSessionRepo(session)
	uc, _ := newAppointmentUsecaseForTest(db, sessionRepo, newFakeAppointmentRepo())
	ctx := authedContext(uuid.New(), "patient@example.com", entity.RolePatient)

	succeeded := 0
	for i := 0; i < 5; i++ {
		mock.ExpectBegin()
		if i < session.Capacity {
			mock.ExpectCommit()
		} else {
			mock.ExpectRollback()
		}

		_, err := uc.Create(ctx, bookingRequest(session.ID, fmt.Sprintf("9%08dV", i)))
		switch err {
		case nil:
			succeeded++
		case ErrSessionFull:
		default:
			t.Fatalf("Create() attempt %d error = %v", i, err)
		}

		if got := sessionRepo.bookedCount(session.ID); got > session.Capacity {
			t.Fatalf("booked count %d exceeded capacity %d", got, session.Capacity)
		}
	}

	if succeeded != session.Capacity {
		t.Errorf("successful bookings = %d, want %d", succeeded, session.Capacity)
	}
}

func TestAppointmentCreateRejectsDuplicateNIC(t *testing.T) {
	db, mock := newTestDB(t)
	session := scheduledSession(5)
	sessionRepo := newFakeSessionRepo(session)
	uc, _ := newAppointmentUsecaseForTest(db, sessionRepo, newFakeAppointmentRepo())
	ctx := authedContext(uuid.New(), "patient@example.com", entity.RolePatient)

	mock.ExpectBegin()
	mock.ExpectCommit()
	if _, err := uc.Create(ctx, bookingRequest(session.ID, "911234567V")); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	if _, err := uc.Create(ctx, bookingRequest(session.ID, "911234567V")); err != ErrDuplicateBooking {
		t.Fatalf("second Create() error = %v, want ErrDuplicateBooking", err)
	}
}

func TestAppointmentCreateRetriesNumberCollision(t *testing.T) {
	db, mock := newTestDB(t)
	session := scheduledSession(5)
	appointmentRepo := newFakeAppointmentRepo()
	appointmentRepo.createErrs = []error{pgUniqueErr("uq_appointments_appointment_number")}
	uc, _ := newAppointmentUsecaseForTest(db, newFakeSessionRepo(session), appointmentRepo)
	ctx := authedContext(uuid.New(), "patient@example.com", entity.RolePatient)

	mock.ExpectBegin()
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := uc.Create(ctx, bookingRequest(session.ID, "911234567V"))
	if err != nil {
		t.Fatalf("Create() error = %v, want retry to succeed", err)
	}
	if resp.AppointmentNumber == "" {
		t.Error("Create() returned an empty appointment number")
	}
}

func TestAppointmentCreateStampsBookingAccount(t *testing.T) {
	db, mock := newTestDB(t)
	session := scheduledSession(5)
	uc, _ := newAppointmentUsecaseForTest(db, newFakeSessionRepo(session), newFakeAppointmentRepo())
	callerID := uuid.New()
	ctx := authedContext(callerID, "patient@example.com", entity.RolePatient)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := uc.Create(ctx, bookingRequest(session.ID, "911234567V"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if resp.BookedByID == nil || *resp.BookedByID != callerID {
		t.Errorf("BookedByID = %v, want %s", resp.BookedByID, callerID)
	}
}

func TestAppointmentGetByIDOwnership(t *testing.T) {
	owner := uuid.New()
	appointment := &entity.Appointment{
		ID:         uuid.New(),
		SessionID:  uuid.New(),
		BookedByID: &owner,
		Status:     entity.AppointmentStatusPending,
		Session: entity.Session{
			Hospital: entity.Hospital{RegisteredEmail: "front@asiri.lk"},
			Doctor:   entity.Doctor{Email: "silva@asiri.lk"},
		},
	}

	tests := []struct {
		name    string
		ctx     context.Context
		wantErr error
	}{
		{"booking patient", authedContext(owner, "patient@example.com", entity.RolePatient), nil},
		{"other patient", authedContext(uuid.New(), "other@example.com", entity.RolePatient), ErrAppointmentNotOwned},
		{"owning hospital", authedContext(uuid.New(), "Front@Asiri.lk", entity.RoleHospital), nil},
		{"other hospital", authedContext(uuid.New(), "front@lanka.lk", entity.RoleHospital), ErrAppointmentNotOwned},
		{"session doctor", authedContext(uuid.New(), "silva@asiri.lk", entity.RoleDoctor), nil},
		{"other doctor", authedContext(uuid.New(), "perera@asiri.lk", entity.RoleDoctor), ErrAppointmentNotOwned},
		{"admin", authedContext(uuid.New(), "root@echanneling.lk", entity.RoleAdmin), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _ := newTestDB(t)
			uc, _ := newAppointmentUsecaseForTest(db, newFakeSessionRepo(), newFakeAppointmentRepo(appointment))

			_, err := uc.GetByID(tt.ctx, appointment.ID)
			if err != tt.wantErr {
				t.Errorf("GetByID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAppointmentUpdateRejectsForeignCaller(t *testing.T) {
	db, mock := newTestDB(t)
	owner := uuid.New()
	appointment := &entity.Appointment{
		ID:         uuid.New(),
		SessionID:  uuid.New(),
		BookedByID: &owner,
		Status:     entity.AppointmentStatusPending,
		Session: entity.Session{
			Hospital: entity.Hospital{RegisteredEmail: "front@asiri.lk"},
			Doctor:   entity.Doctor{Email: "silva@asiri.lk"},
		},
	}
	uc, _ := newAppointmentUsecaseForTest(db, newFakeSessionRepo(), newFakeAppointmentRepo(appointment))
	ctx := authedContext(uuid.New(), "other@example.com", entity.RolePatient)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := uc.Update(ctx, appointment.ID, &dto.UpdateAppointmentRequest{Status: "cancelled"})
	if err != ErrAppointmentNotOwned {
		t.Fatalf("Update() error = %v, want ErrAppointmentNotOwned", err)
	}
}

package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeDoctorRepo struct {
	mu           sync.Mutex
	doctors      map[uuid.UUID]*entity.Doctor
	affiliations map[[2]uuid.UUID]bool
}

func newFakeDoctorRepo(doctors ...*entity.Doctor) *fakeDoctorRepo {
	repo := &fakeDoctorRepo{
		doctors:      make(map[uuid.UUID]*entity.Doctor),
		affiliations: make(map[[2]uuid.UUID]bool),
	}
	for _, doctor := range doctors {
		copied := *doctor
		repo.doctors[doctor.ID] = &copied
	}
	return repo
}

func (f *fakeDoctorRepo) affiliate(doctorID, hospitalID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.affiliations[[2]uuid.UUID{doctorID, hospitalID}] = true
}

func (f *fakeDoctorRepo) Create(_ *gorm.DB, doctor *entity.Doctor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	copied := *doctor
	f.doctors[doctor.ID] = &copied
	return nil
}

func (f *fakeDoctorRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doctor, ok := f.doctors[id]
	if !ok {
		return nil, nil
	}
	copied := *doctor
	return &copied, nil
}

func (f *fakeDoctorRepo) FindByEmail(_ *gorm.DB, email string) (*entity.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, doctor := range f.doctors {
		if doctor.Email == email {
			copied := *doctor
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepo) FindByHospitalID(_ *gorm.DB, _ uuid.UUID) ([]entity.Doctor, error) {
	return nil, nil
}

func (f *fakeDoctorRepo) Update(_ *gorm.DB, doctor *entity.Doctor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *doctor
	f.doctors[doctor.ID] = &copied
	return nil
}

func (f *fakeDoctorRepo) Delete(_ *gorm.DB, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.doctors[id]; !ok {
		return 0, nil
	}
	delete(f.doctors, id)
	return 1, nil
}

func (f *fakeDoctorRepo) Affiliate(_ *gorm.DB, doctorID, hospitalID uuid.UUID) error {
	f.affiliate(doctorID, hospitalID)
	return nil
}

func (f *fakeDoctorRepo) Unaffiliate(_ *gorm.DB, doctorID, hospitalID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uuid.UUID{doctorID, hospitalID}
	if !f.affiliations[key] {
		return 0, nil
	}
	delete(f.affiliations, key)
	return 1, nil
}

func (f *fakeDoctorRepo) IsAffiliated(_ *gorm.DB, doctorID, hospitalID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.affiliations[[2]uuid.UUID{doctorID, hospitalID}], nil
}

func (f *fakeDoctorRepo) Count(_ *gorm.DB) (int64, error) { return 0, nil }

type fakeHospitalRepo struct {
	mu        sync.Mutex
	hospitals map[uuid.UUID]*entity.Hospital
}

func newFakeHospitalRepo(hospitals ...*entity.Hospital) *fakeHospitalRepo {
	repo := &fakeHospitalRepo{hospitals: make(map[uuid.UUID]*entity.Hospital)}
	for _, hospital := range hospitals {
		copied := *hospital
		repo.hospitals[hospital.ID] = &copied
	}
	return repo
}

func (f *fakeHospitalRepo) Create(_ *gorm.DB, hospital *entity.Hospital) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if hospital.ID == uuid.Nil {
		hospital.ID = uuid.New()
	}
	copied := *hospital
	f.hospitals[hospital.ID] = &copied
	return nil
}

func (f *fakeHospitalRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Hospital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hospital, ok := f.hospitals[id]
	if !ok {
		return nil, nil
	}
	copied := *hospital
	return &copied, nil
}

func (f *fakeHospitalRepo) FindByRegisteredEmail(_ *gorm.DB, email string) (*entity.Hospital, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, hospital := range f.hospitals {
		if hospital.RegisteredEmail == email {
			copied := *hospital
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeHospitalRepo) FindAll(_ *gorm.DB) ([]entity.Hospital, error) { return nil, nil }

func (f *fakeHospitalRepo) Update(_ *gorm.DB, hospital *entity.Hospital) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *hospital
	f.hospitals[hospital.ID] = &copied
	return nil
}

func (f *fakeHospitalRepo) Count(_ *gorm.DB) (int64, error) { return 0, nil }

type sessionTestEnv struct {
	uc           SessionUsecase
	sessionRepo  *fakeSessionRepo
	doctorRepo   *fakeDoctorRepo
	hospitalRepo *fakeHospitalRepo
	slotCache    *fakeSlotCache
	sink         *recordSink
}

func newSessionTestEnv(t *testing.T, sessions ...*entity.Session) *sessionTestEnv {
	t.Helper()
	db, _ := newTestDB(t)

	env := &sessionTestEnv{
		sessionRepo:  newFakeSessionRepo(sessions...),
		doctorRepo:   newFakeDoctorRepo(),
		hospitalRepo: newFakeHospitalRepo(),
		slotCache:    &fakeSlotCache{},
		sink:         &recordSink{},
	}
	notifier := service.NewNotificationService(noopMail{}, env.sink, testLogger())
	env.uc = NewSessionUsecase(db, testLogger(), env.sessionRepo, env.doctorRepo, env.hospitalRepo, env.slotCache, notifier, fakeAudit{})
	return env
}

func TestSessionCancelLeavesBookingsIntact(t *testing.T) {
	session := scheduledSession(5)
	session.BookedCount = 2
	env := newSessionTestEnv(t, session)
	env.hospitalRepo.Create(nil, &entity.Hospital{ID: session.HospitalID, Name: "Asiri Central", RegisteredEmail: "front@asiri.lk"})
	ctx := authedContext(uuid.New(), "front@asiri.lk", entity.RoleHospital)

	if err := env.uc.Cancel(ctx, session.ID); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	stored, _ := env.sessionRepo.FindByID(nil, session.ID)
	if stored.Status != entity.SessionStatusCancelled {
		t.Errorf("status = %s, want cancelled", stored.Status)
	}
	if stored.BookedCount != 2 {
		t.Errorf("booked count = %d, want 2 (cancel must not touch bookings)", stored.BookedCount)
	}
	if env.sessionRepo.releases != 0 {
		t.Errorf("slot releases = %d, want 0", env.sessionRepo.releases)
	}
	if !env.sink.has("session.cancelled") {
		t.Error("session.cancelled event was not published")
	}
}

func TestSessionCancelStatusGuards(t *testing.T) {
	tests := []struct {
		name    string
		status  entity.SessionStatus
		wantErr error
	}{
		{"already cancelled", entity.SessionStatusCancelled, ErrSessionAlreadyCancelled},
		{"completed", entity.SessionStatusCompleted, ErrSessionNotEditable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := scheduledSession(5)
			session.Status = tt.status
			env := newSessionTestEnv(t, session)
			env.hospitalRepo.Create(nil, &entity.Hospital{ID: session.HospitalID, RegisteredEmail: "front@asiri.lk"})
			ctx := authedContext(uuid.New(), "front@asiri.lk", entity.RoleHospital)

			if err := env.uc.Cancel(ctx, session.ID); err != tt.wantErr {
				t.Errorf("Cancel() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionCreateByDoctor(t *testing.T) {
	doctor := &entity.Doctor{ID: uuid.New(), FullName: "Dr. Silva", Email: "silva@asiri.lk", IsActive: true}
	hospital := &entity.Hospital{ID: uuid.New(), Name: "Asiri Central", RegisteredEmail: "front@asiri.lk"}
	start := time.Now().UTC().Add(24 * time.Hour)

	newRequest := func(doctorID uuid.UUID) *dto.CreateSessionRequest {
		return &dto.CreateSessionRequest{
			DoctorID:   doctorID,
			HospitalID: hospital.ID,
			StartTime:  start,
			EndTime:    start.Add(2 * time.Hour),
			Capacity:   10,
		}
	}

	t.Run("own session", func(t *testing.T) {
		env := newSessionTestEnv(t)
		env.doctorRepo.Create(nil, doctor)
		env.doctorRepo.affiliate(doctor.ID, hospital.ID)
		env.hospitalRepo.Create(nil, hospital)
		ctx := authedContext(uuid.New(), doctor.Email, entity.RoleDoctor)

		resp, err := env.uc.Create(ctx, newRequest(doctor.ID))
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if resp.DoctorID != doctor.ID {
			t.Errorf("DoctorID = %s, want %s", resp.DoctorID, doctor.ID)
		}
	})

	t.Run("another doctor's session", func(t *testing.T) {
		env := newSessionTestEnv(t)
		env.doctorRepo.Create(nil, doctor)
		env.hospitalRepo.Create(nil, hospital)
		ctx := authedContext(uuid.New(), doctor.Email, entity.RoleDoctor)

		if _, err := env.uc.Create(ctx, newRequest(uuid.New())); err != ErrNotSessionDoctor {
			t.Fatalf("Create() error = %v, want ErrNotSessionDoctor", err)
		}
	})

	t.Run("unknown doctor account", func(t *testing.T) {
		env := newSessionTestEnv(t)
		env.hospitalRepo.Create(nil, hospital)
		ctx := authedContext(uuid.New(), "nobody@asiri.lk", entity.RoleDoctor)

		if _, err := env.uc.Create(ctx, newRequest(doctor.ID)); err != ErrNotSessionDoctor {
			t.Fatalf("Create() error = %v, want ErrNotSessionDoctor", err)
		}
	})
}

func TestSessionCreateInvalidNurseReference(t *testing.T) {
	doctor := &entity.Doctor{ID: uuid.New(), Email: "silva@asiri.lk", IsActive: true}
	hospital := &entity.Hospital{ID: uuid.New(), RegisteredEmail: "front@asiri.lk"}
	env := newSessionTestEnv(t)
	env.doctorRepo.Create(nil, doctor)
	env.doctorRepo.affiliate(doctor.ID, hospital.ID)
	env.hospitalRepo.Create(nil, hospital)
	env.sessionRepo.createErr = pgFKErr("fk_sessions_nurse")
	ctx := authedContext(uuid.New(), hospital.RegisteredEmail, entity.RoleHospital)

	start := time.Now().UTC().Add(24 * time.Hour)
	nurseID := uuid.New()
	_, err := env.uc.Create(ctx, &dto.CreateSessionRequest{
		DoctorID:   doctor.ID,
		HospitalID: hospital.ID,
		NurseID:    &nurseID,
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
	})
	if err != ErrNurseNotFound {
		t.Fatalf("Create() error = %v, want ErrNurseNotFound", err)
	}
}

func TestSessionDeleteWithBookingsRefused(t *testing.T) {
	session := scheduledSession(5)
	session.BookedCount = 1
	env := newSessionTestEnv(t, session)
	env.hospitalRepo.Create(nil, &entity.Hospital{ID: session.HospitalID, RegisteredEmail: "front@asiri.lk"})
	ctx := authedContext(uuid.New(), "front@asiri.lk", entity.RoleHospital)

	if err := env.uc.Delete(ctx, session.ID); err != ErrSessionHasBookings {
		t.Fatalf("Delete() error = %v, want ErrSessionHasBookings", err)
	}
	if stored, _ := env.sessionRepo.FindByID(nil, session.ID); stored == nil {
		t.Fatal("session was deleted despite holding bookings")
	}
}

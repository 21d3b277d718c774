package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type recordMail struct {
	messages []service.Message
}

func (m *recordMail) Enabled() bool { return true }

func (m *recordMail) Send(_ context.Context, msg service.Message) error {
	m.messages = append(m.messages, msg)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(_ *gorm.DB, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CountByRole(_ *gorm.DB, _ int) (int64, error) { return 0, nil }

func TestDoctorOnboardingSendsWelcomeEmail(t *testing.T) {
	hospital := &entity.Hospital{ID: uuid.New(), Name: "Asiri Central", RegisteredEmail: "front@asiri.lk"}
	db, mock := newTestDB(t)
	mail := &recordMail{}
	notifier := service.NewNotificationService(mail, &recordSink{}, testLogger())
	doctorRepo := newFakeDoctorRepo()
	uc := NewDoctorUsecase(db, testLogger(), doctorRepo, newFakeHospitalRepo(hospital), newFakeUserRepo(), notifier, fakeAudit{})
	ctx := authedContext(uuid.New(), hospital.RegisteredEmail, entity.RoleHospital)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := uc.Create(ctx, hospital.ID, &dto.CreateDoctorRequest{
		FullName:           "Dr. Silva",
		Email:              "silva@asiri.lk",
		Password:           "s3cret-pass",
		RegistrationNumber: "SLMC-12345",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(mail.messages) != 1 {
		t.Fatalf("welcome emails sent = %d, want 1", len(mail.messages))
	}
	msg := mail.messages[0]
	if msg.To != "silva@asiri.lk" {
		t.Errorf("recipient = %q, want the doctor's address", msg.To)
	}
	if !strings.Contains(msg.Subject, hospital.Name) {
		t.Errorf("subject %q does not name the hospital", msg.Subject)
	}

	if affiliated, _ := doctorRepo.IsAffiliated(nil, resp.ID, hospital.ID); !affiliated {
		t.Error("onboarding did not affiliate the doctor with the hospital")
	}
}

package usecase

import (
	"context"

	"github.com/echanneling/echanneling/internal/delivery/dto"
	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DashboardUsecase interface {
	AdminDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error)
	HospitalDashboard(ctx context.Context, hospitalID uuid.UUID) (*dto.HospitalDashboardResponse, error)
}

type dashboardUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	hospitalRepo    repository.HospitalRepository
	doctorRepo      repository.DoctorRepository
	nurseRepo       repository.NurseRepository
	cashierRepo     repository.CashierRepository
	userRepo        repository.UserRepository
	sessionRepo     repository.SessionRepository
	appointmentRepo repository.AppointmentRepository
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	hospitalRepo repository.HospitalRepository,
	doctorRepo repository.DoctorRepository,
	nurseRepo repository.NurseRepository,
	cashierRepo repository.CashierRepository,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	appointmentRepo repository.AppointmentRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		db:              db,
		log:             log,
		hospitalRepo:    hospitalRepo,
		doctorRepo:      doctorRepo,
		nurseRepo:       nurseRepo,
		cashierRepo:     cashierRepo,
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		appointmentRepo: appointmentRepo,
	}
}

// AdminDashboard aggregates platform-wide counts. Counts are read one by one
// without a transaction; a dashboard tolerates slight skew.
func (u *dashboardUsecase) AdminDashboard(ctx context.Context) (*dto.AdminDashboardResponse, error) {
	db := u.db.WithContext(ctx)
	resp := &dto.AdminDashboardResponse{}
	var err error

	if resp.TotalHospitals, err = u.hospitalRepo.Count(db); err != nil {
		return nil, u.countErr("hospitals", err)
	}
	if resp.TotalDoctors, err = u.doctorRepo.Count(db); err != nil {
		return nil, u.countErr("doctors", err)
	}
	if resp.TotalPatients, err = u.userRepo.CountByRole(db, entity.RoleIDPatient); err != nil {
		return nil, u.countErr("patients", err)
	}
	if resp.TotalSessions, err = u.sessionRepo.Count(db); err != nil {
		return nil, u.countErr("sessions", err)
	}
	if resp.ScheduledSessions, err = u.sessionRepo.CountByStatus(db, entity.SessionStatusScheduled); err != nil {
		return nil, u.countErr("scheduled sessions", err)
	}
	if resp.TotalAppointments, err = u.appointmentRepo.Count(db); err != nil {
		return nil, u.countErr("appointments", err)
	}
	if resp.PendingAppointments, err = u.appointmentRepo.CountByStatus(db, entity.AppointmentStatusPending); err != nil {
		return nil, u.countErr("pending appointments", err)
	}
	if resp.ServedAppointments, err = u.appointmentRepo.CountByStatus(db, entity.AppointmentStatusServed); err != nil {
		return nil, u.countErr("served appointments", err)
	}
	if resp.CancelledAppointments, err = u.appointmentRepo.CountByStatus(db, entity.AppointmentStatusCancelled); err != nil {
		return nil, u.countErr("cancelled appointments", err)
	}

	return resp, nil
}

// HospitalDashboard aggregates counts scoped to one hospital; the caller
// must control it.
func (u *dashboardUsecase) HospitalDashboard(ctx context.Context, hospitalID uuid.UUID) (*dto.HospitalDashboardResponse, error) {
	db := u.db.WithContext(ctx)

	if _, err := resolveOwnedHospital(ctx, db, u.hospitalRepo, hospitalID); err != nil {
		return nil, err
	}

	resp := &dto.HospitalDashboardResponse{}

	doctors, err := u.doctorRepo.FindByHospitalID(db, hospitalID)
	if err != nil {
		return nil, u.countErr("doctors", err)
	}
	resp.TotalDoctors = int64(len(doctors))

	nurses, err := u.nurseRepo.FindByHospitalID(db, hospitalID)
	if err != nil {
		return nil, u.countErr("nurses", err)
	}
	resp.TotalNurses = int64(len(nurses))

	cashiers, err := u.cashierRepo.FindByHospitalID(db, hospitalID)
	if err != nil {
		return nil, u.countErr("cashiers", err)
	}
	resp.TotalCashiers = int64(len(cashiers))

	if resp.TotalSessions, err = u.sessionRepo.CountByHospital(db, hospitalID, nil); err != nil {
		return nil, u.countErr("sessions", err)
	}
	scheduled := entity.SessionStatusScheduled
	if resp.ScheduledSessions, err = u.sessionRepo.CountByHospital(db, hospitalID, &scheduled); err != nil {
		return nil, u.countErr("scheduled sessions", err)
	}
	if resp.TotalAppointments, err = u.appointmentRepo.CountByHospital(db, hospitalID, nil); err != nil {
		return nil, u.countErr("appointments", err)
	}
	pending := entity.AppointmentStatusPending
	if resp.PendingAppointments, err = u.appointmentRepo.CountByHospital(db, hospitalID, &pending); err != nil {
		return nil, u.countErr("pending appointments", err)
	}

	return resp, nil
}

func (u *dashboardUsecase) countErr(subject string, err error) error {
	u.log.Warnf("Failed to count %s: %+v", subject, err)
	return err
}

package converter

import (
	"testing"

	"github.com/echanneling/echanneling/internal/domain/entity"

	"github.com/google/uuid"
)

func TestSessionToResponseAvailability(t *testing.T) {
	tests := []struct {
		name          string
		status        entity.SessionStatus
		capacity      int
		booked        int
		wantAvailable int
		wantIsAvail   bool
	}{
		{"open session", entity.SessionStatusScheduled, 5, 2, 3, true},
		{"full session", entity.SessionStatusScheduled, 5, 5, 0, false},
		{"cancelled session", entity.SessionStatusCancelled, 5, 2, 3, false},
		{"completed session", entity.SessionStatusCompleted, 5, 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &entity.Session{
				ID:          uuid.New(),
				Capacity:    tt.capacity,
				BookedCount: tt.booked,
				Status:      tt.status,
			}

			resp := SessionToResponse(session)
			if resp == nil {
				t.Fatal("SessionToResponse() returned nil")
			}
			if resp.AvailableSlots != tt.wantAvailable {
				t.Errorf("AvailableSlots = %d, want %d", resp.AvailableSlots, tt.wantAvailable)
			}
			if resp.IsAvailable != tt.wantIsAvail {
				t.Errorf("IsAvailable = %v, want %v", resp.IsAvailable, tt.wantIsAvail)
			}
			if resp.BookedSlots != tt.booked {
				t.Errorf("BookedSlots = %d, want %d", resp.BookedSlots, tt.booked)
			}
		})
	}
}

func TestSessionToResponseNil(t *testing.T) {
	if got := SessionToResponse(nil); got != nil {
		t.Errorf("SessionToResponse(nil) = %v, want nil", got)
	}
}

func TestSessionToResponseNestedEntities(t *testing.T) {
	doctorID := uuid.New()
	hospitalID := uuid.New()

	session := &entity.Session{
		ID:         uuid.New(),
		DoctorID:   doctorID,
		HospitalID: hospitalID,
		Capacity:   5,
		Status:     entity.SessionStatusScheduled,
		Doctor:     entity.Doctor{ID: doctorID, FullName: "Dr. Fernando"},
		Hospital:   entity.Hospital{ID: hospitalID, Name: "Asiri Central"},
	}

	resp := SessionToResponse(session)
	if resp.Doctor == nil || resp.Doctor.FullName != "Dr. Fernando" {
		t.Errorf("Doctor not converted: %+v", resp.Doctor)
	}
	if resp.Hospital == nil || resp.Hospital.Name != "Asiri Central" {
		t.Errorf("Hospital not converted: %+v", resp.Hospital)
	}

	// Without preloads the nested fields stay empty
	bare := SessionToResponse(&entity.Session{ID: uuid.New(), Capacity: 5})
	if bare.Doctor != nil || bare.Hospital != nil {
		t.Error("nested entities set without preloads")
	}
}

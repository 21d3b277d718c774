package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a clinic session
type SessionStatus string

const (
	SessionStatusScheduled SessionStatus = "scheduled"
	SessionStatusCancelled SessionStatus = "cancelled"
	SessionStatusCompleted SessionStatus = "completed"
)

// DefaultSessionCapacity is applied when a session is created without an
// explicit capacity.
const DefaultSessionCapacity = 5

// Session is a bookable clinic time-slot for a doctor at a hospital.
// Invariant: BookedCount never exceeds Capacity; the booking transaction
// enforces it with a conditional update on this row.
type Session struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"doctor_id"`
	HospitalID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"hospital_id"`
	NurseID     *uuid.UUID    `gorm:"type:uuid;index" json:"nurse_id,omitempty"`
	StartTime   time.Time     `gorm:"not null;index" json:"start_time"`
	EndTime     time.Time     `gorm:"not null" json:"end_time"`
	Location    string        `gorm:"type:varchar(255)" json:"location,omitempty"`
	Capacity    int           `gorm:"not null" json:"capacity"`
	BookedCount int           `gorm:"not null;default:0" json:"booked_count"`
	Status      SessionStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor       Doctor        `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Hospital     Hospital      `gorm:"foreignKey:HospitalID" json:"hospital,omitempty"`
	Nurse        *Nurse        `gorm:"foreignKey:NurseID" json:"nurse,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:SessionID" json:"appointments,omitempty"`
}

func (Session) TableName() string {
	return "sessions"
}

// IsScheduled checks if the session still accepts bookings
func (s *Session) IsScheduled() bool {
	return s.Status == SessionStatusScheduled
}

// IsCancelled checks if the session was cancelled
func (s *Session) IsCancelled() bool {
	return s.Status == SessionStatusCancelled
}

// IsFull checks if every slot is taken
func (s *Session) IsFull() bool {
	return s.BookedCount >= s.Capacity
}

// AvailableSlots returns the remaining slot count, never negative
func (s *Session) AvailableSlots() int {
	if s.BookedCount >= s.Capacity {
		return 0
	}
	return s.Capacity - s.BookedCount
}

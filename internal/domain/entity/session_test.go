package entity

import "testing"

func TestSessionAvailableSlots(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		booked   int
		want     int
	}{
		{"empty session", 5, 0, 5},
		{"partially booked", 5, 3, 2},
		{"full session", 5, 5, 0},
		{"overbooked never negative", 5, 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{Capacity: tt.capacity, BookedCount: tt.booked}
			if got := s.AvailableSlots(); got != tt.want {
				t.Errorf("AvailableSlots() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSessionIsFull(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		booked   int
		want     bool
	}{
		{"has space", 5, 4, false},
		{"exactly full", 5, 5, true},
		{"overbooked", 5, 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Session{Capacity: tt.capacity, BookedCount: tt.booked}
			if got := s.IsFull(); got != tt.want {
				t.Errorf("IsFull() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionStatusHelpers(t *testing.T) {
	scheduled := &Session{Status: SessionStatusScheduled}
	if !scheduled.IsScheduled() {
		t.Error("IsScheduled() = false for a scheduled session")
	}
	if scheduled.IsCancelled() {
		t.Error("IsCancelled() = true for a scheduled session")
	}

	cancelled := &Session{Status: SessionStatusCancelled}
	if cancelled.IsScheduled() {
		t.Error("IsScheduled() = true for a cancelled session")
	}
	if !cancelled.IsCancelled() {
		t.Error("IsCancelled() = false for a cancelled session")
	}
}

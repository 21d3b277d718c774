package entity

import "testing"

func TestAppointmentCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from AppointmentStatus
		to   AppointmentStatus
		want bool
	}{
		{"pending to confirmed", AppointmentStatusPending, AppointmentStatusConfirmed, true},
		{"pending to served", AppointmentStatusPending, AppointmentStatusServed, true},
		{"pending to cancelled", AppointmentStatusPending, AppointmentStatusCancelled, true},
		{"pending to pending", AppointmentStatusPending, AppointmentStatusPending, false},
		{"confirmed to served", AppointmentStatusConfirmed, AppointmentStatusServed, true},
		{"confirmed to cancelled", AppointmentStatusConfirmed, AppointmentStatusCancelled, true},
		{"confirmed to confirmed", AppointmentStatusConfirmed, AppointmentStatusConfirmed, false},
		{"confirmed to pending", AppointmentStatusConfirmed, AppointmentStatusPending, false},
		{"served is terminal", AppointmentStatusServed, AppointmentStatusCancelled, false},
		{"served cannot be confirmed", AppointmentStatusServed, AppointmentStatusConfirmed, false},
		{"cancelled is terminal", AppointmentStatusCancelled, AppointmentStatusConfirmed, false},
		{"cancelled cannot be served", AppointmentStatusCancelled, AppointmentStatusServed, false},
		{"unknown target", AppointmentStatusPending, AppointmentStatus("archived"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Appointment{Status: tt.from}
			if got := a.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestAppointmentIsTerminal(t *testing.T) {
	tests := []struct {
		status AppointmentStatus
		want   bool
	}{
		{AppointmentStatusPending, false},
		{AppointmentStatusConfirmed, false},
		{AppointmentStatusServed, true},
		{AppointmentStatusCancelled, true},
	}

	for _, tt := range tests {
		a := &Appointment{Status: tt.status}
		if got := a.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal() with status %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}

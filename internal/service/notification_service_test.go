package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/echanneling/echanneling/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

type fakeMailSender struct {
	enabled bool
	sendErr error
	sent    []Message
}

func (f *fakeMailSender) Enabled() bool {
	return f.enabled
}

func (f *fakeMailSender) Send(ctx context.Context, msg Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeEventSink struct {
	outcome  Outcome
	subjects []string
}

func (f *fakeEventSink) Publish(subject string, payload interface{}) Outcome {
	f.subjects = append(f.subjects, subject)
	return f.outcome
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestNotifyAppointmentCompleted(t *testing.T) {
	appointment := &entity.Appointment{
		AppointmentNumber: "AP-20260115-0000A1",
		PatientName:       "Nimal Perera",
		PatientEmail:      "nimal@example.com",
	}

	tests := []struct {
		name        string
		mail        *fakeMailSender
		appointment *entity.Appointment
		want        Outcome
		wantSends   int
	}{
		{
			name:        "delivered",
			mail:        &fakeMailSender{enabled: true},
			appointment: appointment,
			want:        OutcomeDelivered,
			wantSends:   1,
		},
		{
			name:        "skipped when mail disabled",
			mail:        &fakeMailSender{enabled: false},
			appointment: appointment,
			want:        OutcomeSkipped,
			wantSends:   0,
		},
		{
			name:        "skipped without patient email",
			mail:        &fakeMailSender{enabled: true},
			appointment: &entity.Appointment{AppointmentNumber: "AP-20260115-0000A2"},
			want:        OutcomeSkipped,
			wantSends:   0,
		},
		{
			name:        "failed on send error",
			mail:        &fakeMailSender{enabled: true, sendErr: errors.New("smtp down")},
			appointment: appointment,
			want:        OutcomeFailed,
			wantSends:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewNotificationService(tt.mail, &fakeEventSink{outcome: OutcomeDelivered}, testLogger())

			got := s.NotifyAppointmentCompleted(context.Background(), tt.appointment, nil)
			if got != tt.want {
				t.Errorf("NotifyAppointmentCompleted() = %q, want %q", got, tt.want)
			}
			if len(tt.mail.sent) != tt.wantSends {
				t.Errorf("sent %d mails, want %d", len(tt.mail.sent), tt.wantSends)
			}
		})
	}
}

func TestNotifyAppointmentCompletedIncludesPrescription(t *testing.T) {
	mail := &fakeMailSender{enabled: true}
	s := NewNotificationService(mail, &fakeEventSink{outcome: OutcomeDelivered}, testLogger())

	appointment := &entity.Appointment{
		AppointmentNumber: "AP-20260115-0000B1",
		PatientName:       "Kamala Silva",
		PatientEmail:      "kamala@example.com",
	}
	prescription := &entity.Prescription{
		PrescriptionNumber: "RX-20260115-0000B1",
		DoctorName:         "Dr. Fernando",
		Medications:        "Amoxicillin 500mg",
		Instructions:       "Three times daily after meals",
	}

	if got := s.NotifyAppointmentCompleted(context.Background(), appointment, prescription); got != OutcomeDelivered {
		t.Fatalf("NotifyAppointmentCompleted() = %q, want %q", got, OutcomeDelivered)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}

	body := mail.sent[0].Body
	for _, fragment := range []string{"RX-20260115-0000B1", "Amoxicillin 500mg", "Three times daily"} {
		if !strings.Contains(body, fragment) {
			t.Errorf("mail body missing %q", fragment)
		}
	}
}

func TestNotifyStaffOnboarded(t *testing.T) {
	mail := &fakeMailSender{enabled: true}
	s := NewNotificationService(mail, &fakeEventSink{outcome: OutcomeDelivered}, testLogger())

	got := s.NotifyStaffOnboarded(context.Background(), "nurse@example.com", "Sandun Perera", "Asiri Central")
	if got != OutcomeDelivered {
		t.Errorf("NotifyStaffOnboarded() = %q, want %q", got, OutcomeDelivered)
	}
	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}
	if !strings.Contains(mail.sent[0].Subject, "Asiri Central") {
		t.Errorf("subject %q missing hospital name", mail.sent[0].Subject)
	}

	if got := s.NotifyStaffOnboarded(context.Background(), "", "Nameless", "Asiri Central"); got != OutcomeSkipped {
		t.Errorf("NotifyStaffOnboarded() without email = %q, want %q", got, OutcomeSkipped)
	}
}

func TestPublishEvent(t *testing.T) {
	sink := &fakeEventSink{outcome: OutcomeDelivered}
	s := NewNotificationService(&fakeMailSender{}, sink, testLogger())

	if got := s.PublishEvent("appointment.created", map[string]interface{}{"id": "x"}); got != OutcomeDelivered {
		t.Errorf("PublishEvent() = %q, want %q", got, OutcomeDelivered)
	}
	if len(sink.subjects) != 1 || sink.subjects[0] != "appointment.created" {
		t.Errorf("published subjects = %v", sink.subjects)
	}

	failing := &fakeEventSink{outcome: OutcomeFailed}
	s = NewNotificationService(&fakeMailSender{}, failing, testLogger())
	if got := s.PublishEvent("appointment.created", nil); got != OutcomeFailed {
		t.Errorf("PublishEvent() = %q, want %q", got, OutcomeFailed)
	}
}

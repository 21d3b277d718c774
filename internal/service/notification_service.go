package service

import (
	"context"
	"fmt"
	"time"

	"github.com/echanneling/echanneling/internal/domain/entity"
	"github.com/echanneling/echanneling/pkg/mailer"

	"github.com/sirupsen/logrus"
)

const notifyTimeout = 15 * time.Second

// MailSender is the slice of pkg/mailer the dispatcher needs.
type MailSender interface {
	Enabled() bool
	Send(ctx context.Context, msg Message) error
}

// Message mirrors mailer.Message so fakes do not need the mailer package.
type Message = mailer.Message

// NotificationService is the best-effort dispatcher for email and bus events.
// Every method returns an Outcome and never an error: a failed notification
// must not roll back or fail the mutation that triggered it.
type NotificationService struct {
	mail   MailSender
	events EventSink
	log    *logrus.Logger
}

func NewNotificationService(mail MailSender, events EventSink, log *logrus.Logger) *NotificationService {
	return &NotificationService{
		mail:   mail,
		events: events,
		log:    log,
	}
}

// NotifyAppointmentCompleted emails the patient after their visit is marked
// served, attaching the latest prescription summary when one exists.
func (s *NotificationService) NotifyAppointmentCompleted(ctx context.Context, appointment *entity.Appointment, prescription *entity.Prescription) Outcome {
	if appointment.PatientEmail == "" {
		return OutcomeSkipped
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nYour appointment %s has been completed. Thank you for using eChanneling.\n",
		appointment.PatientName, appointment.AppointmentNumber,
	)
	if prescription != nil {
		body += fmt.Sprintf(
			"\nPrescription %s (issued by %s):\n%s\n",
			prescription.PrescriptionNumber, prescription.DoctorName, prescription.Medications,
		)
		if prescription.Instructions != "" {
			body += fmt.Sprintf("\nInstructions: %s\n", prescription.Instructions)
		}
	}

	return s.send(ctx, Message{
		To:      appointment.PatientEmail,
		Subject: fmt.Sprintf("Appointment %s completed", appointment.AppointmentNumber),
		Body:    body,
	})
}

// NotifyStaffOnboarded emails a newly created staff member.
func (s *NotificationService) NotifyStaffOnboarded(ctx context.Context, email, fullName, hospitalName string) Outcome {
	if email == "" {
		return OutcomeSkipped
	}

	return s.send(ctx, Message{
		To:      email,
		Subject: fmt.Sprintf("Welcome to %s on eChanneling", hospitalName),
		Body: fmt.Sprintf(
			"Dear %s,\n\nYou have been registered as staff of %s on the eChanneling platform.\n",
			fullName, hospitalName,
		),
	})
}

// PublishEvent forwards a domain event to the bus.
func (s *NotificationService) PublishEvent(subject string, payload map[string]interface{}) Outcome {
	outcome := s.events.Publish(subject, payload)
	if outcome == OutcomeFailed {
		s.log.Warnf("Event %s not delivered", subject)
	}
	return outcome
}

func (s *NotificationService) send(ctx context.Context, msg Message) Outcome {
	if !s.mail.Enabled() {
		return OutcomeSkipped
	}

	// Detach from the request context so a client disconnect after commit
	// cannot abort the send mid-flight.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.mail.Send(sendCtx, msg); err != nil {
		s.log.Warnf("Failed to send mail to %s: %+v", msg.To, err)
		return OutcomeFailed
	}
	return OutcomeDelivered
}

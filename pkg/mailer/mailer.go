package mailer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/echanneling/echanneling/config"

	"gopkg.in/gomail.v2"
)

// ErrDisabled is returned when SMTP is switched off by configuration.
// Callers treat it as "skipped", not as a delivery failure.
var ErrDisabled = errors.New("mailer is disabled")

type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends plain-text transactional mail over SMTP. Sends are bounded by
// the configured timeout and the caller's context, whichever is sooner.
type Mailer struct {
	cfg config.SMTPConfig
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	to := strings.TrimSpace(msg.To)
	if to == "" {
		return errors.New("recipient is required")
	}
	if strings.TrimSpace(msg.Subject) == "" {
		return errors.New("subject is required")
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.cfg.From)
	mail.SetHeader("To", to)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(mail)
	}()

	wait := m.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 && d < wait {
			wait = d
		}
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return context.DeadlineExceeded
	}
}

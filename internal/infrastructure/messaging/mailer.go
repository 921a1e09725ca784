package messaging

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/spf-lend/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SMTPMailer sends borrower-facing mail over plain SMTP with AUTH PLAIN.
// When disabled it drops messages silently; callers treat the send as
// succeeded so a missing mail server never blocks a ledger operation.
type SMTPMailer struct {
	cfg    config.MailConfig
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	logger *zap.Logger
}

// NewSMTPMailer creates an SMTP mailer
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		send:   smtp.SendMail,
		logger: logger,
	}
}

// SendEmail delivers one message. The context is accepted for interface
// symmetry; net/smtp offers no cancellation hook.
func (m *SMTPMailer) SendEmail(_ context.Context, to, subject, body string) error {
	if !m.cfg.Enabled {
		m.logger.Debug("Mail disabled, dropping message", zap.String("to", to))
		return nil
	}
	if to == "" {
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

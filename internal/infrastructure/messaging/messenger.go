package messaging

import (
	"context"

	"github.com/spf-lend/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Messenger bundles the mail and text channels behind one implementation.
// It satisfies both the reminder and the penalty-notice messenger
// interfaces.
type Messenger struct {
	mailer   *SMTPMailer
	whatsapp *WhatsAppClient
}

// NewMessenger creates the combined borrower messenger
func NewMessenger(mailCfg config.MailConfig, whatsappCfg config.WhatsAppConfig, logger *zap.Logger) *Messenger {
	return &Messenger{
		mailer:   NewSMTPMailer(mailCfg, logger.Named("mail")),
		whatsapp: NewWhatsAppClient(whatsappCfg, logger.Named("whatsapp")),
	}
}

// SendEmail delivers one mail message
func (m *Messenger) SendEmail(ctx context.Context, to, subject, body string) error {
	return m.mailer.SendEmail(ctx, to, subject, body)
}

// SendText delivers one text message
func (m *Messenger) SendText(ctx context.Context, phone, message string) error {
	return m.whatsapp.SendText(ctx, phone, message)
}

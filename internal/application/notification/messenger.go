package notification

import "context"

// Messenger sends outward-facing messages to borrowers over the two
// channels the office uses. Implementations live in infrastructure.
type Messenger interface {
	SendEmail(ctx context.Context, to, subject, body string) error
	SendText(ctx context.Context, phone, message string) error
}

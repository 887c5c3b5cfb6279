package notifications

import "context"

// Notifier delivers a message to a customer's WhatsApp
type Notifier interface {
	Send(ctx context.Context, msg *Message) (*Receipt, error)
}

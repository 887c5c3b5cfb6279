package notifications

import (
	"context"
	"time"

	"github.com/richxcame/carwash-booking/pkg/logger"
	"go.uber.org/zap"
)

// LogNotifier writes messages to the log instead of sending them. Used when
// WhatsApp delivery is disabled.
type LogNotifier struct {
	defaultLang string
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(defaultLang string) *LogNotifier {
	return &LogNotifier{defaultLang: defaultLang}
}

// Send implements Notifier
func (l *LogNotifier) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	body, err := Render(msg, l.defaultLang)
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("whatsapp delivery disabled, message logged",
		zap.String("notification_id", msg.ID),
		zap.String("template", string(msg.Template)),
		zap.String("body", body),
	)
	return &Receipt{ID: msg.ID, Status: StatusSent, SentAt: time.Now()}, nil
}

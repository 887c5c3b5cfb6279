package notifications

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"github.com/richxcame/carwash-booking/pkg/resilience"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// Dispatcher hands messages to a Notifier off the request path. Each message
// gets its id before it is queued so callers can return it immediately.
type Dispatcher struct {
	notifier Notifier
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher for notifier
func NewDispatcher(notifier Notifier) *Dispatcher {
	return &Dispatcher{notifier: notifier}
}

// NewMessageID returns a fresh outbound message id
func NewMessageID() string {
	return idPrefix + uuid.NewString()
}

// Enqueue assigns msg an id and sends it in the background. Delivery
// failures are logged and never reach the caller.
func (d *Dispatcher) Enqueue(ctx context.Context, msg *Message) string {
	if msg.ID == "" {
		msg.ID = NewMessageID()
	}

	// detach from the request so delivery outlives it
	sendCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.deliver(sendCtx, msg)
	}()

	return msg.ID
}

// Send delivers msg synchronously
func (d *Dispatcher) Send(ctx context.Context, msg *Message) (*Receipt, error) {
	if msg.ID == "" {
		msg.ID = NewMessageID()
	}
	receipt, err := d.notifier.Send(ctx, msg)
	if err != nil {
		deliveriesTotal.WithLabelValues(string(msg.Template), StatusFailed).Inc()
		return nil, err
	}
	deliveriesTotal.WithLabelValues(string(msg.Template), receipt.Status).Inc()
	return receipt, nil
}

// Wait blocks until queued deliveries finish or ctx is done
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg *Message) {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, err := d.Send(ctx, msg); err != nil {
		log := logger.WithContext(ctx).With(
			zap.String("notification_id", msg.ID),
			zap.String("template", string(msg.Template)),
		)
		if errors.Is(err, resilience.ErrCircuitOpen) {
			log.Warn("whatsapp channel unavailable, message dropped", zap.Error(err))
			return
		}
		log.Error("failed to send whatsapp message", zap.Error(err))
	}
}

package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"go.uber.org/zap"
)

// Subjects published by the booking core
const (
	SubjectBookingCreated       = "bookings.created"
	SubjectBookingStatusChanged = "bookings.status_changed"
	SubjectFleetLeadCreated     = "fleet_leads.created"
)

const correlationHeader = "X-Request-ID"

// Event is the envelope written to every subject
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Publisher publishes domain events
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// NewEvent wraps data in an envelope
func NewEvent(source, subject string, data interface{}) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event data: %w", err)
	}
	return &Event{
		ID:        uuid.New().String(),
		Type:      subject,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      raw,
	}, nil
}

// Bus publishes events to NATS
type Bus struct {
	conn   *nats.Conn
	source string
}

// Connect opens a NATS connection that reconnects forever
func Connect(url, source string) (*Bus, error) {
	conn, err := nats.Connect(url,
		nats.Name(source),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &Bus{conn: conn, source: source}, nil
}

// Publish sends data on subject inside an Event envelope
func (b *Bus) Publish(ctx context.Context, subject string, data interface{}) error {
	event, err := NewEvent(b.source, subject, data)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = payload
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		msg.Header.Set(correlationHeader, id)
	}

	if err := b.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

// HealthCheck reports whether the connection is up
func (b *Bus) HealthCheck(ctx context.Context) error {
	if !b.conn.IsConnected() {
		return fmt.Errorf("nats status %s", b.conn.Status())
	}
	return nil
}

// Close drains pending messages and closes the connection
func (b *Bus) Close() {
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
	}
}

// Noop discards events. Used when NATS is disabled.
type Noop struct{}

// Publish implements Publisher
func (Noop) Publish(ctx context.Context, subject string, data interface{}) error {
	return nil
}

// PublishAsync publishes without blocking the caller. Failures are logged.
func PublishAsync(ctx context.Context, p Publisher, subject string, data interface{}) {
	if p == nil {
		return
	}
	id := logger.CorrelationIDFromContext(ctx)
	go func() {
		pubCtx, cancel := context.WithTimeout(logger.ContextWithCorrelationID(context.Background(), id), 5*time.Second)
		defer cancel()
		if err := p.Publish(pubCtx, subject, data); err != nil {
			logger.WithContext(pubCtx).Warn("failed to publish event",
				zap.String("subject", subject),
				zap.Error(err),
			)
		}
	}()
}

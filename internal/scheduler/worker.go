// Package scheduler runs the periodic booking jobs. Today that is the
// appointment reminder sent ahead of each confirmed wash.
package scheduler

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/richxcame/carwash-booking/internal/notifications"
	"github.com/richxcame/carwash-booking/pkg/i18n"
	"go.uber.org/zap"
)

const (
	defaultInterval = 10 * time.Minute
	defaultLeadTime = 24 * time.Hour
	batchSize       = 100
	timeLayout      = "15:04"
)

var remindersTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_reminders_total",
		Help: "Appointment reminders by outcome",
	},
	[]string{"outcome"},
)

// Config tunes the reminder worker
type Config struct {
	Interval    time.Duration
	LeadTime    time.Duration
	DefaultLang string
	Location    *time.Location
}

// Worker sends appointment reminders for confirmed bookings
type Worker struct {
	db         Database
	logger     *zap.Logger
	dispatcher Dispatcher
	cfg        Config
	now        func() time.Time
	done       chan struct{}
}

// NewWorker creates a reminder worker. Zero config values take defaults.
func NewWorker(db Database, logger *zap.Logger, dispatcher Dispatcher, cfg Config) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.LeadTime <= 0 {
		cfg.LeadTime = defaultLeadTime
	}
	if cfg.DefaultLang == "" {
		cfg.DefaultLang = i18n.DefaultLang
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Worker{
		db:         db,
		logger:     logger,
		dispatcher: dispatcher,
		cfg:        cfg,
		now:        time.Now,
		done:       make(chan struct{}),
	}
}

// Start scans once immediately and then every interval until Stop is
// called or ctx is done. It blocks.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("reminder worker started",
		zap.Duration("interval", w.cfg.Interval),
		zap.Duration("lead_time", w.cfg.LeadTime),
	)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.sendReminders(ctx)
	for {
		select {
		case <-ticker.C:
			w.sendReminders(ctx)
		case <-w.done:
			w.logger.Info("reminder worker stopped")
			return
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped", zap.Error(ctx.Err()))
			return
		}
	}
}

// Stop ends the Start loop. It must be called at most once.
func (w *Worker) Stop() {
	close(w.done)
}

type dueBooking struct {
	id      int64
	phone   string
	nameAr  string
	nameEn  string
	startAt time.Time
}

func (w *Worker) sendReminders(ctx context.Context) {
	now := w.now()
	due, err := w.dueBookings(ctx, now, now.Add(w.cfg.LeadTime))
	if err != nil {
		w.logger.Error("failed to query due reminders", zap.Error(err))
		remindersTotal.WithLabelValues("error").Inc()
		return
	}

	for _, b := range due {
		claimed, err := w.claim(ctx, b.id)
		if err != nil {
			w.logger.Error("failed to claim reminder", zap.Int64("booking_id", b.id), zap.Error(err))
			remindersTotal.WithLabelValues("error").Inc()
			continue
		}
		if !claimed {
			remindersTotal.WithLabelValues("skipped").Inc()
			continue
		}
		w.remind(ctx, b)
	}
}

func (w *Worker) dueBookings(ctx context.Context, from, to time.Time) ([]dueBooking, error) {
	rows, err := w.db.Query(ctx, `
		SELECT b.id, c.phone, s.name_ar, s.name_en, b.scheduled_window_start
		FROM bookings b
		JOIN customers c ON c.id = b.customer_id
		JOIN services s ON s.id = b.service_id
		WHERE b.status = 'confirmed'
		  AND b.reminder_sent_at IS NULL
		  AND b.scheduled_window_start > $1
		  AND b.scheduled_window_start <= $2
		ORDER BY b.scheduled_window_start
		LIMIT $3`, from, to, batchSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var due []dueBooking
	for rows.Next() {
		var b dueBooking
		if err := rows.Scan(&b.id, &b.phone, &b.nameAr, &b.nameEn, &b.startAt); err != nil {
			return nil, err
		}
		due = append(due, b)
	}
	return due, rows.Err()
}

// claim marks the reminder as sent. Only one instance wins a booking.
func (w *Worker) claim(ctx context.Context, id int64) (bool, error) {
	tag, err := w.db.Exec(ctx, `
		UPDATE bookings SET reminder_sent_at = NOW()
		WHERE id = $1 AND reminder_sent_at IS NULL`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (w *Worker) remind(ctx context.Context, b dueBooking) {
	if w.dispatcher == nil {
		remindersTotal.WithLabelValues("skipped").Inc()
		return
	}

	lang := w.cfg.DefaultLang
	name := b.nameAr
	if lang == "en" {
		name = b.nameEn
	}

	id := w.dispatcher.Enqueue(ctx, &notifications.Message{
		Phone:    b.phone,
		Template: notifications.TemplateReminder,
		Lang:     lang,
		Vars: map[string]string{
			"service_name": name,
			"time":         b.startAt.In(w.cfg.Location).Format(timeLayout),
		},
	})
	remindersTotal.WithLabelValues("sent").Inc()
	w.logger.Info("reminder queued", zap.Int64("booking_id", b.id), zap.String("notification_id", id))
}

package scheduler

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/richxcame/carwash-booking/internal/notifications"
)

// Database defines the database operations required by the scheduler worker.
// *pgxpool.Pool satisfies it.
type Database interface {
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

// Dispatcher queues customer notifications
type Dispatcher interface {
	Enqueue(ctx context.Context, msg *notifications.Message) string
}

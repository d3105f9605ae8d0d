package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

// NotificationHandler receives the payload of a NOTIFY on the listened channel.
type NotificationHandler func(ctx context.Context, payload string)

// Listener holds a dedicated connection in LISTEN mode and re-establishes it
// after a fixed delay when it drops.
type Listener struct {
	db         *DB
	channel    string
	retryDelay time.Duration
	handler    NotificationHandler
}

func NewListener(db *DB, channel string, retryDelay time.Duration, handler NotificationHandler) *Listener {
	return &Listener{
		db:         db,
		channel:    channel,
		retryDelay: retryDelay,
		handler:    handler,
	}
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			slog.Info("Database listener stopped", "channel", l.channel)
			return
		}
		slog.Warn("Database listener disconnected, retrying", "channel", l.channel, "error", err, "retry_in", l.retryDelay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.retryDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", l.channel, err)
	}
	slog.Info("Database listener connected", "channel", l.channel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("failed to wait for notification: %w", err)
		}
		l.handler(ctx, n.Payload)
	}
}

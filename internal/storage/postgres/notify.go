package postgres

import (
	"context"
	"database/sql"

	"jamesfarrell.me/video-to-content/internal/errs"
)

// Notifier publishes payloads on a LISTEN/NOTIFY channel.
type Notifier struct {
	db      *sql.DB
	channel string
}

func NewNotifier(db *sql.DB, channel string) *Notifier {
	return &Notifier{db: db, channel: channel}
}

func (n *Notifier) Publish(ctx context.Context, payload string) error {
	if _, err := n.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, n.channel, payload); err != nil {
		return errs.E(errs.CodeIO, "postgres.publish", "notify "+n.channel, err)
	}
	return nil
}

// Package sqlite stores the moderation audit log in an embedded SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"moderation-assistant/internal/core/domain"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS moderation_audit (
	id          TEXT PRIMARY KEY,
	action      TEXT NOT NULL,
	guild_id    TEXT NOT NULL,
	channel_id  TEXT NOT NULL,
	actor_id    TEXT NOT NULL,
	target_id   TEXT NOT NULL,
	reason      TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS moderation_audit_created_at ON moderation_audit (created_at);`

// DSNPrefix marks an AUDIT_DSN that points at a SQLite file.
const DSNPrefix = "sqlite:"

// AuditLog writes audit entries through database/sql. Timestamps are
// stored as RFC 3339 text in UTC so they sort lexically.
type AuditLog struct {
	db *sql.DB
}

// Open opens or creates the database named by dsn, which may carry the
// "sqlite:" prefix. ":memory:" gives a private in-memory database.
func Open(ctx context.Context, dsn string) (*AuditLog, error) {
	path := strings.TrimPrefix(strings.TrimPrefix(dsn, DSNPrefix), "//")
	if path == "" {
		return nil, fmt.Errorf("sqlite audit dsn has no path: %q", dsn)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create audit table: %w", err)
	}

	return &AuditLog{db: db}, nil
}

func (s *AuditLog) Close() {
	_ = s.db.Close()
}

func (s *AuditLog) Record(ctx context.Context, e domain.AuditEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO moderation_audit (id, action, guild_id, channel_id, actor_id, target_id, reason, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Action, e.GuildID, e.ChannelID, e.ActorID, e.TargetID, e.Reason, e.Outcome,
		formatTime(e.CreatedAt),
	); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return tx.Commit()
}

// Recent returns up to limit entries, newest first.
func (s *AuditLog) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, guild_id, channel_id, actor_id, target_id, reason, outcome, created_at
		FROM moderation_audit
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e       domain.AuditEntry
			created string
		)
		if err := rows.Scan(
			&e.ID, &e.Action, &e.GuildID, &e.ChannelID, &e.ActorID,
			&e.TargetID, &e.Reason, &e.Outcome, &created,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Prune deletes entries created before cutoff and reports how many went.
func (s *AuditLog) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM moderation_audit WHERE created_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune audit entries: %w", err)
	}
	return res.RowsAffected()
}

// formatTime uses a fixed-width layout so string comparison matches time
// order.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

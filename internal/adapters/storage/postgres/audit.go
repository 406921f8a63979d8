package postgres

import (
	"context"
	"fmt"
	"time"

	"moderation-assistant/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgxpool.Pool the audit log uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error)
}

const createTable = `
CREATE TABLE IF NOT EXISTS moderation_audit (
	id          UUID PRIMARY KEY,
	action      TEXT NOT NULL,
	guild_id    TEXT NOT NULL,
	channel_id  TEXT NOT NULL,
	actor_id    TEXT NOT NULL,
	target_id   TEXT NOT NULL,
	reason      TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
)`

const insertEntry = `
INSERT INTO moderation_audit (id, action, guild_id, channel_id, actor_id, target_id, reason, outcome, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const selectRecent = `
SELECT id::text, action, guild_id, channel_id, actor_id, target_id, reason, outcome, created_at
FROM moderation_audit
ORDER BY created_at DESC
LIMIT $1`

const deleteBefore = `DELETE FROM moderation_audit WHERE created_at < $1`

type AuditLog struct {
	pool *pgxpool.Pool
	db   DBTX
}

func NewAuditLog(ctx context.Context, connString string) (*AuditLog, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &AuditLog{pool: pool, db: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *AuditLog) migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create audit table: %w", err)
	}
	return nil
}

func (s *AuditLog) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *AuditLog) Record(ctx context.Context, e domain.AuditEntry) error {
	_, err := s.db.Exec(ctx, insertEntry,
		e.ID, e.Action, e.GuildID, e.ChannelID, e.ActorID, e.TargetID, e.Reason, e.Outcome, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *AuditLog) Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	rows, err := s.db.Query(ctx, selectRecent, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(
			&e.ID, &e.Action, &e.GuildID, &e.ChannelID, &e.ActorID,
			&e.TargetID, &e.Reason, &e.Outcome, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}

// Prune deletes entries created before cutoff and reports how many went.
func (s *AuditLog) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteBefore, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune audit entries: %w", err)
	}
	return tag.RowsAffected(), nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"moderation-assistant/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type statement struct {
	sql  string
	args []any
}

// fakeDB implements DBTX. It records every statement and answers with the
// configured tag, rows and errors.
type fakeDB struct {
	statements []statement

	tag      pgconn.CommandTag
	execErr  error
	rows     *auditRows
	queryErr error
}

func (f *fakeDB) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	f.statements = append(f.statements, statement{sql: sql, args: arguments})
	return f.tag, f.execErr
}

func (f *fakeDB) Query(ctx context.Context, sql string, arguments ...interface{}) (pgx.Rows, error) {
	f.statements = append(f.statements, statement{sql: sql, args: arguments})
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.rows == nil {
		f.rows = &auditRows{}
	}
	return f.rows, nil
}

func (f *fakeDB) last() statement {
	if len(f.statements) == 0 {
		return statement{}
	}
	return f.statements[len(f.statements)-1]
}

// auditRows implements pgx.Rows over moderation_audit entries, in the
// column order of selectRecent.
type auditRows struct {
	entries []domain.AuditEntry
	pos     int
	err     error
	closed  bool
}

func (r *auditRows) Close()     { r.closed = true }
func (r *auditRows) Err() error { return r.err }

func (r *auditRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *auditRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *auditRows) Next() bool {
	if r.err != nil || r.pos >= len(r.entries) {
		return false
	}
	r.pos++
	return true
}

func (r *auditRows) Scan(dest ...interface{}) error {
	if len(dest) != 9 {
		return fmt.Errorf("scan expects 9 columns, got %d", len(dest))
	}
	e := r.entries[r.pos-1]

	columns := []string{e.ID, e.Action, e.GuildID, e.ChannelID, e.ActorID, e.TargetID, e.Reason, e.Outcome}
	for i, v := range columns {
		p, ok := dest[i].(*string)
		if !ok {
			return fmt.Errorf("column %d: expected *string, got %T", i, dest[i])
		}
		*p = v
	}

	p, ok := dest[8].(*time.Time)
	if !ok {
		return fmt.Errorf("column 8: expected *time.Time, got %T", dest[8])
	}
	*p = e.CreatedAt
	return nil
}

func (r *auditRows) Values() ([]any, error) { return nil, nil }
func (r *auditRows) RawValues() [][]byte    { return nil }

func (r *auditRows) Conn() *pgx.Conn { return nil }

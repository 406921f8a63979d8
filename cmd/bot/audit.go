package main

import (
	"context"
	"strings"

	"moderation-assistant/internal/adapters/storage/postgres"
	"moderation-assistant/internal/adapters/storage/sqlite"
	"moderation-assistant/internal/core/ports"
	"moderation-assistant/internal/core/services"

	"github.com/m-mizutani/goerr/v2"
)

var (
	errNoAuditDSN         = goerr.New("AUDIT_DSN is not set")
	errUnsupportedAuditDB = goerr.New("unsupported audit database")
)

type auditBackend interface {
	ports.AuditLog
	ports.AuditReader
}

// openAuditLog returns a no-op log when dsn is empty; auditing is opt-in.
func openAuditLog(ctx context.Context, dsn string) (ports.AuditLog, error) {
	if dsn == "" {
		return services.NopAuditLog{}, nil
	}
	return openAuditBackend(ctx, dsn)
}

func openAuditBackend(ctx context.Context, dsn string) (auditBackend, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		log, err := postgres.NewAuditLog(ctx, dsn)
		if err != nil {
			return nil, goerr.Wrap(err, "open postgres audit log")
		}
		return log, nil
	case strings.HasPrefix(dsn, sqlite.DSNPrefix):
		log, err := sqlite.Open(ctx, dsn)
		if err != nil {
			return nil, goerr.Wrap(err, "open sqlite audit log")
		}
		return log, nil
	default:
		return nil, goerr.Wrap(errUnsupportedAuditDB, "open audit log")
	}
}

package ports

import (
	"context"
	"time"

	"moderation-assistant/internal/core/domain"
)

// DocumentStore persists the configuration document. Implementations read
// through on every Load; there is no cache.
type DocumentStore interface {
	Load(ctx context.Context) (*domain.Document, error)
	Save(ctx context.Context, doc *domain.Document) error
}

// Moderator is the subset of the chat platform's administrative API the
// moderation commands use.
type Moderator interface {
	SetChannelPermission(ctx context.Context, channelID, roleID string, access domain.ChannelAccess) error
	CloneChannel(ctx context.Context, channelID string) (source, clone *domain.Channel, err error)
	DeleteChannel(ctx context.Context, channelID string) error
	RepositionChannel(ctx context.Context, channelID string, position int) error

	// TimeoutMember applies a timeout ending at until; nil clears it.
	TimeoutMember(ctx context.Context, guildID, userID string, until *time.Time) error
	RemoveMember(ctx context.Context, guildID, userID, reason string) error

	// FetchBan returns nil, nil when the user has no ban record.
	FetchBan(ctx context.Context, guildID, userID string) (*domain.Ban, error)
	LiftBan(ctx context.Context, guildID, userID string) error
}

type AuditLog interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
	Close()
}

// AuditReader is implemented by the database backed audit logs for
// offline inspection.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]domain.AuditEntry, error)
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

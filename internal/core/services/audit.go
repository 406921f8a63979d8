package services

import (
	"context"
	"time"

	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/core/ports"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
)

// NopAuditLog discards entries. It is used when no audit backend is set.
type NopAuditLog struct{}

func (NopAuditLog) Record(context.Context, domain.AuditEntry) error { return nil }
func (NopAuditLog) Close()                                          {}

type auditor struct {
	log ports.AuditLog
	now func() time.Time
}

// record never fails the command it describes; backend errors are logged.
func (a auditor) record(ctx context.Context, act domain.Action, action, targetID, reason string, err error) {
	entry := domain.AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		GuildID:   act.GuildID,
		ChannelID: act.ChannelID,
		ActorID:   act.ActorID,
		TargetID:  targetID,
		Reason:    reason,
		Outcome:   domain.OutcomeSuccess,
		CreatedAt: a.now().UTC(),
	}
	if err != nil {
		entry.Outcome = domain.OutcomeFailure
	}

	if recErr := a.log.Record(ctx, entry); recErr != nil {
		ctxlog.From(ctx).Warn("Failed to record audit entry",
			"error", recErr,
			"action", action,
			"target_id", targetID,
		)
	}
}

package services

import (
	"context"
	"math"
	"time"

	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/core/ports"

	"github.com/disgoorg/snowflake/v2"
	"github.com/m-mizutani/goerr/v2"
)

// ModerationService runs the moderation commands against a Moderator.
// Every platform failure comes back wrapped as domain.ErrExternalCall.
type ModerationService struct {
	moderator ports.Moderator
	audit     auditor
	now       func() time.Time
}

func NewModerationService(moderator ports.Moderator, audit ports.AuditLog) *ModerationService {
	if audit == nil {
		audit = NopAuditLog{}
	}
	return &ModerationService{
		moderator: moderator,
		audit:     auditor{log: audit, now: time.Now},
		now:       time.Now,
	}
}

// LockChannel denies the default role send and thread permissions in the
// action's channel. The default role shares its id with the guild.
func (s *ModerationService) LockChannel(ctx context.Context, act domain.Action) error {
	err := s.moderator.SetChannelPermission(ctx, act.ChannelID, act.GuildID, domain.AccessLocked)
	return s.finish(ctx, act, "channel_lock", act.ChannelID, "", err)
}

func (s *ModerationService) UnlockChannel(ctx context.Context, act domain.Action) error {
	err := s.moderator.SetChannelPermission(ctx, act.ChannelID, act.GuildID, domain.AccessInherited)
	return s.finish(ctx, act, "channel_unlock", act.ChannelID, "", err)
}

// NukeChannel replaces the action's channel with a fresh copy at the same
// position and returns the copy.
func (s *ModerationService) NukeChannel(ctx context.Context, act domain.Action) (*domain.Channel, error) {
	source, clone, err := s.moderator.CloneChannel(ctx, act.ChannelID)
	if err != nil {
		return nil, s.finish(ctx, act, "channel_nuke", act.ChannelID, "", err)
	}

	if err := s.moderator.DeleteChannel(ctx, source.ID); err != nil {
		return nil, s.finish(ctx, act, "channel_nuke", act.ChannelID, "", err)
	}

	if err := s.moderator.RepositionChannel(ctx, clone.ID, source.Position); err != nil {
		return nil, s.finish(ctx, act, "channel_nuke", act.ChannelID, "", err)
	}
	clone.Position = source.Position

	return clone, s.finish(ctx, act, "channel_nuke", act.ChannelID, "", nil)
}

// maxMuteMinutes is the longest duration a time.Duration can hold.
const maxMuteMinutes = math.MaxInt64 / int64(time.Minute)

// Mute times the member out for the given number of minutes and returns
// when the timeout ends.
func (s *ModerationService) Mute(ctx context.Context, act domain.Action, userID string, minutes int64) (time.Time, error) {
	if minutes <= 0 || minutes > maxMuteMinutes {
		return time.Time{}, goerr.Wrap(domain.ErrInvalidDuration, "mute member", goerr.V("minutes", minutes))
	}

	until := s.now().Add(time.Duration(minutes) * time.Minute)
	err := s.moderator.TimeoutMember(ctx, act.GuildID, userID, &until)
	return until, s.finish(ctx, act, "user_mute", userID, "", err)
}

func (s *ModerationService) Unmute(ctx context.Context, act domain.Action, userID string) error {
	err := s.moderator.TimeoutMember(ctx, act.GuildID, userID, nil)
	return s.finish(ctx, act, "user_unmute", userID, "", err)
}

// Ban removes the member from the guild with a reason. It does not create a
// ban record, so the user can rejoin; the command has always behaved as a
// kick and keeps doing so until someone decides otherwise.
func (s *ModerationService) Ban(ctx context.Context, act domain.Action, userID, reason string) error {
	err := s.moderator.RemoveMember(ctx, act.GuildID, userID, reason)
	return s.finish(ctx, act, "user_ban", userID, reason, err)
}

// Unban lifts the ban on the user in raw. It returns domain.ErrNotBanned
// without touching the ban list when no record exists.
func (s *ModerationService) Unban(ctx context.Context, act domain.Action, raw string) (snowflake.ID, error) {
	id, err := ParseID(raw)
	if err != nil {
		return 0, err
	}

	ban, err := s.moderator.FetchBan(ctx, act.GuildID, id.String())
	if err != nil {
		return id, s.finish(ctx, act, "user_unban", id.String(), "", err)
	}
	if ban == nil {
		return id, goerr.Wrap(domain.ErrNotBanned, "unban user", goerr.V("user_id", id.String()))
	}

	err = s.moderator.LiftBan(ctx, act.GuildID, id.String())
	return id, s.finish(ctx, act, "user_unban", id.String(), "", err)
}

func (s *ModerationService) Kick(ctx context.Context, act domain.Action, userID string) error {
	err := s.moderator.RemoveMember(ctx, act.GuildID, userID, "")
	return s.finish(ctx, act, "user_kick", userID, "", err)
}

// finish records the outcome and turns a platform error into
// domain.ErrExternalCall.
func (s *ModerationService) finish(ctx context.Context, act domain.Action, action, targetID, reason string, err error) error {
	s.audit.record(ctx, act, action, targetID, reason, err)
	if err == nil {
		return nil
	}
	return goerr.Wrap(domain.ErrExternalCall, action,
		goerr.V("cause", err.Error()),
		goerr.V("guild_id", act.GuildID),
		goerr.V("target_id", targetID),
	)
}

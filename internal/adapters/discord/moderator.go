package discord

import (
	"context"
	"errors"
	"time"

	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/ctxlog"
)

// NukeReason is the audit log reason attached to a nuked channel's copy.
const NukeReason = "Channel nuked and replaced"

// LockedPermissions are the bits a lock denies to the default role.
const LockedPermissions int64 = discordgo.PermissionSendMessages |
	discordgo.PermissionManageThreads |
	discordgo.PermissionCreatePublicThreads |
	discordgo.PermissionCreatePrivateThreads

type ModerationSession interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelPermissionSet(channelID, targetID string, targetType discordgo.PermissionOverwriteType, allow, deny int64, options ...discordgo.RequestOption) error
	ChannelPermissionDelete(channelID, targetID string, options ...discordgo.RequestOption) error
	GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelEdit(channelID string, data *discordgo.ChannelEdit, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildMemberTimeout(guildID, userID string, until *time.Time, options ...discordgo.RequestOption) error
	GuildMemberDeleteWithReason(guildID, userID, reason string, options ...discordgo.RequestOption) error
	GuildBan(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.GuildBan, error)
	GuildBanDelete(guildID, userID string, options ...discordgo.RequestOption) error
}

// Moderator implements ports.Moderator on top of a discordgo session.
type Moderator struct {
	session ModerationSession
}

func NewModerator(session ModerationSession) *Moderator {
	return &Moderator{session: session}
}

// SetChannelPermission rewrites only the locked bits of roleID's overwrite
// and leaves any other bits the overwrite carries alone. An overwrite left
// empty by an unlock is deleted so the channel inherits again.
func (m *Moderator) SetChannelPermission(ctx context.Context, channelID, roleID string, access domain.ChannelAccess) error {
	ch, err := m.session.Channel(channelID, discordgo.WithContext(ctx))
	if err := m.track(ctx, "channel_get", err); err != nil {
		return err
	}

	var (
		allow, deny int64
		exists      bool
	)
	for _, o := range ch.PermissionOverwrites {
		if o.ID == roleID && o.Type == discordgo.PermissionOverwriteTypeRole {
			allow, deny, exists = o.Allow, o.Deny, true
			break
		}
	}

	allow &^= LockedPermissions
	if access == domain.AccessLocked {
		deny |= LockedPermissions
	} else {
		deny &^= LockedPermissions
	}

	if allow == 0 && deny == 0 {
		if !exists {
			return nil
		}
		err := m.session.ChannelPermissionDelete(channelID, roleID, discordgo.WithContext(ctx))
		return m.track(ctx, "channel_permission_delete", err)
	}

	err = m.session.ChannelPermissionSet(channelID, roleID, discordgo.PermissionOverwriteTypeRole, allow, deny, discordgo.WithContext(ctx))
	return m.track(ctx, "channel_permission_set", err)
}

// CloneChannel creates a copy of the channel with the same name, topic,
// category and permission overwrites.
func (m *Moderator) CloneChannel(ctx context.Context, channelID string) (*domain.Channel, *domain.Channel, error) {
	src, err := m.session.Channel(channelID, discordgo.WithContext(ctx))
	if err := m.track(ctx, "channel_get", err); err != nil {
		return nil, nil, err
	}

	clone, err := m.session.GuildChannelCreateComplex(src.GuildID, discordgo.GuildChannelCreateData{
		Name:                 src.Name,
		Type:                 src.Type,
		Topic:                src.Topic,
		Bitrate:              src.Bitrate,
		UserLimit:            src.UserLimit,
		RateLimitPerUser:     src.RateLimitPerUser,
		Position:             src.Position,
		PermissionOverwrites: src.PermissionOverwrites,
		ParentID:             src.ParentID,
		NSFW:                 src.NSFW,
	}, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(NukeReason))
	if err := m.track(ctx, "channel_create", err); err != nil {
		return nil, nil, err
	}

	return toChannel(src), toChannel(clone), nil
}

func (m *Moderator) DeleteChannel(ctx context.Context, channelID string) error {
	_, err := m.session.ChannelDelete(channelID, discordgo.WithContext(ctx), discordgo.WithAuditLogReason(NukeReason))
	return m.track(ctx, "channel_delete", err)
}

func (m *Moderator) RepositionChannel(ctx context.Context, channelID string, position int) error {
	_, err := m.session.ChannelEdit(channelID, &discordgo.ChannelEdit{Position: &position}, discordgo.WithContext(ctx))
	return m.track(ctx, "channel_edit", err)
}

func (m *Moderator) TimeoutMember(ctx context.Context, guildID, userID string, until *time.Time) error {
	err := m.session.GuildMemberTimeout(guildID, userID, until, discordgo.WithContext(ctx))
	return m.track(ctx, "member_timeout", err)
}

func (m *Moderator) RemoveMember(ctx context.Context, guildID, userID, reason string) error {
	err := m.session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx))
	return m.track(ctx, "member_remove", err)
}

func (m *Moderator) FetchBan(ctx context.Context, guildID, userID string) (*domain.Ban, error) {
	ban, err := m.session.GuildBan(guildID, userID, discordgo.WithContext(ctx))
	if isUnknownBan(err) {
		metrics.DiscordRequests.WithLabelValues("ban_get", "not_found").Inc()
		return nil, nil
	}
	if err := m.track(ctx, "ban_get", err); err != nil {
		return nil, err
	}

	return &domain.Ban{UserID: userID, Reason: ban.Reason}, nil
}

func (m *Moderator) LiftBan(ctx context.Context, guildID, userID string) error {
	err := m.session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx))
	return m.track(ctx, "ban_delete", err)
}

func (m *Moderator) track(ctx context.Context, operation string, err error) error {
	metrics.DiscordRequests.WithLabelValues(operation, metrics.Status(err)).Inc()
	if err != nil {
		ctxlog.From(ctx).Warn("Discord request failed", "operation", operation, "error", err)
	}
	return err
}

// isUnknownBan reports whether Discord answered that the user has no ban.
// Other 404s, such as an unknown guild, stay errors.
func isUnknownBan(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Message == nil {
		return false
	}
	switch restErr.Message.Code {
	case discordgo.ErrCodeUnknownBan, discordgo.ErrCodeUnknownUser:
		return true
	default:
		return false
	}
}

func toChannel(c *discordgo.Channel) *domain.Channel {
	return &domain.Channel{
		ID:       c.ID,
		GuildID:  c.GuildID,
		Name:     c.Name,
		Position: c.Position,
	}
}

package commands

import (
	"context"
	"errors"
	"log/slog"

	"moderation-assistant/internal/adapters/discord/formatting"
	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/core/services"
	"moderation-assistant/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/m-mizutani/ctxlog"
)

type BotHandler struct {
	Whitelist  *services.WhitelistService
	Moderation *services.ModerationService
}

// Register binds every slash command to its handler.
func (h *BotHandler) Register(r *Router) {
	r.Register(CmdChannelLock, h.ChannelLock)
	r.Register(CmdChannelUnlock, h.ChannelUnlock)
	r.Register(CmdChannelNuke, h.ChannelNuke)
	r.Register(CmdUserMute, h.UserMute)
	r.Register(CmdUserUnmute, h.UserUnmute)
	r.Register(CmdUserBan, h.UserBan)
	r.Register(CmdUserUnban, h.UserUnban)
	r.Register(CmdUserKick, h.UserKick)
	r.Register(CmdWhitelistedMembers, h.WhitelistedMembers)
	r.Register(CmdAddWhitelisted, h.AddWhitelisted)
	r.Register(CmdRemoveWhitelisted, h.RemoveWhitelisted)
}

func ReadyHandler(session *discordgo.Session, ready *discordgo.Ready) {
	slog.Info("Moderation assistant is online!", "user", ready.User.Username, "guilds", len(ready.Guilds))
}

func (h *BotHandler) ChannelLock(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	if err := h.Moderation.LockChannel(ctx, action(i)); err != nil {
		return fail(ctx, s, i, err, formatting.MsgLockFailed)
	}

	respondCard(ctx, s, i, renderer(ctx).Success(formatting.TitleChannelLock, formatting.MsgChannelLocked), false)
	return nil
}

func (h *BotHandler) ChannelUnlock(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	if err := h.Moderation.UnlockChannel(ctx, action(i)); err != nil {
		return fail(ctx, s, i, err, formatting.MsgUnlockFailed)
	}

	respondCard(ctx, s, i, renderer(ctx).Success(formatting.TitleChannelUnlock, formatting.MsgChannelUnlocked), false)
	return nil
}

// ChannelNuke announces the result in the new channel. The interaction's
// channel is gone by then, so there is nothing left to reply in.
func (h *BotHandler) ChannelNuke(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	act := action(i)

	// Cloning and deleting can outlast the response window. On success the
	// deferred reply disappears with the old channel.
	deferEphemeral(ctx, s, i)

	clone, err := h.Moderation.NukeChannel(ctx, act)
	if err != nil {
		if !errors.Is(err, domain.ErrExternalCall) {
			return err
		}
		ctxlog.From(ctx).Error("Moderation call failed", "error", err)
		metrics.CommandRejections.WithLabelValues(CmdChannelNuke, "external_call").Inc()
		editCard(ctx, s, i, renderer(ctx).Warning(formatting.TitleError, formatting.MsgNukeFailed))
		return nil
	}

	card := renderer(ctx).Success(formatting.TitleNuked, formatting.MsgNuked(clone.ID, act.ActorID))
	if _, err := s.ChannelMessageSendEmbed(clone.ID, formatting.Embed(card), discordgo.WithContext(ctx)); err != nil {
		ctxlog.From(ctx).Error("Failed to announce nuke", "channel_id", clone.ID, "error", err)
	}
	return nil
}

func (h *BotHandler) UserMute(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	opts := i.ApplicationCommandData().Options
	userID := getUserOption(opts, optMember)
	minutes := getIntOption(opts, optDuration)

	_, err := h.Moderation.Mute(ctx, action(i), userID, minutes)
	if errors.Is(err, domain.ErrInvalidDuration) {
		return reject(ctx, s, i, "invalid_duration", formatting.TitleInvalidDuration, formatting.MsgInvalidDuration)
	}
	if err != nil {
		return fail(ctx, s, i, err, formatting.MsgMuteFailed)
	}

	respondCard(ctx, s, i, renderer(ctx).Success(formatting.TitleMuted, formatting.MsgMuted(userID, minutes)), true)
	return nil
}

func (h *BotHandler) UserUnmute(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	userID := getUserOption(i.ApplicationCommandData().Options, optMember)

	if err := h.Moderation.Unmute(ctx, action(i), userID); err != nil {
		return fail(ctx, s, i, err, formatting.MsgUnmuteFailed)
	}

	respondCard(ctx, s, i, renderer(ctx).Success(formatting.TitleUnmuted, formatting.MsgUnmuted(userID)), true)
	return nil
}

// UserBan removes the member with a reason; see ModerationService.Ban for
// why that is not a real ban.
func (h *BotHandler) UserBan(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	opts := i.ApplicationCommandData().Options
	userID := getUserOption(opts, optMember)
	reason := getStringOption(opts, optReason)

	if err := h.Moderation.Ban(ctx, action(i), userID, reason); err != nil {
		return fail(ctx, s, i, err, formatting.MsgBanFailed)
	}

	respondCard(ctx, s, i, renderer(ctx).Success(formatting.TitleBanned, formatting.MsgBanned(userID, reason)), true)
	return nil
}

func (h *BotHandler) UserUnban(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	raw := getStringOption(i.ApplicationCommandData().Options, optUserID)

	id, err := h.Moderation.Unban(ctx, action(i), raw)
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return reject(ctx, s, i, "invalid_id", formatting.TitleInvalidID, formatting.MsgInvalidID)
	case errors.Is(err, domain.ErrNotBanned):
		return reject(ctx, s, i, "not_banned", formatting.TitleNotBanned, formatting.MsgNotBanned(id.String()))
	case err != nil:
		return fail(ctx, s, i, err, formatting.MsgUnbanFailed)
	}

	respondCard(ctx, s, i, renderer(ctx).Success(formatting.TitleUnbanned, formatting.MsgUnbanned(id.String())), true)
	return nil
}

func (h *BotHandler) UserKick(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	userID := getUserOption(i.ApplicationCommandData().Options, optMember)

	if err := h.Moderation.Kick(ctx, action(i), userID); err != nil {
		return fail(ctx, s, i, err, formatting.MsgKickFailed)
	}

	respondCard(ctx, s, i, renderer(ctx).Success(formatting.TitleKicked, formatting.MsgKicked(userID)), true)
	return nil
}

// WhitelistedMembers lists from the snapshot the gate already loaded rather
// than reading the document a second time.
func (h *BotHandler) WhitelistedMembers(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	var ids []snowflake.ID
	if doc := documentFrom(ctx); doc != nil {
		ids = doc.Whitelist
	} else {
		var err error
		if ids, err = h.Whitelist.List(ctx); err != nil {
			return err
		}
	}

	respondCard(ctx, s, i, renderer(ctx).Info(formatting.TitleWhitelistList, formatting.MsgWhitelist(ids)), true)
	return nil
}

func (h *BotHandler) AddWhitelisted(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	raw := getStringOption(i.ApplicationCommandData().Options, optUserID)

	id, err := h.Whitelist.Add(ctx, action(i), raw)
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return reject(ctx, s, i, "invalid_id", formatting.TitleInvalidID, formatting.MsgInvalidID)
	case errors.Is(err, domain.ErrAlreadyWhitelisted):
		return reject(ctx, s, i, "already_whitelisted", formatting.TitleWhitelist, formatting.MsgAlreadyWhitelisted(id.String()))
	case err != nil:
		return err
	}

	respondCard(ctx, s, i, renderer(ctx).Success(formatting.TitleWhitelist, formatting.MsgWhitelistAdded(id.String())), true)
	return nil
}

func (h *BotHandler) RemoveWhitelisted(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
	raw := getStringOption(i.ApplicationCommandData().Options, optUserID)

	id, err := h.Whitelist.Remove(ctx, action(i), raw)
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		return reject(ctx, s, i, "invalid_id", formatting.TitleInvalidID, formatting.MsgInvalidID)
	case errors.Is(err, domain.ErrNotWhitelisted):
		return reject(ctx, s, i, "not_whitelisted", formatting.TitleWhitelist, formatting.MsgNotWhitelisted(id.String()))
	case err != nil:
		return err
	}

	respondCard(ctx, s, i, renderer(ctx).Success(formatting.TitleWhitelist, formatting.MsgWhitelistRemoved(id.String())), true)
	return nil
}

func action(i *discordgo.InteractionCreate) domain.Action {
	return domain.Action{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		ActorID:   callerID(i),
	}
}

// reject answers a validation failure with a warning card.
func reject(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate, reason, title, msg string) error {
	metrics.CommandRejections.WithLabelValues(i.ApplicationCommandData().Name, reason).Inc()
	respondCard(ctx, s, i, renderer(ctx).Warning(title, msg), true)
	return nil
}

// fail answers a platform failure with a fixed error card. Anything else is
// handed back to the Router.
func fail(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate, err error, msg string) error {
	if !errors.Is(err, domain.ErrExternalCall) {
		return err
	}

	ctxlog.From(ctx).Error("Moderation call failed", "error", err)
	return reject(ctx, s, i, "external_call", formatting.TitleError, msg)
}

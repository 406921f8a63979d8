package commands

import (
	"context"

	"moderation-assistant/internal/adapters/discord/formatting"
	"moderation-assistant/internal/core/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/ctxlog"
)

type documentKey struct{}

func withDocument(ctx context.Context, doc *domain.Document) context.Context {
	return context.WithValue(ctx, documentKey{}, doc)
}

// documentFrom returns nil when no snapshot was stored.
func documentFrom(ctx context.Context) *domain.Document {
	doc, _ := ctx.Value(documentKey{}).(*domain.Document)
	return doc
}

func renderer(ctx context.Context) formatting.Renderer {
	return formatting.NewRenderer(documentFrom(ctx))
}

func respond(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData, ephemeral bool) {
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}, discordgo.WithContext(ctx))
	if err != nil {
		ctxlog.From(ctx).Error("Failed to respond to interaction", "error", err)
	}
}

// deferEphemeral acknowledges the interaction with a private "thinking"
// state for handlers that outlast the response window.
func deferEphemeral(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}, discordgo.WithContext(ctx))
	if err != nil {
		ctxlog.From(ctx).Error("Failed to defer interaction", "error", err)
	}
}

// editCard replaces a deferred response with card.
func editCard(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate, card domain.Card) {
	embeds := []*discordgo.MessageEmbed{formatting.Embed(card)}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Embeds: &embeds}, discordgo.WithContext(ctx)); err != nil {
		ctxlog.From(ctx).Error("Failed to edit interaction response", "error", err)
	}
}

func respondCard(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate, card domain.Card, ephemeral bool) {
	respond(ctx, s, i, &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{formatting.Embed(card)},
	}, ephemeral)
}

func respondText(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate, msg string, ephemeral bool) {
	respond(ctx, s, i, &discordgo.InteractionResponseData{Content: msg}, ephemeral)
}

// callerID works for guild interactions, where the user sits on Member, and
// for direct messages, where it sits on User.
func callerID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func findOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range opts {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

func getStringOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt := findOption(opts, name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
		return ""
	}
	return opt.StringValue()
}

// getUserOption returns the snowflake of a user option without resolving
// it, so no session is needed.
func getUserOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt := findOption(opts, name)
	if opt == nil {
		return ""
	}
	id, _ := opt.Value.(string)
	return id
}

func getIntOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) int64 {
	opt := findOption(opts, name)
	if opt == nil || opt.Type != discordgo.ApplicationCommandOptionInteger {
		return 0
	}
	return opt.IntValue()
}

package commands

import (
	"context"
	"errors"
	"time"

	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/core/services"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

const (
	ownerID    = "111111111111111111"
	strangerID = "999999999999999999"
	targetID   = "222222222222222222"
	guildID    = "333333333333333333"
	channelID  = "444444444444444444"
)

type sentEmbed struct {
	channelID string
	embed     *discordgo.MessageEmbed
}

type mockDiscordSession struct {
	lastInteractionResponse *discordgo.InteractionResponse
	responses               int
	sent                    []sentEmbed
	edits                   []*discordgo.WebhookEdit
	respondErr              error
}

func (m *mockDiscordSession) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, opts ...discordgo.RequestOption) error {
	m.lastInteractionResponse = resp
	m.responses++
	return m.respondErr
}

func (m *mockDiscordSession) InteractionResponseEdit(i *discordgo.Interaction, edit *discordgo.WebhookEdit, opts ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.edits = append(m.edits, edit)
	return &discordgo.Message{}, nil
}

func (m *mockDiscordSession) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, opts ...discordgo.RequestOption) (*discordgo.Message, error) {
	m.sent = append(m.sent, sentEmbed{channelID: channelID, embed: embed})
	return &discordgo.Message{ChannelID: channelID}, nil
}

// lastEmbed returns the single embed of the last interaction response.
func (m *mockDiscordSession) lastEmbed() *discordgo.MessageEmbed {
	if m.lastInteractionResponse == nil || len(m.lastInteractionResponse.Data.Embeds) != 1 {
		return nil
	}
	return m.lastInteractionResponse.Data.Embeds[0]
}

func (m *mockDiscordSession) ephemeral() bool {
	return m.lastInteractionResponse != nil &&
		m.lastInteractionResponse.Data.Flags&discordgo.MessageFlagsEphemeral != 0
}

type memoryStore struct {
	doc     domain.Document
	loadErr error
	saveErr error
	saves   int
}

func (m *memoryStore) Load(ctx context.Context) (*domain.Document, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	doc := m.doc
	doc.Whitelist = append([]snowflake.ID(nil), m.doc.Whitelist...)
	return &doc, nil
}

func (m *memoryStore) Save(ctx context.Context, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.doc = *doc
	m.doc.Whitelist = append([]snowflake.ID(nil), doc.Whitelist...)
	return nil
}

func newStore(ids ...snowflake.ID) *memoryStore {
	return &memoryStore{doc: domain.Document{
		EmbedColor: 0x5865F2,
		FooterText: "Moderation",
		Glyphs:     domain.Glyphs{Dot: "•", Success: "✅", Warning: "⚠️"},
		Whitelist:  ids,
	}}
}

var errPlatform = errors.New("discord: 403 Forbidden")

type mockModerator struct {
	calls []string
	err   error
	ban   *domain.Ban
	until *time.Time
}

func (m *mockModerator) SetChannelPermission(ctx context.Context, channelID, roleID string, access domain.ChannelAccess) error {
	m.calls = append(m.calls, "SetChannelPermission")
	return m.err
}

func (m *mockModerator) CloneChannel(ctx context.Context, channelID string) (*domain.Channel, *domain.Channel, error) {
	m.calls = append(m.calls, "CloneChannel")
	if m.err != nil {
		return nil, nil, m.err
	}
	return &domain.Channel{ID: channelID, GuildID: guildID, Name: "general", Position: 4},
		&domain.Channel{ID: "555555555555555555", GuildID: guildID, Name: "general"},
		nil
}

func (m *mockModerator) DeleteChannel(ctx context.Context, channelID string) error {
	m.calls = append(m.calls, "DeleteChannel")
	return m.err
}

func (m *mockModerator) RepositionChannel(ctx context.Context, channelID string, position int) error {
	m.calls = append(m.calls, "RepositionChannel")
	return m.err
}

func (m *mockModerator) TimeoutMember(ctx context.Context, guildID, userID string, until *time.Time) error {
	m.calls = append(m.calls, "TimeoutMember")
	m.until = until
	return m.err
}

func (m *mockModerator) RemoveMember(ctx context.Context, guildID, userID, reason string) error {
	m.calls = append(m.calls, "RemoveMember")
	return m.err
}

func (m *mockModerator) FetchBan(ctx context.Context, guildID, userID string) (*domain.Ban, error) {
	m.calls = append(m.calls, "FetchBan")
	if m.err != nil {
		return nil, m.err
	}
	return m.ban, nil
}

func (m *mockModerator) LiftBan(ctx context.Context, guildID, userID string) error {
	m.calls = append(m.calls, "LiftBan")
	return m.err
}

// newTestRouter wires the production handler set over in-memory ports.
func newTestRouter(store *memoryStore, moderator *mockModerator) *Router {
	whitelist := services.NewWhitelistService(store, nil)
	router := NewRouter(WithWhitelist(whitelist))
	handler := &BotHandler{
		Whitelist:  whitelist,
		Moderation: services.NewModerationService(moderator, nil),
	}
	handler.Register(router)
	return router
}

func makeInteraction(name string, iType discordgo.InteractionType) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: iType,
			Data: discordgo.ApplicationCommandInteractionData{Name: name},
		},
	}
}

func commandFrom(caller, name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   guildID,
			ChannelID: channelID,
			Member:    &discordgo.Member{User: &discordgo.User{ID: caller}},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
		},
	}
}

func userOpt(name, id string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionUser, Value: id}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

// intOpt carries a float64 like a decoded interaction payload does.
func intOpt(name string, value int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

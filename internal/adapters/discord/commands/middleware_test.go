package commands

import (
	"context"
	"errors"
	"testing"

	"moderation-assistant/internal/adapters/discord/formatting"
	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/core/services"
	"moderation-assistant/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestWithWhitelist_AllowsWhitelistedCaller(t *testing.T) {
	store := newStore(snowflake.ID(111111111111111111))
	session := &mockDiscordSession{}

	var gotDoc *domain.Document
	handler := WithWhitelist(services.NewWhitelistService(store, nil))(
		func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
			gotDoc = documentFrom(ctx)
			return nil
		})

	if err := handler(context.Background(), session, commandFrom(ownerID, "test")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotDoc == nil {
		t.Fatal("handler should receive the document snapshot")
	}
	if gotDoc.FooterText != "Moderation" {
		t.Errorf("expected the stored document, got footer %q", gotDoc.FooterText)
	}
	if session.lastInteractionResponse != nil {
		t.Error("no response should be sent for a whitelisted caller")
	}
}

func TestWithWhitelist_DeniesOtherCallers(t *testing.T) {
	store := newStore(snowflake.ID(111111111111111111))
	session := &mockDiscordSession{}
	before := testutil.ToFloat64(metrics.CommandDenials.WithLabelValues("denied-test"))

	called := false
	handler := WithWhitelist(services.NewWhitelistService(store, nil))(
		func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
			called = true
			return nil
		})

	if err := handler(context.Background(), session, commandFrom(strangerID, "denied-test")); err != nil {
		t.Fatalf("denial should not be reported as a fault: %v", err)
	}

	if called {
		t.Error("handler should NOT be called for a caller outside the whitelist")
	}
	assertDeniedResponse(t, session)

	if got := testutil.ToFloat64(metrics.CommandDenials.WithLabelValues("denied-test")) - before; got != 1 {
		t.Errorf("expected one denial to be counted, got %v", got)
	}
}

func TestWithWhitelist_DeniesCallerWithoutUser(t *testing.T) {
	store := newStore(snowflake.ID(111111111111111111))
	session := &mockDiscordSession{}

	called := false
	handler := WithWhitelist(services.NewWhitelistService(store, nil))(
		func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
			called = true
			return nil
		})

	handler(context.Background(), session, makeInteraction("test", discordgo.InteractionApplicationCommand))

	if called {
		t.Error("handler should NOT be called without a caller")
	}
	assertDeniedResponse(t, session)
}

func TestWithWhitelist_UsesDirectMessageUser(t *testing.T) {
	store := newStore(snowflake.ID(111111111111111111))
	i := makeInteraction("test", discordgo.InteractionApplicationCommand)
	i.User = &discordgo.User{ID: ownerID}

	called := false
	handler := WithWhitelist(services.NewWhitelistService(store, nil))(
		func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
			called = true
			return nil
		})

	handler(context.Background(), &mockDiscordSession{}, i)

	if !called {
		t.Error("handler should be called for a whitelisted direct message caller")
	}
}

func TestWithWhitelist_PropagatesConfigErrors(t *testing.T) {
	store := newStore()
	store.loadErr = domain.ErrConfigUnreadable
	session := &mockDiscordSession{}

	handler := WithWhitelist(services.NewWhitelistService(store, nil))(
		func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
			t.Error("handler should not run when the document cannot be read")
			return nil
		})

	err := handler(context.Background(), session, commandFrom(ownerID, "test"))
	if !errors.Is(err, domain.ErrConfigUnreadable) {
		t.Fatalf("expected ErrConfigUnreadable, got %v", err)
	}
	if session.lastInteractionResponse != nil {
		t.Error("the router, not the middleware, answers config faults")
	}
}

func TestWithWhitelist_RereadsDocumentEveryCall(t *testing.T) {
	store := newStore()
	gate := WithWhitelist(services.NewWhitelistService(store, nil))

	calls := 0
	handler := gate(func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
		calls++
		return nil
	})

	handler(context.Background(), &mockDiscordSession{}, commandFrom(ownerID, "test"))
	store.doc.Whitelist = []snowflake.ID{111111111111111111}
	handler(context.Background(), &mockDiscordSession{}, commandFrom(ownerID, "test"))

	if calls != 1 {
		t.Errorf("expected the edit to apply to the second call only, got %d calls", calls)
	}
}

func assertDeniedResponse(t *testing.T, session *mockDiscordSession) {
	t.Helper()

	embed := session.lastEmbed()
	if embed == nil {
		t.Fatal("expected a denial card")
	}
	if embed.Title != formatting.TitleDenied {
		t.Errorf("expected title %q, got %q", formatting.TitleDenied, embed.Title)
	}
	if embed.Description != "⚠️ "+formatting.MsgDenied {
		t.Errorf("unexpected denial text %q", embed.Description)
	}
	if !session.ephemeral() {
		t.Error("denial should be ephemeral")
	}
}

package commands

import (
	"context"
	"errors"

	"moderation-assistant/internal/adapters/discord/formatting"
	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/m-mizutani/ctxlog"
)

type Middleware func(CommandHandler) CommandHandler

// Gate checks a caller against the current whitelist.
type Gate interface {
	Authorize(ctx context.Context, callerID string) (*domain.Document, error)
}

// WithWhitelist refuses callers outside the whitelist with the denial card
// before the handler runs. Authorized handlers find the document snapshot
// used for the check in their context.
func WithWhitelist(gate Gate) Middleware {
	return func(next CommandHandler) CommandHandler {
		return func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error {
			doc, err := gate.Authorize(ctx, callerID(i))
			if errors.Is(err, domain.ErrUnauthorized) {
				name := i.ApplicationCommandData().Name
				metrics.CommandDenials.WithLabelValues(name).Inc()
				ctxlog.From(ctx).Warn("Caller is not whitelisted")
				respondCard(ctx, s, i, formatting.NewRenderer(doc).Denied(), true)
				return nil
			}
			if err != nil {
				return err
			}

			return next(withDocument(ctx, doc), s, i)
		}
	}
}

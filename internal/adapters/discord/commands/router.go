package commands

import (
	"context"
	"log/slog"
	"time"

	"moderation-assistant/internal/adapters/discord/formatting"
	"moderation-assistant/internal/metrics"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
)

// CommandHandler runs one slash command. Errors it returns are faults the
// handler could not turn into a card; the Router answers them generically.
type CommandHandler func(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) error

type Router struct {
	routes     map[string]CommandHandler
	middleware []Middleware
}

// NewRouter applies middleware to every handler registered afterwards, the
// first middleware being the outermost.
func NewRouter(middleware ...Middleware) *Router {
	slog.Info("Router initialized", "middleware", len(middleware))
	return &Router{
		routes:     make(map[string]CommandHandler),
		middleware: middleware,
	}
}

func (r *Router) Register(name string, handler CommandHandler) {
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	r.routes[name] = handler
}

func (r *Router) Handle(ctx context.Context, s DiscordSession, i *discordgo.InteractionCreate) {
	if !isCommandInteraction(i.Type) {
		return
	}

	name := i.ApplicationCommandData().Name

	handler, ok := r.routes[name]
	if !ok {
		slog.Warn("No handler found for command", "name", name)
		return
	}

	logger := ctxlog.From(ctx).With(
		"command", name,
		"caller_id", callerID(i),
		"guild_id", i.GuildID,
		"channel_id", i.ChannelID,
		"invocation_id", uuid.NewString(),
	)
	ctx = ctxlog.With(ctx, logger)
	logger.Info("Router received interaction")

	start := time.Now()
	err := handler(ctx, s, i)
	metrics.CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	metrics.CommandsHandled.WithLabelValues(name, metrics.Status(err)).Inc()

	if err != nil {
		logger.Error("Command failed", "error", err)
		respondText(ctx, s, i, formatting.MsgInternalError, true)
	}
}

// HandleFunc adapts the Router to a discordgo event handler. ctx is the
// process context; cancelling it aborts in-flight invocations.
func (r *Router) HandleFunc(ctx context.Context) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		r.Handle(ctx, s, i)
	}
}

func isCommandInteraction(t discordgo.InteractionType) bool {
	return t == discordgo.InteractionApplicationCommand
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"moderation-assistant/internal/adapters/discord"
	"moderation-assistant/internal/adapters/discord/commands"
	"moderation-assistant/internal/adapters/storage/document"
	"moderation-assistant/internal/config"
	"moderation-assistant/internal/core/ports"
	"moderation-assistant/internal/core/services"
	"moderation-assistant/internal/metrics"

	"github.com/bwmarrin/discordgo"
)

type App struct {
	config             *config.Config
	discord            *discordgo.Session
	router             *commands.Router
	audit              ports.AuditLog
	metricsServer      *http.Server
	retentionCancel    context.CancelFunc
	registeredCommands []*discordgo.ApplicationCommand
}

// NewApp loads the configuration document once to fail fast on a broken
// file and to find the token when no override is set. Commands reload it on
// every call.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := document.NewStore(cfg.DocumentPath)
	if err != nil {
		return nil, err
	}

	doc, err := store.Load(ctx)
	if err != nil {
		slog.Error("Failed to load configuration document", "path", cfg.DocumentPath, "error", err)
		return nil, err
	}

	token := cfg.Token
	if token == "" {
		token = doc.Token
	}
	if err := config.ValidateToken(token); err != nil {
		return nil, err
	}

	audit, err := openAuditLog(ctx, cfg.AuditDSN)
	if err != nil {
		slog.Error("Failed to open audit log", "error", err)
		return nil, err
	}

	session, err := discord.NewSession(token)
	if err != nil {
		audit.Close()
		return nil, err
	}

	whitelist := services.NewWhitelistService(store, audit)
	handler := &commands.BotHandler{
		Whitelist:  whitelist,
		Moderation: services.NewModerationService(discord.NewModerator(session), audit),
	}

	router := commands.NewRouter(commands.WithWhitelist(whitelist))
	handler.Register(router)

	session.AddHandler(commands.ReadyHandler)
	session.AddHandler(router.HandleFunc(ctx))

	return &App{
		config:  cfg,
		discord: session,
		router:  router,
		audit:   audit,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if err := a.discord.Open(); err != nil {
		slog.Error("Failed to open discord session", "error", err)
		return err
	}

	a.registeredCommands = commands.RegisterCommands(
		a.discord,
		commands.GetApplicationCommands(),
		a.discord.State.User.ID,
		a.config.DiscordGuildID,
	)

	a.startMetricsServer()
	a.startRetention(ctx)
	return nil
}

// startRetention prunes the audit log in the background when
// AUDIT_RETENTION is set and the backend supports it.
func (a *App) startRetention(ctx context.Context) {
	if a.config.AuditRetention <= 0 {
		return
	}

	reader, ok := a.audit.(ports.AuditReader)
	if !ok {
		slog.Warn("Audit backend does not support retention", "backend", fmt.Sprintf("%T", a.audit))
		return
	}

	ctx, a.retentionCancel = context.WithCancel(ctx)
	go services.NewRetentionService(reader, a.config.AuditRetention, 0).Start(ctx)
}

func (a *App) startMetricsServer() {
	if a.config.MetricsAddr == "" {
		return
	}

	a.metricsServer = metrics.NewServer(a.config.MetricsAddr)
	go func() {
		slog.Info("Metrics server listening", "addr", a.config.MetricsAddr)
		if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
}

func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down...")

	var errs []error

	if a.retentionCancel != nil {
		a.retentionCancel()
	}

	if a.discord != nil {
		if a.config.CleanupCommands && a.discord.State != nil && a.discord.State.User != nil {
			commands.CleanupCommands(a.discord, a.registeredCommands, a.discord.State.User.ID, a.config.DiscordGuildID)
		}
		if err := a.discord.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if a.audit != nil {
		a.audit.Close()
	}

	return errors.Join(errs...)
}

// runBot serves commands until a shutdown signal arrives, then gives
// cleanup at most cfg.ShutdownTimeout.
func runBot(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return err
	}

	defer func() {
		cancel()
		shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer stop()
		if err := app.Shutdown(shutdownCtx); err != nil {
			slog.Error("Application shutdown error", "error", err)
		}
	}()

	if err := app.Run(ctx); err != nil {
		return err
	}

	WaitForShutdown(ctx)
	return nil
}

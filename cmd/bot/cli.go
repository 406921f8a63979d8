package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"moderation-assistant/internal/adapters/storage/document"
	"moderation-assistant/internal/config"
	"moderation-assistant/internal/core/domain"
	"moderation-assistant/internal/core/services"
	"moderation-assistant/internal/logging"

	"github.com/disgoorg/snowflake/v2"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// cliActor is recorded as the actor of whitelist edits made offline.
const cliActor = "cli"

var errMissingID = goerr.New("a user id argument is required")

type options struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newCommand() *cli.Command {
	var opts options

	return &cli.Command{
		Name:  "moderation-assistant",
		Usage: "Discord moderation bot for a whitelist of trusted members",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Path to the configuration document (.json or .toml)",
				Sources:     cli.EnvVars("CONFIG_PATH"),
				Destination: &opts.configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Category:    "Logging",
				Value:       "info",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Destination: &opts.logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format (console, json, auto)",
				Category:    "Logging",
				Value:       logging.FormatAuto,
				Sources:     cli.EnvVars("LOG_FORMAT"),
				Destination: &opts.logFormat,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := logging.ParseLevel(opts.logLevel)
			if err != nil {
				return ctx, err
			}

			logger, err := logging.NewLogger(os.Stderr, level, opts.logFormat)
			if err != nil {
				return ctx, err
			}

			slog.SetDefault(logger)
			return ctxlog.With(ctx, logger), nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return runBot(ctx, opts.configPath)
		},
		Commands: []*cli.Command{
			whitelistCommand(&opts),
			auditCommand(&opts),
		},
	}
}

func whitelistCommand(opts *options) *cli.Command {
	return &cli.Command{
		Name:  "whitelist",
		Usage: "Inspect or edit the whitelist without starting the bot",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print the whitelisted user ids",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withWhitelist(ctx, opts, func(svc *services.WhitelistService) error {
						ids, err := svc.List(ctx)
						if err != nil {
							return err
						}
						w := c.Root().Writer
						if len(ids) == 0 {
							fmt.Fprintln(w, "No members are whitelisted.")
							return nil
						}
						for i, id := range ids {
							fmt.Fprintf(w, "%d. %s\n", i+1, id)
						}
						return nil
					})
				},
			},
			{
				Name:      "add",
				Usage:     "Whitelist a user id",
				ArgsUsage: "<user-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					return editWhitelist(ctx, c, opts, (*services.WhitelistService).Add, "Added %s to the whitelist\n")
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove a user id from the whitelist",
				ArgsUsage: "<user-id>",
				Action: func(ctx context.Context, c *cli.Command) error {
					return editWhitelist(ctx, c, opts, (*services.WhitelistService).Remove, "Removed %s from the whitelist\n")
				},
			},
		},
	}
}

type whitelistEdit func(*services.WhitelistService, context.Context, domain.Action, string) (snowflake.ID, error)

func editWhitelist(ctx context.Context, c *cli.Command, opts *options, edit whitelistEdit, format string) error {
	raw := c.Args().First()
	if raw == "" {
		return errMissingID
	}

	return withWhitelist(ctx, opts, func(svc *services.WhitelistService) error {
		id, err := edit(svc, ctx, domain.Action{ActorID: cliActor}, raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Root().Writer, format, id)
		return nil
	})
}

// withWhitelist builds the whitelist service the bot itself would use,
// audit log included, and closes it afterwards.
func withWhitelist(ctx context.Context, opts *options, fn func(*services.WhitelistService) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	store, err := document.NewStore(cfg.DocumentPath)
	if err != nil {
		return err
	}

	audit, err := openAuditLog(ctx, cfg.AuditDSN)
	if err != nil {
		return err
	}
	defer audit.Close()

	return fn(services.NewWhitelistService(store, audit))
}

func auditCommand(opts *options) *cli.Command {
	var (
		limit     int
		olderThan time.Duration
	)

	return &cli.Command{
		Name:  "audit",
		Usage: "Read or trim the moderation audit log named by AUDIT_DSN",
		Commands: []*cli.Command{
			{
				Name:  "recent",
				Usage: "Print the most recent audit entries",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "limit",
						Usage:       "Number of entries to print",
						Value:       20,
						Destination: &limit,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return withAuditBackend(ctx, opts, func(backend auditBackend) error {
						entries, err := backend.Recent(ctx, limit)
						if err != nil {
							return err
						}
						return printAuditEntries(c.Root().Writer, entries)
					})
				},
			},
			{
				Name:  "prune",
				Usage: "Delete audit entries older than a duration",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:        "older-than",
						Usage:       "Age past which entries are deleted",
						Value:       30 * 24 * time.Hour,
						Destination: &olderThan,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if olderThan <= 0 {
						return goerr.New("--older-than must be positive", goerr.V("older_than", olderThan))
					}
					return withAuditBackend(ctx, opts, func(backend auditBackend) error {
						n, err := backend.Prune(ctx, time.Now().Add(-olderThan))
						if err != nil {
							return err
						}
						fmt.Fprintf(c.Root().Writer, "Deleted %d audit entries\n", n)
						return nil
					})
				},
			},
		},
	}
}

func withAuditBackend(ctx context.Context, opts *options, fn func(auditBackend) error) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if cfg.AuditDSN == "" {
		return errNoAuditDSN
	}

	backend, err := openAuditBackend(ctx, cfg.AuditDSN)
	if err != nil {
		return err
	}
	defer backend.Close()

	return fn(backend)
}

func printAuditEntries(w io.Writer, entries []domain.AuditEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No audit entries.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tACTION\tACTOR\tTARGET\tOUTCOME\tREASON")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.UTC().Format(time.RFC3339), e.Action, e.ActorID, e.TargetID, e.Outcome, e.Reason)
	}
	return tw.Flush()
}

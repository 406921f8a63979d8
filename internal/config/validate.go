package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const (
	// Discord tokens are typically 50+ characters
	minTokenLength = 50

	minShutdownTimeout = 1 * time.Second
	maxShutdownTimeout = 5 * time.Minute

	minAuditRetention = time.Hour
)

var auditSchemes = []string{"postgres://", "postgresql://", "sqlite:"}

// Validate checks every setting and returns all failures at once using
// errors.Join.
//
// The token is optional here because the configuration document carries
// one; when an override is given it must look like a Discord token.
func (c *Config) Validate() error {
	var errs []error

	if err := c.validateDocumentPath(); err != nil {
		errs = append(errs, err)
	}

	if c.Token != "" {
		if err := ValidateToken(c.Token); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.validateGuildID(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateMetricsAddr(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateAuditDSN(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateAuditRetention(); err != nil {
		errs = append(errs, err)
	}

	if err := c.validateShutdownTimeout(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  %w", errors.Join(errs...))
	}

	return nil
}

// ValidateToken reports whether token is plausibly a Discord bot token.
func ValidateToken(token string) error {
	if token == "" {
		return fmt.Errorf("discord token is required but not set")
	}

	if len(token) < minTokenLength {
		return fmt.Errorf(
			"discord token appears invalid (too short: %d chars, expected %d+)",
			len(token), minTokenLength,
		)
	}

	return nil
}

func (c *Config) validateDocumentPath() error {
	if c.DocumentPath == "" {
		return fmt.Errorf("CONFIG_PATH cannot be empty")
	}

	switch strings.ToLower(filepath.Ext(c.DocumentPath)) {
	case ".json", ".toml":
		return nil
	default:
		return fmt.Errorf("CONFIG_PATH must end in .json or .toml, got %q", c.DocumentPath)
	}
}

func (c *Config) validateGuildID() error {
	if c.DiscordGuildID == "" {
		return nil
	}

	if _, err := snowflake.Parse(c.DiscordGuildID); err != nil {
		return fmt.Errorf("DISCORD_GUILD_ID must be a numeric id, got %q", c.DiscordGuildID)
	}

	return nil
}

func (c *Config) validateMetricsAddr() error {
	if c.MetricsAddr == "" {
		return nil
	}

	if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
		return fmt.Errorf("METRICS_ADDR must be host:port, got %q", c.MetricsAddr)
	}

	return nil
}

func (c *Config) validateAuditDSN() error {
	if c.AuditDSN == "" {
		return nil
	}

	for _, scheme := range auditSchemes {
		if strings.HasPrefix(c.AuditDSN, scheme) {
			return nil
		}
	}

	return fmt.Errorf("AUDIT_DSN must start with one of %s", strings.Join(auditSchemes, ", "))
}

// validateAuditRetention allows zero, which keeps entries forever.
func (c *Config) validateAuditRetention() error {
	if c.AuditRetention == 0 {
		return nil
	}

	if c.AuditRetention < minAuditRetention {
		return fmt.Errorf("AUDIT_RETENTION must be 0 or at least %v, got %v", minAuditRetention, c.AuditRetention)
	}

	if c.AuditDSN == "" {
		return fmt.Errorf("AUDIT_RETENTION requires AUDIT_DSN")
	}

	return nil
}

func (c *Config) validateShutdownTimeout() error {
	if c.ShutdownTimeout < minShutdownTimeout || c.ShutdownTimeout > maxShutdownTimeout {
		return fmt.Errorf(
			"SHUTDOWN_TIMEOUT must be between %v and %v, got %v",
			minShutdownTimeout, maxShutdownTimeout, c.ShutdownTimeout,
		)
	}

	return nil
}

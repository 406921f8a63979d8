package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDocumentPath is where the configuration document lives when
// neither --config nor CONFIG_PATH names another file.
const DefaultDocumentPath = "config.json"

// Config holds process-level settings. Display settings and the whitelist
// live in the configuration document, not here.
type Config struct {
	DocumentPath    string
	Token           string
	DiscordGuildID  string
	MetricsAddr     string
	AuditDSN        string
	AuditRetention  time.Duration
	ShutdownTimeout time.Duration
	CleanupCommands bool
}

// Load reads settings from the environment, Docker secrets and an optional
// .env file. documentPath wins over CONFIG_PATH when non-empty.
func Load(documentPath string) (*Config, error) {
	_ = godotenv.Load()

	if documentPath == "" {
		documentPath = envString("CONFIG_PATH", DefaultDocumentPath)
	}

	token := readSecret("discord_token")
	if token == "" {
		token = os.Getenv("DISCORD_TOKEN")
	}

	auditDSN := readSecret("audit_dsn")
	if auditDSN == "" {
		auditDSN = os.Getenv("AUDIT_DSN")
	}

	cfg := &Config{
		DocumentPath:    documentPath,
		Token:           token,
		DiscordGuildID:  envString("DISCORD_GUILD_ID", ""),
		MetricsAddr:     envString("METRICS_ADDR", ""),
		AuditDSN:        auditDSN,
		AuditRetention:  envDuration("AUDIT_RETENTION", 0),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		CleanupCommands: envBool("CLEANUP_COMMANDS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var secretsDir = "/run/secrets/"

func readSecret(name string) string {
	data, err := os.ReadFile(secretsDir + name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

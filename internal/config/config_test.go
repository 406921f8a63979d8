package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setEnv(map[string]string{
		"CONFIG_PATH":      "settings/moderation.toml",
		"DISCORD_TOKEN":    strings.Repeat("x", 60),
		"DISCORD_GUILD_ID": "123456",
		"METRICS_ADDR":     ":9090",
		"AUDIT_DSN":        "sqlite:audit.db",
		"AUDIT_RETENTION":  "720h",
		"SHUTDOWN_TIMEOUT": "30s",
		"CLEANUP_COMMANDS": "false",
	})
	defer clearEnv()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertEqual(t, "DocumentPath", "settings/moderation.toml", cfg.DocumentPath)
	assertEqual(t, "Token", strings.Repeat("x", 60), cfg.Token)
	assertEqual(t, "DiscordGuildID", "123456", cfg.DiscordGuildID)
	assertEqual(t, "MetricsAddr", ":9090", cfg.MetricsAddr)
	assertEqual(t, "AuditDSN", "sqlite:audit.db", cfg.AuditDSN)
	assertEqual(t, "AuditRetention", 720*time.Hour, cfg.AuditRetention)
	assertEqual(t, "ShutdownTimeout", 30*time.Second, cfg.ShutdownTimeout)
	assertEqual(t, "CleanupCommands", false, cfg.CleanupCommands)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertEqual(t, "DocumentPath", DefaultDocumentPath, cfg.DocumentPath)
	assertEqual(t, "Token", "", cfg.Token)
	assertEqual(t, "MetricsAddr", "", cfg.MetricsAddr)
	assertEqual(t, "AuditDSN", "", cfg.AuditDSN)
	assertEqual(t, "AuditRetention", time.Duration(0), cfg.AuditRetention)
	assertEqual(t, "ShutdownTimeout", 10*time.Second, cfg.ShutdownTimeout)
	assertEqual(t, "CleanupCommands", true, cfg.CleanupCommands)
}

func TestLoad_ExplicitPathWins(t *testing.T) {
	setEnv(map[string]string{"CONFIG_PATH": "env.json"})
	defer clearEnv()

	cfg, err := Load("flag.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEqual(t, "DocumentPath", "flag.toml", cfg.DocumentPath)
}

func TestLoad_InvalidConfig(t *testing.T) {
	setEnv(map[string]string{
		"DISCORD_TOKEN": strings.Repeat("x", 30),
		"AUDIT_DSN":     "mysql://localhost/audit",
	})
	defer clearEnv()

	cfg, err := Load("")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if cfg != nil {
		t.Error("config should be nil on error")
	}
	assertContains(t, err.Error(), "too short")
	assertContains(t, err.Error(), "AUDIT_DSN")
}

func TestReadSecret(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir := secretsDir
	secretsDir = tmpDir + "/"
	defer func() { secretsDir = originalDir }()

	t.Run("reads existing secret", func(t *testing.T) {
		os.WriteFile(tmpDir+"/test_secret", []byte("  secret-value  \n"), 0600)
		result := readSecret("test_secret")
		assertEqual(t, "secret", "secret-value", result)
	})

	t.Run("returns empty for missing secret", func(t *testing.T) {
		result := readSecret("nonexistent")
		assertEqual(t, "secret", "", result)
	})
}

func TestLoad_SecretOverridesEnv(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir := secretsDir
	secretsDir = tmpDir + "/"
	defer func() { secretsDir = originalDir }()

	os.WriteFile(tmpDir+"/audit_dsn", []byte("postgres://secret/audit\n"), 0600)
	setEnv(map[string]string{"AUDIT_DSN": "sqlite:env.db"})
	defer clearEnv()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertEqual(t, "AuditDSN", "postgres://secret/audit", cfg.AuditDSN)
}

func TestEnvString(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback string
		expected string
	}{
		{"env set", "custom", "default", "custom"},
		{"env empty", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_ENV_STRING"
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			}
			result := envString(key, tt.fallback)
			assertEqual(t, "result", tt.expected, result)
		})
	}
}

func TestEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback time.Duration
		expected time.Duration
	}{
		{"valid duration", "10m", time.Minute, 10 * time.Minute},
		{"complex duration", "1h30m", time.Minute, 90 * time.Minute},
		{"invalid duration", "invalid", time.Minute, time.Minute},
		{"empty", "", time.Minute, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_ENV_DURATION"
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			}
			result := envDuration(key, tt.fallback)
			assertEqual(t, "result", tt.expected, result)
		})
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		envVal   string
		fallback bool
		expected bool
	}{
		{"true", "true", false, true},
		{"false", "false", true, false},
		{"1", "1", false, true},
		{"0", "0", true, false},
		{"invalid", "maybe", false, false},
		{"empty", "", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "TEST_ENV_BOOL"
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			}
			result := envBool(key, tt.fallback)
			assertEqual(t, "result", tt.expected, result)
		})
	}
}

func setEnv(vars map[string]string) {
	for k, v := range vars {
		os.Setenv(k, v)
	}
}

func clearEnv() {
	keys := []string{
		"CONFIG_PATH", "DISCORD_TOKEN", "DISCORD_GUILD_ID", "METRICS_ADDR",
		"AUDIT_DSN", "AUDIT_RETENTION", "SHUTDOWN_TIMEOUT", "CLEANUP_COMMANDS",
	}
	for _, k := range keys {
		os.Unsetenv(k)
	}
}

func assertEqual[T comparable](t *testing.T, name string, expected, actual T) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", name, expected, actual)
	}
}

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 0.72, cfg.FAQ.SimilarityThreshold)
	require.Equal(t, 10, cfg.Assistant.MaxToolRounds)
	require.Equal(t, "memory", cfg.Session.Backend)
	require.Equal(t, "Administrador", cfg.FAQ.AdminName)
	require.Equal(t, 30*time.Second, cfg.Mail.Timeout)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
faq:
  similarityThreshold: 0.8
mail:
  directory:
    Administrador: admin@example.com
auth:
  adminEmails: [boss@example.com]
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("AUTH_ADMIN_EMAILS", "a@example.com, b@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 0.8, cfg.FAQ.SimilarityThreshold)
	require.Equal(t, "admin@example.com", cfg.Mail.Directory["Administrador"])
	require.Equal(t, 5*time.Minute, cfg.Session.TTL)
	require.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.Auth.AdminEmails)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaultConfig()
	cfg.FAQ.SimilarityThreshold = 1.5
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.Session.Backend = "valkey"
	require.ErrorContains(t, cfg.Validate(), "valkey.addr")

	cfg = defaultConfig()
	cfg.Session.Backend = "disk"
	require.Error(t, cfg.Validate())
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashstudy/internal/config"
)

// validConfig is the default configuration plus the settings that have no
// default.
func validConfig() config.Config {
	cfg := config.Default()
	cfg.JWTSecret = "test-signing-secret"
	return cfg
}

func TestDefault_RequiresSecret(t *testing.T) {
	err := config.Default().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET must be set")

	assert.NoError(t, validConfig().Validate())
}

func TestLoad_SecretFromEnv(t *testing.T) {
	t.Setenv("FLASHSTUDY_JWT_SECRET", "from-the-environment")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "from-the-environment", cfg.JWTSecret)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("FLASHSTUDY_ADDR", ":9090")
	t.Setenv("FLASHSTUDY_TOKEN_TTL", "30m")
	t.Setenv("FLASHSTUDY_ALLOW_GUEST_LOGIN", "false")
	t.Setenv("FLASHSTUDY_BCRYPT_COST", "12")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.False(t, cfg.AllowGuestLogin)
	assert.Equal(t, 12, cfg.BcryptCost)
}

func TestLoad_FlagsOverrideEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flashstudy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7000\"\ndata_dir: /srv/cards\nlog_level: WARN\n"), 0o600))
	t.Setenv("FLASHSTUDY_LOG_LEVEL", "ERROR")

	cfg, err := config.Load([]string{"--config", path, "--addr", ":6000", "--db_driver", "sqlite"})
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Addr, "flag beats file")
	assert.Equal(t, "/srv/cards", cfg.DataDir, "file beats default")
	assert.Equal(t, "ERROR", cfg.LogLevel, "env beats file")
	assert.Equal(t, "sqlite", cfg.DBDriver)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := config.Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_UnknownFlag(t *testing.T) {
	_, err := config.Load([]string{"--bogus"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		errMsg string
	}{
		{name: "empty addr", mutate: func(c *config.Config) { c.Addr = "" }, errMsg: "ADDR cannot be empty"},
		{name: "empty data dir", mutate: func(c *config.Config) { c.DataDir = "" }, errMsg: "DATA_DIR cannot be empty"},
		{name: "empty db path", mutate: func(c *config.Config) { c.DBPath = "" }, errMsg: "DB_PATH cannot be empty"},
		{name: "unknown driver", mutate: func(c *config.Config) { c.DBDriver = "postgres" }, errMsg: "DB_DRIVER"},
		{name: "bad log level", mutate: func(c *config.Config) { c.LogLevel = "LOUD" }, errMsg: "LOG_LEVEL"},
		{name: "missing secret", mutate: func(c *config.Config) { c.JWTSecret = "" }, errMsg: "JWT_SECRET must be set"},
		{name: "short secret", mutate: func(c *config.Config) { c.JWTSecret = "abc" }, errMsg: "JWT_SECRET"},
		{name: "zero ttl", mutate: func(c *config.Config) { c.TokenTTL = 0 }, errMsg: "TOKEN_TTL"},
		{name: "unknown hash", mutate: func(c *config.Config) { c.PasswordHash = "md5" }, errMsg: "PASSWORD_HASH"},
		{name: "bcrypt cost too low", mutate: func(c *config.Config) { c.BcryptCost = 3 }, errMsg: "BCRYPT_COST"},
		{name: "rate zero", mutate: func(c *config.Config) { c.LoginRatePerMinute = 0 }, errMsg: "LOGIN_RATE_PER_MINUTE"},
		{name: "leaderboard zero", mutate: func(c *config.Config) { c.LeaderboardLimit = 0 }, errMsg: "LEADERBOARD_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_AcceptsPureGoDriver(t *testing.T) {
	cfg := validConfig()
	cfg.DBDriver = "sqlite"
	cfg.PasswordHash = "sha256"
	assert.NoError(t, cfg.Validate())
}

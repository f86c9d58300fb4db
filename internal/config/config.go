package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix marks the environment variables read into the config.
const EnvPrefix = "FLASHSTUDY_"

type Config struct {
	Addr               string        `koanf:"addr"`
	DataDir            string        `koanf:"data_dir"`
	DBDriver           string        `koanf:"db_driver"`
	DBPath             string        `koanf:"db_path"`
	LogLevel           string        `koanf:"log_level"`
	LogFile            string        `koanf:"log_file"`
	JWTSecret          string        `koanf:"jwt_secret"`
	TokenTTL           time.Duration `koanf:"token_ttl"`
	PasswordHash       string        `koanf:"password_hash"`
	BcryptCost         int           `koanf:"bcrypt_cost"`
	AllowGuestLogin    bool          `koanf:"allow_guest_login"`
	LoginRatePerMinute int           `koanf:"login_rate_per_minute"`
	LeaderboardLimit   int           `koanf:"leaderboard_limit"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Addr:               ":8080",
		DataDir:            "data",
		DBDriver:           "sqlite3",
		DBPath:             "flashstudy.db",
		LogLevel:           "INFO",
		TokenTTL:           12 * time.Hour,
		PasswordHash:       "bcrypt",
		BcryptCost:         10,
		AllowGuestLogin:    true,
		LoginRatePerMinute: 20,
		LeaderboardLimit:   10,
	}
}

func flagSet(def Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("flashstudy", pflag.ContinueOnError)
	fs.String("config", "", "path to a YAML config file")
	fs.String("addr", def.Addr, "HTTP listen address")
	fs.String("data_dir", def.DataDir, "directory holding per-user card, score and profile files")
	fs.String("db_driver", def.DBDriver, "sqlite driver: sqlite3 (cgo) or sqlite (pure Go)")
	fs.String("db_path", def.DBPath, "leaderboard database path")
	fs.String("log_level", def.LogLevel, "DEBUG, INFO, WARN or ERROR")
	fs.String("log_file", def.LogFile, "also write logs to this rotating file")
	fs.Duration("token_ttl", def.TokenTTL, "session token lifetime")
	fs.String("password_hash", def.PasswordHash, "hash for new passwords: bcrypt or sha256")
	fs.Bool("allow_guest_login", def.AllowGuestLogin, "let unregistered usernames log in without a password")
	fs.Int("leaderboard_limit", def.LeaderboardLimit, "default number of leaderboard rows")
	return fs
}

// Load reads configuration from, in increasing priority: defaults, a .env
// file, an optional YAML file (--config), FLASHSTUDY_* environment variables
// and command-line flags.
func Load(args []string) (Config, error) {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	cfg := Default()
	fs := flagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("parse flags: %w", err)
	}

	k := koanf.New(".")
	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return cfg, fmt.Errorf("load environment: %w", err)
	}
	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return cfg, fmt.Errorf("load flags: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("ADDR cannot be empty")
	}
	if c.DataDir == "" {
		return errors.New("DATA_DIR cannot be empty")
	}
	if c.DBPath == "" {
		return errors.New("DB_PATH cannot be empty")
	}
	switch c.DBDriver {
	case "sqlite3", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite3 or sqlite, got %q", c.DBDriver)
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if len(c.JWTSecret) < 8 {
		return errors.New("JWT_SECRET must be at least 8 characters")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	switch c.PasswordHash {
	case "bcrypt", "sha256":
	default:
		return fmt.Errorf("PASSWORD_HASH must be bcrypt or sha256, got %q", c.PasswordHash)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	if c.LoginRatePerMinute < 1 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE must be at least 1, got %d", c.LoginRatePerMinute)
	}
	if c.LeaderboardLimit < 1 {
		return fmt.Errorf("LEADERBOARD_LIMIT must be at least 1, got %d", c.LeaderboardLimit)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort             = "3000"
	DefaultAdminEmail       = "admin@example.com"
	DefaultSnapshotInterval = 5 * time.Minute
	DefaultActiveDrift      = 5 * time.Second
)

// Config holds application configuration
type Config struct {
	DatabaseURL       string
	Port              string
	Seed              uint64 // 0 means a time-based seed
	AdminEmail        string
	AdminPasswordHash string // bcrypt; empty means the demo password
	SecureCookies     bool
	SnapshotInterval  time.Duration
	ActiveDrift       time.Duration
	TrustedOrigins    []string
}

// Overrides carries values set on the command line. Zero values are ignored.
type Overrides struct {
	DatabaseURL string
	Port        string
	Seed        uint64
}

// Load loads configuration from multiple sources with priority:
// 1. Command flags (see LoadWithOverrides)
// 2. Config file (./ecodash.toml or $XDG_CONFIG_HOME/ecodash/ecodash.toml)
// 3. Environment variables
func Load() (*Config, error) {
	return LoadWithOverrides(Overrides{})
}

// LoadWithOverrides loads config and applies flag overrides
func LoadWithOverrides(o Overrides) (*Config, error) {
	v := newBaseViper()
	_ = v.ReadInConfig()
	return buildConfig(v, o), nil
}

func newBaseViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("ecodash")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		v.AddConfigPath(filepath.Join(configHome, "ecodash"))
	}

	return v
}

func buildConfig(v *viper.Viper, o Overrides) *Config {
	cfg := &Config{
		Port:             DefaultPort,
		AdminEmail:       DefaultAdminEmail,
		SecureCookies:    true,
		SnapshotInterval: DefaultSnapshotInterval,
		ActiveDrift:      DefaultActiveDrift,
		TrustedOrigins:   []string{"localhost"},
	}

	// Config file values
	if v.IsSet("database_url") {
		cfg.DatabaseURL = v.GetString("database_url")
	}
	if v.IsSet("port") {
		cfg.Port = v.GetString("port")
	}
	if v.IsSet("seed") {
		cfg.Seed = v.GetUint64("seed")
	}
	if v.IsSet("admin_email") {
		cfg.AdminEmail = v.GetString("admin_email")
	}
	if v.IsSet("admin_password_hash") {
		cfg.AdminPasswordHash = v.GetString("admin_password_hash")
	}
	if v.IsSet("secure_cookies") {
		cfg.SecureCookies = v.GetBool("secure_cookies")
	}
	if v.IsSet("snapshot_interval") {
		cfg.SnapshotInterval = v.GetDuration("snapshot_interval")
	}
	if v.IsSet("active_drift") {
		cfg.ActiveDrift = v.GetDuration("active_drift")
	}
	if v.IsSet("trusted_origins") {
		cfg.TrustedOrigins = parseTrustedOrigins(v.GetString("trusted_origins"))
	}

	// Environment fallback (only if not configured)
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if !v.IsSet("port") {
		if envPort := os.Getenv("PORT"); envPort != "" {
			cfg.Port = envPort
		}
	}
	if !v.IsSet("seed") {
		if envSeed := os.Getenv("ECODASH_SEED"); envSeed != "" {
			if seed, err := strconv.ParseUint(envSeed, 10, 64); err == nil {
				cfg.Seed = seed
			}
		}
	}
	if !v.IsSet("admin_email") {
		if env := os.Getenv("ECODASH_ADMIN_EMAIL"); env != "" {
			cfg.AdminEmail = env
		}
	}
	if !v.IsSet("admin_password_hash") {
		cfg.AdminPasswordHash = os.Getenv("ECODASH_ADMIN_PASSWORD_HASH")
	}
	if !v.IsSet("secure_cookies") {
		if envSecure := os.Getenv("SECURE_COOKIES"); envSecure != "" {
			cfg.SecureCookies = envSecure == "true"
		}
	}
	if !v.IsSet("snapshot_interval") {
		cfg.SnapshotInterval = envDuration("ECODASH_SNAPSHOT_INTERVAL", cfg.SnapshotInterval)
	}
	if !v.IsSet("active_drift") {
		cfg.ActiveDrift = envDuration("ECODASH_ACTIVE_DRIFT", cfg.ActiveDrift)
	}
	if !v.IsSet("trusted_origins") {
		if envOrigins := os.Getenv("TRUSTED_ORIGINS"); envOrigins != "" {
			cfg.TrustedOrigins = parseTrustedOrigins(envOrigins)
		}
	}

	// Flags last
	if o.DatabaseURL != "" {
		cfg.DatabaseURL = o.DatabaseURL
	}
	if o.Port != "" {
		cfg.Port = o.Port
	}
	if o.Seed != 0 {
		cfg.Seed = o.Seed
	}

	return cfg
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// parseTrustedOrigins parses a comma-separated string into a slice of trimmed, lowercased origins
func parseTrustedOrigins(originsStr string) []string {
	if originsStr == "" {
		return []string{}
	}

	parts := strings.Split(originsStr, ",")
	origins := make([]string, 0, len(parts))

	for _, part := range parts {
		origin, err := SanitizeTrustedDomain(part)
		if err != nil {
			continue
		}
		origins = append(origins, origin)
	}

	return origins
}

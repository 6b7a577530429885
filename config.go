package byguide

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"
)

// AdminConfig carries the single shared admin credential and the session
// cookie settings. It is injected into the session-check middleware so the
// workflows never read ambient environment state.
type AdminConfig struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"` // bcrypt hash of the admin password
	CookieName   string `toml:"cookie_name"`
	SessionHours int    `toml:"session_hours"`
}

// SessionTTL returns the admin session lifetime.
func (ac AdminConfig) SessionTTL() time.Duration {
	return time.Duration(ac.SessionHours) * time.Hour
}

// Authenticate checks a submitted username and password against the
// configured credential.
func (ac AdminConfig) Authenticate(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(ac.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(ac.PasswordHash), []byte(password)) == nil
	return userOK && passOK
}

// Config holds the server configuration, loaded from an optional TOML file
// with environment variable overrides.
type Config struct {
	Addr      string      `toml:"addr"`
	Backend   string      `toml:"backend"` // "sqlite", "bbolt", or "memory"
	DataDir   string      `toml:"data_dir"`
	SeedDir   string      `toml:"seed_dir"`
	Templates string      `toml:"templates"`
	Admin     AdminConfig `toml:"admin"`
}

// DefaultConfig returns the configuration used when no file or environment
// overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Addr:      ":8080",
		Backend:   "sqlite",
		DataDir:   "data",
		SeedDir:   "seed",
		Templates: "web/templates/*.html",
		Admin: AdminConfig{
			Username:     "byguide",
			CookieName:   "byguide_admin",
			SessionHours: 8,
		},
	}
}

// LoadConfig loads the configuration from the given TOML file, if it exists,
// and applies environment overrides. A missing path is not an error; the
// defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}

	cfg.Addr = getEnv("BYGUIDE_ADDR", cfg.Addr)
	cfg.Backend = getEnv("BYGUIDE_BACKEND", cfg.Backend)
	cfg.DataDir = getEnv("BYGUIDE_DATA_DIR", cfg.DataDir)
	cfg.SeedDir = getEnv("BYGUIDE_SEED_DIR", cfg.SeedDir)
	cfg.Admin.Username = getEnv("BYGUIDE_ADMIN_USERNAME", cfg.Admin.Username)
	cfg.Admin.PasswordHash = getEnv("BYGUIDE_ADMIN_PASSWORD_HASH", cfg.Admin.PasswordHash)

	// A plaintext password may be supplied instead of a hash; hash it here so
	// nothing downstream ever sees the plaintext.
	if cfg.Admin.PasswordHash == "" {
		password := getEnv("BYGUIDE_ADMIN_PASSWORD", "change-me-please")
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
		cfg.Admin.PasswordHash = string(hash)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

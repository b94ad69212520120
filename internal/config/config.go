// Package config loads server and CLI settings.
// Load order: defaults, then an optional TOML file, then environment overrides.
package config

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"shortid/pkg/shortid"
)

// Config is the full application configuration.
type Config struct {
	App       AppConfig       `toml:"app"`
	Log       LogConfig       `toml:"log"`
	Generator GeneratorConfig `toml:"generator"`
	Auth      AuthConfig      `toml:"auth"`
}

// AppConfig holds HTTP server settings.
type AppConfig struct {
	Env             string        `toml:"env"`
	Port            string        `toml:"port"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// LogConfig mirrors logger.Config.
type LogConfig struct {
	Level       string   `toml:"level"`
	Development bool     `toml:"development"`
	OutputPaths []string `toml:"output_paths"`
}

// GeneratorConfig configures the identifier engine.
type GeneratorConfig struct {
	// MachineID is 8 hex digits. The 96-bit format uses its low 3 bytes.
	MachineID string `toml:"machine_id"`
	// Node is a MAC address for the shared UUIDv1 path. Empty means the
	// hardware interface address.
	Node string `toml:"node"`
	// Epoch is an RFC 3339 timestamp for the 96 and 64-bit formats.
	Epoch            string `toml:"epoch"`
	UnboundedAdvance bool   `toml:"unbounded_advance"`
	MaxBatch         int    `toml:"max_batch"`
}

// AuthConfig configures optional bearer-token authentication.
type AuthConfig struct {
	Enabled  bool          `toml:"enabled"`
	Secret   string        `toml:"secret"`
	Issuer   string        `toml:"issuer"`
	TokenTTL time.Duration `toml:"token_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		App: AppConfig{
			Env:             "development",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Generator: GeneratorConfig{
			MachineID: "00000000",
			Epoch:     "2020-01-01T00:00:00Z",
			MaxBatch:  10000,
		},
		Auth: AuthConfig{
			Issuer:   "shortid",
			TokenTTL: 24 * time.Hour,
		},
	}
}

// Load builds the configuration. An empty path falls back to SHORTID_CONFIG;
// when neither is set no file is read.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("SHORTID_CONFIG")
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.Log.Development = cfg.Log.Development || cfg.App.Env == "development"

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.App.Env = getEnv("APP_ENV", c.App.Env)
	c.App.Port = getEnv("APP_PORT", c.App.Port)
	c.App.ReadTimeout = getEnvDuration("APP_READ_TIMEOUT", c.App.ReadTimeout)
	c.App.WriteTimeout = getEnvDuration("APP_WRITE_TIMEOUT", c.App.WriteTimeout)
	c.App.ShutdownTimeout = getEnvDuration("APP_SHUTDOWN_TIMEOUT", c.App.ShutdownTimeout)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	c.Generator.MachineID = getEnv("SHORTID_MACHINE_ID", c.Generator.MachineID)
	c.Generator.Node = getEnv("SHORTID_NODE", c.Generator.Node)
	c.Generator.Epoch = getEnv("SHORTID_EPOCH", c.Generator.Epoch)
	c.Generator.UnboundedAdvance = getEnvBool("SHORTID_UNBOUNDED_ADVANCE", c.Generator.UnboundedAdvance)
	c.Generator.MaxBatch = getEnvInt("SHORTID_MAX_BATCH", c.Generator.MaxBatch)

	c.Auth.Enabled = getEnvBool("AUTH_ENABLED", c.Auth.Enabled)
	c.Auth.Secret = getEnv("JWT_SECRET", c.Auth.Secret)
	c.Auth.Issuer = getEnv("JWT_ISSUER", c.Auth.Issuer)
	c.Auth.TokenTTL = getEnvDuration("JWT_TOKEN_TTL", c.Auth.TokenTTL)
}

// Validate checks that every generator setting parses.
func (c Config) Validate() error {
	if _, err := c.MachineID32(); err != nil {
		return err
	}
	if _, err := c.NodeID(); err != nil {
		return err
	}
	if _, err := c.EpochValue(); err != nil {
		return err
	}
	if c.Generator.MaxBatch < 1 {
		return fmt.Errorf("generator.max_batch must be positive, got %d", c.Generator.MaxBatch)
	}
	if c.Auth.Enabled && c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required when auth is enabled")
	}
	return nil
}

// MachineID32 parses the machine identity for the 128-bit format.
func (c Config) MachineID32() ([4]byte, error) {
	var m [4]byte
	raw := strings.TrimPrefix(strings.ToLower(c.Generator.MachineID), "0x")
	if len(raw) != 2*len(m) {
		return m, fmt.Errorf("generator.machine_id must be %d hex digits, got %q", 2*len(m), c.Generator.MachineID)
	}
	if _, err := hex.Decode(m[:], []byte(raw)); err != nil {
		return m, fmt.Errorf("generator.machine_id: %w", err)
	}
	return m, nil
}

// MachineID24 returns the low 3 bytes of the machine identity.
func (c Config) MachineID24() ([3]byte, error) {
	m, err := c.MachineID32()
	if err != nil {
		return [3]byte{}, err
	}
	return [3]byte{m[1], m[2], m[3]}, nil
}

// NodeID returns the node for the shared UUIDv1 path.
func (c Config) NodeID() (shortid.Node, error) {
	if c.Generator.Node == "" {
		return shortid.HardwareNode(), nil
	}
	var n shortid.Node
	mac, err := net.ParseMAC(c.Generator.Node)
	if err != nil {
		return n, fmt.Errorf("generator.node: %w", err)
	}
	if len(mac) != len(n) {
		return n, fmt.Errorf("generator.node must be a 48-bit address, got %q", c.Generator.Node)
	}
	copy(n[:], mac)
	return n, nil
}

// EpochValue parses the generator epoch.
func (c Config) EpochValue() (shortid.Epoch, error) {
	t, err := time.Parse(time.RFC3339, c.Generator.Epoch)
	if err != nil {
		return 0, fmt.Errorf("generator.epoch: %w", err)
	}
	if t.Before(time.Unix(0, 0)) {
		return 0, fmt.Errorf("generator.epoch %s is before the Unix epoch", c.Generator.Epoch)
	}
	return shortid.EpochFromTime(t), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Package config loads dispatch settings from dispatch.toml, an optional
// environment overlay, and DISPATCH_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/dispatch/internal/notify"
	"github.com/JaimeStill/dispatch/pkg/storage"
)

const (
	BaseConfigFile       = "dispatch.toml"
	OverlayConfigPattern = "dispatch.%s.toml"

	EnvDispatchEnv             = "DISPATCH_ENV"
	EnvDispatchLogLevel        = "DISPATCH_LOG_LEVEL"
	EnvDispatchShutdownTimeout = "DISPATCH_SHUTDOWN_TIMEOUT"
)

var storageEnv = &storage.Env{
	Backend:          "DISPATCH_STORAGE_BACKEND",
	Root:             "DISPATCH_STORAGE_ROOT",
	ContainerName:    "DISPATCH_STORAGE_CONTAINER_NAME",
	ConnectionString: "DISPATCH_STORAGE_CONNECTION_STRING",
	AccountURL:       "DISPATCH_STORAGE_ACCOUNT_URL",
}

var notifyEnv = &notify.Env{
	Provider:        "DISPATCH_NOTIFY_PROVIDER",
	Sender:          "DISPATCH_NOTIFY_SENDER",
	Region:          "DISPATCH_NOTIFY_REGION",
	AccessKeyID:     "DISPATCH_NOTIFY_ACCESS_KEY_ID",
	SecretAccessKey: "DISPATCH_NOTIFY_SECRET_ACCESS_KEY",
}

// Config is the root configuration for a dispatch run.
type Config struct {
	LogLevel        string               `toml:"log_level"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Inputs          InputsConfig         `toml:"inputs"`
	Workflow        WorkflowConfig       `toml:"workflow"`
	Storage         storage.Config       `toml:"storage"`
	Notify          notify.Config        `toml:"notify"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Prompts         map[string]string    `toml:"prompts"`
}

// Env returns the DISPATCH_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvDispatchEnv); env != "" {
		return env
	}
	return "local"
}

// Level returns LogLevel as a slog.Level.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the config file at path, applies the DISPATCH_ENV overlay next
// to it, finalizes all values, then applies overrides (command-line flags)
// and validates again. An empty path means dispatch.toml in the working
// directory, which may be absent.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = BaseConfigFile
	}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if explicit {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	if overlay := overlayPath(filepath.Dir(path)); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	if len(overrides) > 0 {
		for _, apply := range overrides {
			apply(cfg)
		}
		if err := cfg.revalidate(); err != nil {
			return nil, fmt.Errorf("flags: %w", err)
		}
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	c.Inputs.Merge(&overlay.Inputs)
	c.Workflow.Merge(&overlay.Workflow)
	c.Storage.Merge(&overlay.Storage)
	c.Notify.Merge(&overlay.Notify)
	c.Agent.Merge(&overlay.Agent)

	for stage, text := range overlay.Prompts {
		if c.Prompts == nil {
			c.Prompts = make(map[string]string, len(overlay.Prompts))
		}
		c.Prompts[stage] = text
	}
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Inputs.Finalize(); err != nil {
		return fmt.Errorf("inputs: %w", err)
	}
	if err := c.Workflow.Finalize(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Notify.Finalize(notifyEnv); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "10s"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDispatchLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDispatchShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
}

func (c *Config) validate() error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func (c *Config) revalidate() error {
	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Inputs.validate(); err != nil {
		return fmt.Errorf("inputs: %w", err)
	}
	if err := c.Workflow.validate(); err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	if err := c.Storage.Finalize(nil); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvDispatchEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

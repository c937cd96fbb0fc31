package notify

import (
	"fmt"
	"os"
)

// Supported notify providers.
const (
	ProviderNone   = "none"
	ProviderStdout = "stdout"
	ProviderSES    = "ses"
)

// Config selects and parameterizes the notify provider.
type Config struct {
	Provider        string `toml:"provider"`
	Sender          string `toml:"sender"`
	Region          string `toml:"region"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider        string
	Sender          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Sender != "" {
		c.Sender = overlay.Sender
	}
	if overlay.Region != "" {
		c.Region = overlay.Region
	}
	if overlay.AccessKeyID != "" {
		c.AccessKeyID = overlay.AccessKeyID
	}
	if overlay.SecretAccessKey != "" {
		c.SecretAccessKey = overlay.SecretAccessKey
	}
}

func (c *Config) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderNone
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, field *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	set(env.Provider, &c.Provider)
	set(env.Sender, &c.Sender)
	set(env.Region, &c.Region)
	set(env.AccessKeyID, &c.AccessKeyID)
	set(env.SecretAccessKey, &c.SecretAccessKey)
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderNone, ProviderStdout:
	case ProviderSES:
		if c.Sender == "" {
			return fmt.Errorf("sender required for ses")
		}
		if c.Region == "" {
			return fmt.Errorf("region required for ses")
		}
	default:
		return fmt.Errorf("unknown provider: %q", c.Provider)
	}
	return nil
}

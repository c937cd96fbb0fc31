package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/dispatch/pkg/formatting"
)

// InputsConfig locates the files a run reads and writes.
type InputsConfig struct {
	Emails       string `toml:"emails"`
	Company      string `toml:"company"`
	Memory       string `toml:"memory"`
	MaxEmailSize string `toml:"max_email_size"`
}

// MaxEmailSizeBytes returns MaxEmailSize in bytes.
func (c *InputsConfig) MaxEmailSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxEmailSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *InputsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *InputsConfig) Merge(overlay *InputsConfig) {
	if overlay.Emails != "" {
		c.Emails = overlay.Emails
	}
	if overlay.Company != "" {
		c.Company = overlay.Company
	}
	if overlay.Memory != "" {
		c.Memory = overlay.Memory
	}
	if overlay.MaxEmailSize != "" {
		c.MaxEmailSize = overlay.MaxEmailSize
	}
}

func (c *InputsConfig) loadDefaults() {
	if c.Emails == "" {
		c.Emails = "emails.json"
	}
	if c.Memory == "" {
		c.Memory = "memory.json"
	}
	if c.MaxEmailSize == "" {
		c.MaxEmailSize = "10MB"
	}
}

func (c *InputsConfig) loadEnv() {
	if v := os.Getenv("DISPATCH_EMAILS"); v != "" {
		c.Emails = v
	}
	if v := os.Getenv("DISPATCH_COMPANY"); v != "" {
		c.Company = v
	}
	if v := os.Getenv("DISPATCH_MEMORY"); v != "" {
		c.Memory = v
	}
	if v := os.Getenv("DISPATCH_MAX_EMAIL_SIZE"); v != "" {
		c.MaxEmailSize = v
	}
}

func (c *InputsConfig) validate() error {
	if c.Emails == "" {
		return fmt.Errorf("emails required")
	}
	if c.Memory == "" {
		return fmt.Errorf("memory required")
	}
	size, err := formatting.ParseBytes(c.MaxEmailSize)
	if err != nil {
		return fmt.Errorf("invalid max_email_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_email_size must be positive")
	}
	return nil
}

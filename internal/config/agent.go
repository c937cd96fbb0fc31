package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentName         = "DISPATCH_AGENT_NAME"
	EnvAgentProviderName = "DISPATCH_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "DISPATCH_AGENT_BASE_URL"
	EnvAgentModelName    = "DISPATCH_AGENT_MODEL_NAME"
	EnvAgentToken        = "DISPATCH_AGENT_TOKEN"
	EnvAgentDeployment   = "DISPATCH_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "DISPATCH_AGENT_API_VERSION"
	EnvAgentAuthType     = "DISPATCH_AGENT_AUTH_TYPE"
)

// provider options settable from the environment, keyed by variable name.
var agentOptions = map[string]string{
	EnvAgentToken:      "token",
	EnvAgentDeployment: "deployment",
	EnvAgentAPIVersion: "api_version",
	EnvAgentAuthType:   "auth_type",
}

// FinalizeAgent fills c from go-agents defaults, applies DISPATCH_AGENT_*
// overrides, and validates the result. The same agent drafts replies and
// answers routing fallback prompts.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults

	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}

	if v := os.Getenv(EnvAgentName); v != "" {
		c.Name = v
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}
	for env, key := range agentOptions {
		if v := os.Getenv(env); v != "" {
			c.Provider.Options[key] = v
		}
	}

	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	return nil
}

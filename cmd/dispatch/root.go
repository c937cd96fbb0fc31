package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/dispatch/internal/config"
)

type rootOptions struct {
	configPath string
	memoryPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "dispatch",
		Short:        "Triage a batch of inbound emails into department tickets",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to dispatch.toml (default: ./dispatch.toml if present)")
	cmd.PersistentFlags().StringVar(&opts.memoryPath, "memory", "", "Path to the memory file")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newMemoryCmd(opts))

	return cmd
}

// loadConfig loads the configuration and applies the flags the user set on
// cmd, including explicit zero and false values.
func (o *rootOptions) loadConfig(cmd *cobra.Command, overrides ...func(*config.Config)) (*config.Config, error) {
	if cmd.Flags().Changed("memory") {
		overrides = append(overrides, func(c *config.Config) {
			c.Inputs.Memory = o.memoryPath
		})
	}
	return config.Load(o.configPath, overrides...)
}

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/dispatch/internal/memory"
)

func newMemoryCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect or edit persisted sender memory",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the memory file as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openMemory(cmd, root)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(store.Snapshot())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "forget <sender>",
		Short: "Drop the remembered department and owner for a sender",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openMemory(cmd, root)
			if err != nil {
				return err
			}

			if !store.Forget(args[0]) {
				fmt.Fprintf(cmd.OutOrStdout(), "Nothing remembered for %s\n", args[0])
				return nil
			}
			if err := store.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", args[0])
			return nil
		},
	})

	return cmd
}

func openMemory(cmd *cobra.Command, root *rootOptions) (*memory.Store, error) {
	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	return memory.Open(cfg.Inputs.Memory, logger)
}

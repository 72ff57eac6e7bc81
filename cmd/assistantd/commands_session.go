package main

import (
	"context"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/config"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/sessions"
)

// buildSessionCmd groups the session management commands (spec §6.3):
// describe (metadata only) and clear (idempotent delete).
func buildSessionCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or clear a persisted session",
	}
	cmd.AddCommand(buildSessionDescribeCmd(configPath))
	cmd.AddCommand(buildSessionClearCmd(configPath))
	return cmd
}

func buildSessionDescribeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <session-id>",
		Short: "Print a session's metadata without loading its full content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSessionStore(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			desc, found, err := store.Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				fmt.Println("session not found")
				return nil
			}
			out, err := json.MarshalIndent(desc, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func buildSessionClearCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Remove a session's persisted state (idempotent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openSessionStore(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			if err := store.Clear(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("cleared")
			return nil
		},
	}
}

func openSessionStore(ctx context.Context, configPath string) (sessions.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Server.DatabaseDSN == "" {
		return nil, fmt.Errorf("session describe/clear require server.database_dsn (in-memory sessions don't outlive a process)")
	}
	return sessions.NewPostgresStore(ctx, sessions.DefaultPostgresConfig(cfg.Server.DatabaseDSN))
}

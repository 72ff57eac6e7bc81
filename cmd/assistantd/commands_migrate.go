package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/config"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/sessions"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/structured"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/tools/vector"
)

// buildMigrateCmd ensures every Postgres-backed table and the pgvector
// extension exist. Each store's constructor runs its own migration
// inline, so this command's job is just to construct every store once
// against the configured database.
func buildMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Server.DatabaseDSN == "" {
				return fmt.Errorf("migrate requires server.database_dsn")
			}

			ctx := cmd.Context()
			if _, err := sessions.NewPostgresStore(ctx, sessions.DefaultPostgresConfig(cfg.Server.DatabaseDSN)); err != nil {
				return fmt.Errorf("migrate sessions: %w", err)
			}

			db, err := sql.Open("postgres", cfg.Server.DatabaseDSN)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()
			if _, err := structured.NewPostgresStore(ctx, db); err != nil {
				return fmt.Errorf("migrate structured entities: %w", err)
			}
			if _, err := vector.NewPostgresBackend(ctx, db); err != nil {
				return fmt.Errorf("migrate vector store: %w", err)
			}

			fmt.Println("migration complete")
			return nil
		},
	}
}

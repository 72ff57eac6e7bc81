package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/assistant"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/config"
	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/internal/observability"
)

// HTTP/gRPC transport and rate limiting are explicitly out of scope; serve
// exposes the turn entrypoint as an interactive stdin/stdout REPL instead,
// one session per process invocation.
func buildServeCmd(configPath *string) *cobra.Command {
	var (
		userID    string
		sessionID string
		workspace string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the conversational core as an interactive REPL",
		Long: `Load configuration, build the conversational core, and read
messages from stdin one line at a time, printing each turn's reply to
stdout. Each line is one turn against the given session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *configPath, userID, sessionID, workspace)
		},
	}
	cmd.Flags().StringVar(&userID, "user", "local-user", "user id for this REPL session")
	cmd.Flags().StringVar(&sessionID, "session", "repl", "session id for this REPL session")
	cmd.Flags().StringVar(&workspace, "workspace", "default", "workspace name")
	return cmd
}

func runServe(ctx context.Context, configPath, userID, sessionID, workspace string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := observability.NewLogger(observability.LogConfig{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		return fmt.Errorf("build dependencies: %w", err)
	}
	orchestrator, err := assistant.Build(ctx, cfg, deps)
	if err != nil {
		return fmt.Errorf("build core: %w", err)
	}
	logger.Info(ctx, "assistantd ready", "session_id", sessionID, "user_id", userID)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprintln(os.Stdout, "> ready. type a message and press enter; Ctrl-D to exit.")
	for scanner.Scan() {
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		result, err := orchestrator.Run(ctx, sessionID, userID, workspace, message)
		if err != nil {
			logger.Error(ctx, "turn failed", "error", err.Error())
			fmt.Fprintf(os.Stdout, "error: %v\n", err)
			continue
		}
		fmt.Fprintf(os.Stdout, "[%s] %s\n", result.Expert, result.Reply)
	}
	return scanner.Err()
}

// buildDependencies resolves the credentials and DB handle assistant.Build
// needs from the process environment, following the teacher's pattern of
// reading provider keys from env rather than the YAML config file.
func buildDependencies(ctx context.Context, cfg *config.Config) (assistant.Dependencies, error) {
	deps := assistant.Dependencies{
		AnthropicAPIKey: firstNonEmpty(cfg.LLM.AnthropicAPIKey, os.Getenv("ANTHROPIC_API_KEY")),
		OpenAIAPIKey:    firstNonEmpty(cfg.LLM.OpenAIAPIKey, os.Getenv("OPENAI_API_KEY")),
	}
	if deps.OpenAIAPIKey != "" {
		deps.OpenAIEmbeddings = true
	}
	if cfg.Server.DatabaseDSN != "" {
		db, err := sql.Open("postgres", cfg.Server.DatabaseDSN)
		if err != nil {
			return deps, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			return deps, fmt.Errorf("ping database: %w", err)
		}
		deps.DB = db
	}
	return deps, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

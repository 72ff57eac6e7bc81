// Command assistantd runs the conversational core's process entrypoint,
// following the teacher's cmd/nexus layout: one small main.go that builds
// the cobra command tree and delegates everything else to per-command
// files in this package.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "assistantd",
		Short: "Multi-domain personal assistant conversational core",
		Long: `assistantd runs the conversational core: a session/state manager, a
keyword-and-model expert router, and a bounded per-expert tool-calling
loop, fronting food logging, task tracking, calendar events, and
reminders behind one conversational turn() entrypoint.`,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("ASSISTANTD_CONFIG"),
		"Path to YAML configuration file (default: built-in defaults)")

	root.AddCommand(
		buildServeCmd(&configPath),
		buildSessionCmd(&configPath),
		buildMigrateCmd(&configPath),
	)
	return root
}

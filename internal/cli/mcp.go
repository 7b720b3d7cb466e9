package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	taskmcp "github.com/AKASH-DEV-23/taskctl/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  "Commands for running the taskctl MCP (Model Context Protocol) server.",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the taskctl MCP server on stdio",
	Long: `Start the taskctl MCP server on stdio transport.

The server exposes the task board to AI coding assistants as MCP tools:
list_tasks, get_task, create_task, move_task, delete_task. Requests use
the stored session, so log in first.`,
	Args:    cobra.NoArgs,
	PreRunE: requireAuth,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task client not initialized")
		}

		srv := taskmcp.NewServer(Tasks, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}
		return nil
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

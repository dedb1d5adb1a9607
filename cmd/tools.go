package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	formatting "github.com/inference-gateway/triage/internal/formatting"
	tools "github.com/inference-gateway/triage/internal/services/tools"
	cobra "github.com/spf13/cobra"
)

const toolNameWidth = 30

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List and execute triage tools",
	Long:  `Inspect the registered triage tools or run a single tool without starting a server.`,
}

var toolsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := newContainer()
		if err != nil {
			return err
		}
		writeToolList(cmd.OutOrStdout(), services.GetToolRegistry())
		return nil
	},
}

var toolsExecCmd = &cobra.Command{
	Use:   "exec <tool>",
	Short: "Execute a single tool",
	Long: `Execute a tool with JSON arguments and print its text result.

Example:
  triage tools exec triage_get_issue --args '{"owner":"octo-org","repo":"widgets","issueNumber":42}'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawArgs, _ := cmd.Flags().GetString("args")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		stopTracing, err := startTracing()
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer stopTracing()

		services, err := newContainer()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		return execTool(ctx, services.GetToolRegistry(), args[0], rawArgs, cmd.OutOrStdout())
	},
}

func init() {
	toolsExecCmd.Flags().String("args", "{}", "tool arguments as a JSON object")
	toolsExecCmd.Flags().Duration("timeout", 3*time.Minute, "maximum time to wait for the tool")

	toolsCmd.AddCommand(toolsListCmd)
	toolsCmd.AddCommand(toolsExecCmd)
	rootCmd.AddCommand(toolsCmd)
}

// writeToolList prints one line per tool: name and description
func writeToolList(w io.Writer, registry *tools.Registry) {
	for _, def := range registry.GetToolDefinitions() {
		_, _ = fmt.Fprintf(w, "%s  %s\n", formatting.FitColumn(def.Name, toolNameWidth), def.Description)
	}
}

// execTool runs a tool and prints its result
func execTool(ctx context.Context, registry *tools.Registry, name, rawArgs string, w io.Writer) error {
	rawArgs = strings.TrimSpace(rawArgs)
	if rawArgs == "" {
		rawArgs = "{}"
	}
	if !json.Valid([]byte(rawArgs)) {
		return fmt.Errorf("--args must be a JSON object")
	}

	result, err := registry.Invoke(ctx, name, json.RawMessage(rawArgs))
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, result)
	return nil
}

// Package main is the entry point for the code-runner-cli application.
// It initializes the root command and registers the run sub-commands for
// the CLI, then executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "code_runner_service/cmd/code-runner-cli/internal/commands"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := &cobra.Command{
		Use:   "code-runner-cli",
		Short: "Code runner service CLI tool",
		Long: `code-runner-cli is a command-line client for the code runner service.
Submits Python source files or zip bundles for sandboxed execution and
fetches run metadata, captured output and workspace bundles.

The server URL defaults to http://localhost:8000 and can be overridden
with the --server-url flag. When the server requires an API key, pass it
with --api-key or set the CRS_API_KEY environment variable.`,
	}

	// Initialize all command groups BEFORE executing
	if err := initializeCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize commands: %w", err)
	}

	// Execute root command ONCE after all commands are registered
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

// initializeCommands registers all command groups with the root command.
func initializeCommands(rootCmd *cobra.Command) error {
	if err := commands.InitRunCommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize run commands: %w", err)
	}

	return nil
}

// init sets up any necessary initialization before main runs.
func init() {
	// Set log flags for better error messages
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Ensure proper exit codes on errors
	log.SetOutput(os.Stderr)
}

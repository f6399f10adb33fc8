package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the calfewer application
var rootCmd = &cobra.Command{
	Use:   "calfewer",
	Short: "Calendar availability MCP server",
	Long: `calfewer answers calendar questions for AI assistants over the Model
Context Protocol: conflict checks, free-slot search, event listing, and
event creation with format inheritance.

It speaks JSON-RPC with Content-Length framing on stdin/stdout, the way
MCP clients launch local servers.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "calfewer version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCalendarsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the reclaim-mcp-server application
var rootCmd = &cobra.Command{
	Use:   "reclaim-mcp-server",
	Short: "MCP server for the Reclaim.ai task scheduler",
	Long: `reclaim-mcp-server exposes the Reclaim.ai task API as MCP (Model
Context Protocol) tools so AI assistants can create, schedule, and manage
tasks on your behalf.

Authentication uses a Reclaim API key, provided via --api-key or the
RECLAIM_API_KEY environment variable.`,
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
	rootCmd.SetVersionTemplate(`{{printf "reclaim-mcp-server version %s\n" .Version}}`)

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
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the sheettodo application
var rootCmd = &cobra.Command{
	Use:   "sheettodo",
	Short: "Personal task tracker backed by a Google spreadsheet",
	Long: `sheettodo keeps a personal task list in a Google spreadsheet.

It can run as:
  - A web UI for adding, editing, completing and deleting tasks (default)
  - A one-shot reminder that pushes today's and tomorrow's tasks to LINE
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// Persistent flags shared by all commands.
var (
	configFile string
	debugMode  bool
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "sheettodo version %s\n" .Version}}`)

	// If no subcommand is provided, run the web UI by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file (default: sheettodo.yaml in the working directory, if present)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging. Can also use DEBUG env var.")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newRemindCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}

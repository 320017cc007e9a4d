package cmd

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "appknox-mcp",
	Short: "MCP server and agent for the Appknox mobile security platform",
	Long: `appknox-mcp exposes the Appknox CLI as callable tools: as an MCP
stdio server for editor/agent integrations, or as an interactive AI agent
session that orchestrates scans and vulnerability checks.`,
	Version: version,
}

var DebugMode bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
}

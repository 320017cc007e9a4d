package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/user/appknox-mcp/pkg/appknox"
	"github.com/user/appknox-mcp/pkg/config"
	"github.com/user/appknox-mcp/pkg/logging"
	"github.com/user/appknox-mcp/pkg/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP stdio server exposing Appknox tools",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New(DebugMode)

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		executor := appknox.NewExecutor(cfg.CLIPath, log)
		opts := appknox.DefaultOptions()
		if cfg.DefaultTimeoutMs > 0 {
			opts.TimeoutMs = cfg.DefaultTimeoutMs
		}

		srv := server.NewMCPServer("appknox-mcp", version)
		for _, t := range tools.All(executor, log, opts) {
			schemaJSON, err := json.Marshal(t.Schema())
			if err != nil {
				return fmt.Errorf("marshaling schema for %s: %w", t.Name(), err)
			}
			srv.AddTool(
				mcp.NewToolWithRawSchema(t.Name(), t.Description(), schemaJSON),
				toolHandler(t, log),
			)
		}

		log.Info().Str("version", version).Msg("appknox-mcp listening on stdio")
		return server.ServeStdio(srv)
	},
}

// toolHandler bridges one catalog tool into an MCP handler. Classified
// errors become error results with their stable code prefixed; a request
// failure never crashes the server.
func toolHandler(t tools.Tool, log zerolog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := t.Execute(ctx, req.GetArguments())
		if err != nil {
			var classified *appknox.Error
			if !errors.As(err, &classified) {
				classified = appknox.Classify(err)
			}
			log.Warn().
				Str("tool", t.Name()).
				Str("code", classified.Code).
				Str("kind", classified.Kind.String()).
				Msg("tool call failed")
			return mcp.NewToolResultError(fmt.Sprintf("%s: %s", classified.Code, classified.Message)), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

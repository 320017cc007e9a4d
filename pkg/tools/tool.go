// Package tools is the catalog of Appknox operations exposed to callers.
// Each tool maps one appknox CLI subcommand: it validates its own input,
// derives an argv vector and hands it to the Runner.
package tools

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/user/appknox-mcp/pkg/appknox"
)

// Runner is the execution contract the catalog depends on. Satisfied by
// *appknox.Executor; tests substitute a stub.
type Runner interface {
	Execute(ctx context.Context, command string, args []string, opts appknox.Options) (*appknox.Result, error)
	ExecuteStrict(ctx context.Context, command string, args []string, opts appknox.Options) (string, error)
}

// Tool represents one executable action.
type Tool interface {
	Name() string
	Description() string
	Schema() map[string]interface{} // JSON schema for arguments
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// All builds the full catalog against the given runner. opts is the base
// execution configuration; individual tools may lengthen the timeout for
// slow operations such as uploads.
func All(runner Runner, log zerolog.Logger, opts appknox.Options) []Tool {
	validator := appknox.NewValidator(log)
	return []Tool{
		&WhoamiTool{runner: runner, opts: opts},
		&ListOrganizationsTool{runner: runner, opts: opts},
		&ListProjectsTool{runner: runner, opts: opts},
		&ListFilesTool{runner: runner, validator: validator, opts: opts},
		&ListAnalysesTool{runner: runner, validator: validator, opts: opts},
		&UploadAppTool{runner: runner, validator: validator, opts: opts},
		&CheckScanStatusTool{runner: runner, validator: validator, opts: opts},
	}
}

func stringArg(args map[string]interface{}, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

package tools

import (
	"context"

	"github.com/user/appknox-mcp/pkg/appknox"
)

// ListProjectsTool lists projects in the default organization.
type ListProjectsTool struct {
	runner Runner
	opts   appknox.Options
}

func (t *ListProjectsTool) Name() string {
	return "list_projects"
}

func (t *ListProjectsTool) Description() string {
	return "Lists Appknox projects. Each project corresponds to one mobile app package; use the returned project IDs with list_files."
}

func (t *ListProjectsTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"search": map[string]interface{}{
				"type":        "string",
				"description": "Optional substring to filter projects by package name.",
			},
		},
	}
}

func (t *ListProjectsTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	var cliArgs []string
	if search := stringArg(args, "search"); search != "" {
		cliArgs = append(cliArgs, "--search", search)
	}
	return t.runner.ExecuteStrict(ctx, "projects", cliArgs, t.opts)
}

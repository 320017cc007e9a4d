package tools

import (
	"context"

	"github.com/user/appknox-mcp/pkg/appknox"
)

// ListOrganizationsTool lists the organizations the token can access.
type ListOrganizationsTool struct {
	runner Runner
	opts   appknox.Options
}

func (t *ListOrganizationsTool) Name() string {
	return "list_organizations"
}

func (t *ListOrganizationsTool) Description() string {
	return "Lists the Appknox organizations accessible with the configured access token."
}

func (t *ListOrganizationsTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *ListOrganizationsTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	return t.runner.ExecuteStrict(ctx, "organizations", nil, t.opts)
}

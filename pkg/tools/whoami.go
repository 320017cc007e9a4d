package tools

import (
	"context"

	"github.com/user/appknox-mcp/pkg/appknox"
)

// WhoamiTool reports the identity behind the configured access token.
type WhoamiTool struct {
	runner Runner
	opts   appknox.Options
}

func (t *WhoamiTool) Name() string {
	return "whoami"
}

func (t *WhoamiTool) Description() string {
	return "Shows the Appknox user the configured access token belongs to. Use this to verify authentication before other operations."
}

func (t *WhoamiTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *WhoamiTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	return t.runner.ExecuteStrict(ctx, "whoami", nil, t.opts)
}

package tools

import (
	"context"

	"github.com/user/appknox-mcp/pkg/appknox"
)

// Uploads move whole app binaries to the platform, so they get a much
// longer leash than the default two minutes.
const uploadTimeoutMs = 600000

// UploadAppTool uploads a local app binary for scanning.
type UploadAppTool struct {
	runner    Runner
	validator *appknox.Validator
	opts      appknox.Options
}

func (t *UploadAppTool) Name() string {
	return "upload_app"
}

func (t *UploadAppTool) Description() string {
	return "Uploads a local mobile app binary (APK/AAB/IPA) to Appknox and starts a static scan. Returns the new file ID."
}

func (t *UploadAppTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute or relative path to the app binary on the local filesystem.",
			},
		},
		"required": []string{"file_path"},
	}
}

func (t *UploadAppTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	path := stringArg(args, "file_path")
	if path == "" {
		return "", appknox.NewValidationError("file_path must be a non-empty string")
	}
	if err := t.validator.FilePath(path); err != nil {
		return "", err
	}
	opts := t.opts
	// Zero means the caller disabled the timeout; leave that alone.
	if opts.TimeoutMs > 0 && opts.TimeoutMs < uploadTimeoutMs {
		opts.TimeoutMs = uploadTimeoutMs
	}
	return t.runner.ExecuteStrict(ctx, "upload", []string{path}, opts)
}

package tools

import (
	"context"
	"strconv"

	"github.com/user/appknox-mcp/pkg/appknox"
)

// ListAnalysesTool lists the vulnerability analyses of one file.
type ListAnalysesTool struct {
	runner    Runner
	validator *appknox.Validator
	opts      appknox.Options
}

func (t *ListAnalysesTool) Name() string {
	return "list_analyses"
}

func (t *ListAnalysesTool) Description() string {
	return "Lists vulnerability analyses for an uploaded file, including risk ratings and CVSS scores."
}

func (t *ListAnalysesTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_id": map[string]interface{}{
				"type":        "number",
				"description": "Numeric ID of the file, as returned by list_files.",
			},
		},
		"required": []string{"file_id"},
	}
}

func (t *ListAnalysesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	fileID, err := t.validator.NumericID(args["file_id"], "file_id")
	if err != nil {
		return "", err
	}
	return t.runner.ExecuteStrict(ctx, "analyses", []string{strconv.FormatInt(fileID, 10)}, t.opts)
}

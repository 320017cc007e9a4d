package tools

import (
	"context"
	"strconv"

	"github.com/user/appknox-mcp/pkg/appknox"
)

// ListFilesTool lists the uploaded binaries of one project.
type ListFilesTool struct {
	runner    Runner
	validator *appknox.Validator
	opts      appknox.Options
}

func (t *ListFilesTool) Name() string {
	return "list_files"
}

func (t *ListFilesTool) Description() string {
	return "Lists uploaded app binaries (files) for an Appknox project. Use the returned file IDs with list_analyses or check_scan_status."
}

func (t *ListFilesTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"project_id": map[string]interface{}{
				"type":        "number",
				"description": "Numeric ID of the project, as returned by list_projects.",
			},
		},
		"required": []string{"project_id"},
	}
}

func (t *ListFilesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	projectID, err := t.validator.NumericID(args["project_id"], "project_id")
	if err != nil {
		return "", err
	}
	return t.runner.ExecuteStrict(ctx, "files", []string{strconv.FormatInt(projectID, 10)}, t.opts)
}

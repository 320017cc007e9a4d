package tools

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/user/appknox-mcp/pkg/appknox"
)

// CheckScanStatusTool runs the CI gate for one file: it passes when no
// vulnerability at or above the risk threshold is present. The CLI signals
// "threshold exceeded" through a non-zero exit, which is a business
// outcome here, not a failure, so this tool uses non-strict execution and
// reports the exit code as data.
type CheckScanStatusTool struct {
	runner    Runner
	validator *appknox.Validator
	opts      appknox.Options
}

type scanStatusPayload struct {
	Passed        bool   `json:"passed"`
	ExitCode      int    `json:"exit_code"`
	RiskThreshold string `json:"risk_threshold"`
	Output        string `json:"output,omitempty"`
	Stderr        string `json:"stderr,omitempty"`
	IsError       bool   `json:"is_error"`
}

func (t *CheckScanStatusTool) Name() string {
	return "check_scan_status"
}

func (t *CheckScanStatusTool) Description() string {
	return "Checks whether a scanned file passes a CI risk gate. Fails (passed=false) when any vulnerability at or above the risk threshold was found."
}

func (t *CheckScanStatusTool) Schema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"file_id": map[string]interface{}{
				"type":        "number",
				"description": "Numeric ID of the file, as returned by list_files.",
			},
			"risk_threshold": map[string]interface{}{
				"type":        "string",
				"description": "Minimum severity that fails the gate: low, medium, high or critical. Defaults to low.",
			},
		},
		"required": []string{"file_id"},
	}
}

func (t *CheckScanStatusTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	fileID, err := t.validator.NumericID(args["file_id"], "file_id")
	if err != nil {
		return "", err
	}

	threshold := stringArg(args, "risk_threshold")
	if threshold == "" {
		threshold = "low"
	}
	threshold, err = t.validator.RiskThreshold(threshold)
	if err != nil {
		return "", err
	}

	cliArgs := []string{strconv.FormatInt(fileID, 10), "--risk-threshold", threshold}
	res, err := t.runner.Execute(ctx, "cicheck", cliArgs, t.opts)
	if err != nil {
		return "", err
	}

	payload := scanStatusPayload{
		Passed:        res.ExitCode == 0,
		ExitCode:      res.ExitCode,
		RiskThreshold: threshold,
		Output:        res.Stdout,
		Stderr:        res.Stderr,
		IsError:       res.ExitCode != 0,
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

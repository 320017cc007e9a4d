package appknox

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorKind identifies one of the closed set of failure categories this
// subsystem reports. Everything the appknox CLI can do wrong maps onto one
// of these.
type ErrorKind int

const (
	KindCLINotFound ErrorKind = iota
	KindAuthentication
	KindValidation
	KindTimeout
	KindExecutionFailure
	KindFilePath
)

func (k ErrorKind) String() string {
	switch k {
	case KindCLINotFound:
		return "CLINotFound"
	case KindAuthentication:
		return "Authentication"
	case KindValidation:
		return "Validation"
	case KindTimeout:
		return "Timeout"
	case KindExecutionFailure:
		return "ExecutionFailure"
	case KindFilePath:
		return "FilePath"
	}
	return "Unknown"
}

// Error is the typed error surfaced to tool handlers. Message and Code are
// safe to show to callers; raw secrets are scrubbed before construction.
type Error struct {
	Kind     ErrorKind
	Code     string
	Message  string
	ExitCode int // -1 when no process exit is involved
}

func (e *Error) Error() string {
	return e.Message
}

func newCLINotFoundError(binPath string) *Error {
	return &Error{
		Kind:     KindCLINotFound,
		Code:     "CLI_NOT_FOUND",
		Message:  fmt.Sprintf("appknox CLI not found at %s. Install it or set APPKNOX_CLI_PATH.", binPath),
		ExitCode: -1,
	}
}

func newAuthenticationError(message string) *Error {
	if message == "" {
		message = "no Appknox access token found. Set APPKNOX_ACCESS_TOKEN or run 'appknox login'."
	}
	return &Error{Kind: KindAuthentication, Code: "AUTH_FAILED", Message: message, ExitCode: -1}
}

func newValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, ExitCode: -1}
}

// NewValidationError builds a Validation-kind error for malformed caller
// input detected outside the core validators (e.g. a missing required
// argument at the tool layer).
func NewValidationError(message string) *Error {
	return newValidationError(message)
}

func newFilePathError(message string) *Error {
	return &Error{Kind: KindFilePath, Code: "INVALID_FILE_PATH", Message: message, ExitCode: -1}
}

func newTimeoutError(d time.Duration) *Error {
	return &Error{
		Kind:     KindTimeout,
		Code:     "TIMEOUT",
		Message:  fmt.Sprintf("execution timed out after %s", d),
		ExitCode: -1,
	}
}

func newExecutionError(message string, exitCode int) *Error {
	return &Error{Kind: KindExecutionFailure, Code: "EXECUTION_FAILED", Message: message, ExitCode: exitCode}
}

// schemaIssue matches one element of the validation-error arrays the CLI
// prints when the platform rejects a request body.
type schemaIssue struct {
	Code     string        `json:"code"`
	Path     []interface{} `json:"path"`
	Message  string        `json:"message"`
	Expected string        `json:"expected"`
}

// Classify maps a raw failure onto the closed taxonomy. The CLI emits no
// structured error codes, so this is an ordered rule list over message
// text. The order matters: some signals are substrings of others, so the
// first matching rule wins and must keep winning across refactors.
func Classify(raw error) *Error {
	if raw == nil {
		return nil
	}
	msg := raw.Error()

	// Rule 1: a JSON array of schema issues is a validation failure even
	// when individual messages contain strings matched by later rules.
	if formatted, ok := formatSchemaIssues(msg); ok {
		return newValidationError(formatted)
	}

	// Rule 2: missing binary.
	if strings.Contains(msg, "ENOENT") || strings.Contains(msg, "not found") {
		return &Error{
			Kind:     KindCLINotFound,
			Code:     "CLI_NOT_FOUND",
			Message:  "appknox CLI not found. Install it or set APPKNOX_CLI_PATH.",
			ExitCode: -1,
		}
	}

	// Rule 3: credential rejection.
	if strings.Contains(msg, "401") || strings.Contains(msg, "Unauthorized") ||
		strings.Contains(msg, "Authentication") || strings.Contains(msg, "Invalid token") {
		return newAuthenticationError("authentication failed: " + Sanitize(msg))
	}

	// Rule 4: free-form validation complaints.
	if strings.Contains(msg, "Invalid") || strings.Contains(msg, "must be") {
		return newValidationError(Sanitize(msg))
	}

	// Rule 5: timeout wording. The original duration is not recoverable
	// from the string, so report zero.
	if strings.Contains(msg, "timed out") {
		return newTimeoutError(0)
	}

	// Rule 6: already classified.
	var typed *Error
	if errors.As(raw, &typed) {
		return typed
	}

	return newExecutionError(Sanitize(msg), -1)
}

// formatSchemaIssues reports whether raw is a JSON array carrying "code"
// fields, and if so flattens it to "<field>: <message> (expected <type>)"
// entries joined by commas.
func formatSchemaIssues(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return "", false
	}
	var issues []schemaIssue
	if err := json.Unmarshal([]byte(trimmed), &issues); err != nil || len(issues) == 0 {
		return "", false
	}
	hasCode := false
	for _, issue := range issues {
		if issue.Code != "" {
			hasCode = true
			break
		}
	}
	if !hasCode {
		return "", false
	}

	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		field := "unknown field"
		if len(issue.Path) > 0 {
			segs := make([]string, 0, len(issue.Path))
			for _, p := range issue.Path {
				segs = append(segs, fmt.Sprintf("%v", p))
			}
			field = strings.Join(segs, ".")
		}
		message := issue.Message
		if message == "" {
			message = "invalid value"
		}
		entry := fmt.Sprintf("%s: %s", field, message)
		if issue.Expected != "" {
			entry += fmt.Sprintf(" (expected %s)", issue.Expected)
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, ", "), true
}

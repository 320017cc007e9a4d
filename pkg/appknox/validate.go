package appknox

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
)

const (
	maxPathLength = 4096
	// Largest integer the platform API round-trips without loss.
	maxSafeInteger = int64(1)<<53 - 1
)

var riskThresholds = map[string]bool{
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

// Validator gates externally supplied tool parameters before they become
// process arguments. Schema-level type checks run upstream; these are the
// last line before spawning.
type Validator struct {
	log zerolog.Logger
}

func NewValidator(log zerolog.Logger) *Validator {
	return &Validator{log: log}
}

// LooksLikeFilePath reports whether an argument is syntactically a
// filesystem path and therefore subject to FilePath validation.
func LooksLikeFilePath(arg string) bool {
	return strings.HasPrefix(arg, "/") ||
		strings.HasPrefix(arg, "./") ||
		strings.HasPrefix(arg, "../")
}

// FilePath rejects traversal tokens, NUL bytes and oversized paths.
func (v *Validator) FilePath(path string) error {
	if strings.Contains(path, "..") {
		v.log.Warn().Str("path", Sanitize(path)).Msg("rejected path with parent-directory traversal")
		return newFilePathError("file path must not contain parent-directory traversal ('..')")
	}
	if strings.ContainsRune(path, 0) {
		v.log.Warn().Msg("rejected path containing null byte")
		return newFilePathError("file path must not contain null bytes")
	}
	if len(path) > maxPathLength {
		v.log.Warn().Int("length", len(path)).Msg("rejected oversized path")
		return newFilePathError(fmt.Sprintf("file path exceeds %d characters", maxPathLength))
	}
	return nil
}

// NumericID accepts a decoded JSON value and returns it as a positive
// integer identifier. JSON numbers arrive as float64, but callers may also
// hand over native ints.
func (v *Validator) NumericID(value interface{}, field string) (int64, error) {
	var id int64
	switch n := value.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, v.rejectID(field, "must be an integer")
		}
		id = int64(n)
	case int:
		id = int64(n)
	case int64:
		id = n
	default:
		return 0, v.rejectID(field, "must be a number")
	}
	if id <= 0 {
		return 0, v.rejectID(field, "must be a positive integer")
	}
	if id > maxSafeInteger {
		return 0, v.rejectID(field, fmt.Sprintf("must not exceed %d", maxSafeInteger))
	}
	return id, nil
}

func (v *Validator) rejectID(field, reason string) error {
	v.log.Warn().Str("field", field).Msg("rejected numeric identifier: " + reason)
	return newFilePathError(fmt.Sprintf("%s %s", field, reason))
}

// RiskThreshold normalizes and checks a severity level. Matching is
// case-insensitive; the returned value is lower-cased.
func (v *Validator) RiskThreshold(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if !riskThresholds[normalized] {
		v.log.Warn().Str("risk_threshold", value).Msg("rejected unknown risk threshold")
		return "", newValidationError("risk_threshold must be one of: low, medium, high, critical")
	}
	return normalized, nil
}

package appknox

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestFilePathValidation(t *testing.T) {
	v := NewValidator(zerolog.Nop())

	cases := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"absolute path", "/tmp/app.apk", false},
		{"relative path", "./build/app.apk", false},
		{"traversal", "../etc/passwd", true},
		{"embedded traversal", "/tmp/../etc/passwd", true},
		{"null byte", "/tmp/\x00bad", true},
		{"oversized", "/" + strings.Repeat("a", maxPathLength), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.FilePath(tc.path)
			if (err != nil) != tc.wantErr {
				t.Fatalf("FilePath(%q) error = %v, wantErr %v", tc.path, err, tc.wantErr)
			}
			if err != nil {
				var typed *Error
				if !errors.As(err, &typed) || typed.Kind != KindFilePath {
					t.Fatalf("expected FilePath kind, got %v", err)
				}
			}
		})
	}
}

func TestLooksLikeFilePath(t *testing.T) {
	for _, arg := range []string{"/abs", "./rel", "../up"} {
		if !LooksLikeFilePath(arg) {
			t.Errorf("LooksLikeFilePath(%q) = false, want true", arg)
		}
	}
	for _, arg := range []string{"--risk-threshold", "42", "projects", "high"} {
		if LooksLikeFilePath(arg) {
			t.Errorf("LooksLikeFilePath(%q) = true, want false", arg)
		}
	}
}

func TestNumericIDValidation(t *testing.T) {
	v := NewValidator(zerolog.Nop())

	cases := []struct {
		name    string
		value   interface{}
		want    int64
		wantErr bool
	}{
		{"json number", float64(42), 42, false},
		{"native int", 7, 7, false},
		{"max safe integer", float64(maxSafeInteger), maxSafeInteger, false},
		{"zero", float64(0), 0, true},
		{"negative", float64(-5), 0, true},
		{"fractional", 3.5, 0, true},
		{"beyond safe bound", float64(maxSafeInteger + 1), 0, true},
		{"string", "42", 0, true},
		{"nil", nil, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := v.NumericID(tc.value, "project_id")
			if (err != nil) != tc.wantErr {
				t.Fatalf("NumericID(%v) error = %v, wantErr %v", tc.value, err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Fatalf("NumericID(%v) = %d, want %d", tc.value, got, tc.want)
			}
		})
	}
}

func TestRiskThresholdValidation(t *testing.T) {
	v := NewValidator(zerolog.Nop())

	for _, in := range []string{"low", "Medium", "HIGH", "criTical", " critical "} {
		got, err := v.RiskThreshold(in)
		if err != nil {
			t.Errorf("RiskThreshold(%q) unexpected error: %v", in, err)
			continue
		}
		if got != strings.ToLower(strings.TrimSpace(in)) {
			t.Errorf("RiskThreshold(%q) = %q, want lower-cased input", in, got)
		}
	}

	for _, in := range []string{"", "severe", "none", "lo w"} {
		if _, err := v.RiskThreshold(in); err == nil {
			t.Errorf("RiskThreshold(%q) succeeded, want error", in)
		}
	}
}

package appknox

import (
	"strings"
	"testing"
)

func TestSanitizeHexTokens(t *testing.T) {
	token := strings.Repeat("a1b2", 10) // 40 hex chars
	in := "token " + token + " leaked"
	got := Sanitize(in)
	if strings.Contains(got, token) {
		t.Fatalf("token survived sanitization: %q", got)
	}
	if got != "token [REDACTED] leaked" {
		t.Fatalf("Sanitize = %q", got)
	}
}

func TestSanitizeShortHexKept(t *testing.T) {
	// Below the 32-char cutoff, hex runs are legitimate output.
	in := "commit deadbeef01"
	if got := Sanitize(in); got != in {
		t.Fatalf("short hex was redacted: %q", got)
	}
}

func TestSanitizeHomePaths(t *testing.T) {
	cases := []struct{ in, want string }{
		{"/Users/alice/project/app.apk", "/Users/[USER]/project/app.apk"},
		{"/home/bob/.config/appknox.json", "/home/[USER]/.config/appknox.json"},
		{`error in C:\Users\carol\AppData`, `error in C:\Users\[USER]\AppData`},
		// The original drive letter stays in place.
		{`D:\Users\dave\app.apk`, `D:\Users\[USER]\app.apk`},
		{`e:\users\eve\tmp`, `e:\users\[USER]\tmp`},
		{"no paths here", "no paths here"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

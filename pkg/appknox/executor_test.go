package appknox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// fakeCLI writes an executable shell script standing in for the appknox
// binary and returns its path.
func fakeCLI(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "appknox")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

// withToken gives the executor a credential so runs get past the
// pre-spawn auth gate.
func withToken(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(AccessTokenEnv, "test-token")
}

func kindOf(t *testing.T, err error) ErrorKind {
	t.Helper()
	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	return typed.Kind
}

func TestExecuteSuccess(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `echo 42`), zerolog.Nop())

	res, err := e.Execute(context.Background(), "whoami", nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Stdout != "42" || res.Stderr != "" || res.ExitCode != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestExecuteStrictSuccess(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `echo 42`), zerolog.Nop())

	out, err := e.ExecuteStrict(context.Background(), "whoami", nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if out != "42" {
		t.Fatalf("stdout = %q, want 42", out)
	}
}

func TestExecuteNonZeroExitIsData(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `echo "401 Unauthorized" >&2; exit 1`), zerolog.Nop())

	res, err := e.Execute(context.Background(), "cicheck", []string{"5"}, DefaultOptions())
	if err != nil {
		t.Fatalf("non-zero exit raised an error: %v", err)
	}
	if res.ExitCode != 1 {
		t.Fatalf("exit code = %d, want 1", res.ExitCode)
	}
	if res.Stderr != "401 Unauthorized" {
		t.Fatalf("stderr = %q", res.Stderr)
	}
}

func TestExecuteStrictAuthOnNonZeroExit(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `echo "401 Unauthorized" >&2; exit 1`), zerolog.Nop())

	_, err := e.ExecuteStrict(context.Background(), "whoami", nil, DefaultOptions())
	if kindOf(t, err) != KindAuthentication {
		t.Fatalf("kind = %v, want Authentication", kindOf(t, err))
	}
}

func TestExecuteStrictFailureCarriesExitCode(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `echo "scan backend exploded" >&2; exit 3`), zerolog.Nop())

	_, err := e.ExecuteStrict(context.Background(), "analyses", []string{"9"}, DefaultOptions())
	var typed *Error
	if !errors.As(err, &typed) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if typed.Kind != KindExecutionFailure || typed.ExitCode != 3 {
		t.Fatalf("got kind=%v exit=%d", typed.Kind, typed.ExitCode)
	}
}

func TestExecuteTimeout(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `exec sleep 5`), zerolog.Nop())

	start := time.Now()
	_, err := e.Execute(context.Background(), "upload", nil, Options{TimeoutMs: 150})
	if kindOf(t, err) != KindTimeout {
		t.Fatalf("kind = %v, want Timeout", kindOf(t, err))
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("process was not killed promptly, took %s", elapsed)
	}
}

// A CLI that forks a helper leaves the output pipes held open by the
// grandchild. The timeout must still settle at the deadline, with the
// whole process group killed rather than waited on.
func TestExecuteTimeoutSettlesDespiteForkedHelper(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, "sleep 30 &\nsleep 30"), zerolog.Nop())

	start := time.Now()
	_, err := e.Execute(context.Background(), "upload", nil, Options{TimeoutMs: 150})
	if kindOf(t, err) != KindTimeout {
		t.Fatalf("kind = %v, want Timeout", kindOf(t, err))
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout did not settle promptly, took %s", elapsed)
	}
}

func TestExecuteCancellationSettlesPromptly(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, "sleep 30 &\nsleep 30"), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := e.Execute(ctx, "upload", nil, Options{TimeoutMs: 0})
	if kindOf(t, err) != KindExecutionFailure {
		t.Fatalf("kind = %v, want ExecutionFailure", kindOf(t, err))
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancellation did not settle promptly, took %s", elapsed)
	}
}

func TestExecuteBinaryMissing(t *testing.T) {
	withToken(t)
	e := NewExecutor(filepath.Join(t.TempDir(), "no-such-binary"), zerolog.Nop())

	_, err := e.Execute(context.Background(), "whoami", nil, DefaultOptions())
	if kindOf(t, err) != KindCLINotFound {
		t.Fatalf("kind = %v, want CLINotFound", kindOf(t, err))
	}
}

func TestExecuteRejectsTraversalBeforeSpawn(t *testing.T) {
	withToken(t)
	marker := filepath.Join(t.TempDir(), "spawned")
	e := NewExecutor(fakeCLI(t, `touch `+marker), zerolog.Nop())

	_, err := e.Execute(context.Background(), "upload", []string{"../../etc/passwd"}, DefaultOptions())
	if kindOf(t, err) != KindFilePath {
		t.Fatalf("kind = %v, want FilePath", kindOf(t, err))
	}
	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Fatal("process was spawned despite validation failure")
	}
}

func TestExecuteFailsWithoutTokenBeforeSpawn(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(AccessTokenEnv, "")
	marker := filepath.Join(t.TempDir(), "spawned")
	e := NewExecutor(fakeCLI(t, `touch `+marker), zerolog.Nop())

	_, err := e.Execute(context.Background(), "whoami", nil, DefaultOptions())
	if kindOf(t, err) != KindAuthentication {
		t.Fatalf("kind = %v, want Authentication", kindOf(t, err))
	}
	if _, statErr := os.Stat(marker); !os.IsNotExist(statErr) {
		t.Fatal("process was spawned despite missing credential")
	}
}

func TestExecuteRejectsEmptyCommand(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `echo hi`), zerolog.Nop())

	_, err := e.Execute(context.Background(), "  ", nil, DefaultOptions())
	if kindOf(t, err) != KindValidation {
		t.Fatalf("kind = %v, want Validation", kindOf(t, err))
	}
}

func TestExecuteEnvOverridesReachChild(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `printf '%s' "$APPKNOX_REGION"`), zerolog.Nop())

	res, err := e.Execute(context.Background(), "projects", nil, Options{
		TimeoutMs:    DefaultTimeoutMs,
		EnvOverrides: map[string]string{"APPKNOX_REGION": "eu-central"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stdout != "eu-central" {
		t.Fatalf("stdout = %q, want eu-central", res.Stdout)
	}
}

func TestExecuteSanitizesStderr(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `echo "token 0123456789abcdef0123456789abcdef01234567 at /Users/alice/app" >&2`), zerolog.Nop())

	res, err := e.Execute(context.Background(), "whoami", nil, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if res.Stderr != "token [REDACTED] at /Users/[USER]/app" {
		t.Fatalf("stderr = %q", res.Stderr)
	}
}

func TestExecuteZeroTimeoutDisablesTimer(t *testing.T) {
	withToken(t)
	e := NewExecutor(fakeCLI(t, `sleep 0.2; echo done`), zerolog.Nop())

	res, err := e.Execute(context.Background(), "whoami", nil, Options{TimeoutMs: 0})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stdout != "done" {
		t.Fatalf("stdout = %q", res.Stdout)
	}
}

func TestCappedBufferTruncates(t *testing.T) {
	b := &cappedBuffer{limit: 8}
	if _, err := b.Write([]byte("0123456789")); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Write([]byte("more")); err != nil {
		t.Fatal(err)
	}
	want := "01234567" + truncationMarker
	if b.String() != want {
		t.Fatalf("buffer = %q, want %q", b.String(), want)
	}
}

func TestBinaryPathOverride(t *testing.T) {
	t.Setenv(BinaryPathEnv, "/opt/custom/appknox")
	if got := BinaryPath(); got != "/opt/custom/appknox" {
		t.Fatalf("BinaryPath() = %q", got)
	}
	t.Setenv(BinaryPathEnv, "")
	if got := BinaryPath(); got != defaultBinPath {
		t.Fatalf("BinaryPath() = %q, want default", got)
	}
}

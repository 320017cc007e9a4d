package appknox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultTimeoutMs bounds a run when the caller does not choose a
	// timeout explicitly. Zero disables the timeout entirely.
	DefaultTimeoutMs = 120000

	// BinaryPathEnv overrides the location of the appknox CLI.
	BinaryPathEnv  = "APPKNOX_CLI_PATH"
	defaultBinPath = "/usr/local/bin/appknox"

	// Per-stream cap on captured output. Pathological CLI output is
	// truncated rather than allowed to exhaust memory.
	maxCapturedBytes = 10 << 20

	truncationMarker = "\n[output truncated]"
)

// Non-zero exits in strict mode are re-read as credential failures when the
// CLI's output matches this. Brittle against wording changes in the CLI,
// so it lives here next to the classifier rules.
var authFailurePattern = regexp.MustCompile(`(?i)(401|unauthorized|invalid token|authentication)`)

// Options configures one execution request.
type Options struct {
	// TimeoutMs bounds the run in milliseconds. Zero disables the
	// timeout; most callers should start from DefaultOptions.
	TimeoutMs int
	// EnvOverrides are applied on top of the process environment before
	// credential resolution. Caller values win.
	EnvOverrides map[string]string
}

// DefaultOptions returns Options with the standard timeout applied.
func DefaultOptions() Options {
	return Options{TimeoutMs: DefaultTimeoutMs}
}

// Result is the outcome of a completed run. A non-zero ExitCode is not an
// error at this layer: the CLI uses exit codes for domain outcomes such as
// "vulnerabilities above threshold", which callers inspect as data.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// BinaryPath resolves the appknox CLI location: the env override when set,
// otherwise the standard install location.
func BinaryPath() string {
	if p := os.Getenv(BinaryPathEnv); p != "" {
		return p
	}
	return defaultBinPath
}

// Executor owns the child-process lifecycle: argument validation,
// credential resolution, spawn, output collection, timeout enforcement and
// result assembly. Concurrent requests are independent; the executor keeps
// no per-request state.
type Executor struct {
	binPath   string
	creds     *CredentialResolver
	validator *Validator
	log       zerolog.Logger
}

// NewExecutor builds an executor for the CLI at binPath. An empty binPath
// selects BinaryPath().
func NewExecutor(binPath string, log zerolog.Logger) *Executor {
	if binPath == "" {
		binPath = BinaryPath()
	}
	return &Executor{
		binPath:   binPath,
		creds:     NewCredentialResolver(log),
		validator: NewValidator(log),
		log:       log,
	}
}

// Execute runs `appknox <command> [args...]` and returns its collected
// output. Arguments are passed as an exact argv vector with no shell
// interpretation, which is the primary defense against command injection.
// Exactly one of Result or error is produced per call.
func (e *Executor) Execute(ctx context.Context, command string, args []string, opts Options) (*Result, error) {
	if strings.TrimSpace(command) == "" {
		return nil, newValidationError("command must not be empty")
	}

	// Validation and credential failures are raised before any process
	// is spawned.
	for _, arg := range args {
		if LooksLikeFilePath(arg) {
			if err := e.validator.FilePath(arg); err != nil {
				return nil, Classify(err)
			}
		}
	}

	env, token := e.creds.Resolve(opts.EnvOverrides)
	if token == "" {
		return nil, newAuthenticationError("")
	}

	argv := append([]string{command}, args...)
	cmd := exec.Command(e.binPath, argv...)
	cmd.Env = env
	setProcGroup(cmd)
	stdout := &cappedBuffer{limit: maxCapturedBytes}
	stderr := &cappedBuffer{limit: maxCapturedBytes}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	e.log.Debug().
		Str("command", command).
		Int("args", len(args)).
		Int("timeout_ms", opts.TimeoutMs).
		Msg("spawning appknox CLI")

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			e.log.Warn().Str("bin", e.binPath).Msg("appknox CLI binary missing")
			return nil, newCLINotFoundError(e.binPath)
		}
		return nil, newExecutionError("failed to start appknox CLI: "+Sanitize(err.Error()), -1)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	var timeoutC <-chan time.Time
	if opts.TimeoutMs > 0 {
		timer := time.NewTimer(time.Duration(opts.TimeoutMs) * time.Millisecond)
		defer timer.Stop()
		timeoutC = timer.C
	}

	// The select is the settlement latch: exactly one arm runs. The kill
	// arms must not wait for cmd.Wait to return: a CLI that forked a
	// helper leaves the output pipes open until the whole group dies, and
	// the request has to settle at the deadline regardless. The wait
	// channel is drained in the reaper goroutine instead.
	select {
	case <-timeoutC:
		killProcGroup(cmd)
		go func() { <-done }()
		d := time.Duration(opts.TimeoutMs) * time.Millisecond
		e.log.Warn().Str("command", command).Dur("timeout", d).Msg("appknox CLI timed out, process killed")
		return nil, newTimeoutError(d)

	case <-ctx.Done():
		killProcGroup(cmd)
		go func() { <-done }()
		return nil, newExecutionError("execution canceled: "+ctx.Err().Error(), -1)

	case waitErr := <-done:
		exitCode := 0
		if waitErr != nil {
			var exitErr *exec.ExitError
			if !errors.As(waitErr, &exitErr) {
				return nil, newExecutionError(Sanitize(waitErr.Error()), -1)
			}
			// A process reaped without a real exit status (killed
			// by an external signal) reports -1; treat as 0 per
			// the CLI's convention of "no code means success".
			if code := exitErr.ExitCode(); code > 0 {
				exitCode = code
			}
		}
		e.log.Debug().
			Str("command", command).
			Int("exit_code", exitCode).
			Dur("duration", time.Since(start)).
			Msg("appknox CLI finished")
		return &Result{
			Stdout:   Sanitize(strings.TrimSpace(stdout.String())),
			Stderr:   Sanitize(strings.TrimSpace(stderr.String())),
			ExitCode: exitCode,
		}, nil
	}
}

// ExecuteStrict is for handlers where any non-zero exit truly means the
// operation failed. It returns stdout on success and raises
// ExecutionFailure (with the exit code attached) otherwise. When the
// combined output looks like a credential rejection, an Authentication
// error is surfaced instead.
func (e *Executor) ExecuteStrict(ctx context.Context, command string, args []string, opts Options) (string, error) {
	res, err := e.Execute(ctx, command, args, opts)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		combined := res.Stdout + "\n" + res.Stderr
		if authFailurePattern.MatchString(combined) {
			return "", newAuthenticationError("authentication failed: " + strings.TrimSpace(combined))
		}
		detail := res.Stderr
		if detail == "" {
			detail = res.Stdout
		}
		return "", newExecutionError(
			fmt.Sprintf("appknox %s exited with code %d: %s", command, res.ExitCode, detail),
			res.ExitCode,
		)
	}
	return res.Stdout, nil
}

// cappedBuffer accumulates process output up to a fixed limit. Writes past
// the limit are accepted and dropped so the child never blocks on a full
// pipe.
type cappedBuffer struct {
	buf       bytes.Buffer
	limit     int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remain := b.limit - b.buf.Len()
	if remain <= 0 {
		b.truncated = true
		return len(p), nil
	}
	if len(p) > remain {
		b.buf.Write(p[:remain])
		b.truncated = true
		return len(p), nil
	}
	return b.buf.Write(p)
}

func (b *cappedBuffer) String() string {
	if b.truncated {
		return b.buf.String() + truncationMarker
	}
	return b.buf.String()
}

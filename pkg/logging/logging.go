// Package logging builds the process-wide logger. Output always goes to
// stderr: stdout belongs to the MCP transport and must stay clean.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// LevelEnv selects verbosity; the value "debug" enables debug logging,
// anything else keeps the default.
const LevelEnv = "APPKNOX_LOG_LEVEL"

// New returns a timestamped stderr logger. The level is decided once at
// process start and treated as immutable for the run: debug when either
// the --debug flag or the env var asks for it, info otherwise.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug || os.Getenv(LevelEnv) == "debug" {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
}

package appknox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// AccessTokenEnv is the environment variable carrying the Appknox
	// access token, the primary credential source.
	AccessTokenEnv = "APPKNOX_ACCESS_TOKEN"

	// The appknox CLI writes its own config after 'appknox login'. Both
	// key spellings appear in the wild.
	tokenFileKeyHyphen     = "appknox-access-token"
	tokenFileKeyUnderscore = "appknox_access_token"
)

// CredentialResolver derives the child-process environment for each
// request. Results are never cached: the process environment and the CLI's
// config file can both change between calls (e.g. after 'appknox login').
type CredentialResolver struct {
	log        zerolog.Logger
	configPath string
}

func NewCredentialResolver(log zerolog.Logger) *CredentialResolver {
	return &CredentialResolver{log: log, configPath: TokenConfigPath()}
}

// TokenConfigPath returns the well-known location of the CLI's own config
// file, the fallback credential source.
func TokenConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "appknox.json")
}

// Resolve builds the environment for one spawn: process env, then caller
// overrides (overrides win), then a token read from the CLI config file if
// none is present yet. The returned token is empty when no credential
// source produced one; the executor must refuse to spawn in that case.
func (r *CredentialResolver) Resolve(overrides map[string]string) ([]string, string) {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	for k, v := range overrides {
		env[k] = v
	}

	if env[AccessTokenEnv] == "" {
		if token := r.tokenFromConfigFile(); token != "" {
			env[AccessTokenEnv] = token
		}
	}

	pairs := make([]string, 0, len(env))
	for k, v := range env {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, v))
	}
	return pairs, env[AccessTokenEnv]
}

// tokenFromConfigFile reads the fallback credential file. A missing file is
// normal (the user may rely on the env var); anything else wrong with the
// file is logged and treated as "no token found", never a hard failure.
func (r *CredentialResolver) tokenFromConfigFile() string {
	if r.configPath == "" {
		return ""
	}
	data, err := os.ReadFile(r.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			r.log.Debug().Str("path", r.configPath).Msg("appknox config file not present")
		} else {
			r.log.Warn().Err(err).Str("path", r.configPath).Msg("could not read appknox config file")
		}
		return ""
	}

	var cfg map[string]interface{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		r.log.Warn().Err(err).Str("path", r.configPath).Msg("appknox config file is not valid JSON")
		return ""
	}
	for _, key := range []string{tokenFileKeyHyphen, tokenFileKeyUnderscore} {
		if token, ok := cfg[key].(string); ok && token != "" {
			r.log.Debug().Str("path", r.configPath).Msg("access token loaded from config file")
			return token
		}
	}
	return ""
}

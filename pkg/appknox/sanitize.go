package appknox

import "regexp"

// Output scrubbing applied to anything captured from the child process
// before it reaches a caller or a log line. Lossy and best-effort: a
// defense-in-depth measure, not a guarantee.
var (
	// Long hex runs catch leaked access tokens and hashes.
	hexRunPattern = regexp.MustCompile(`[0-9a-fA-F]{32,}`)
	// Home-directory prefixes reveal the local username.
	unixHomePattern    = regexp.MustCompile(`/(Users|home)/[^/\s]+`)
	windowsHomePattern = regexp.MustCompile(`(?i)([A-Z]:\\Users\\)[^\\\s]+`)
)

const redactedMarker = "[REDACTED]"

// Sanitize strips token-shaped strings and usernames from text. Redactions
// are applied in order: hex runs first, then Unix home prefixes, then
// Windows profile prefixes.
func Sanitize(text string) string {
	text = hexRunPattern.ReplaceAllString(text, redactedMarker)
	text = unixHomePattern.ReplaceAllString(text, "/$1/[USER]")
	text = windowsHomePattern.ReplaceAllString(text, `${1}[USER]`)
	return text
}

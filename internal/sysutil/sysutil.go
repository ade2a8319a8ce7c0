// Package sysutil holds tiny process-level helpers shared by the composition
// root and the config loader: log level selection and loose env-string
// interpretation.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// logLevels maps accepted LOG_LEVEL values (lowercased, trimmed) to zerolog
// levels. "warning" is kept as an alias because deployment manifests tend to
// spell it out.
var logLevels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
	"panic":   zerolog.PanicLevel,
}

// SetLogLevel configures the global zerolog level. Unknown or empty values
// fall back to info so a typo in LOG_LEVEL never silences the process.
func SetLogLevel(lvl string) {
	if l, ok := logLevels[strings.ToLower(strings.TrimSpace(lvl))]; ok {
		zerolog.SetGlobalLevel(l)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// IsTruthy reports whether an env-style string means "on".
// Accepted (case-insensitive): "1", "true", "yes", "y", "on".
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// IsFalsy reports whether an env-style string means "off". A string can be
// neither truthy nor falsy ("maybe"), which lets callers keep their default.
func IsFalsy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "no", "n", "off":
		return true
	default:
		return false
	}
}

// FirstNonEmpty returns the first value that is more than whitespace, or ""
// when every value is blank. Used to layer env overrides over build-time
// defaults.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

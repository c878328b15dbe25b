// Package envflag reads the environment variables that steer instrumentation
// and detector selection.
//
// Per-instrumentation switches follow the OpenTelemetry convention
// OTEL_INSTRUMENTATION_<SUFFIX>_ENABLED, where <SUFFIX> is derived from the
// instrumentation name: "autotel/instrumentation-aws-sdk" -> "AWS_SDK".
// List-valued variables (detector selection, enabled/disabled
// instrumentation lists) are comma-separated.
//
// All reads go through a LookupFunc so tests can supply a fixed environment
// instead of mutating the process env. Values are read on every call and
// never cached.
package envflag

import "strings"

// Prefix is the leading portion shared by every instrumentation name in the
// catalog. Names that do not start with it have no environment switch.
const Prefix = "autotel/instrumentation-"

// LookupFunc reports the value of an environment variable and whether it is
// set, matching the os.LookupEnv signature.
type LookupFunc func(key string) (string, bool)

// EnvName derives the environment-variable suffix for an instrumentation
// name. The suffix is the portion after Prefix, upper-cased, with dashes
// replaced by underscores:
//
//	"autotel/instrumentation-fs"      -> "FS"
//	"autotel/instrumentation-aws-sdk" -> "AWS_SDK"
//
// It returns ok=false when the name does not start with Prefix or nothing
// follows it. Distinct catalog names always yield distinct suffixes because
// the transformation only touches case and dashes.
func EnvName(name string) (string, bool) {
	rest, found := strings.CutPrefix(name, Prefix)
	if !found || rest == "" {
		return "", false
	}
	return strings.ReplaceAll(strings.ToUpper(rest), "-", "_"), true
}

// EnvVar returns the full name of the enablement switch for an
// instrumentation name:
//
//	"autotel/instrumentation-aws-sdk" -> "OTEL_INSTRUMENTATION_AWS_SDK_ENABLED"
//
// It returns ok=false when the name has no suffix.
func EnvVar(name string) (string, bool) {
	suffix, found := EnvName(name)
	if !found {
		return "", false
	}
	return "OTEL_INSTRUMENTATION_" + suffix + "_ENABLED", true
}

// Enabled reads the OTEL_INSTRUMENTATION_<SUFFIX>_ENABLED switch for the
// named instrumentation. The result is tri-state: ok=false means the
// environment expresses no preference, either because the name has no
// suffix, the variable is unset, or its value is not exactly "true" or
// "false". Matching is case-sensitive and values are not trimmed, so "TRUE"
// and " true" are both treated as unset.
func Enabled(lookup LookupFunc, name string) (enabled, ok bool) {
	key, found := EnvVar(name)
	if !found {
		return false, false
	}
	value, set := lookup(key)
	if !set {
		return false, false
	}
	switch value {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// Split tokenizes a comma-separated list value. Tokens are trimmed of
// surrounding whitespace and empty tokens are dropped, so "a, ,b," yields
// ["a", "b"].
func Split(value string) []string {
	parts := strings.Split(value, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if token := strings.TrimSpace(part); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// List reads a comma-separated environment variable and tokenizes it with
// Split. ok=false means the variable is unset or blank, which callers treat
// as "no restriction" rather than an empty selection.
func List(lookup LookupFunc, key string) (tokens []string, ok bool) {
	value, set := lookup(key)
	if !set || strings.TrimSpace(value) == "" {
		return nil, false
	}
	return Split(value), true
}

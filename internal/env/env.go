// Package env implements the truthy/falsy parsing rule for the
// engine's environment-variable overrides (WAKEPY_FAKE_SUCCESS,
// WAKEPY_FORCE_FAILURE).
package env

import (
	"os"
	"strings"
)

// FakeSuccessVar is the environment variable that, when truthy,
// prepends the built-in fake-success method to every candidate list.
const FakeSuccessVar = "WAKEPY_FAKE_SUCCESS"

// ForceFailureVar is the environment variable that, when truthy,
// forces every candidate method to fail at the activation stage.
const ForceFailureVar = "WAKEPY_FORCE_FAILURE"

var falsyValues = map[string]bool{
	"":      true,
	"0":     true,
	"no":    true,
	"n":     true,
	"false": true,
	"f":     true,
}

// Truthy implements a case-insensitive truthy/falsy rule: "", "0",
// "no", "n", "false", "f" (any case) are falsy; anything else is
// truthy.
func Truthy(value string) bool {
	return !falsyValues[strings.ToLower(value)]
}

// Lookup reads name from the process environment and reports whether
// it is set to a truthy value.
func Lookup(name string) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return false
	}
	return Truthy(v)
}

// FakeSuccess reports whether WAKEPY_FAKE_SUCCESS is truthy.
func FakeSuccess() bool { return Lookup(FakeSuccessVar) }

// ForceFailure reports whether WAKEPY_FORCE_FAILURE is truthy.
func ForceFailure() bool { return Lookup(ForceFailureVar) }

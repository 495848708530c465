// Package activation defines the structured result and diagnostics
// model produced by one Mode activation attempt: the per-method
// MethodActivationResult and the aggregate ActivationResult.
package activation

import (
	"fmt"
	"strings"
)

// Stage identifies which part of a single-method activation attempt
// produced a MethodActivationResult.
type Stage string

const (
	// StagePlatformSupport means the method was dropped before it was
	// ever invoked, because it does not support the current platform.
	StagePlatformSupport Stage = "PLATFORM_SUPPORT"
	// StageRequirements means CanIUse rejected the method.
	StageRequirements Stage = "REQUIREMENTS"
	// StageActivation means Enter (or the initial heartbeat tick)
	// succeeded or failed.
	StageActivation Stage = "ACTIVATION"
	// StageNone is the zero value; it should never appear in a
	// finished result.
	StageNone Stage = "NONE"
)

// MethodActivationResult records the outcome of attempting exactly one
// Method against exactly one Mode.
type MethodActivationResult struct {
	MethodName    string
	ModeName      string
	Stage         Stage
	Success       bool
	FailureReason string
}

func (r MethodActivationResult) String() string {
	if r.Success {
		return fmt.Sprintf("%s: SUCCESS", r.MethodName)
	}
	if r.FailureReason == "" {
		return fmt.Sprintf("%s: FAIL (%s)", r.MethodName, r.Stage)
	}
	return fmt.Sprintf("%s: FAIL (%s) - %s", r.MethodName, r.Stage, r.FailureReason)
}

// ActivationResult aggregates every MethodActivationResult produced
// while activating one Mode, plus the winner, if any.
type ActivationResult struct {
	ModeName string
	Results  []MethodActivationResult
	// Method is the name of the winning method descriptor, or "" if
	// activation failed. It deliberately does not hold a
	// *method.Descriptor to avoid an import cycle between activation
	// and method; mode.Mode resolves the name back to a descriptor
	// when it needs one.
	Method string
	// SessionID correlates this result with the log lines emitted
	// during the Enter() call that produced it.
	SessionID string
}

// Success reports whether some method reached ACTIVATION/true.
func (r ActivationResult) Success() bool {
	for _, m := range r.Results {
		if m.Stage == StageActivation && m.Success {
			return true
		}
	}
	return false
}

// RealSuccess reports Success() that is not satisfied solely by the
// built-in fake-success method.
func (r ActivationResult) RealSuccess(fakeSuccessName string) bool {
	return r.Success() && r.Method != fakeSuccessName
}

// FailureTextStyle selects the rendering used by GetFailureText.
type FailureTextStyle int

const (
	// StyleBlock renders one line per attempted method (default).
	StyleBlock FailureTextStyle = iota
	// StyleInline renders a single summary line.
	StyleInline
)

// GetFailureText renders a human-readable report of every attempt.
func (r ActivationResult) GetFailureText(style FailureTextStyle) string {
	if len(r.Results) == 0 {
		return fmt.Sprintf("could not activate mode %q: no candidate methods were attempted", r.ModeName)
	}

	if style == StyleInline {
		parts := make([]string, 0, len(r.Results))
		for _, m := range r.Results {
			parts = append(parts, m.String())
		}
		return fmt.Sprintf("mode %q: %s", r.ModeName, strings.Join(parts, "; "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Could not activate mode %q. Tried methods:\n", r.ModeName)
	for _, m := range r.Results {
		fmt.Fprintf(&b, "  - %s\n", m.String())
	}
	return b.String()
}

// Package method defines the Method contract: a platform-bound,
// named technique for inhibiting idle sleep, expressed as a value
// (a Descriptor of optional function fields) rather than as a class
// hierarchy.
package method

import (
	"context"
	"fmt"
	"time"

	"github.com/wakepy-go/wakepy/activation"
	"github.com/wakepy-go/wakepy/platform"
)

// DefaultHeartbeatPeriod is used when a Descriptor does not set
// HeartbeatPeriod but does define Heartbeat.
const DefaultHeartbeatPeriod = 55 * time.Second

// Descriptor is the class-level description of one activation
// technique plus the per-instance hooks the engine invokes. A single
// Descriptor value is both the registry entry and, since Methods carry
// no other persistent state than what their closures capture, the
// thing instantiated per activation attempt.
type Descriptor struct {
	// Name must be unique within the whole registry, not just within
	// ModeName's methods.
	Name string
	// ModeName is the single Mode this method serves.
	ModeName string
	// SupportedPlatforms is the set of platform tags (with composite
	// expansion) this method may be attempted on.
	SupportedPlatforms []platform.Tag

	// CanIUse is an optional precondition probe. It must not have
	// side effects that Exit would need to undo.
	CanIUse func(ctx context.Context) error
	// Enter performs the inhibit action. Optional if Heartbeat is set.
	Enter func(ctx context.Context) error
	// Heartbeat is invoked periodically, every HeartbeatPeriod, while
	// the method is active. Optional.
	Heartbeat func(ctx context.Context) error
	// Exit reverses Enter. Must be idempotent after a failed call.
	// Invoked at most once per successful Enter.
	Exit func(ctx context.Context) error

	// HeartbeatPeriod overrides DefaultHeartbeatPeriod when Heartbeat
	// is set and this is non-zero.
	HeartbeatPeriod time.Duration
}

// Period returns HeartbeatPeriod, or DefaultHeartbeatPeriod if unset.
func (d Descriptor) Period() time.Duration {
	if d.HeartbeatPeriod > 0 {
		return d.HeartbeatPeriod
	}
	return DefaultHeartbeatPeriod
}

// Validate enforces the registry's configuration-error invariant: a
// Method with neither Enter nor Heartbeat defined can never reach
// Active and is rejected before it is ever attempted.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: method has empty name", ErrInvalidMethod)
	}
	if d.Enter == nil && d.Heartbeat == nil {
		return fmt.Errorf("%w: method %q defines neither Enter nor Heartbeat", ErrInvalidMethod, d.Name)
	}
	return nil
}

// Error kinds raised by the Method framework. These wrap ErrMethod so
// callers can use errors.Is(err, method.ErrMethod) to detect "some
// method-framework error happened" without caring which kind.
var (
	ErrMethod             = fmt.Errorf("method error")
	ErrRequirementsFailed = fmt.Errorf("%w: requirements failed", ErrMethod)
	ErrEnterFailed        = fmt.Errorf("%w: enter failed", ErrMethod)
	ErrHeartbeatFailed    = fmt.Errorf("%w: heartbeat failed", ErrMethod)
	ErrExitFailed         = fmt.Errorf("%w: exit failed", ErrMethod)
	ErrInvalidMethod      = fmt.Errorf("%w: invalid method", ErrMethod)
)

// Attempt runs the single-method activation sub-procedure: forced-
// failure check, CanIUse, Enter, and an initial heartbeat tick if
// Enter is undefined (a method that defines Enter gets no synchronous
// heartbeat tick here). It
// returns exactly one MethodActivationResult, and reports whether the
// method is now active (so the caller knows whether to schedule
// recurring heartbeats and eventually call Exit).
func Attempt(ctx context.Context, d Descriptor, forceFailure bool) (activation.MethodActivationResult, bool) {
	base := activation.MethodActivationResult{
		MethodName: d.Name,
		ModeName:   d.ModeName,
	}

	if forceFailure {
		base.Stage = activation.StageActivation
		base.Success = false
		base.FailureReason = "forced failure"
		return base, false
	}

	if d.CanIUse != nil {
		if err := d.CanIUse(ctx); err != nil {
			base.Stage = activation.StageRequirements
			base.Success = false
			base.FailureReason = err.Error()
			return base, false
		}
	}

	if d.Enter != nil {
		if err := d.Enter(ctx); err != nil {
			base.Stage = activation.StageActivation
			base.Success = false
			base.FailureReason = err.Error()
			return base, false
		}
		// Enter alone brings the method Active. Per the fixed initial-
		// tick policy (first tick after one full HeartbeatPeriod), any
		// declared Heartbeat is scheduled by the caller as a recurring
		// background task and is not invoked synchronously here.
		base.Stage = activation.StageActivation
		base.Success = true
		return base, true
	}

	if d.Heartbeat == nil {
		// Neither Enter nor Heartbeat is defined: Validate should have
		// rejected this Descriptor already, but guard against a
		// programmer error constructing one by hand.
		base.Stage = activation.StageActivation
		base.Success = false
		base.FailureReason = "method defines neither Enter nor Heartbeat"
		return base, false
	}

	// Heartbeat-only method: the only way to know whether it can reach
	// Active is to run its first tick synchronously, right now.
	if err := d.Heartbeat(ctx); err != nil {
		if d.Exit != nil {
			_ = d.Exit(ctx)
		}
		base.Stage = activation.StageActivation
		base.Success = false
		base.FailureReason = err.Error()
		return base, false
	}

	base.Stage = activation.StageActivation
	base.Success = true
	return base, true
}

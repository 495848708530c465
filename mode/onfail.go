package mode

import "github.com/wakepy-go/wakepy/activation"

// OnFailFunc is the caller-supplied callback form of on_fail. An
// error returned from it propagates out of Enter unchanged.
type OnFailFunc func(activation.ActivationResult) error

// OnFail selects what happens when activation produces no success.
// The zero value behaves like OnFailError.
type OnFail struct {
	kind string
	fn   OnFailFunc
}

// OnFailError raises an *ActivationError from Enter. This is the
// default when Config.OnFail is left unset.
func OnFailError() OnFail { return OnFail{kind: "error"} }

// OnFailWarn logs the failure text at Warn and leaves the Mode
// inactive; Enter returns (mode, nil).
func OnFailWarn() OnFail { return OnFail{kind: "warn"} }

// OnFailPass silently leaves the Mode inactive; Enter returns
// (mode, nil).
func OnFailPass() OnFail { return OnFail{kind: "pass"} }

// OnFailCallback invokes fn with the final ActivationResult. An error
// returned by fn propagates out of Enter; a nil error leaves the Mode
// inactive same as OnFailPass.
func OnFailCallback(fn OnFailFunc) OnFail { return OnFail{kind: "callback", fn: fn} }

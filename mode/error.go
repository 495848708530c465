package mode

import "github.com/wakepy-go/wakepy/activation"

// ActivationError is returned from Enter when every candidate method
// failed and OnFail is OnFailError (the default).
type ActivationError struct {
	Result activation.ActivationResult
}

func (e *ActivationError) Error() string {
	return e.Result.GetFailureText(activation.StyleInline)
}

package method

import (
	"context"

	"github.com/wakepy-go/wakepy/platform"
)

// FakeSuccessName is the unique name of the built-in no-op method that
// is prepended to candidate lists when WAKEPY_FAKE_SUCCESS is truthy.
// It is never registered in the normal registry and never selected
// except through that env var.
const FakeSuccessName = "WakepyFakeSuccess"

// NewFakeSuccess returns the built-in WakepyFakeSuccess Method bound
// to modeName. It supports every platform and never fails; it exists
// purely so tests and CI can exercise the engine without a real
// sleep-inhibition backend.
func NewFakeSuccess(modeName string) Descriptor {
	return Descriptor{
		Name:               FakeSuccessName,
		ModeName:           modeName,
		SupportedPlatforms: []platform.Tag{platform.Any},
		Enter:              func(context.Context) error { return nil },
		Heartbeat:          func(context.Context) error { return nil },
		Exit:               func(context.Context) error { return nil },
	}
}

package method_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakepy-go/wakepy/activation"
	"github.com/wakepy-go/wakepy/method"
)

func TestDescriptor_Validate(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		d := method.Descriptor{Enter: func(context.Context) error { return nil }}
		require.Error(t, d.Validate())
		assert.ErrorIs(t, d.Validate(), method.ErrInvalidMethod)
	})

	t.Run("rejects neither enter nor heartbeat", func(t *testing.T) {
		d := method.Descriptor{Name: "empty"}
		require.Error(t, d.Validate())
	})

	t.Run("accepts enter only", func(t *testing.T) {
		d := method.Descriptor{Name: "e", Enter: func(context.Context) error { return nil }}
		assert.NoError(t, d.Validate())
	})

	t.Run("accepts heartbeat only", func(t *testing.T) {
		d := method.Descriptor{Name: "h", Heartbeat: func(context.Context) error { return nil }}
		assert.NoError(t, d.Validate())
	})
}

func TestAttempt_ForceFailure(t *testing.T) {
	d := method.Descriptor{Name: "m", Enter: func(context.Context) error { return nil }}
	res, active := method.Attempt(context.Background(), d, true)
	assert.False(t, active)
	assert.False(t, res.Success)
	assert.Equal(t, activation.StageActivation, res.Stage)
	assert.Equal(t, "forced failure", res.FailureReason)
}

func TestAttempt_RequirementsFailed(t *testing.T) {
	d := method.Descriptor{
		Name:    "m",
		CanIUse: func(context.Context) error { return errors.New("no backend") },
		Enter:   func(context.Context) error { return nil },
	}
	res, active := method.Attempt(context.Background(), d, false)
	assert.False(t, active)
	assert.Equal(t, activation.StageRequirements, res.Stage)
	assert.Equal(t, "no backend", res.FailureReason)
}

func TestAttempt_EnterFailed(t *testing.T) {
	d := method.Descriptor{
		Name:  "m",
		Enter: func(context.Context) error { return errors.New("boom") },
	}
	res, active := method.Attempt(context.Background(), d, false)
	assert.False(t, active)
	assert.Equal(t, activation.StageActivation, res.Stage)
	assert.Equal(t, "boom", res.FailureReason)
}

func TestAttempt_EnterSucceeds_HeartbeatNotCalledSynchronously(t *testing.T) {
	heartbeatCalled := false
	d := method.Descriptor{
		Name:  "m",
		Enter: func(context.Context) error { return nil },
		Heartbeat: func(context.Context) error {
			heartbeatCalled = true
			return nil
		},
	}
	res, active := method.Attempt(context.Background(), d, false)
	assert.True(t, active)
	assert.True(t, res.Success)
	assert.False(t, heartbeatCalled, "heartbeat is scheduled, not invoked synchronously, when Enter succeeds")
}

func TestAttempt_HeartbeatOnly_Succeeds(t *testing.T) {
	d := method.Descriptor{
		Name:      "m",
		Heartbeat: func(context.Context) error { return nil },
	}
	res, active := method.Attempt(context.Background(), d, false)
	assert.True(t, active)
	assert.True(t, res.Success)
}

func TestAttempt_HeartbeatOnly_FailsAndExitsBestEffort(t *testing.T) {
	exitCalled := false
	d := method.Descriptor{
		Name:      "m",
		Heartbeat: func(context.Context) error { return errors.New("nope") },
		Exit: func(context.Context) error {
			exitCalled = true
			return nil
		},
	}
	res, active := method.Attempt(context.Background(), d, false)
	assert.False(t, active)
	assert.Equal(t, "nope", res.FailureReason)
	assert.True(t, exitCalled)
}

func TestPeriod_DefaultsTo55Seconds(t *testing.T) {
	d := method.Descriptor{Name: "m", Heartbeat: func(context.Context) error { return nil }}
	assert.Equal(t, method.DefaultHeartbeatPeriod, d.Period())
}

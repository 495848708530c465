package mode_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakepy-go/wakepy/activation"
	"github.com/wakepy-go/wakepy/method"
	"github.com/wakepy-go/wakepy/mode"
	"github.com/wakepy-go/wakepy/platform"
	"github.com/wakepy-go/wakepy/registry"
)

func newMethod(name, modeName string, enter func(context.Context) error) method.Descriptor {
	return method.Descriptor{
		Name:               name,
		ModeName:           modeName,
		SupportedPlatforms: []platform.Tag{platform.Any},
		Enter:              enter,
		Exit:               func(context.Context) error { return nil },
	}
}

func TestEnter_FakeSuccess(t *testing.T) {
	t.Setenv("WAKEPY_FAKE_SUCCESS", "yes")

	reg := registry.New()
	m, err := mode.New("keep.running", mode.Config{Registry: reg}).Enter(context.Background())
	require.NoError(t, err)

	result := m.Result()
	assert.True(t, result.Success())
	assert.False(t, result.RealSuccess(method.FakeSuccessName))
	assert.Equal(t, method.FakeSuccessName, result.Method)

	found := false
	for _, r := range result.Results {
		if r.Stage == activation.StageActivation && r.Success {
			found = true
		}
	}
	assert.True(t, found)
}

func TestEnter_ForcedFailureOverridesFakeSuccess(t *testing.T) {
	t.Setenv("WAKEPY_FAKE_SUCCESS", "1")
	t.Setenv("WAKEPY_FORCE_FAILURE", "1")

	reg := registry.New()
	m, err := mode.New("keep.presenting", mode.Config{Registry: reg, OnFail: mode.OnFailPass()}).Enter(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.False(t, m.Active())
	assert.False(t, m.Result().Success())
}

func TestEnter_PriorityAndWildcard(t *testing.T) {
	reg := registry.New()
	var attempted []string

	track := func(name string, fail bool) func(context.Context) error {
		return func(context.Context) error {
			attempted = append(attempted, name)
			if fail {
				return errors.New("enter failed")
			}
			return nil
		}
	}

	require.NoError(t, reg.Register(newMethod("A", "keep.running", track("A", false))))
	require.NoError(t, reg.Register(newMethod("B", "keep.running", track("B", true))))
	require.NoError(t, reg.Register(newMethod("C", "keep.running", track("C", true))))

	cfg := mode.Config{
		Registry:        reg,
		MethodsPriority: []string{"C", "*", "A"},
	}
	m, err := mode.New("keep.running", cfg).Enter(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "B", "A"}, attempted)
	assert.Equal(t, "A", m.Result().Method)
	assert.Len(t, m.Result().Results, 3)
}

func TestEnter_OnFailErrorCarriesActivationResult(t *testing.T) {
	reg := registry.New()
	require.NoError(t, reg.Register(newMethod("A", "keep.running", func(context.Context) error {
		return errors.New("boom")
	})))

	_, err := mode.New("keep.running", mode.Config{Registry: reg}).Enter(context.Background())
	require.Error(t, err)

	var actErr *mode.ActivationError
	require.True(t, errors.As(err, &actErr))
	assert.False(t, actErr.Result.Success())
	assert.Len(t, actErr.Result.Results, 1)
}

func TestEnter_UnsupportedPlatformDropsMethodWithoutTrying(t *testing.T) {
	reg := registry.New()
	tried := false
	d := method.Descriptor{
		Name:               "windows-only",
		ModeName:           "keep.running",
		SupportedPlatforms: []platform.Tag{platform.Windows},
		Enter: func(context.Context) error {
			tried = true
			return nil
		},
	}
	require.NoError(t, reg.Register(d))

	_, err := mode.New("keep.running", mode.Config{Registry: reg, OnFail: mode.OnFailPass()}).Enter(context.Background())
	require.NoError(t, err)
	assert.False(t, tried)
}

func TestRun_UserErrorPropagatesAndExitStillRuns(t *testing.T) {
	reg := registry.New()
	exitCalled := false
	d := newMethod("A", "keep.running", func(context.Context) error { return nil })
	d.Exit = func(context.Context) error {
		exitCalled = true
		return nil
	}
	require.NoError(t, reg.Register(d))

	domainErr := errors.New("domain failure")
	err := mode.Run(context.Background(), "keep.running", mode.Config{Registry: reg}, func(ctx context.Context, m *mode.Mode) error {
		return domainErr
	})

	assert.ErrorIs(t, err, domainErr)
	assert.True(t, exitCalled)
}

func TestExit_CallsWinnerExitExactlyOnce(t *testing.T) {
	reg := registry.New()
	exitCalls := 0
	d := newMethod("A", "keep.running", func(context.Context) error { return nil })
	d.Exit = func(context.Context) error {
		exitCalls++
		return nil
	}
	require.NoError(t, reg.Register(d))

	m, err := mode.New("keep.running", mode.Config{Registry: reg}).Enter(context.Background())
	require.NoError(t, err)
	require.True(t, m.Active())

	require.NoError(t, m.Exit(context.Background()))
	assert.False(t, m.Active())
	assert.Equal(t, 1, exitCalls)

	require.NoError(t, m.Exit(context.Background()))
	assert.Equal(t, 1, exitCalls)
}

func TestEnter_HeartbeatOnlyMethodRunsFirstTickSynchronously(t *testing.T) {
	reg := registry.New()
	heartbeats := 0
	d := method.Descriptor{
		Name:               "hb-only",
		ModeName:           "keep.running",
		SupportedPlatforms: []platform.Tag{platform.Any},
		Heartbeat: func(context.Context) error {
			heartbeats++
			return nil
		},
	}
	require.NoError(t, reg.Register(d))

	m, err := mode.New("keep.running", mode.Config{Registry: reg}).Enter(context.Background())
	require.NoError(t, err)
	assert.True(t, m.Active())
	assert.Equal(t, 1, heartbeats)

	require.NoError(t, m.Exit(context.Background()))
}

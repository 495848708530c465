package defaults_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakepy-go/wakepy/dbusadapter"
	"github.com/wakepy-go/wakepy/defaults"
	"github.com/wakepy-go/wakepy/registry"
)

func TestRegisterDefaultMethods_PopulatesBothModes(t *testing.T) {
	reg := registry.New()
	require.NoError(t, defaults.RegisterDefaultMethods(reg, dbusadapter.NewFakeAdapter()))

	running := reg.MethodsFor(defaults.KeepRunning)
	presenting := reg.MethodsFor(defaults.KeepPresenting)

	assert.NotEmpty(t, running)
	assert.NotEmpty(t, presenting)

	for _, d := range running {
		assert.Equal(t, defaults.KeepRunning, d.ModeName)
	}
	for _, d := range presenting {
		assert.Equal(t, defaults.KeepPresenting, d.ModeName)
	}
}

func TestRegisterDefaultMethods_RejectsSecondCall(t *testing.T) {
	reg := registry.New()
	adapter := dbusadapter.NewFakeAdapter()
	require.NoError(t, defaults.RegisterDefaultMethods(reg, adapter))
	assert.Error(t, defaults.RegisterDefaultMethods(reg, adapter))
}

package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakepy-go/wakepy/method"
	"github.com/wakepy-go/wakepy/registry"
)

func noopEnter(context.Context) error { return nil }

func TestRegister_PreservesOrder(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(method.Descriptor{Name: "A", ModeName: "keep.running", Enter: noopEnter}))
	require.NoError(t, r.Register(method.Descriptor{Name: "B", ModeName: "keep.running", Enter: noopEnter}))
	require.NoError(t, r.Register(method.Descriptor{Name: "C", ModeName: "keep.running", Enter: noopEnter}))

	got := r.MethodsFor("keep.running")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestRegister_DuplicateName(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(method.Descriptor{Name: "A", ModeName: "keep.running", Enter: noopEnter}))
	err := r.Register(method.Descriptor{Name: "A", ModeName: "keep.presenting", Enter: noopEnter})
	require.Error(t, err)
	assert.ErrorIs(t, err, registry.ErrDuplicateName)
}

func TestRegister_InvalidMethod(t *testing.T) {
	r := registry.New()
	err := r.Register(method.Descriptor{Name: "A", ModeName: "keep.running"})
	require.Error(t, err)
	assert.ErrorIs(t, err, method.ErrInvalidMethod)
}

func TestMethodsFor_UnknownMode(t *testing.T) {
	r := registry.New()
	assert.Empty(t, r.MethodsFor("unknown"))
}

func TestFind(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Register(method.Descriptor{Name: "A", ModeName: "keep.running", Enter: noopEnter}))

	d, ok := r.Find("keep.running", "A")
	require.True(t, ok)
	assert.Equal(t, "A", d.Name)

	_, ok = r.Find("keep.running", "missing")
	assert.False(t, ok)
}

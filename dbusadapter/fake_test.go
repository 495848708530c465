package dbusadapter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakepy-go/wakepy/dbusadapter"
)

func TestFakeAdapter_RecordsCallsAndReturnsCannedResponse(t *testing.T) {
	fa := dbusadapter.NewFakeAdapter()
	fa.On("Inhibit", []interface{}{uint32(42)}, nil)

	body, err := fa.Call(context.Background(), dbusadapter.Call{
		Bus:        dbusadapter.SessionBus,
		Service:    "org.freedesktop.ScreenSaver",
		ObjectPath: "/org/freedesktop/ScreenSaver",
		Interface:  "org.freedesktop.ScreenSaver",
		Member:     "Inhibit",
		Args:       []interface{}{"app", "reason"},
	})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{uint32(42)}, body)
	require.Len(t, fa.Calls, 1)
	assert.Equal(t, "Inhibit", fa.Calls[0].Member)
}

func TestFakeAdapter_UnregisteredMember(t *testing.T) {
	fa := dbusadapter.NewFakeAdapter()
	_, err := fa.Call(context.Background(), dbusadapter.Call{Member: "Whatever"})
	require.Error(t, err)
	var dbusErr *dbusadapter.DBusError
	require.ErrorAs(t, err, &dbusErr)
	assert.Equal(t, dbusadapter.ErrKindOther, dbusErr.Kind)
}

func TestBus_String(t *testing.T) {
	assert.Equal(t, "SESSION", dbusadapter.SessionBus.String())
	assert.Equal(t, "SYSTEM", dbusadapter.SystemBus.String())
}

// Package freedesktop implements the Freedesktop power-management and
// screensaver inhibit Methods: org.freedesktop.ScreenSaver.Inhibit and
// org.freedesktop.PowerManagement.Inhibit.Inhibit, both of the shape
// Inhibit(app, reason) -> cookie / UnInhibit(cookie), reached through
// a dbusadapter.Adapter.
package freedesktop

import (
	"context"
	"errors"
	"fmt"

	"github.com/wakepy-go/wakepy/dbusadapter"
	"github.com/wakepy-go/wakepy/method"
	"github.com/wakepy-go/wakepy/platform"
)

const appName = "wakepy"

// target is one Freedesktop-style Inhibit/UnInhibit service.
type target struct {
	name    string
	service string
	path    string
	iface   string
	reason  string
}

var (
	screenSaver = target{
		name:    "org.freedesktop.ScreenSaver",
		service: "org.freedesktop.ScreenSaver",
		path:    "/org/freedesktop/ScreenSaver",
		iface:   "org.freedesktop.ScreenSaver",
		reason:  "keeping display and session awake",
	}
	powerManagement = target{
		name:    "org.freedesktop.PowerManagement",
		service: "org.freedesktop.PowerManagement.Inhibit",
		path:    "/org/freedesktop/PowerManagement/Inhibit",
		iface:   "org.freedesktop.PowerManagement.Inhibit",
		reason:  "keeping system awake",
	}
)

// inhibitor owns the cookie for the Active lifetime of one method
// instance. A fresh inhibitor backs each Descriptor returned from this
// package, so concurrent Modes never share a cookie field.
type inhibitor struct {
	adapter dbusadapter.Adapter
	t       target
	cookie  uint32
}

func (i *inhibitor) enter(ctx context.Context) error {
	body, err := i.adapter.Call(ctx, dbusadapter.Call{
		Bus:        dbusadapter.SessionBus,
		Service:    i.t.service,
		ObjectPath: i.t.path,
		Interface:  i.t.iface,
		Member:     "Inhibit",
		Args:       []interface{}{appName, i.t.reason},
	})
	if err != nil {
		return classifyEnterError(err)
	}
	cookie, err := cookieFromBody(body)
	if err != nil {
		return err
	}
	i.cookie = cookie
	return nil
}

func (i *inhibitor) exit(ctx context.Context) error {
	_, err := i.adapter.Call(ctx, dbusadapter.Call{
		Bus:        dbusadapter.SessionBus,
		Service:    i.t.service,
		ObjectPath: i.t.path,
		Interface:  i.t.iface,
		Member:     "UnInhibit",
		Args:       []interface{}{i.cookie},
	})
	return err
}

func cookieFromBody(body []interface{}) (uint32, error) {
	if len(body) != 1 {
		return 0, fmt.Errorf("freedesktop: expected one return value from Inhibit, got %d", len(body))
	}
	switch v := body[0].(type) {
	case uint32:
		return v, nil
	default:
		return 0, fmt.Errorf("freedesktop: unexpected Inhibit reply type %T", body[0])
	}
}

func classifyEnterError(err error) error {
	var dbusErr *dbusadapter.DBusError
	if errors.As(err, &dbusErr) && dbusErr.Kind == dbusadapter.ErrKindServiceUnknown {
		return fmt.Errorf("%w: %v", method.ErrRequirementsFailed, err)
	}
	return err
}

// NewScreenSaver returns the org.freedesktop.ScreenSaver Method bound
// to modeName, using adapter for its D-Bus calls. Its name carries
// modeName (e.g. "freedesktop.screensaver.keep.presenting"), so the
// same service can be registered for both shipped modes.
func NewScreenSaver(modeName string, adapter dbusadapter.Adapter) method.Descriptor {
	return newDescriptor("freedesktop.screensaver."+modeName, modeName, screenSaver, adapter)
}

// NewPowerManagement returns the org.freedesktop.PowerManagement.Inhibit
// Method bound to modeName.
func NewPowerManagement(modeName string, adapter dbusadapter.Adapter) method.Descriptor {
	return newDescriptor("freedesktop.powermanagement", modeName, powerManagement, adapter)
}

func newDescriptor(name, modeName string, t target, adapter dbusadapter.Adapter) method.Descriptor {
	inh := &inhibitor{adapter: adapter, t: t}
	return method.Descriptor{
		Name:               name,
		ModeName:           modeName,
		SupportedPlatforms: []platform.Tag{platform.UnixLikeFOSS},
		Enter:              inh.enter,
		Exit:               inh.exit,
	}
}

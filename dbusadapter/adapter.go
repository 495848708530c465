// Package dbusadapter abstracts the D-Bus operations the Freedesktop
// and GNOME sleep-inhibit Methods need behind a small typed interface,
// so those Methods never depend on a concrete transport and tests can
// substitute a fake bus.
package dbusadapter

import (
	"context"
	"fmt"
)

// Bus selects which D-Bus bus a Call targets.
type Bus int

const (
	// SessionBus is the per-user session bus that desktop-environment
	// session managers and screensaver services publish on.
	SessionBus Bus = iota
	// SystemBus is the machine-wide system bus.
	SystemBus
)

func (b Bus) String() string {
	if b == SystemBus {
		return "SYSTEM"
	}
	return "SESSION"
}

// Error kinds an Adapter maps concrete transport errors onto. They
// give Methods a stable vocabulary to branch on (e.g. treat
// ServiceUnknown as a RequirementsFailed, not an EnterFailed).
type ErrorKind int

const (
	ErrKindNone ErrorKind = iota
	ErrKindServiceUnknown
	ErrKindNoReply
	ErrKindAccessDenied
	ErrKindInvalidArgs
	ErrKindDisconnected
	ErrKindOther
)

// DBusError wraps a transport-level D-Bus failure with enough
// structure for a Method to decide how to report it.
type DBusError struct {
	Kind    ErrorKind
	Name    string // the D-Bus error name, e.g. "org.freedesktop.DBus.Error.ServiceUnknown"
	Message string
}

func (e *DBusError) Error() string {
	if e.Name == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Call describes one method call to make over the bus.
type Call struct {
	Bus        Bus
	Service    string // e.g. "org.freedesktop.ScreenSaver"
	ObjectPath string // e.g. "/org/freedesktop/ScreenSaver"
	Interface  string // e.g. "org.freedesktop.ScreenSaver"
	Member     string // e.g. "Inhibit"
	Args       []interface{}
}

// Adapter is the minimal transport Methods need: make a typed call and
// get back the reply body. A single default implementation
// (NewDefaultAdapter) talks to a real bus; callers may substitute a
// different Adapter per Mode instance for tests or alternate
// transports.
type Adapter interface {
	// Call invokes c.Member on c.Interface at c.ObjectPath on c.Service
	// over c.Bus, and returns the reply body (one value per out
	// parameter in the method's signature).
	Call(ctx context.Context, c Call) ([]interface{}, error)
	// Close releases any held connection. Safe to call more than once.
	Close() error
}

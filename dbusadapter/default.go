package dbusadapter

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// defaultAdapter is the production Adapter, backed by a lazily-dialed
// *dbus.Conn per bus. It defers dialing until the first Call, so a
// missing session-bus address (or any other dial failure) surfaces as
// the error of that first Call rather than at construction time.
type defaultAdapter struct {
	mu      sync.Mutex
	session *dbus.Conn
	system  *dbus.Conn
}

// NewDefaultAdapter returns the default Adapter. It does not dial
// anything until the first Call.
func NewDefaultAdapter() Adapter {
	return &defaultAdapter{}
}

func (a *defaultAdapter) conn(bus Bus) (*dbus.Conn, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch bus {
	case SystemBus:
		if a.system == nil {
			conn, err := dbus.ConnectSystemBus()
			if err != nil {
				return nil, wrapDial(err)
			}
			a.system = conn
		}
		return a.system, nil
	default:
		if a.session == nil {
			conn, err := dbus.ConnectSessionBus()
			if err != nil {
				return nil, wrapDial(err)
			}
			a.session = conn
		}
		return a.session, nil
	}
}

func (a *defaultAdapter) Call(ctx context.Context, c Call) ([]interface{}, error) {
	conn, err := a.conn(c.Bus)
	if err != nil {
		return nil, err
	}

	obj := conn.Object(c.Service, dbus.ObjectPath(c.ObjectPath))
	call := obj.CallWithContext(ctx, c.Interface+"."+c.Member, 0, c.Args...)
	if call.Err != nil {
		return nil, wrapCallError(call.Err)
	}
	return call.Body, nil
}

func (a *defaultAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	var err error
	if a.session != nil {
		err = a.session.Close()
		a.session = nil
	}
	if a.system != nil {
		if sysErr := a.system.Close(); sysErr != nil && err == nil {
			err = sysErr
		}
		a.system = nil
	}
	return err
}

// wrapDial turns a connection-establishment failure into a
// RequirementsFailed-flavored DBusError: there is no bus to talk to,
// which is a precondition failure, not an activation failure.
func wrapDial(err error) error {
	return &DBusError{
		Kind:    ErrKindServiceUnknown,
		Name:    "org.freedesktop.DBus.Error.ServiceUnknown",
		Message: fmt.Sprintf("could not connect to bus: %v", err),
	}
}

// wrapCallError classifies a godbus error into our ErrorKind taxonomy.
func wrapCallError(err error) error {
	if dbusErr, ok := err.(dbus.Error); ok {
		return &DBusError{
			Kind:    classify(dbusErr.Name),
			Name:    dbusErr.Name,
			Message: formatBody(dbusErr.Body),
		}
	}
	return &DBusError{Kind: ErrKindOther, Message: err.Error()}
}

func classify(name string) ErrorKind {
	switch name {
	case "org.freedesktop.DBus.Error.ServiceUnknown":
		return ErrKindServiceUnknown
	case "org.freedesktop.DBus.Error.NoReply", "org.freedesktop.DBus.Error.Timeout":
		return ErrKindNoReply
	case "org.freedesktop.DBus.Error.AccessDenied":
		return ErrKindAccessDenied
	case "org.freedesktop.DBus.Error.InvalidArgs":
		return ErrKindInvalidArgs
	case "org.freedesktop.DBus.Error.Disconnected", "org.freedesktop.DBus.Error.NoServer":
		return ErrKindDisconnected
	default:
		return ErrKindOther
	}
}

func formatBody(body []interface{}) string {
	if len(body) == 0 {
		return ""
	}
	if s, ok := body[0].(string); ok {
		return s
	}
	return fmt.Sprint(body[0])
}

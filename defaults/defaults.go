// Package defaults wires the built-in platform Methods into a
// Registry. It lives outside package method (which the concrete
// method families import) to avoid an import cycle, the same reason
// activation.ActivationResult keeps only a method name rather than a
// *method.Descriptor.
package defaults

import (
	"github.com/wakepy-go/wakepy/dbusadapter"
	"github.com/wakepy-go/wakepy/method"
	"github.com/wakepy-go/wakepy/methods/darwin"
	"github.com/wakepy-go/wakepy/methods/freedesktop"
	"github.com/wakepy-go/wakepy/methods/gnome"
	"github.com/wakepy-go/wakepy/registry"
)

// Mode names the engine ships.
const (
	KeepRunning    = "keep.running"
	KeepPresenting = "keep.presenting"
)

// RegisterDefaultMethods registers every built-in platform Method for
// both shipped Mode names into reg, using adapter for the Freedesktop
// and GNOME D-Bus methods. Safe to call at most once per registry;
// a second call fails with registry.ErrDuplicateName.
func RegisterDefaultMethods(reg *registry.Registry, adapter dbusadapter.Adapter) error {
	descriptors := []method.Descriptor{
		freedesktop.NewScreenSaver(KeepRunning, adapter),
		freedesktop.NewPowerManagement(KeepRunning, adapter),
		gnome.NewSuspendInhibitor(KeepRunning, adapter),
		darwin.NewKeepRunning(KeepRunning),

		freedesktop.NewScreenSaver(KeepPresenting, adapter),
		gnome.NewPresentingInhibitor(KeepPresenting, adapter),
		darwin.NewKeepPresenting(KeepPresenting),
	}
	descriptors = append(descriptors, windowsDescriptors()...)

	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

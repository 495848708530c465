// Package registry holds the process-wide, append-only mapping from
// Mode name to the ordered list of Method descriptors registered for
// it. It is populated once, at startup, by explicit registration
// calls (never by package init order) and is read-only for the
// remainder of the process lifetime.
package registry

import (
	"fmt"
	"sync"

	"github.com/wakepy-go/wakepy/method"
)

// Errors returned by Register, besides method.ErrInvalidMethod from
// Descriptor.Validate. Both wrap method.ErrMethod so callers can test
// for "some method configuration problem" generically.
var (
	ErrDuplicateName = fmt.Errorf("%w: duplicate method name", method.ErrMethod)
)

// Registry is a mode name -> ordered method list map. The zero value
// is ready to use. Registry is safe for concurrent Register calls,
// though in practice all registration happens during startup before
// any Mode is entered.
type Registry struct {
	mu      sync.RWMutex
	methods map[string][]method.Descriptor
	names   map[string]bool
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		methods: make(map[string][]method.Descriptor),
		names:   make(map[string]bool),
	}
}

// Register validates d and appends it to its mode's method list in
// call order. Order is significant: it is the tie-breaker priority
// uses when "*" expands.
func (r *Registry) Register(d method.Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.names == nil {
		r.names = make(map[string]bool)
		r.methods = make(map[string][]method.Descriptor)
	}

	if r.names[d.Name] {
		return fmt.Errorf("%w: %q", ErrDuplicateName, d.Name)
	}

	r.names[d.Name] = true
	r.methods[d.ModeName] = append(r.methods[d.ModeName], d)
	return nil
}

// MethodsFor returns the methods registered for modeName, in
// registration order. It returns an empty slice for an unknown mode
// name rather than an error.
func (r *Registry) MethodsFor(modeName string) []method.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.methods[modeName]
	out := make([]method.Descriptor, len(src))
	copy(out, src)
	return out
}

// Find looks up one method by (modeName, methodName).
func (r *Registry) Find(modeName, methodName string) (method.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.methods[modeName] {
		if d.Name == methodName {
			return d, true
		}
	}
	return method.Descriptor{}, false
}

// Default is the process-wide registry populated by
// RegisterDefaultMethods and consulted by mode.New when the caller
// does not supply their own Registry.
var Default = New()

// Package priority builds the ordered candidate list for one Mode
// activation attempt: select by allow/deny list, inject the
// fake-success method, apply explicit priority with a single "*"
// wildcard, then drop methods unsupported on the current platform.
package priority

import (
	"fmt"

	"github.com/wakepy-go/wakepy/activation"
	"github.com/wakepy-go/wakepy/method"
	"github.com/wakepy-go/wakepy/platform"
)

// Wildcard is the sentinel that, in MethodsPriority, expands to "all
// remaining selected methods, in registry order".
const Wildcard = "*"

// Errors returned while resolving a Filter's Methods/Omit/Priority
// against a registered method set. All wrap method.ErrMethod.
var (
	ErrUnknownMethodName = fmt.Errorf("%w: unknown method name", method.ErrMethod)
	ErrDuplicatePriority = fmt.Errorf("%w: duplicate name in priority", method.ErrMethod)
	ErrInvalidPriority   = fmt.Errorf("%w: invalid methods_priority", method.ErrMethod)
)

// Filter is the subset of Mode instance configuration priority.Build
// needs: the allow/deny list and the explicit ordering.
type Filter struct {
	// Methods, if non-empty, restricts selection to exactly these
	// names. Mutually exclusive with Omit.
	Methods []string
	// Omit, if non-empty and Methods is empty, removes these names
	// from the full registered set.
	Omit []string
	// MethodsPriority orders the selected methods; at most one
	// element may be Wildcard.
	MethodsPriority []string
	// FakeSuccess prepends method.NewFakeSuccess(modeName) to the
	// selected methods, mirroring WAKEPY_FAKE_SUCCESS. MethodsPriority
	// is applied afterwards, so names listed before the wildcard still
	// come ahead of it.
	FakeSuccess bool
}

// Result is the output of Build: the ordered candidates still to be
// attempted, plus any MethodActivationResult already produced for
// methods dropped at the platform-support stage.
type Result struct {
	Candidates []method.Descriptor
	Dropped    []activation.MethodActivationResult
}

// Build resolves registered (the full set of methods registered for
// one mode, in registry order) against f and the current platform tag.
func Build(registered []method.Descriptor, f Filter, modeName string, current platform.Tag) (Result, error) {
	selected, err := selectMethods(registered, f)
	if err != nil {
		return Result{}, err
	}

	if f.FakeSuccess {
		selected = append([]method.Descriptor{method.NewFakeSuccess(modeName)}, selected...)
	}

	ordered, err := applyPriority(selected, f.MethodsPriority)
	if err != nil {
		return Result{}, err
	}

	return applyPlatformFilter(ordered, current), nil
}

func selectMethods(registered []method.Descriptor, f Filter) ([]method.Descriptor, error) {
	if len(f.Methods) > 0 {
		return pick(registered, f.Methods)
	}
	if len(f.Omit) > 0 {
		omit := map[string]bool{}
		for _, n := range f.Omit {
			omit[n] = true
		}
		for _, n := range f.Omit {
			if !containsName(registered, n) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownMethodName, n)
			}
		}
		out := make([]method.Descriptor, 0, len(registered))
		for _, d := range registered {
			if !omit[d.Name] {
				out = append(out, d)
			}
		}
		return out, nil
	}

	out := make([]method.Descriptor, len(registered))
	copy(out, registered)
	return out, nil
}

// pick returns the registered methods named in names, in registry
// order (not names' order — the caller's listed order isn't
// significant to selection since applyPriority reorders afterward;
// keeping registry order here means an empty MethodsPriority still
// yields a deterministic sequence).
func pick(registered []method.Descriptor, names []string) ([]method.Descriptor, error) {
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}
	for _, n := range names {
		if !containsName(registered, n) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMethodName, n)
		}
	}

	out := make([]method.Descriptor, 0, len(names))
	for _, d := range registered {
		if want[d.Name] {
			out = append(out, d)
		}
	}
	return out, nil
}

func containsName(ds []method.Descriptor, name string) bool {
	for _, d := range ds {
		if d.Name == name {
			return true
		}
	}
	return false
}

// applyPriority reorders selected per priority: names before the
// single "*" form the head (in listed order), names after it form the
// tail (in listed order), and "*" expands to the remaining selected
// methods in their current (registry) order. An absent "*" is
// implicitly appended.
func applyPriority(selected []method.Descriptor, priority []string) ([]method.Descriptor, error) {
	byName := map[string]method.Descriptor{}
	for _, d := range selected {
		byName[d.Name] = d
	}

	wildcardSeen := false
	seenName := map[string]bool{}
	var head, tail []string
	for _, n := range priority {
		if n == Wildcard {
			if wildcardSeen {
				return nil, fmt.Errorf("%w: more than one %q", ErrInvalidPriority, Wildcard)
			}
			wildcardSeen = true
			continue
		}
		if _, ok := byName[n]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMethodName, n)
		}
		if seenName[n] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePriority, n)
		}
		seenName[n] = true
		if wildcardSeen {
			tail = append(tail, n)
		} else {
			head = append(head, n)
		}
	}

	remaining := make([]string, 0, len(selected))
	for _, d := range selected {
		if !seenName[d.Name] {
			remaining = append(remaining, d.Name)
		}
	}

	var names []string
	if wildcardSeen {
		names = append(append(append(names, head...), remaining...), tail...)
	} else {
		names = append(append(names, head...), remaining...)
	}

	out := make([]method.Descriptor, 0, len(names))
	for _, n := range names {
		out = append(out, byName[n])
	}
	return out, nil
}

// applyPlatformFilter drops methods whose SupportedPlatforms doesn't
// match current, recording a PLATFORM_SUPPORT result for each one.
func applyPlatformFilter(ordered []method.Descriptor, current platform.Tag) Result {
	var res Result
	for _, d := range ordered {
		if platform.AnyMatches(current, d.SupportedPlatforms) {
			res.Candidates = append(res.Candidates, d)
			continue
		}
		res.Dropped = append(res.Dropped, activation.MethodActivationResult{
			MethodName:    d.Name,
			ModeName:      d.ModeName,
			Stage:         activation.StagePlatformSupport,
			Success:       false,
			FailureReason: fmt.Sprintf("unsupported on %s", current),
		})
	}
	return res
}

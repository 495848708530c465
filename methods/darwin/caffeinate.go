// Package darwin implements the macOS Method: spawn a long-lived
// `caffeinate` helper process and retain its PID for the Active
// lifetime, terminating it on exit. Grounded on the process-lifecycle
// pattern used by systemd-inhibit style inhibitors elsewhere in the
// corpus: start, retain *exec.Cmd, verify liveness, kill on exit.
package darwin

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"syscall"

	"github.com/wakepy-go/wakepy/method"
	"github.com/wakepy-go/wakepy/platform"
)

const binary = "caffeinate"

// helper owns the subprocess for one Active lifetime. bin defaults to
// "caffeinate" but is overridable so tests can exercise the
// start/verify/kill lifecycle with a subprocess available on every
// platform running the test suite.
type helper struct {
	mu   sync.Mutex
	bin  string
	args []string
	cmd  *exec.Cmd
}

func (h *helper) binary() string {
	if h.bin != "" {
		return h.bin
	}
	return binary
}

func (h *helper) enter(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cmd := exec.CommandContext(ctx, h.binary(), h.args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: starting %s: %v", method.ErrEnterFailed, h.binary(), err)
	}
	h.cmd = cmd
	return nil
}

func (h *helper) exit(context.Context) error {
	h.mu.Lock()
	cmd := h.cmd
	h.cmd = nil
	h.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if err := cmd.Process.Signal(syscall.Signal(0)); err != nil {
		// Already exited; Wait reaps it without treating this as a
		// failure, per the Method contract's "ExitFailed on non-zero
		// exit status unless the helper already exited".
		_ = cmd.Wait()
		return nil
	}

	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("%w: killing %s (pid %d): %v", method.ErrExitFailed, h.binary(), cmd.Process.Pid, err)
	}
	_ = cmd.Wait()
	return nil
}

// NewKeepRunning returns the macOS Method for keep.running: `caffeinate -i`.
func NewKeepRunning(modeName string) method.Descriptor {
	return newDescriptor("darwin.caffeinate.running", modeName, []string{"-i"})
}

// NewKeepPresenting returns the macOS Method for keep.presenting:
// `caffeinate -d -i -s`.
func NewKeepPresenting(modeName string) method.Descriptor {
	return newDescriptor("darwin.caffeinate.presenting", modeName, []string{"-d", "-i", "-s"})
}

func newDescriptor(name, modeName string, args []string) method.Descriptor {
	h := &helper{args: args}
	return method.Descriptor{
		Name:               name,
		ModeName:           modeName,
		SupportedPlatforms: []platform.Tag{platform.MacOS},
		CanIUse: func(context.Context) error {
			if _, err := exec.LookPath(binary); err != nil {
				return fmt.Errorf("%w: %s not found: %v", method.ErrRequirementsFailed, binary, err)
			}
			return nil
		},
		Enter: h.enter,
		Exit:  h.exit,
	}
}

//go:build windows

// Package windows implements the Windows Method: a thread-level
// SetThreadExecutionState call requesting SYSTEM_REQUIRED (and, for
// keep.presenting, DISPLAY_REQUIRED) combined with CONTINUOUS, cleared
// on exit. The call is thread-scoped, so Enter pins a goroutine to an
// OS thread with runtime.LockOSThread for the Active lifetime and
// clears the flag from that same thread on Exit.
package windows

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sys/windows"

	"github.com/wakepy-go/wakepy/method"
	"github.com/wakepy-go/wakepy/platform"
)

const (
	esContinuous      = 0x80000000
	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
)

var kernel32 = windows.NewLazySystemDLL("kernel32.dll")
var procSetThreadExecutionState = kernel32.NewProc("SetThreadExecutionState")

func setThreadExecutionState(flags uint32) error {
	r, _, err := procSetThreadExecutionState.Call(uintptr(flags))
	if r == 0 {
		return fmt.Errorf("SetThreadExecutionState failed: %v", err)
	}
	return nil
}

// pinnedFlag runs a dedicated goroutine, pinned to its OS thread, for
// as long as the flag is held, since ES_CONTINUOUS is a per-thread state that
// the OS clears if the thread that set it exits.
type pinnedFlag struct {
	mu      sync.Mutex
	flags   uint32
	done    chan struct{}
	cleared chan struct{}
}

func (p *pinnedFlag) enter(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	errCh := make(chan error, 1)
	p.done = make(chan struct{})
	p.cleared = make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		errCh <- setThreadExecutionState(esContinuous | p.flags)
		<-p.done
		_ = setThreadExecutionState(esContinuous)
		close(p.cleared)
	}()

	return <-errCh
}

func (p *pinnedFlag) exit(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == nil {
		return nil
	}
	close(p.done)
	<-p.cleared
	p.done = nil
	p.cleared = nil
	return nil
}

// NewKeepRunning returns the Windows Method for keep.running:
// ES_SYSTEM_REQUIRED | ES_CONTINUOUS.
func NewKeepRunning(modeName string) method.Descriptor {
	return newDescriptor("windows.executionstate.running", modeName, esSystemRequired)
}

// NewKeepPresenting returns the Windows Method for keep.presenting:
// ES_SYSTEM_REQUIRED | ES_DISPLAY_REQUIRED | ES_CONTINUOUS.
func NewKeepPresenting(modeName string) method.Descriptor {
	return newDescriptor("windows.executionstate.presenting", modeName, esSystemRequired|esDisplayRequired)
}

func newDescriptor(name, modeName string, flags uint32) method.Descriptor {
	p := &pinnedFlag{flags: flags}
	return method.Descriptor{
		Name:               name,
		ModeName:           modeName,
		SupportedPlatforms: []platform.Tag{platform.Windows},
		Enter:              p.enter,
		Exit:               p.exit,
	}
}

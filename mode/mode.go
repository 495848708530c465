// Package mode implements the Mode lifecycle orchestrator: the scope
// protocol that selects, activates, supervises and deactivates one
// Method on behalf of a caller-held Mode instance. It builds a
// platform-filtered, priority-ordered candidate list, attempts each
// candidate in turn until one activates, then holds that winner
// (running its heartbeat task, if any) until the scope exits, at
// which point it is deactivated deterministically.
package mode

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/wakepy-go/wakepy/activation"
	"github.com/wakepy-go/wakepy/dbusadapter"
	"github.com/wakepy-go/wakepy/defaults"
	"github.com/wakepy-go/wakepy/internal/env"
	"github.com/wakepy-go/wakepy/internal/idgen"
	"github.com/wakepy-go/wakepy/method"
	"github.com/wakepy-go/wakepy/platform"
	"github.com/wakepy-go/wakepy/priority"
	"github.com/wakepy-go/wakepy/registry"
)

// heartbeatStopTimeout bounds how long Exit waits for the heartbeat
// task to notice cancellation before giving up and proceeding anyway.
const heartbeatStopTimeout = 5 * time.Second

// Config holds one Mode instance's configuration: the candidate
// filter, priority order, failure policy, and the collaborators the
// default values pull from package-level singletons.
type Config struct {
	// Methods, if non-empty, restricts candidates to exactly these
	// method names. Mutually exclusive with Omit.
	Methods []string
	// Omit, if non-empty and Methods is empty, excludes these method
	// names from the full registered set.
	Omit []string
	// MethodsPriority orders candidates; at most one element may be
	// priority.Wildcard ("*").
	MethodsPriority []string
	// OnFail selects the behavior when no candidate activates. The
	// zero value is OnFailError.
	OnFail OnFail
	// Registry overrides registry.Default.
	Registry *registry.Registry
	// DBusAdapter, if set, makes this instance draw its candidates
	// from a fresh registry holding the default method set built
	// against adapter; Registry is then not consulted.
	DBusAdapter dbusadapter.Adapter
	// Logger overrides the package default (log.New with Name: modeName).
	Logger log.Logger
}

// Mode is one caller-held scope over the Mode activation engine. The
// zero value is not usable; construct with New.
type Mode struct {
	name   string
	cfg    Config
	logger log.Logger
	reg    *registry.Registry

	mu              sync.Mutex
	active          bool
	result          activation.ActivationResult
	winner          *method.Descriptor
	cancelHeartbeat context.CancelFunc
	heartbeatGroup  *errgroup.Group
}

// New constructs a Mode instance for modeName. It does not activate
// anything; call Enter (or Run) to do that.
func New(modeName string, cfg Config) *Mode {
	reg := cfg.Registry
	if reg == nil {
		reg = registry.Default
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(&log.LoggerOptions{Name: modeName})
	}
	return &Mode{name: modeName, cfg: cfg, logger: logger, reg: reg}
}

// Name returns the Mode name this instance was constructed with.
func (m *Mode) Name() string { return m.name }

// Active reports whether this instance currently holds an active
// Method.
func (m *Mode) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Result returns a copy of the ActivationResult produced by the most
// recent Enter call, or the zero value if Enter has never been
// called.
func (m *Mode) Result() activation.ActivationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// Enter runs the activation algorithm: build the candidate list,
// attempt each in order, stop at the first success, and dispatch
// Config.OnFail if none succeeds. On success it returns (m, nil) with
// Active()==true. On failure, the returned error and Mode depend on
// OnFail: OnFailError returns (nil, *ActivationError); the other
// policies return (m, nil) with Active()==false, except
// OnFailCallback, whose callback error (if any) propagates.
func (m *Mode) Enter(ctx context.Context) (*Mode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessionID := idgen.SessionID()
	logger := m.logger.With("session_id", sessionID)

	candidates, err := m.buildCandidates()
	if err != nil {
		return nil, fmt.Errorf("mode %q: %w", m.name, err)
	}

	results := append([]activation.MethodActivationResult{}, candidates.Dropped...)
	forceFailure := env.ForceFailure()

	var winner *method.Descriptor
	for i := range candidates.Candidates {
		cand := candidates.Candidates[i]
		res, active := method.Attempt(ctx, cand, forceFailure)
		results = append(results, res)
		logger.Debug("attempted method", "method", cand.Name, "stage", res.Stage, "success", res.Success)
		if active {
			winner = &cand
			break
		}
	}

	ar := activation.ActivationResult{ModeName: m.name, Results: results, SessionID: sessionID}
	if winner != nil {
		ar.Method = winner.Name
	}
	m.result = ar

	if !ar.Success() {
		return m.dispatchFail(ar, logger)
	}

	m.winner = winner
	m.active = true
	logger.Info("mode activated", "method", winner.Name, "real_success", ar.RealSuccess(method.FakeSuccessName))

	if winner.Heartbeat != nil {
		m.startHeartbeat(*winner, logger)
	}

	return m, nil
}

// buildCandidates resolves this instance's filter/priority against
// its registry and the current platform. Registered Descriptors
// already have any D-Bus adapter bound in at registration time, so a
// per-instance Config.DBusAdapter override is honored by registering
// the default method set fresh against that adapter into a scratch
// registry, rather than by mutating already-registered Descriptors.
func (m *Mode) buildCandidates() (priority.Result, error) {
	reg := m.reg
	if m.cfg.DBusAdapter != nil {
		reg = registry.New()
		if err := defaults.RegisterDefaultMethods(reg, m.cfg.DBusAdapter); err != nil {
			return priority.Result{}, fmt.Errorf("mode %q: rebuilding registry for dbus adapter override: %w", m.name, err)
		}
	}

	registered := reg.MethodsFor(m.name)
	return priority.Build(registered, priority.Filter{
		Methods:         m.cfg.Methods,
		Omit:            m.cfg.Omit,
		MethodsPriority: m.cfg.MethodsPriority,
		FakeSuccess:     env.FakeSuccess(),
	}, m.name, platform.Detect())
}

func (m *Mode) dispatchFail(ar activation.ActivationResult, logger log.Logger) (*Mode, error) {
	m.active = false

	kind := m.cfg.OnFail.kind
	switch kind {
	case "warn":
		logger.Warn(ar.GetFailureText(activation.StyleBlock))
		return m, nil
	case "pass":
		return m, nil
	case "callback":
		if err := m.cfg.OnFail.fn(ar); err != nil {
			return nil, err
		}
		return m, nil
	default: // "" and "error"
		return nil, &ActivationError{Result: ar}
	}
}

func (m *Mode) startHeartbeat(d method.Descriptor, logger log.Logger) {
	hbCtx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(hbCtx)
	m.cancelHeartbeat = cancel
	m.heartbeatGroup = g

	g.Go(func() error {
		ticker := time.NewTicker(d.Period())
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if err := d.Heartbeat(gctx); err != nil {
					logger.Warn("heartbeat failed", "method", d.Name, "error", err)
				}
			}
		}
	})
}

// Exit runs the deactivation algorithm: stop the heartbeat task
// (bounded wait), invoke the winning Method's Exit, then clear runtime
// state. It always runs cleanup and always returns a nil error unless
// something in cleanup itself failed; it never raises merely because
// activation had failed (there is then no winner, so Exit is a no-op).
func (m *Mode) Exit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.winner == nil {
		return nil
	}

	var errs *multierror.Error

	if m.cancelHeartbeat != nil {
		m.cancelHeartbeat()
		done := make(chan error, 1)
		go func() { done <- m.heartbeatGroup.Wait() }()
		select {
		case err := <-done:
			if err != nil {
				errs = multierror.Append(errs, err)
			}
		case <-time.After(heartbeatStopTimeout):
			errs = multierror.Append(errs, fmt.Errorf("heartbeat task for %q did not stop within %s", m.winner.Name, heartbeatStopTimeout))
		}
		m.cancelHeartbeat = nil
		m.heartbeatGroup = nil
	}

	if m.winner.Exit != nil {
		if err := m.winner.Exit(ctx); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%w: %v", method.ErrExitFailed, err))
		}
	}

	m.winner = nil
	m.active = false

	if errs != nil {
		m.logger.With("session_id", m.result.SessionID).Warn("mode deactivation had errors", "mode", m.name, "error", errs)
		return errs
	}
	return nil
}

// Run is the recommended way to hold a Mode for the duration of fn: it
// enters, runs fn, and always deactivates on the way out, even if fn
// returns an error or panics. If fn panics, Exit still runs before the
// panic is re-raised. A non-nil error from fn takes precedence over a
// cleanup error from Exit, so a caller's own failure is never masked
// by a logging-only cleanup problem.
func Run(ctx context.Context, modeName string, cfg Config, fn func(ctx context.Context, m *Mode) error) (err error) {
	m, err := New(modeName, cfg).Enter(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = m.Exit(ctx)
			panic(r)
		}
	}()

	runErr := fn(ctx, m)
	exitErr := m.Exit(ctx)
	if runErr != nil {
		return runErr
	}
	return exitErr
}

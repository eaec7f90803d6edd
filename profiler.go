package gousset

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
)

// privatePrefix marks members that Instrument never touches.
const privatePrefix = "_"

// Profiler swaps namespace members for timing wrappers, keeps the originals for
// RestoreAll, and prints the collected statistics on Shutdown.
// It is safe for concurrent use. Wrappers never hold the Profiler lock while the
// original runs, so instrumented functions may call each other or recurse.
type Profiler struct {
	cfg    *config
	logger Logger
	rec    *Recorder

	mu           sync.Mutex
	loaded       map[string]*Namespace
	instrumented map[string]*Namespace
	originals    map[Identity]Func
	wrappers     map[Identity]Func
	order        []Identity // registration order of originals
	exitHook     bool

	signalOnce sync.Once
	violations atomic.Int32
}

// New constructs a Profiler.
func New(opts ...Option) *Profiler {
	cfg := newConfig(opts)
	return &Profiler{
		cfg:          cfg,
		logger:       cfg.logger,
		rec:          cfg.recorder,
		loaded:       make(map[string]*Namespace),
		instrumented: make(map[string]*Namespace),
		originals:    make(map[Identity]Func),
		wrappers:     make(map[Identity]Func),
	}
}

// Recorder returns the Recorder timings are written to.
func (p *Profiler) Recorder() *Recorder { return p.rec }

// Load makes ns resolvable by name for InstrumentFunc and RestoreAll.
// Instrument loads its namespace implicitly. While a namespace name is
// instrumented, loading a different instance under that name is refused.
func (p *Profiler) Load(ns *Namespace) {
	if ns == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if prev, ok := p.instrumented[ns.Name()]; ok && prev != ns {
		p.logger.Warnf("gousset: %s is instrumented through another instance, not loading", ns.Name())
		return
	}
	p.loaded[ns.Name()] = ns
}

// Unload forgets the namespace registered under name.
func (p *Profiler) Unload(name string) {
	p.mu.Lock()
	delete(p.loaded, name)
	p.mu.Unlock()
}

// Instrument replaces every eligible member of target with a timing wrapper.
// Eligible members are plain functions (not types, values or nested namespaces)
// whose names do not start with "_", filtered by Only and then Exclude.
// target must be a *Namespace; anything else yields an *InvalidArgumentError and
// leaves the Profiler untouched. A namespace is instrumented at most once until
// RestoreAll; later calls return nil without doing anything, also when they pass
// another instance with the same name.
func (p *Profiler) Instrument(target any, opts ...InstrumentOption) error {
	ns, ok := target.(*Namespace)
	if !ok || ns == nil {
		return newInvalidArgumentError(target)
	}
	cfg := applyOptions(opts)

	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, done := p.instrumented[ns.Name()]; done {
		if prev != ns {
			p.logger.Warnf("gousset: %s is instrumented through another instance, ignoring", ns.Name())
		}
		return nil
	}
	p.loaded[ns.Name()] = ns
	p.instrumented[ns.Name()] = ns

	wrapped := 0
	for _, name := range ns.Names() {
		if strings.HasPrefix(name, privatePrefix) || !cfg.selects(name) {
			continue
		}
		fn, kind := ns.member(name)
		if kind != KindFunc || fn == nil {
			continue
		}
		id := NewIdentity(ns.Name(), name)
		if _, seen := p.originals[id]; seen {
			// already wrapped through InstrumentFunc
			if w, ok := p.wrappers[id]; ok {
				_ = ns.bind(name, w)
			}
			continue
		}
		_ = ns.bind(name, p.registerLocked(id, fn, cfg))
		wrapped++
	}

	p.registerExitHookLocked()
	p.logger.Debugf("gousset: instrumented %d callables in %s", wrapped, ns.Name())
	return nil
}

// InstrumentFunc wraps a single callable and returns the wrapper.
// The identity comes from FuncNamespace/FuncName when given, otherwise from the
// symbol of fn, falling back to UnknownNamespace/UnknownFunction. When the owning
// namespace is loaded and has a member of that name, the wrapper is also bound there.
// Instrumenting an identity that is already instrumented returns the active wrapper.
func (p *Profiler) InstrumentFunc(fn Func, opts ...InstrumentOption) Func {
	cfg := applyOptions(opts)
	namespace, name := introspect(fn)
	if cfg.Namespace != "" {
		namespace = cfg.Namespace
	}
	if cfg.Name != "" {
		name = cfg.Name
	}
	id := NewIdentity(namespace, name)

	p.mu.Lock()
	defer p.mu.Unlock()

	if original, ok := p.originals[id]; ok {
		if w, ok := p.wrappers[id]; ok {
			p.logger.Debugf("gousset: %s already instrumented", id)
			return w
		}
		// invariant violation: original registered without its wrapper
		p.reportInvariantViolation("wrapper_missing", id)
		return original
	}
	if fn == nil {
		p.logger.Warnf("gousset: cannot instrument nil callable %s", id)
		return nil
	}

	w := p.registerLocked(id, fn, cfg)
	if ns, ok := p.loaded[id.Namespace]; ok {
		if err := ns.bind(id.Name, w); err != nil {
			p.logger.Debugf("gousset: %s wrapped but not bound: %v", id, err)
		}
	}
	p.registerExitHookLocked()
	return w
}

// registerLocked stores the original and builds its wrapper. p.mu must be held.
func (p *Profiler) registerLocked(id Identity, original Func, cfg InstrumentConfig) Func {
	measure := cfg.Measure
	if measure == nil {
		measure = clockMeasure(p.cfg.clock)
	}
	w := &wrapper{
		id:       id,
		original: original,
		measure:  measure,
		params:   cfg.Params,
		rec:      p.rec,
	}
	p.originals[id] = original
	p.wrappers[id] = w.call
	p.order = append(p.order, id)
	return w.call
}

// RestoreAll rebinds every original callable into its namespace and clears all
// state: timings, the set of instrumented namespaces, the original registry and the
// exit hook. Entries that cannot be restored are logged and skipped.
func (p *Profiler) RestoreAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, id := range p.order {
		if err := p.restoreLocked(id, p.originals[id]); err != nil {
			p.logger.Warnf("gousset: restoring %s: %v", id, err)
			continue
		}
		p.logger.Debugf("gousset: restored %s", id)
	}

	p.rec.Reset()
	p.instrumented = make(map[string]*Namespace)
	p.originals = make(map[Identity]Func)
	p.wrappers = make(map[Identity]Func)
	p.order = nil
	p.exitHook = false
	p.logger.Debugf("gousset: all state cleared")
}

func (p *Profiler) restoreLocked(id Identity, original Func) error {
	ns, ok := p.loaded[id.Namespace]
	if !ok {
		return fmt.Errorf("%q: %w", id.Namespace, ErrNotLoaded)
	}
	return ns.bind(id.Name, original)
}

// IsInstrumented reports whether the namespace has been processed by Instrument
// since the last RestoreAll.
func (p *Profiler) IsInstrumented(namespace string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.instrumented[namespace]
	return ok
}

// Original returns the original callable registered for id.
func (p *Profiler) Original(id Identity) (Func, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn, ok := p.originals[id]
	return fn, ok
}

// Wrapper returns the active wrapper registered for id.
func (p *Profiler) Wrapper(id Identity) (Func, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn, ok := p.wrappers[id]
	return fn, ok
}

// ExitHookRegistered reports whether Shutdown will print the report.
func (p *Profiler) ExitHookRegistered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exitHook
}

// registerExitHookLocked arms the shutdown report. p.mu must be held.
func (p *Profiler) registerExitHookLocked() {
	if p.exitHook {
		return
	}
	p.exitHook = true
	if p.cfg.signalShutdown {
		p.signalOnce.Do(p.handleSignals)
	}
}

func (p *Profiler) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigChan
		p.logger.Infof("gousset: received %v, printing statistics", sig)
		p.Shutdown()
		os.Exit(1)
	}()
}

// Report writes the statistics report to w regardless of the exit hook.
func (p *Profiler) Report(w io.Writer) error {
	return p.rec.PrintAllStatistics(w)
}

// ReportTable writes the statistics as a table to w.
func (p *Profiler) ReportTable(w io.Writer) error {
	return p.rec.ReportTable(w)
}

// Shutdown runs the exit hook: if instrumentation armed it, the report is printed to
// the configured output and the hook is disarmed, so it runs once per cycle.
func (p *Profiler) Shutdown() {
	p.mu.Lock()
	armed := p.exitHook
	p.exitHook = false
	out := p.cfg.output
	p.mu.Unlock()

	if !armed {
		return
	}
	if err := p.rec.PrintAllStatistics(out); err != nil {
		p.logger.Errorf("gousset: printing statistics: %v", err)
	}
}

// Run calls fn and then Shutdown, also when fn returns an error or panics.
func (p *Profiler) Run(fn func() error) error {
	defer p.Shutdown()
	return fn()
}

func (p *Profiler) reportInvariantViolation(kind string, id Identity) {
	reportInvariantViolation(p.logger, &p.violations, kind, id.String())
}

package gousset

import "sync"

var (
	defaultOnce     sync.Once
	defaultProfiler *Profiler
)

// Default returns the process-wide Profiler used by the package-level functions.
// It is created on first use with default options.
func Default() *Profiler {
	defaultOnce.Do(func() { defaultProfiler = New() })
	return defaultProfiler
}

// Instrument calls Default().Instrument.
func Instrument(target any, opts ...InstrumentOption) error {
	return Default().Instrument(target, opts...)
}

// InstrumentFunc calls Default().InstrumentFunc.
func InstrumentFunc(fn Func, opts ...InstrumentOption) Func {
	return Default().InstrumentFunc(fn, opts...)
}

// Load calls Default().Load.
func Load(ns *Namespace) { Default().Load(ns) }

// RestoreAll calls Default().RestoreAll.
func RestoreAll() { Default().RestoreAll() }

// Shutdown calls Default().Shutdown. Call it (or use Run) before the process exits.
func Shutdown() { Default().Shutdown() }

// Run calls Default().Run.
func Run(fn func() error) error { return Default().Run(fn) }

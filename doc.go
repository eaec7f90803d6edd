/*
Package gousset is a small call-timing library: it wraps the functions of a namespace,
records the wall-clock duration of every successful call and prints per-function
statistics when the program shuts down.

# Overview

Go cannot rebind functions of a loaded package, so gousset works on an explicit seam:

1. Namespace: a named table of members (functions, constructors, values, nested
namespaces). Code calls through it, so whatever is bound there is what runs.

	ns := gousset.NewNamespace("jobs").
	  DefineFunc("Fetch", fetch).
	  DefineFunc("Parse", parse)
	out, err := ns.Call("Fetch", url)

2. Profiler: swaps namespace functions for timing wrappers, remembers the originals and
owns the exit hook.

	  Instrument(target any, opts ...InstrumentOption) error
	  InstrumentFunc(fn Func, opts ...InstrumentOption) Func
	  RestoreAll()
	  Shutdown()
	  Run(fn func() error) error

3. Recorder: keeps one append-only Series of elapsed seconds per Identity
(namespace, function) and computes Stats (count, sum, mean, sample standard
deviation, min, max, median) with gonum.

# How it works (high level)

 1. Instrument enumerates the namespace, skips names starting with "_", constructors,
    values and nested namespaces, applies Only and then Exclude.
 2. Each selected function is stored as the original for its Identity and replaced by a
    wrapper. A namespace is processed once until RestoreAll.
 3. The wrapper measures the call (time.Now before and after by default, or a MeasureFunc
    given with WithMeasure, which also receives WithParam values). Results and errors are
    returned unchanged; only calls that return a nil error are recorded.
 4. The first instrumentation arms the exit hook. Shutdown (or Run, which defers it)
    prints the report once.
 5. RestoreAll puts the originals back and clears every piece of state. Entries that
    cannot be restored are logged and skipped.

# Examples

	if err := gousset.Instrument(ns, gousset.Exclude("Parse")); err != nil {
	    log.Fatal(err)
	}
	_ = gousset.Run(func() error {
	    _, err := ns.Call("Fetch", url)
	    return err
	})

The package-level functions use a process-wide Profiler created on first use;
New builds independent ones.

# Report

	=== Gousset Timing Statistics for Module: module_a ===
	----------------------------------------------------------------------
	Function: fast_function
	  Calls:          3
	  Sum:     0.003000s
	  Average: 0.001000s
	  Std Dev: 0.000000s
	  Min:     0.001000s
	  Max:     0.001000s

ReportTable renders the same data with tablewriter and NewCollector exposes it to
Prometheus.

# Build and test

	go test ./...
	go test -race ./...
	go test -tags=debug ./...

In debug and race builds internal invariant violations panic; otherwise they are logged.
*/
package gousset

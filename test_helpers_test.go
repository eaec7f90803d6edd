package gousset

import (
	"errors"
	"sync"
	"time"
)

// stepClock returns a clock that advances by step on every reading, so every wrapped
// call measures exactly step.
func stepClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

var errBoom = errors.New("boom")

// newTestNamespace returns a namespace with every kind of member:
// two plain functions (g calls f through the namespace), a failing function,
// a private function, a constructor, a value and a nested namespace.
func newTestNamespace(name string) *Namespace {
	ns := NewNamespace(name)
	ns.DefineFunc("f", func(args ...any) (any, error) {
		if len(args) == 0 {
			return "f", nil
		}
		return args[0].(int) * 2, nil
	})
	ns.DefineFunc("g", func(...any) (any, error) {
		v, err := ns.Call("f", 21)
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	ns.DefineFunc("fail", func(...any) (any, error) { return "partial", errBoom })
	ns.DefineFunc("_private", func(...any) (any, error) { return "private", nil })
	ns.DefineType("Point", func(args ...any) (any, error) { return struct{ X, Y int }{1, 2}, nil })
	ns.DefineValue("Version", "1.0")
	ns.DefineNamespace("sub", NewNamespace(name+".sub").
		DefineFunc("h", func(...any) (any, error) { return "h", nil }))
	return ns
}

// sampleFunc is a named function used to check introspection of InstrumentFunc.
func sampleFunc(args ...any) (any, error) {
	return len(args), nil
}

// isWrapped reports whether calling name in ns records a sample in p.
func isWrapped(p *Profiler, ns *Namespace, name string, args ...any) bool {
	before := 0
	if s, ok := p.Recorder().Samples(ns.Name(), name); ok {
		before = len(s)
	}
	if _, err := ns.Call(name, args...); err != nil {
		return false
	}
	after, _ := p.Recorder().Samples(ns.Name(), name)
	return len(after) == before+1
}

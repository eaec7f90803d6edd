package gousset

import (
	"fmt"
	"slices"
	"sync"
)

// Func is a callable handle stored in a Namespace.
// A non-nil error means the call failed; wrappers pass it through untouched.
type Func func(args ...any) (any, error)

// MemberKind describes what a Namespace member holds.
type MemberKind int

const (
	// KindFunc is a plain callable. Only KindFunc members are instrumented.
	KindFunc MemberKind = iota + 1
	// KindType is a constructor. It is callable but never instrumented.
	KindType
	// KindValue is a non-callable value.
	KindValue
	// KindNamespace is a nested namespace.
	KindNamespace
)

func (k MemberKind) String() string {
	switch k {
	case KindFunc:
		return "func"
	case KindType:
		return "type"
	case KindValue:
		return "value"
	case KindNamespace:
		return "namespace"
	default:
		return "unknown"
	}
}

type member struct {
	kind  MemberKind
	fn    Func
	value any
	sub   *Namespace
}

// Namespace is a named, mutable table of members.
// Code that wants its calls to be observable goes through Call (or Lookup) instead of
// calling functions directly, so that bindings swapped in by a Profiler take effect
// everywhere, including calls the namespace's own functions make to each other.
// Namespace is safe for concurrent use.
type Namespace struct {
	name string

	mu      sync.RWMutex
	members map[string]*member
}

// NewNamespace returns an empty namespace.
func NewNamespace(name string) *Namespace {
	return &Namespace{name: name, members: make(map[string]*member)}
}

// Name returns the namespace name.
func (n *Namespace) Name() string { return n.name }

func (n *Namespace) define(name string, m *member) *Namespace {
	n.mu.Lock()
	n.members[name] = m
	n.mu.Unlock()
	return n
}

// DefineFunc binds fn under name.
func (n *Namespace) DefineFunc(name string, fn Func) *Namespace {
	return n.define(name, &member{kind: KindFunc, fn: fn})
}

// DefineType binds a constructor under name.
func (n *Namespace) DefineType(name string, ctor Func) *Namespace {
	return n.define(name, &member{kind: KindType, fn: ctor})
}

// DefineValue binds a non-callable value under name.
func (n *Namespace) DefineValue(name string, v any) *Namespace {
	return n.define(name, &member{kind: KindValue, value: v})
}

// DefineNamespace binds a nested namespace under name.
func (n *Namespace) DefineNamespace(name string, sub *Namespace) *Namespace {
	return n.define(name, &member{kind: KindNamespace, sub: sub})
}

// Names returns member names in lexical order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	out := make([]string, 0, len(n.members))
	for name := range n.members {
		out = append(out, name)
	}
	n.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Has reports whether name is bound.
func (n *Namespace) Has(name string) bool {
	n.mu.RLock()
	_, ok := n.members[name]
	n.mu.RUnlock()
	return ok
}

// Kind returns the kind of the member bound under name.
func (n *Namespace) Kind(name string) (MemberKind, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	m, ok := n.members[name]
	if !ok {
		return 0, false
	}
	return m.kind, true
}

// Lookup returns the callable currently bound under name.
func (n *Namespace) Lookup(name string) (Func, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	m, ok := n.members[name]
	if !ok || m.fn == nil {
		return nil, false
	}
	return m.fn, true
}

// Value returns the value bound under name for KindValue members.
func (n *Namespace) Value(name string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	m, ok := n.members[name]
	if !ok || m.kind != KindValue {
		return nil, false
	}
	return m.value, true
}

// Sub returns the nested namespace bound under name.
func (n *Namespace) Sub(name string) (*Namespace, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	m, ok := n.members[name]
	if !ok || m.kind != KindNamespace {
		return nil, false
	}
	return m.sub, true
}

// Call invokes the callable currently bound under name.
// No lock is held while the callable runs.
func (n *Namespace) Call(name string, args ...any) (any, error) {
	n.mu.RLock()
	m, ok := n.members[name]
	n.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", n.name, name, ErrNotFound)
	}
	if m.fn == nil {
		return nil, fmt.Errorf("%s.%s (%s): %w", n.name, name, m.kind, ErrNotCallable)
	}
	return m.fn(args...)
}

// member returns the callable and kind bound under name.
func (n *Namespace) member(name string) (Func, MemberKind) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	m, ok := n.members[name]
	if !ok {
		return nil, 0
	}
	return m.fn, m.kind
}

// bind rebinds an existing callable member to fn, keeping its kind.
// Values and nested namespaces are never overwritten: binding over them
// returns ErrNotCallable, and binding an unknown name returns ErrNotFound.
func (n *Namespace) bind(name string, fn Func) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	m, ok := n.members[name]
	if !ok {
		return fmt.Errorf("%s.%s: %w", n.name, name, ErrNotFound)
	}
	if m.kind != KindFunc && m.kind != KindType {
		return fmt.Errorf("%s.%s (%s): %w", n.name, name, m.kind, ErrNotCallable)
	}
	n.members[name] = &member{kind: m.kind, fn: fn}
	return nil
}

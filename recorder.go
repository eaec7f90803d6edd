package gousset

import (
	"sync"
	"sync/atomic"
)

// Recorder accumulates timing samples keyed by Identity.
// It is concurrency-safe: series are created on demand, once per identity, and each
// Series serializes its own appends. Iteration follows first-record order.
type Recorder struct {
	cfg    *recorderConfig
	logger Logger

	series sync.Map // map[Identity]*Series
	// per-key init mutexes: protect concurrent creation of the same series
	inits sync.Map // map[Identity]*sync.Mutex

	mu    sync.Mutex
	order []Identity

	violations atomic.Int32
}

// NewRecorder constructs an empty Recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	cfg := &recorderConfig{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	l := cfg.logger
	if l == nil {
		l = newNoopLogger()
	}
	return &Recorder{cfg: cfg, logger: l}
}

// keyMu returns a per-key mutex for the given identity, creating one if necessary.
func (r *Recorder) keyMu(id Identity) *sync.Mutex {
	m, _ := r.inits.LoadOrStore(id, &sync.Mutex{})
	return m.(*sync.Mutex)
}

func (r *Recorder) get(id Identity) (*Series, bool) {
	v, ok := r.series.Load(id)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Series)
	if !ok {
		r.reportInvariantViolation("series_type", id)
		return nil, false
	}
	return s, true
}

// getOrCreate implements a fast read path and uses a per-key mutex to
// deduplicate concurrent creations of the same series.
func (r *Recorder) getOrCreate(id Identity) *Series {
	if s, ok := r.get(id); ok {
		return s
	}

	km := r.keyMu(id)
	km.Lock()
	defer km.Unlock()

	// re-check after acquiring per-key mutex
	if s, ok := r.get(id); ok {
		return s
	}
	s := &Series{}
	r.series.Store(id, s)

	r.mu.Lock()
	r.order = append(r.order, id)
	r.mu.Unlock()

	// It's safe to delete while holding the mutex; goroutines that already
	// hold the pointer keep using it and the series is visible to new callers.
	if !r.cfg.doNotCleanupInits {
		r.inits.Delete(id)
	}
	return s
}

// Series returns the series for (namespace, name), creating it if absent.
func (r *Recorder) Series(namespace, name string) *Series {
	return r.getOrCreate(NewIdentity(namespace, name))
}

// Record appends elapsedSeconds to the series of (namespace, name).
func (r *Recorder) Record(namespace, name string, elapsedSeconds float64) {
	r.getOrCreate(NewIdentity(namespace, name)).Record(elapsedSeconds)
}

// Len returns the number of identities with a series.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Reset drops every series.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		r.series.Delete(id)
		r.inits.Delete(id)
	}
	r.order = nil
}

// identities returns a snapshot of identities in first-record order.
func (r *Recorder) identities() []Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Identity, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Recorder) reportInvariantViolation(kind string, id Identity) {
	reportInvariantViolation(r.logger, &r.violations, kind, id.String())
}

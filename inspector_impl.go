package gousset

// Stats implements Inspector.Stats for Recorder.
// The second return value is false when the identity was never recorded or has no samples.
func (r *Recorder) Stats(namespace, name string) (Stats, bool) {
	s, ok := r.get(NewIdentity(namespace, name))
	if !ok {
		return Stats{}, false
	}
	st := s.Snapshot()
	return st, st.Count > 0
}

// Samples implements Inspector.Samples for Recorder.
func (r *Recorder) Samples(namespace, name string) ([]float64, bool) {
	s, ok := r.get(NewIdentity(namespace, name))
	if !ok {
		return nil, false
	}
	return s.Samples(), true
}

// List implements Inspector.List for Recorder.
func (r *Recorder) List() []Entry {
	out := make([]Entry, 0)
	for _, id := range r.identities() {
		s, ok := r.get(id)
		if !ok {
			// invariant violation: identity listed without a series
			r.reportInvariantViolation("series_missing", id)
			continue
		}
		st := s.Snapshot()
		if st.Count == 0 {
			continue
		}
		out = append(out, Entry{Identity: id, Stats: st})
	}
	return out
}

// Namespaces returns namespace names in the order their first sample was recorded.
func (r *Recorder) Namespaces() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, id := range r.identities() {
		if _, ok := seen[id.Namespace]; ok {
			continue
		}
		seen[id.Namespace] = struct{}{}
		out = append(out, id.Namespace)
	}
	return out
}

// grouped returns List entries grouped by namespace, preserving first-record order
// of namespaces and of callables within each namespace.
func (r *Recorder) grouped() [][]Entry {
	index := make(map[string]int)
	var groups [][]Entry
	for _, e := range r.List() {
		i, ok := index[e.Namespace]
		if !ok {
			i = len(groups)
			index[e.Namespace] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], e)
	}
	return groups
}

package gousset

// Inspector provides read-only access to recorded timings.
// Implementations return defensive copies; results are point-in-time snapshots.
// Methods must be safe for concurrent use.
type Inspector interface {
	// Stats returns the statistics of one identity and whether it has any samples.
	Stats(namespace, name string) (Stats, bool)
	// Samples returns a copy of the raw samples of one identity.
	Samples(namespace, name string) ([]float64, bool)

	// List returns every identity with at least one sample, in first-record order.
	List() []Entry
}

// Entry is one row of Inspector.List.
type Entry struct {
	Identity
	Stats Stats
}

var _ Inspector = (*Recorder)(nil)

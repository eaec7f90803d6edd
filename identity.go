package gousset

// Identity is the (namespace, callable) pair used as the key for both recorded
// timings and the registry of original callables.
// Within one Profiler an Identity maps to exactly one original callable and at most
// one active wrapper.
type Identity struct {
	Namespace string
	Name      string
}

// NewIdentity returns the Identity of callable name in namespace.
func NewIdentity(namespace, name string) Identity {
	return Identity{Namespace: namespace, Name: name}
}

// String returns "namespace.name".
func (id Identity) String() string {
	return id.Namespace + "." + id.Name
}

const (
	// UnknownNamespace is used by InstrumentFunc when the owning namespace of a callable
	// cannot be determined.
	UnknownNamespace = "unknown_module"
	// UnknownFunction is used by InstrumentFunc when the name of a callable cannot be determined.
	UnknownFunction = "unknown_function"
)

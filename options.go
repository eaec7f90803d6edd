package gousset

import "time"

// MeasureFunc runs call and reports how long it took.
// params carries the opaque keys given through WithParam/WithParams.
// A custom MeasureFunc must return call's result and error unchanged.
type MeasureFunc func(call func() (any, error), params map[string]any) (any, time.Duration, error)

// InstrumentConfig is the result of applying InstrumentOptions.
type InstrumentConfig struct {
	// Only restricts instrumentation to these names when non-nil.
	Only map[string]struct{}
	// Exclude lists names that are never instrumented.
	Exclude map[string]struct{}

	// Name and Namespace override introspection in InstrumentFunc.
	Name      string
	Namespace string

	// Measure replaces the Profiler's clock-based measurement when set.
	Measure MeasureFunc
	// Params are forwarded to Measure as is.
	Params map[string]any
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// Only restricts Instrument to the given names. Repeated Only options accumulate.
// Only() with no names instruments nothing.
func Only(names ...string) InstrumentOption {
	return func(c *InstrumentConfig) {
		if c.Only == nil {
			c.Only = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			c.Only[n] = struct{}{}
		}
	}
}

// Exclude skips the given names. It is applied after Only.
func Exclude(names ...string) InstrumentOption {
	return func(c *InstrumentConfig) {
		if len(names) == 0 {
			return
		}
		if c.Exclude == nil {
			c.Exclude = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			c.Exclude[n] = struct{}{}
		}
	}
}

// FuncName sets the callable name used by InstrumentFunc.
func FuncName(name string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Name = name }
}

// FuncNamespace sets the owning namespace name used by InstrumentFunc.
func FuncNamespace(namespace string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Namespace = namespace }
}

// WithMeasure sets a custom measurement function for the wrappers being built.
func WithMeasure(m MeasureFunc) InstrumentOption {
	return func(c *InstrumentConfig) { c.Measure = m }
}

// WithParam forwards an opaque key to the measurement function.
func WithParam(key string, value any) InstrumentOption {
	return func(c *InstrumentConfig) {
		if c.Params == nil {
			c.Params = make(map[string]any)
		}
		c.Params[key] = value
	}
}

// WithParams forwards opaque keys to the measurement function.
func WithParams(params map[string]any) InstrumentOption {
	return func(c *InstrumentConfig) {
		if len(params) == 0 {
			return
		}
		// copy to avoid external mutation
		if c.Params == nil {
			c.Params = make(map[string]any, len(params))
		}
		for k, v := range params {
			c.Params[k] = v
		}
	}
}

// applyOptions builds InstrumentConfig from options.
func applyOptions(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// selects reports whether name passes the Only and Exclude filters.
func (c InstrumentConfig) selects(name string) bool {
	if c.Only != nil {
		if _, ok := c.Only[name]; !ok {
			return false
		}
	}
	if _, ok := c.Exclude[name]; ok {
		return false
	}
	return true
}

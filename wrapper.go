package gousset

import (
	"reflect"
	"runtime"
	"strings"
	"time"
)

// wrapper is the timing replacement of one original callable.
type wrapper struct {
	id       Identity
	original Func
	measure  MeasureFunc
	params   map[string]any
	rec      *Recorder
}

// call delegates to the original and records the elapsed time of successful calls.
// Errors and panics from the original propagate unchanged and leave no sample.
func (w *wrapper) call(args ...any) (any, error) {
	res, elapsed, err := w.measure(func() (any, error) { return w.original(args...) }, w.params)
	if err != nil {
		return res, err
	}
	w.rec.Record(w.id.Namespace, w.id.Name, elapsed.Seconds())
	return res, nil
}

func clockMeasure(now func() time.Time) MeasureFunc {
	return func(call func() (any, error), _ map[string]any) (any, time.Duration, error) {
		ts := now()
		res, err := call()
		return res, now().Sub(ts), err
	}
}

// introspect derives the owning namespace and name of fn from its symbol,
// e.g. "github.com/acme/jobs.Run" gives ("github.com/acme/jobs", "Run").
func introspect(fn Func) (namespace, name string) {
	namespace, name = UnknownNamespace, UnknownFunction
	if fn == nil {
		return
	}
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return
	}
	full := rf.Name()
	start := strings.LastIndex(full, "/") + 1
	dot := strings.Index(full[start:], ".")
	if dot < 0 {
		return
	}
	dot += start
	if rest := strings.TrimSuffix(full[dot+1:], "-fm"); rest != "" {
		name = rest
	}
	return full[:dot], name
}

package gousset

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestProfiler(opts ...Option) (*Profiler, *bytes.Buffer) {
	var out bytes.Buffer
	base := []Option{WithOutput(&out), WithClock(stepClock(time.Millisecond))}
	return New(append(base, opts...)...), &out
}

func TestInstrument_PreservesResultsAndRecordsOneSample(t *testing.T) {
	p, _ := newTestProfiler()
	ns := newTestNamespace("props")
	before, err := ns.Call("f", 5)
	require.NoError(t, err)

	require.NoError(t, p.Instrument(ns))

	after, err := ns.Call("f", 5)
	require.NoError(t, err)
	require.Equal(t, before, after)

	samples, ok := p.Recorder().Samples("props", "f")
	require.True(t, ok)
	require.Len(t, samples, 1)
	require.InDelta(t, 0.001, samples[0], 1e-9)
}

func TestInstrument_Eligibility(t *testing.T) {
	p, _ := newTestProfiler()
	ns := newTestNamespace("eligible")
	require.NoError(t, p.Instrument(ns))

	for _, name := range []string{"f", "g", "fail"} {
		_, ok := p.Original(NewIdentity("eligible", name))
		require.True(t, ok, "%s should be instrumented", name)
	}
	for _, name := range []string{"_private", "Point", "Version", "sub"} {
		_, ok := p.Original(NewIdentity("eligible", name))
		require.False(t, ok, "%s must not be instrumented", name)
	}

	require.False(t, isWrapped(p, ns, "_private"))

	sub, _ := ns.Sub("sub")
	_, err := sub.Call("h")
	require.NoError(t, err)
	require.Equal(t, 0, p.Recorder().Len())
}

func TestInstrument_Filters(t *testing.T) {
	cases := []struct {
		name      string
		opts      []InstrumentOption
		wrapped   []string
		unwrapped []string
	}{
		{
			name:      "only",
			opts:      []InstrumentOption{Only("g")},
			wrapped:   []string{"g"},
			unwrapped: []string{"f", "fail"},
		},
		{
			name:      "exclude",
			opts:      []InstrumentOption{Exclude("g")},
			wrapped:   []string{"f", "fail"},
			unwrapped: []string{"g"},
		},
		{
			name:      "only_then_exclude",
			opts:      []InstrumentOption{Only("f", "g"), Exclude("g")},
			wrapped:   []string{"f"},
			unwrapped: []string{"g", "fail"},
		},
		{
			name:      "only_missing_and_ineligible_names",
			opts:      []InstrumentOption{Only("f", "nope", "Version", "_private")},
			wrapped:   []string{"f"},
			unwrapped: []string{"g", "fail", "_private"},
		},
		{
			name:      "only_empty",
			opts:      []InstrumentOption{Only()},
			unwrapped: []string{"f", "g", "fail"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestProfiler()
			ns := newTestNamespace("filters")
			require.NoError(t, p.Instrument(ns, tc.opts...))

			for _, name := range tc.wrapped {
				_, ok := p.Wrapper(NewIdentity("filters", name))
				require.True(t, ok, "%s should be wrapped", name)
			}
			for _, name := range tc.unwrapped {
				_, ok := p.Wrapper(NewIdentity("filters", name))
				require.False(t, ok, "%s must not be wrapped", name)
			}
		})
	}
}

func TestInstrument_Idempotent(t *testing.T) {
	p, _ := newTestProfiler()
	ns := newTestNamespace("twice")

	require.NoError(t, p.Instrument(ns))
	require.NoError(t, p.Instrument(ns))
	require.True(t, p.IsInstrumented("twice"))

	for i := 0; i < 3; i++ {
		_, err := ns.Call("f")
		require.NoError(t, err)
	}
	st, ok := p.Recorder().Stats("twice", "f")
	require.True(t, ok)
	require.Equal(t, 3, st.Count, "a double-wrapped f would record twice per call")
}

func TestInstrument_SameNameOtherInstance(t *testing.T) {
	tagged := func(tag string) *Namespace {
		return NewNamespace("dup").DefineFunc("f", func(...any) (any, error) { return tag, nil })
	}
	p, _ := newTestProfiler()
	a, b := tagged("a"), tagged("b")

	require.NoError(t, p.Instrument(a))
	require.NoError(t, p.Instrument(b))
	require.False(t, isWrapped(p, b, "f"), "second instance must be left alone")

	p.Load(b)

	p.RestoreAll()

	require.False(t, isWrapped(p, a, "f"), "first instance must be restored")
	for ns, want := range map[*Namespace]string{a: "a", b: "b"} {
		out, err := ns.Call("f")
		require.NoError(t, err)
		require.Equal(t, want, out)
	}
	require.Equal(t, 0, p.Recorder().Len())
}

func TestInstrument_NestedCallsAreTimed(t *testing.T) {
	p, _ := newTestProfiler()
	ns := newTestNamespace("nested")
	require.NoError(t, p.Instrument(ns))

	_, err := ns.Call("g")
	require.NoError(t, err)

	for _, name := range []string{"f", "g"} {
		st, ok := p.Recorder().Stats("nested", name)
		require.True(t, ok, name)
		require.Equal(t, 1, st.Count, name)
	}
}

func TestInstrument_FailedCallsAreNotRecorded(t *testing.T) {
	p, _ := newTestProfiler()
	ns := newTestNamespace("failing")
	require.NoError(t, p.Instrument(ns))

	out, err := ns.Call("fail")
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, "partial", out)

	_, ok := p.Recorder().Stats("failing", "fail")
	require.False(t, ok)
}

func TestInstrument_PanicPropagates(t *testing.T) {
	p, _ := newTestProfiler()
	ns := NewNamespace("panics").DefineFunc("explode", func(...any) (any, error) {
		panic("kaboom")
	})
	require.NoError(t, p.Instrument(ns))

	require.PanicsWithValue(t, "kaboom", func() { _, _ = ns.Call("explode") })
	_, ok := p.Recorder().Stats("panics", "explode")
	require.False(t, ok)
}

func TestInstrument_InvalidArgument(t *testing.T) {
	cases := []struct {
		name   string
		target any
		got    string
	}{
		{"int", 42, "int"},
		{"string", "module_a", "string"},
		{"struct", struct{}{}, "struct {}"},
		{"nil", nil, "<nil>"},
		{"nil_namespace", (*Namespace)(nil), "nil *gousset.Namespace"},
		{"namespace_kind", KindNamespace, "gousset.MemberKind"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newTestProfiler()
			err := p.Instrument(tc.target)

			require.ErrorIs(t, err, ErrInvalidArgument)
			var iae *InvalidArgumentError
			require.ErrorAs(t, err, &iae)
			require.Equal(t, tc.got, iae.Got)
			require.Contains(t, err.Error(), tc.got)

			require.False(t, p.ExitHookRegistered())
			require.Equal(t, 0, p.Recorder().Len())
			require.Empty(t, p.order)
			require.Empty(t, p.instrumented)
			require.Empty(t, p.loaded)
		})
	}
}

func TestInstrument_ForwardsParamsToMeasure(t *testing.T) {
	p, _ := newTestProfiler()
	ns := newTestNamespace("measured")

	var seen map[string]any
	measure := func(call func() (any, error), params map[string]any) (any, time.Duration, error) {
		seen = params
		res, err := call()
		return res, 250 * time.Millisecond, err
	}
	require.NoError(t, p.Instrument(ns,
		Only("f"),
		WithMeasure(measure),
		WithParam("unit", "ms"),
		WithParams(map[string]any{"scale": 2}),
	))

	out, err := ns.Call("f", 3)
	require.NoError(t, err)
	require.Equal(t, 6, out)
	require.Equal(t, map[string]any{"unit": "ms", "scale": 2}, seen)

	samples, _ := p.Recorder().Samples("measured", "f")
	require.Equal(t, []float64{0.25}, samples)
}

func TestInstrumentFunc(t *testing.T) {
	t.Run("introspects_name_and_namespace", func(t *testing.T) {
		p, _ := newTestProfiler()
		w := p.InstrumentFunc(sampleFunc)
		require.NotNil(t, w)

		out, err := w(1, 2, 3)
		require.NoError(t, err)
		require.Equal(t, 3, out)

		_, ok := p.Recorder().Stats("github.com/ygrebnov/gousset", "sampleFunc")
		require.True(t, ok)
	})

	t.Run("binds_into_loaded_namespace", func(t *testing.T) {
		p, _ := newTestProfiler()
		ns := newTestNamespace("manual")
		p.Load(ns)
		original, _ := ns.Lookup("f")

		w := p.InstrumentFunc(original, FuncNamespace("manual"), FuncName("f"))
		require.NotNil(t, w)
		require.True(t, isWrapped(p, ns, "f"))
		require.True(t, p.ExitHookRegistered())
	})

	t.Run("returns_wrapper_when_namespace_not_loaded", func(t *testing.T) {
		p, _ := newTestProfiler()
		ns := newTestNamespace("detached")
		original, _ := ns.Lookup("f")

		w := p.InstrumentFunc(original, FuncNamespace("detached"), FuncName("f"))
		require.False(t, isWrapped(p, ns, "f"), "namespace must be untouched")

		_, err := w()
		require.NoError(t, err)
		st, ok := p.Recorder().Stats("detached", "f")
		require.True(t, ok)
		require.Equal(t, 1, st.Count)
	})

	t.Run("repeat_returns_active_wrapper", func(t *testing.T) {
		p, _ := newTestProfiler()
		w1 := p.InstrumentFunc(sampleFunc, FuncName("same"))
		w2 := p.InstrumentFunc(sampleFunc, FuncName("same"))

		_, _ = w1()
		_, _ = w2()
		st, _ := p.Recorder().Stats("github.com/ygrebnov/gousset", "same")
		require.Equal(t, 2, st.Count, "second wrapper must not wrap the first")
		require.Len(t, p.order, 1)
	})

	t.Run("nil_uses_sentinels", func(t *testing.T) {
		p, _ := newTestProfiler()
		require.Nil(t, p.InstrumentFunc(nil))
		_, ok := p.Original(NewIdentity(UnknownNamespace, UnknownFunction))
		require.False(t, ok)
	})

	t.Run("namespace_instrument_skips_manually_wrapped", func(t *testing.T) {
		p, _ := newTestProfiler()
		ns := newTestNamespace("mixed")
		original, _ := ns.Lookup("f")
		p.InstrumentFunc(original, FuncNamespace("mixed"), FuncName("f"))

		require.NoError(t, p.Instrument(ns))
		stored, _ := p.Original(NewIdentity("mixed", "f"))
		out, err := stored(2)
		require.NoError(t, err)
		require.Equal(t, 4, out)
		require.Equal(t, 0, p.Recorder().Len(), "the stored original must not be a wrapper")

		require.True(t, isWrapped(p, ns, "f"))
		st, _ := p.Recorder().Stats("mixed", "f")
		require.Equal(t, 1, st.Count)
	})
}

func TestIntrospect(t *testing.T) {
	ns, name := introspect(sampleFunc)
	require.Equal(t, "github.com/ygrebnov/gousset", ns)
	require.Equal(t, "sampleFunc", name)

	ns, name = introspect(nil)
	require.Equal(t, UnknownNamespace, ns)
	require.Equal(t, UnknownFunction, name)
}

func TestRestoreAll(t *testing.T) {
	p, out := newTestProfiler()
	ns := newTestNamespace("restore")
	originalF, _ := ns.Lookup("f")
	require.NoError(t, p.Instrument(ns))
	_, err := ns.Call("g")
	require.NoError(t, err)

	p.RestoreAll()

	require.False(t, isWrapped(p, ns, "f"))
	restored, _ := ns.Lookup("f")
	got, err := restored(7)
	require.NoError(t, err)
	want, _ := originalF(7)
	require.Equal(t, want, got)

	require.False(t, p.IsInstrumented("restore"))
	require.False(t, p.ExitHookRegistered())
	require.Equal(t, 0, p.Recorder().Len())
	_, ok := p.Original(NewIdentity("restore", "f"))
	require.False(t, ok)

	p.Shutdown()
	require.Empty(t, out.String())

	// a fresh cycle wraps again
	require.NoError(t, p.Instrument(ns))
	require.True(t, isWrapped(p, ns, "f"))
	require.True(t, p.ExitHookRegistered())
}

func TestRestoreAll_PartialFailureContinues(t *testing.T) {
	var logs bytes.Buffer
	l := logrus.New()
	l.SetOutput(&logs)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	p, _ := newTestProfiler(WithLogger(l))
	gone := newTestNamespace("gone")
	kept := newTestNamespace("kept")
	require.NoError(t, p.Instrument(gone))
	require.NoError(t, p.Instrument(kept))

	p.Unload("gone")
	p.RestoreAll()

	require.False(t, isWrapped(p, kept, "f"), "kept namespace must be restored")
	require.True(t, strings.Contains(logs.String(), "gone"), logs.String())
	require.Contains(t, logs.String(), ErrNotLoaded.Error())
	require.Equal(t, 0, p.Recorder().Len())
	require.False(t, p.IsInstrumented("kept"))
}

func TestRestoreAll_SkipsMembersNoLongerCallable(t *testing.T) {
	var logs bytes.Buffer
	l := logrus.New()
	l.SetOutput(&logs)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	p, _ := newTestProfiler(WithLogger(l))
	ns := newTestNamespace("redefined")
	require.NoError(t, p.Instrument(ns))

	ns.DefineValue("f", 7)
	p.RestoreAll()

	kind, _ := ns.Kind("f")
	require.Equal(t, KindValue, kind)
	v, _ := ns.Value("f")
	require.Equal(t, 7, v)
	require.Contains(t, logs.String(), "redefined.f")
	require.Contains(t, logs.String(), ErrNotCallable.Error())
}

func TestShutdown(t *testing.T) {
	t.Run("prints_once", func(t *testing.T) {
		p, out := newTestProfiler()
		ns := newTestNamespace("shutdown")
		require.NoError(t, p.Instrument(ns))
		_, _ = ns.Call("f")

		p.Shutdown()
		first := out.String()
		require.Contains(t, first, "=== Gousset Timing Statistics for Module: shutdown ===")

		p.Shutdown()
		require.Equal(t, first, out.String())
	})

	t.Run("not_armed_without_instrumentation", func(t *testing.T) {
		p, out := newTestProfiler()
		p.Recorder().Record("ns", "f", 0.1)
		p.Shutdown()
		require.Empty(t, out.String())
	})

	t.Run("report_does_not_reset", func(t *testing.T) {
		p, _ := newTestProfiler()
		ns := newTestNamespace("twice_report")
		require.NoError(t, p.Instrument(ns))
		_, _ = ns.Call("f")

		var a, b bytes.Buffer
		require.NoError(t, p.Report(&a))
		require.NoError(t, p.Report(&b))
		require.Equal(t, a.String(), b.String())
		require.NotEmpty(t, a.String())
	})
}

func TestRun(t *testing.T) {
	t.Run("returns_error_and_prints", func(t *testing.T) {
		p, out := newTestProfiler()
		ns := newTestNamespace("run")
		require.NoError(t, p.Instrument(ns))

		err := p.Run(func() error {
			_, _ = ns.Call("f")
			_, err := ns.Call("fail")
			return err
		})
		require.ErrorIs(t, err, errBoom)
		require.Contains(t, out.String(), "Function: f\n")
		require.NotContains(t, out.String(), "Function: fail\n")
	})

	t.Run("prints_on_panic", func(t *testing.T) {
		p, out := newTestProfiler()
		ns := newTestNamespace("run_panic")
		require.NoError(t, p.Instrument(ns))

		require.Panics(t, func() {
			_ = p.Run(func() error {
				_, _ = ns.Call("f")
				panic("stop")
			})
		})
		require.Contains(t, out.String(), "Module: run_panic")
	})
}

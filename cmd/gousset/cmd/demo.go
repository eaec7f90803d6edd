package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ygrebnov/gousset"
	"github.com/ygrebnov/gousset/internal/demo"
)

// Output formats accepted by --format.
const (
	formatText  = "text"
	formatTable = "table"
	formatProm  = "prom"
)

func newDemoCmd(v *viper.Viper) *cobra.Command {
	c := &cobra.Command{
		Use:   "demo",
		Short: "Instrument the demo namespaces and print their timings",
		Long: `Instruments module_a (sleep-based, with nested calls) and module_b (recursive and
computational), calls every function a few times and prints the statistics at exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.OutOrStdout(), cmd.ErrOrStderr(), demoOptionsFrom(v))
		},
	}

	f := c.Flags()
	f.StringSlice("only", nil, "instrument only these function names")
	f.StringSlice("exclude", nil, "never instrument these function names")
	f.String("format", formatText, "report format: text, table or prom")
	f.Int("iterations", 1, "how many times each workload runs")
	f.Duration("unit", time.Millisecond, "sleep unit of module_a")
	f.Bool("restore", false, "restore originals before exit (the text report is then empty)")
	_ = v.BindPFlags(f)

	return c
}

type demoOptions struct {
	only       []string
	exclude    []string
	format     string
	iterations int
	unit       time.Duration
	restore    bool
	logLevel   string
}

func demoOptionsFrom(v *viper.Viper) demoOptions {
	return demoOptions{
		only:       v.GetStringSlice("only"),
		exclude:    v.GetStringSlice("exclude"),
		format:     v.GetString("format"),
		iterations: v.GetInt("iterations"),
		unit:       v.GetDuration("unit"),
		restore:    v.GetBool("restore"),
		logLevel:   v.GetString("log_level"),
	}
}

func runDemo(out, errOut io.Writer, o demoOptions) error {
	switch o.format {
	case formatText, formatTable, formatProm:
	default:
		return fmt.Errorf("unknown format %q", o.format)
	}
	logger, err := newLogger(errOut, o.logLevel)
	if err != nil {
		return err
	}

	// the exit hook prints the text report; other formats are written explicitly
	hookOut := out
	if o.format != formatText {
		hookOut = io.Discard
	}
	p := gousset.New(gousset.WithLogger(logger), gousset.WithOutput(hookOut))

	var opts []gousset.InstrumentOption
	if len(o.only) > 0 {
		opts = append(opts, gousset.Only(o.only...))
	}
	opts = append(opts, gousset.Exclude(o.exclude...))

	moduleA := demo.ModuleA(o.unit)
	moduleB := demo.ModuleB()
	for _, ns := range []*gousset.Namespace{moduleA, moduleB} {
		if err := p.Instrument(ns, opts...); err != nil {
			return err
		}
	}

	return p.Run(func() error {
		for i := 0; i < o.iterations; i++ {
			if err := workload(moduleA, moduleB); err != nil {
				return err
			}
		}
		logger.Info("workload finished", "iterations", o.iterations)

		if o.restore {
			p.RestoreAll()
		}

		switch o.format {
		case formatTable:
			return p.ReportTable(out)
		case formatProm:
			return gousset.WritePrometheus(out, p.Recorder())
		}
		return nil
	})
}

func workload(moduleA, moduleB *gousset.Namespace) error {
	calls := []struct {
		ns    *gousset.Namespace
		name  string
		times int
		arg   []any
	}{
		{moduleA, "slow_function", 8, nil},
		{moduleA, "fast_function", 3, nil},
		{moduleA, "medium_function", 5, nil},
		{moduleB, "fibo", 4, []any{2000}},
		{moduleB, "factorial", 2, []any{50}},
		{moduleB, "sum_squares", 6, []any{5000}},
	}
	for _, c := range calls {
		for i := 0; i < c.times; i++ {
			if _, err := c.ns.Call(c.name, c.arg...); err != nil {
				return err
			}
		}
	}
	return nil
}

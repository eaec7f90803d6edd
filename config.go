package gousset

import (
	"io"
	"os"
	"time"
)

type recorderConfig struct {
	// when false, remove per-key mutex entries from `inits` after a series is created to
	// allow GC of mutexes for many short-lived identities. Default: false.
	doNotCleanupInits bool
	logger            Logger
}

// RecorderOption configures a Recorder constructed by NewRecorder.
type RecorderOption func(*recorderConfig)

// WithInitCleanupDisabled keeps per-key init mutex entries in the recorder's internal
// `inits` map after a series has been created. Cleanup is enabled by default.
func WithInitCleanupDisabled() RecorderOption {
	return func(cfg *recorderConfig) { cfg.doNotCleanupInits = true }
}

func WithRecorderLogger(l Logger) RecorderOption {
	return func(cfg *recorderConfig) { cfg.logger = l }
}

type config struct {
	logger         Logger
	output         io.Writer
	clock          func() time.Time
	recorder       *Recorder
	signalShutdown bool
}

// Option configures a Profiler constructed by New.
type Option func(*config)

// WithLogger sets the logger used for diagnostics. The default discards everything.
func WithLogger(l Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithOutput sets where the shutdown report is written. Default: os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(cfg *config) { cfg.output = w }
}

// WithClock replaces time.Now as the source of timestamps for the default measurement.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) { cfg.clock = now }
}

// WithRecorder makes the Profiler record into r instead of a private Recorder.
func WithRecorder(r *Recorder) Option {
	return func(cfg *config) { cfg.recorder = r }
}

// WithSignalShutdown makes the first instrumentation also install a SIGINT/SIGTERM
// handler that prints the report and exits with status 1.
func WithSignalShutdown() Option {
	return func(cfg *config) { cfg.signalShutdown = true }
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = newNoopLogger()
	}
	if cfg.output == nil {
		cfg.output = os.Stdout
	}
	if cfg.clock == nil {
		cfg.clock = time.Now
	}
	if cfg.recorder == nil {
		cfg.recorder = NewRecorder(WithRecorderLogger(cfg.logger))
	}
	return cfg
}

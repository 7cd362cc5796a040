package reactor

import (
	"github.com/rs/zerolog"

	"github.com/AnatoleLucet/reactor/internal"
)

// Option configures a Runtime.
type Option func(*options)

type options struct {
	cfg     Config
	host    Host
	logger  *zerolog.Logger
	onError ErrorHandler
}

func newOptions(opts []Option) *options {
	o := &options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) runtimeOptions() internal.RuntimeOptions {
	flush, err := internal.ParseFlushMode(o.cfg.DefaultFlush)
	if err != nil {
		flush = internal.FlushPre
	}

	ro := internal.RuntimeOptions{
		Host:           o.host,
		ErrorHandler:   o.onError,
		Diagnostics:    o.cfg.Diagnostics,
		RecursionLimit: o.cfg.RecursionLimit,
		DefaultFlush:   flush,
	}

	if o.logger != nil {
		log := *o.logger
		if lvl, err := o.cfg.Level(); err == nil && lvl != zerolog.NoLevel {
			log = log.Level(lvl)
		}
		ro.Logger = &log
	}

	return ro
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithHost sets the deferred-callback primitive used to schedule drains.
func WithHost(h Host) Option {
	return func(o *options) { o.host = h }
}

func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.logger = &log }
}

// WithErrorHandler receives reaction errors no owner handled. Without one
// they are logged.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(o *options) { o.onError = fn }
}

func WithDiagnostics(enabled bool) Option {
	return func(o *options) { o.cfg.Diagnostics = enabled }
}

func WithRecursionLimit(limit int) Option {
	return func(o *options) { o.cfg.RecursionLimit = limit }
}

func WithDefaultFlush(mode FlushMode) Option {
	return func(o *options) { o.cfg.DefaultFlush = mode.String() }
}

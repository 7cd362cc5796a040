package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/joeycumines/go-eventloop"
	"github.com/rs/zerolog"

	"github.com/AnatoleLucet/reactor"
)

// Session runs the steps of a scenario on one runtime and writes the
// trace they produce.
type Session struct {
	rt  *reactor.Runtime
	out io.Writer
	d   driver

	// recursion aborts and refused drains of the current step
	fatal chan error
}

func NewSession(out io.Writer, cfg reactor.Config, log zerolog.Logger, d driver) *Session {
	s := &Session{
		out:   out,
		d:     d,
		fatal: make(chan error, 1),
	}

	s.rt = reactor.NewRuntime(
		reactor.WithConfig(cfg),
		reactor.WithLogger(log),
		reactor.WithHost(d.Host()),
		reactor.WithErrorHandler(s.report),
	)

	return s
}

func (s *Session) Runtime() *reactor.Runtime {
	return s.rt
}

func (s *Session) Logf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
}

// Step runs fn as one unit of work and waits until the scheduler has
// drained everything it caused.
func (s *Session) Step(name string, fn func()) {
	s.Logf("> %s", name)

	if err := s.d.Do(s.rt, fn, s.fatal); err != nil {
		s.Logf("! %v", err)
	}
}

func (s *Session) report(err error, ctx reactor.ErrorContext) {
	s.Logf("error (%s): %v", ctx, err)

	if errors.Is(err, reactor.ErrRecursionLimit) || errors.Is(err, reactor.ErrHostRefused) {
		select {
		case s.fatal <- err:
		default:
		}
	}
}

type driver interface {
	Host() reactor.Host

	// Do runs fn on the runtime and returns once the flush it caused
	// completed or was aborted.
	Do(rt *reactor.Runtime, fn func(), fatal <-chan error) error

	Close() error
}

// manualDriver pumps a manual host on the calling goroutine.
type manualDriver struct {
	host *reactor.ManualHost
}

func newManualDriver() *manualDriver {
	return &manualDriver{host: reactor.NewManualHost()}
}

func (d *manualDriver) Host() reactor.Host { return d.host }

func (d *manualDriver) Do(rt *reactor.Runtime, fn func(), fatal <-chan error) error {
	rt.Run(fn)
	done := rt.NextTick(nil)

	d.drain(rt)

	select {
	case <-done:
		return nil
	case <-fatal:
		return nil
	default:
		return errors.New("scheduler still busy after draining the host")
	}
}

// drain swallows the panic of an aborted flush; the error handler has
// already seen it.
func (d *manualDriver) drain(rt *reactor.Runtime) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && errors.Is(err, reactor.ErrRecursionLimit) {
				return
			}
			panic(r)
		}
	}()

	rt.Run(func() { d.host.Drain() })
}

func (d *manualDriver) Close() error { return nil }

// loopDriver runs every step as a task of an event loop. Drains are
// separate loop tasks submitted by the runtime's host.
type loopDriver struct {
	loop    *eventloop.Loop
	host    *reactor.LoopHost
	cancel  context.CancelFunc
	timeout time.Duration
}

func newLoopDriver(log zerolog.Logger, timeout time.Duration) (*loopDriver, error) {
	loop, err := eventloop.New()
	if err != nil {
		return nil, fmt.Errorf("create event loop: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Debug().Err(err).Msg("event loop stopped")
		}
	}()

	return &loopDriver{
		loop:    loop,
		host:    reactor.NewLoopHost(loop, log),
		cancel:  cancel,
		timeout: timeout,
	}, nil
}

func (d *loopDriver) Host() reactor.Host { return d.host }

func (d *loopDriver) Do(rt *reactor.Runtime, fn func(), fatal <-chan error) error {
	ticks := make(chan (<-chan struct{}), 1)

	err := d.loop.Submit(func() {
		rt.Run(fn)
		ticks <- rt.NextTick(nil)
	})
	if err != nil {
		return fmt.Errorf("submit step: %w", err)
	}

	timer := time.NewTimer(d.timeout)
	defer timer.Stop()

	var done <-chan struct{}
	select {
	case done = <-ticks:
	case <-timer.C:
		return fmt.Errorf("step did not start within %s", d.timeout)
	}

	select {
	case <-done:
		return nil
	case <-fatal:
		return nil
	case <-timer.C:
		return fmt.Errorf("step did not settle within %s", d.timeout)
	}
}

func (d *loopDriver) Close() error {
	defer d.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	return d.loop.Shutdown(ctx)
}

package internal

import (
	"fmt"

	"github.com/rs/zerolog"
)

const DefaultRecursionLimit = 100

// Scheduler owns the job queue and the post-flush stack of one runtime.
// It is single threaded: every method must be called from the goroutine
// (or event loop) that owns the runtime.
type Scheduler struct {
	host Host
	log  zerolog.Logger

	queue     *JobQueue
	postFlush *JobQueue

	// incremented each time a flush completes
	clock uint64

	// last issued job ticket
	nextID uint64

	// a drain has been handed to the host and has not started yet
	scheduled bool
	flushing  bool

	// recursion guard, only active with diagnostics on
	diagnostics bool
	limit       int
	seen        map[*Job]int

	// callbacks waiting for the next flush to complete
	waiters []func()

	onFatal func(error)
}

func NewScheduler(host Host, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		host:        host,
		log:         log,
		queue:       NewJobQueue(),
		postFlush:   NewJobQueue(),
		diagnostics: true,
		limit:       DefaultRecursionLimit,
	}
}

// NewJob issues a job ticket for fn.
func (s *Scheduler) NewJob(fn func()) *Job {
	s.nextID++
	return &Job{id: s.nextID, fn: fn}
}

// QueueJob appends job to the job queue unless it is already queued, and
// makes sure a drain is scheduled.
func (s *Scheduler) QueueJob(job *Job) {
	if s.queue.Enqueue(job) {
		s.schedule()
	}
}

// QueuePostFlush appends job to the post-flush stack unless it is already
// there. It never schedules a drain on its own.
func (s *Scheduler) QueuePostFlush(job *Job) {
	s.postFlush.Enqueue(job)
}

// NextTick returns a channel closed once the next flush completes, after
// fn (if any) has run. A drain is scheduled when the scheduler is idle.
func (s *Scheduler) NextTick(fn func()) <-chan struct{} {
	done := make(chan struct{})
	s.waiters = append(s.waiters, func() {
		defer close(done)
		if fn != nil {
			fn()
		}
	})
	s.schedule()

	return done
}

func (s *Scheduler) schedule() {
	if s.flushing || s.scheduled {
		return
	}

	s.scheduled = true
	if err := s.host.Defer(s.drain); err != nil {
		// queued work stays put; the next enqueue asks the host again
		s.scheduled = false

		err = fmt.Errorf("%w: %w", ErrHostRefused, err)
		s.log.Error().Err(err).Int("queued", s.queue.Len()).Msg("drain not scheduled")
		if s.onFatal != nil {
			s.onFatal(err)
		}
	}
}

func (s *Scheduler) drain() {
	s.scheduled = false

	if err := s.Flush(); err != nil {
		if s.onFatal != nil {
			s.onFatal(err)
		}
		panic(err)
	}
}

// Flush drains the job queue, then the post-flush stack in reverse, and
// repeats until both are empty. Calling it while a flush is running is a
// no-op. It returns a *RecursionError when the recursion guard trips.
func (s *Scheduler) Flush() error {
	if s.flushing {
		return nil
	}

	if err := s.flush(); err != nil {
		return err
	}

	s.runWaiters()
	return nil
}

func (s *Scheduler) flush() (err error) {
	s.flushing = true
	if s.diagnostics {
		s.seen = make(map[*Job]int)
	}

	s.log.Trace().
		Int("jobs", s.queue.Len()).
		Int("post_flush", s.postFlush.Len()).
		Msg("flush start")

	ran := 0
	completed := false
	defer func() {
		s.flushing = false
		s.seen = nil

		// a job panicked: leave the rest for another drain
		if !completed && err == nil && (s.queue.Len() > 0 || s.postFlush.Len() > 0) {
			s.schedule()
		}
	}()

	for {
		for {
			job, ok := s.queue.Shift()
			if !ok {
				break
			}

			if err := s.count(job); err != nil {
				return s.abort(err)
			}

			job.Run()
			ran++
		}

		n, err := s.flushPostFlush()
		ran += n
		if err != nil {
			return s.abort(err)
		}

		// post-flush callbacks may have queued more work
		if s.queue.Len() == 0 && s.postFlush.Len() == 0 {
			break
		}
	}

	completed = true
	s.clock++

	s.log.Debug().
		Int("ran", ran).
		Uint64("clock", s.clock).
		Msg("flush done")

	return nil
}

// flushPostFlush runs a snapshot of the post-flush stack, last registered
// first. Callbacks registered meanwhile wait for the next pass.
func (s *Scheduler) flushPostFlush() (int, error) {
	jobs := s.postFlush.Take()

	for i := len(jobs) - 1; i >= 0; i-- {
		if err := s.count(jobs[i]); err != nil {
			return len(jobs) - 1 - i, err
		}

		jobs[i].Run()
	}

	return len(jobs), nil
}

func (s *Scheduler) count(job *Job) error {
	if !s.diagnostics {
		return nil
	}

	n := s.seen[job] + 1
	if n > s.limit {
		return &RecursionError{JobID: job.id, Limit: s.limit}
	}
	s.seen[job] = n

	return nil
}

func (s *Scheduler) abort(err error) error {
	s.queue.Clear()
	s.postFlush.Clear()

	s.log.Error().Err(err).Msg("flush aborted")
	return err
}

func (s *Scheduler) runWaiters() {
	waiters := s.waiters
	s.waiters = nil

	for _, waiter := range waiters {
		waiter()
	}
}

func (s *Scheduler) IsFlushing() bool { return s.flushing }

// IsScheduled reports whether a drain is waiting on the host.
func (s *Scheduler) IsScheduled() bool { return s.scheduled }

// Time returns the number of completed flushes.
func (s *Scheduler) Time() uint64 { return s.clock }

func (s *Scheduler) QueueLen() int { return s.queue.Len() }

func (s *Scheduler) PostFlushLen() int { return s.postFlush.Len() }

func (s *Scheduler) SetDiagnostics(enabled bool) { s.diagnostics = enabled }

func (s *Scheduler) SetRecursionLimit(limit int) {
	if limit > 0 {
		s.limit = limit
	}
}

func (s *Scheduler) OnFatal(fn func(error)) { s.onFatal = fn }

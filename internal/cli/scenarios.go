package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/AnatoleLucet/reactor"
)

// Scenario is a scripted sequence of steps run against a fresh runtime.
type Scenario struct {
	Name        string
	Description string
	Run         func(s *Session)
}

var scenarios = []Scenario{
	{"ordering", "pre, post and sync watchers reacting to the same writes", orderingScenario},
	{"postflush", "job queue order, reentrant jobs and reversed post-flush callbacks", postFlushScenario},
	{"cleanup", "a reaction's cleanup before each rerun and on stop", cleanupScenario},
	{"deep", "deep watchers reacting to nested mutations", deepScenario},
	{"sync", "sync watchers reacting inside every write", syncScenario},
	{"recursion", "a watcher updating its own source until the guard aborts", recursionScenario},
	{"dispose", "disposing an owner stops its watchers and runs its cleanups", disposeScenario},
	{"errors", "panicking reactions are reported without stopping the flush", errorsScenario},
}

func Scenarios() []Scenario {
	return slices.Clone(scenarios)
}

func FindScenario(name string) (Scenario, bool) {
	for _, sc := range scenarios {
		if sc.Name == name {
			return sc, true
		}
	}
	return Scenario{}, false
}

func (s *Session) reaction(name string) func(v, old int, _ reactor.CleanupHook) {
	return func(v, old int, _ reactor.CleanupHook) {
		s.Logf("%s: %d -> %d", name, old, v)
	}
}

func orderingScenario(s *Session) {
	var count *reactor.Ref[int]

	s.Step("watch count with pre, post and sync watchers", func() {
		count = reactor.NewRef(0)

		reactor.Watch(count, s.reaction("pre a"), reactor.WithLazy())
		reactor.Watch(count, s.reaction("post"), reactor.WithLazy(), reactor.WithFlush(reactor.FlushPost))
		reactor.Watch(count, s.reaction("pre b"), reactor.WithLazy())
		reactor.Watch(count, s.reaction("sync"), reactor.WithLazy(), reactor.WithFlush(reactor.FlushSync))
	})

	s.Step("set count to 1", func() {
		count.Set(1)
		s.Logf("set returned")
	})

	s.Step("set count to 2, then 3", func() {
		count.Set(2)
		count.Set(3)
	})
}

func postFlushScenario(s *Session) {
	rt := s.Runtime()

	s.Step("queue jobs and post-flush callbacks", func() {
		d := rt.NewJob(func() { s.Logf("job D (queued by post P1)") })

		for _, name := range []string{"P1", "P2", "P3"} {
			rt.QueuePostFlush(rt.NewJob(func() {
				s.Logf("post %s", name)
				if name == "P1" {
					rt.QueueJob(d)
				}
			}))
		}

		c := rt.NewJob(func() { s.Logf("job C (queued by A)") })
		a := rt.NewJob(func() {
			s.Logf("job A")
			rt.QueueJob(c)
		})
		b := rt.NewJob(func() { s.Logf("job B") })

		rt.QueueJob(a)
		rt.QueueJob(b)
		rt.QueueJob(a)
		s.Logf("queued A, B, A")
	})
}

func cleanupScenario(s *Session) {
	var count *reactor.Ref[int]
	var stop reactor.StopHandle

	s.Step("watch count, registering a cleanup on every run", func() {
		count = reactor.NewRef(0)
		stop = reactor.Watch(count, func(v, _ int, onCleanup reactor.CleanupHook) {
			s.Logf("run %d", v)
			onCleanup(func() { s.Logf("cleanup %d", v) })
		})
	})

	s.Step("set count to 1", func() {
		count.Set(1)
	})

	s.Step("stop the watcher twice", func() {
		stop()
		stop()
	})

	s.Step("set count to 2", func() {
		count.Set(2)
	})
}

type task struct {
	Name string
	Done *reactor.Ref[bool]
}

func summarize(tasks *reactor.List[*task]) string {
	parts := make([]string, 0, tasks.Len())
	for _, t := range tasks.Values() {
		parts = append(parts, fmt.Sprintf("%s=%t", t.Name, t.Done.Peek()))
	}
	return strings.Join(parts, " ")
}

func deepScenario(s *Session) {
	var tasks *reactor.List[*task]

	s.Step("watch a task list deeply and shallowly", func() {
		tasks = reactor.NewList(&task{Name: "write", Done: reactor.NewRef(false)})
		source := reactor.From(func() *reactor.List[*task] { return tasks })

		reactor.Watch(source, func(v, _ *reactor.List[*task], _ reactor.CleanupHook) {
			s.Logf("deep: %s", summarize(v))
		}, reactor.WithDeep())
		reactor.Watch(source, func(v, _ *reactor.List[*task], _ reactor.CleanupHook) {
			s.Logf("shallow: %s", summarize(v))
		})
	})

	s.Step("mark the first task done", func() {
		tasks.Get(0).Done.Set(true)
	})

	s.Step("append a task", func() {
		tasks.Append(&task{Name: "ship", Done: reactor.NewRef(false)})
	})
}

func syncScenario(s *Session) {
	var count *reactor.Ref[int]

	s.Step("watch count with a sync and a pre watcher", func() {
		count = reactor.NewRef(0)

		reactor.Watch(count, s.reaction("pre"), reactor.WithLazy())
		reactor.Watch(count, s.reaction("sync"), reactor.WithLazy(), reactor.WithFlush(reactor.FlushSync))
	})

	s.Step("set count to 1, 2 and 3", func() {
		for i := 1; i <= 3; i++ {
			count.Set(i)
			s.Logf("wrote %d", i)
		}
	})
}

func recursionScenario(s *Session) {
	var count *reactor.Ref[int]
	var stop reactor.StopHandle

	s.Step("watch count, incrementing it from the reaction", func() {
		count = reactor.NewRef(0)
		stop = reactor.Watch(count, func(v, _ int, _ reactor.CleanupHook) {
			if v%25 == 0 {
				s.Logf("run %d", v)
			}
			count.Set(v + 1)
		})
	})

	s.Step("stop the watcher and reset count", func() {
		stop()
		count.Set(0)
		s.Logf("count is %d", count.Peek())
	})
}

func disposeScenario(s *Session) {
	var count *reactor.Ref[int]
	var owner *reactor.Owner

	s.Step("create an owner with a watcher and a child owner", func() {
		count = reactor.NewRef(0)

		owner = reactor.NewOwner()
		owner.OnCleanup(func() { s.Logf("owner cleanup") })

		_ = owner.Run(func() error {
			reactor.Watch(count, func(v, _ int, onCleanup reactor.CleanupHook) {
				s.Logf("watcher: %d", v)
				onCleanup(func() { s.Logf("watcher cleanup %d", v) })
			})

			reactor.NewOwner().OnCleanup(func() { s.Logf("child cleanup") })
			return nil
		})

		owner.SetMounted(true)
		s.Logf("mounted")
	})

	s.Step("set count to 1", func() {
		count.Set(1)
		s.Logf("set returned")
	})

	s.Step("dispose the owner", func() {
		owner.Dispose()
	})

	s.Step("set count to 2", func() {
		count.Set(2)
	})
}

func errorsScenario(s *Session) {
	var count *reactor.Ref[int]

	s.Step("watch count with a panicking and a healthy watcher", func() {
		count = reactor.NewRef(0)

		reactor.Watch(count, func(v, _ int, _ reactor.CleanupHook) {
			panic(fmt.Sprintf("cannot handle %d", v))
		}, reactor.WithLazy())
		reactor.Watch(count, s.reaction("healthy"), reactor.WithLazy())
	})

	s.Step("set count to 1", func() {
		count.Set(1)
	})

	s.Step("run an effect that panics on odd values", func() {
		reactor.WatchEffect(func(reactor.CleanupHook) {
			if v := count.Get(); v%2 == 1 {
				panic(fmt.Sprintf("odd value %d", v))
			}
			s.Logf("effect saw an even value")
		})
	})

	s.Step("set count to 2", func() {
		count.Set(2)
	})
}

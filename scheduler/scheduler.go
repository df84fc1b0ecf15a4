// Package scheduler runs fire-once background tasks such as timers and
// reminders.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type Kind string

const (
	KindTimer    Kind = "timer"
	KindReminder Kind = "reminder"
)

type Task struct {
	ID      string        `json:"id"`
	Kind    Kind          `json:"kind"`
	FiresAt time.Time     `json:"fires_at"`
	Delay   time.Duration `json:"delay"`
	Payload string        `json:"payload"`
}

type entry struct {
	task  Task
	timer Timer
}

// Scheduler keeps a registry of pending tasks keyed by id. A task leaves the
// registry exactly once: when it fires or when it is cancelled.
type Scheduler struct {
	mu      sync.Mutex
	clock   Clock
	entropy *rand.Rand
	tasks   map[string]*entry
	wg      sync.WaitGroup
	log     *slog.Logger
	onFire  func(Task)
}

type Config struct {
	Clock  Clock
	Logger *slog.Logger
	// OnFire is called after every task callback returns.
	OnFire func(Task)
}

func New(cfg *Config) (*Scheduler, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	clock := cfg.Clock
	if clock == nil {
		clock = RealClock()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		clock:   clock,
		entropy: rand.New(rand.NewSource(clock.Now().UnixNano())),
		tasks:   make(map[string]*entry),
		log:     logger,
		onFire:  cfg.OnFire,
	}, nil
}

// Schedule registers fn to run once after delay.
func (s *Scheduler) Schedule(kind Kind, delay time.Duration, payload string, fn func(Task)) (Task, error) {
	if delay < 0 {
		return Task{}, fmt.Errorf("negative delay %s", delay)
	}

	if fn == nil {
		return Task{}, fmt.Errorf("callback is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	task := Task{
		ID:      ulid.MustNew(ulid.Timestamp(now), s.entropy).String(),
		Kind:    kind,
		FiresAt: now.Add(delay),
		Delay:   delay,
		Payload: payload,
	}

	e := &entry{task: task}
	s.tasks[task.ID] = e
	s.wg.Add(1)

	e.timer = s.clock.AfterFunc(delay, func() { s.fire(task.ID, fn) })

	s.log.Debug("task scheduled", "id", task.ID, "kind", kind, "delay", delay)

	return task, nil
}

func (s *Scheduler) fire(id string, fn func(Task)) {
	s.mu.Lock()
	e, ok := s.tasks[id]
	if ok {
		delete(s.tasks, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	defer s.wg.Done()

	s.log.Debug("task fired", "id", id, "kind", e.task.Kind)

	fn(e.task)

	if s.onFire != nil {
		s.onFire(e.task)
	}
}

// Cancel removes a pending task. It reports false if the task already fired
// or never existed.
func (s *Scheduler) Cancel(id string) bool {
	s.mu.Lock()
	e, ok := s.tasks[id]
	if ok {
		delete(s.tasks, id)
	}
	s.mu.Unlock()

	if !ok {
		return false
	}

	e.timer.Stop()
	s.wg.Done()

	return true
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	n := 0
	for _, id := range ids {
		if s.Cancel(id) {
			n++
		}
	}

	return n
}

// Pending lists tasks that have not fired yet, soonest first.
func (s *Scheduler) Pending() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Task, 0, len(s.tasks))
	for _, e := range s.tasks {
		out = append(out, e.task)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].FiresAt.Before(out[j].FiresAt) })

	return out
}

// Wait blocks until no task is pending or ctx is done.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

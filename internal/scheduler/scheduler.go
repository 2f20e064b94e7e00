// Package scheduler runs one periodic task per countdown id. It replaces
// the ambient job registry of typical bot frameworks with an explicit
// object that owns the id to task mapping.
package scheduler

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultInterval bounds how stale a displayed countdown can get.
	DefaultInterval = 10 * time.Second
	// DefaultInitialDelay is how soon the first tick fires after Ensure.
	DefaultInitialDelay = 1 * time.Second
)

// Scheduler owns a set of periodic tasks keyed by countdown id. Each task
// runs in its own goroutine so a slow tick for one countdown never delays
// another's.
type Scheduler struct {
	interval     time.Duration
	initialDelay time.Duration

	mu      sync.Mutex
	tasks   map[string]context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

func New(interval, initialDelay time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if initialDelay <= 0 {
		initialDelay = DefaultInitialDelay
	}
	return &Scheduler{
		interval:     interval,
		initialDelay: initialDelay,
		tasks:        map[string]context.CancelFunc{},
	}
}

// Ensure registers a periodic task for id, replacing any task already
// registered under the same id. The task fires once after the initial
// delay and then every interval until cancelled. After Stop, Ensure is a
// no-op.
func (s *Scheduler) Ensure(id string, tick func(context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		cancel()
		return
	}
	if prev, ok := s.tasks[id]; ok {
		prev()
	}
	s.tasks[id] = cancel
	// under the mutex so it cannot race Stop's Wait
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ctx, tick)
}

// Cancel stops the task registered under id. It is a no-op when no such
// task exists.
func (s *Scheduler) Cancel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.tasks[id]; ok {
		cancel()
		delete(s.tasks, id)
	}
}

// Active reports whether a task is registered under id.
func (s *Scheduler) Active(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[id]
	return ok
}

// Len returns the number of registered tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every task and waits for in-flight ticks to return. The
// scheduler accepts no new tasks afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, cancel := range s.tasks {
		cancel()
		delete(s.tasks, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context, tick func(context.Context)) {
	defer s.wg.Done()

	delay := time.NewTimer(s.initialDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return
	case <-delay.C:
	}
	tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

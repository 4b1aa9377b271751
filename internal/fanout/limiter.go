// Package fanout bounds how many outbound store operations run at the
// same time. Partner storefront APIs rate-limit aggressively, so the
// orchestrator dispatches every per-store task through a Limiter.
package fanout

import "sync"

// Limiter runs submitted tasks with at most maxConcurrent of them
// active at once. Pending tasks wait in a FIFO queue; when a running
// task finishes, the next queued task starts immediately. A task's
// failure is its own business and never blocks or cancels siblings.
type Limiter struct {
	maxConcurrent int

	mu      sync.Mutex
	queue   []func()
	running int

	wg sync.WaitGroup
}

// NewLimiter creates a limiter with the given concurrency bound.
func NewLimiter(maxConcurrent int) *Limiter {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Limiter{maxConcurrent: maxConcurrent}
}

// Execute enqueues task and returns without waiting for it. Every
// submitted task eventually runs exactly once.
func (l *Limiter) Execute(task func()) {
	l.wg.Add(1)
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()
	l.dispatch()
}

// Wait blocks until no tasks are queued or running.
func (l *Limiter) Wait() {
	l.wg.Wait()
}

// Running returns the number of currently running tasks.
func (l *Limiter) Running() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *Limiter) dispatch() {
	l.mu.Lock()
	if l.running >= l.maxConcurrent || len(l.queue) == 0 {
		l.mu.Unlock()
		return
	}
	task := l.queue[0]
	l.queue = l.queue[1:]
	l.running++
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			l.running--
			l.mu.Unlock()
			l.wg.Done()
			l.dispatch()
		}()
		task()
	}()
}

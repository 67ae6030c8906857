// Package runloop provides a single-goroutine serial executor. It stands
// in for the UI thread: state owned by a loop is only ever mutated from
// functions posted to it, so observers never see torn updates.
package runloop

import "sync"

// Loop executes posted functions one at a time, in post order.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool
	wg      sync.WaitGroup
}

// New starts a loop.
func New() *Loop {
	l := &Loop{}
	l.cond = sync.NewCond(&l.mu)
	l.wg.Add(1)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	l.mu.Lock()
	for {
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
		l.mu.Lock()
	}
}

// Post schedules fn on the loop without waiting. Posts after Stop are
// dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.queue = append(l.queue, fn)
	l.cond.Signal()
}

// Sync runs fn on the loop and waits for it to finish. After Stop, fn
// runs on the caller's goroutine instead.
func (l *Loop) Sync(fn func()) {
	done := make(chan struct{})
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		fn()
		return
	}
	l.queue = append(l.queue, func() {
		fn()
		close(done)
	})
	l.cond.Signal()
	l.mu.Unlock()
	<-done
}

// Stop drains queued work and shuts the loop down. Safe to call more
// than once; must not be called from a function running on the loop.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.cond.Signal()
	l.mu.Unlock()
	l.wg.Wait()
}

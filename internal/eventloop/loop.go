// Package eventloop runs closures one at a time on a single goroutine.
//
// A session owns one Loop; every change to activity state is posted to it, so the
// state itself needs no locking. Work that blocks (network, disk) runs elsewhere and
// posts its continuation back.
package eventloop

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
	"sync"
	"time"
)

var ErrStopped = errors.New("event loop stopped")

type Loop struct {
	name   string
	inbox  chan func()
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	// OnPanic is called with the recovered value when a closure panics. The loop
	// keeps running.
	OnPanic func(recovered any)
}

func New(name string, mailbox int) *Loop {
	if mailbox <= 0 {
		mailbox = 256
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		name:   name,
		inbox:  make(chan func(), mailbox),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start launches the loop goroutine. Calling it again has no effect.
func (l *Loop) Start() {
	l.once.Do(func() { go l.run() })
}

// Stop ends the loop. Queued closures that have not started are dropped.
func (l *Loop) Stop() { l.cancel() }

// Done closes when the loop goroutine exits.
func (l *Loop) Done() <-chan struct{} { return l.done }

// Context is cancelled when the loop stops.
func (l *Loop) Context() context.Context { return l.ctx }

// Post queues fn. It blocks while the mailbox is full and reports false once the
// loop is stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.ctx.Done():
		return false
	default:
	}
	select {
	case l.inbox <- fn:
		metricQueued.Inc()
		return true
	case <-l.ctx.Done():
		return false
	}
}

// Call runs fn on the loop and waits for it to finish.
// It must not be called from the loop goroutine.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ctx.Done():
		return ErrStopped
	}
}

// AfterFunc posts fn once d has elapsed. The returned func cancels the timer.
func (l *Loop) AfterFunc(d time.Duration, fn func()) (stop func() bool) {
	t := time.AfterFunc(d, func() { l.Post(fn) })
	return t.Stop
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return
		case fn := <-l.inbox:
			l.exec(fn)
		}
	}
}

func (l *Loop) exec(fn func()) {
	start := time.Now()
	defer func() {
		metricTurnSeconds.Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			metricPanics.Inc()
			if l.OnPanic != nil {
				l.OnPanic(r)
				return
			}
			log.Printf("[loop %s] panic: %v\n%s", l.name, r, debug.Stack())
		}
	}()
	fn()
}

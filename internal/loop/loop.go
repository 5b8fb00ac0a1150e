// Copyright 2026 The httpsync Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package loop implements the dispatch loop shared by every client and
// server created from one httpsync factory.
//
// A Loop is an unbounded FIFO queue of handlers drained by a fixed
// number of worker goroutines. Blocking network operations never run on
// a worker: Async runs them on their own goroutine and posts their
// completion handler back onto the queue.
//
// Stop does not return while any async operation or its completion
// handler is still running. Operations observe the loop's context and
// must return promptly once it is cancelled.
package loop

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrStopped is returned when work is submitted to a stopped loop, and
// is delivered to the completion handler of an async operation that
// finished after its loop stopped.
var ErrStopped = errors.New("loop: stopped")

// Logger receives reports of handlers that panicked.
type Logger interface {
	Errorf(format string, args ...interface{})
}

// A Loop is a dispatch loop. Create one with New.
type Loop struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []func()
	stopped bool

	ctx    context.Context
	cancel context.CancelFunc
	ops    sync.WaitGroup

	workers int
	group   errgroup.Group
	logger  Logger
	once    sync.Once
}

// New starts a loop with the given number of workers. A workers value
// less than 1 means one worker per CPU. The logger may be nil.
func New(workers int, logger Logger) *Loop {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	l := &Loop{
		workers: workers,
		logger:  logger,
	}
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.cond = sync.NewCond(&l.mu)

	for i := 0; i < workers; i++ {
		l.group.Go(l.worker)
	}

	return l
}

// Workers returns the number of worker goroutines running the loop.
func (l *Loop) Workers() int {
	return l.workers
}

// Post queues fn to run on a worker. It returns ErrStopped, and does
// not queue fn, if the loop has been stopped.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		panic("loop: nil handler")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return ErrStopped
	}

	l.queue = append(l.queue, fn)
	l.cond.Signal()
	return nil
}

// Async runs op on a new goroutine and, once it returns, queues done
// with the error it returned. The context passed to op is cancelled
// when the loop stops.
//
// If the loop is stopped when Async is called, op does not run and
// ErrStopped is returned. If the loop stops while op is running, done
// is called directly on op's goroutine with ErrStopped, so done always
// runs exactly once after a nil return from Async.
func (l *Loop) Async(op func(ctx context.Context) error, done func(error)) error {
	if op == nil || done == nil {
		panic("loop: nil operation")
	}

	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrStopped
	}
	l.ops.Add(1)
	l.mu.Unlock()

	go func() {
		defer l.ops.Done()
		err := op(l.ctx)
		if l.Post(func() { done(err) }) != nil {
			l.invoke(func() { done(ErrStopped) })
		}
	}()

	return nil
}

// Delay queues fn once d has elapsed. If the loop stops first, fn is
// called right away on the timer's goroutine, before Stop returns. It
// returns ErrStopped, and never calls fn, if the loop is already
// stopped.
func (l *Loop) Delay(d time.Duration, fn func()) error {
	if fn == nil {
		panic("loop: nil handler")
	}

	return l.Async(func(ctx context.Context) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		}
		return nil
	}, func(error) { fn() })
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// Stop rejects new work and cancels the context of running async
// operations. It lets the workers finish every handler already queued,
// waits for them to exit, and then waits for every async operation and
// its completion handler to return.
//
// Stop is idempotent. It must not be called from a handler running on
// the loop, since it waits for that handler's worker.
func (l *Loop) Stop() {
	l.once.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.cond.Broadcast()
		l.mu.Unlock()
		l.cancel()
	})

	_ = l.group.Wait()
	l.ops.Wait()
}

func (l *Loop) worker() error {
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.stopped {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return nil
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.invoke(fn)
	}
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if l.logger != nil {
				l.logger.Errorf("loop: handler panic: %v\n%s", r, stack())
			}
		}
	}()

	fn()
}

func stack() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

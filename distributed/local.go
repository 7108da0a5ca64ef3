package distributed

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrClosed is returned by Submit on a pool that has been closed.
var ErrClosed = errors.New("distributed: pool is closed")

/*
A LocalPool runs tasks in the submitting process on a fixed number of worker
slots. It is the reference implementation of the Pool contract: since the
workers share the process image, no code distribution is needed, which makes
it suitable for tests, and for falling back to local execution where no
remote pool is configured.

A LocalPool must be created with NewLocalPool and is safe for concurrent
use.
*/
type LocalPool struct {
	slots chan struct{}
	log   zerolog.Logger

	mutex  sync.Mutex
	closed bool
	tasks  sync.WaitGroup
}

// A LocalOption configures a LocalPool.
type LocalOption func(*LocalPool)

// WithLogger makes the pool log task lifecycle events to log. Without this
// option, the pool does not log.
func WithLogger(log zerolog.Logger) LocalOption {
	return func(p *LocalPool) { p.log = log }
}

/*
NewLocalPool returns a LocalPool with the given number of worker slots. A
nofWorkers value of 0 or below selects runtime.GOMAXPROCS(0) slots.
*/
func NewLocalPool(nofWorkers int, options ...LocalOption) *LocalPool {
	if nofWorkers <= 0 {
		nofWorkers = runtime.GOMAXPROCS(0)
	}
	p := &LocalPool{
		slots: make(chan struct{}, nofWorkers),
		log:   zerolog.Nop(),
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// NumWorkers returns the number of worker slots.
func (p *LocalPool) NumWorkers() int { return cap(p.slots) }

/*
Submit schedules task on the pool and returns a Future for its result.
Submit blocks until a worker slot is free; ctx bounds the wait. A panic in
the task is recovered and surfaces as an error of the returned Future,
extended with the stack of the worker it was recovered on.

Submit returns ErrClosed if the pool has been closed.
*/
func (p *LocalPool) Submit(ctx context.Context, task Task) (Future, error) {
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return nil, ErrClosed
	}
	p.tasks.Add(1)
	p.mutex.Unlock()
	p.log.Debug().Str("task", task.ID).Int("low", task.Low).Int("high", task.High).Msg("task submitted")
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		p.tasks.Done()
		return nil, ctx.Err()
	}
	f := &localFuture{outcome: make(chan outcome, 1)}
	go func() {
		defer func() {
			<-p.slots
			p.tasks.Done()
		}()
		p.log.Debug().Str("task", task.ID).Msg("task started")
		start := time.Now()
		res, err := runTask(ctx, task)
		if err != nil {
			p.log.Error().Str("task", task.ID).Dur("duration", time.Since(start)).Err(err).Msg("task failed")
		} else {
			p.log.Debug().Str("task", task.ID).Dur("duration", time.Since(start)).Bool("done", res.Done).Msg("task finished")
		}
		f.outcome <- outcome{res, err}
	}()
	return f, nil
}

/*
Close marks the pool closed and waits until all tasks submitted so far have
finished. Submit returns ErrClosed afterwards. Close is idempotent.
*/
func (p *LocalPool) Close() {
	p.mutex.Lock()
	p.closed = true
	p.mutex.Unlock()
	p.tasks.Wait()
	p.log.Debug().Msg("pool closed")
}

// runTask turns a panic in the task into an error, so that it can cross the
// future like every other task failure.
func runTask(ctx context.Context, task Task) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %v panicked: %v\n%s", task.ID, r, debug.Stack())
		}
	}()
	return task.Run(ctx)
}

type outcome struct {
	res Result
	err error
}

type localFuture struct {
	outcome chan outcome
}

// Await implements the Future interface.
func (f *localFuture) Await(ctx context.Context) (Result, error) {
	select {
	case o := <-f.outcome:
		return o.res, o.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

package distributed

import "context"

/*
A Task is one unit of pool work: a contiguous chunk of a folded view,
identified across the pool boundary by ID, with the chunk bounds carried by
value. Run folds the chunk; a pool that runs tasks remotely is responsible
for making the pipeline's code available on its workers, a one-time
broadcast outside the scope of this package.
*/
type Task struct {
	// ID identifies the task across the pool boundary.
	ID string
	// Low and High are the bounds of the chunk within the folded view,
	// with Low inclusive and High exclusive.
	Low, High int
	// Run folds the chunk and returns its partial result.
	Run func(ctx context.Context) (Result, error)
}

/*
A Result is the partial result of one folded chunk: the boxed accumulator,
and whether the chunk terminated the fold early. Results cross the pool
boundary by value.
*/
type Result struct {
	Value any
	Done  bool
}

// A Pool runs tasks on a fixed set of workers.
type Pool interface {
	// NumWorkers returns the number of workers of the pool, which is
	// always at least 1.
	NumWorkers() int

	// Submit schedules task on the pool and returns a Future for its
	// result. Submit may block until a worker is available; ctx bounds
	// the wait.
	Submit(ctx context.Context, task Task) (Future, error)
}

// A Future is the pending result of a submitted task.
type Future interface {
	// Await blocks until the task has finished and returns its result,
	// or the task's error, or the error of ctx if it is cancelled first.
	// Await consumes the result and must not be called twice; a future
	// that is never awaited discards its result without blocking the
	// task.
	Await(ctx context.Context) (Result, error)
}

/*
Package distributed provides a chunk executor for pipeline folds over a pool
of workers that share no memory with the submitting process.

The view is cut into contiguous chunks of a fixed size, one task per chunk
is submitted to the pool in chunk order, and the futures are awaited in the
same order. Chunk bounds and results cross the pool boundary by value; the
pool is responsible for making the pipeline's code available on its workers.

The package also provides LocalPool, an in-process pool that runs tasks on a
fixed number of worker slots. It serves as the reference implementation of
the Pool contract and keeps the distributed path testable without remote
infrastructure.
*/
package distributed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/exascience/parfold/pipeline"
	"github.com/exascience/parfold/seq"
)

/*
Fold folds the view s with pipeline p on the given pool, seeding every chunk
with init, and returns the finalized result.

A chunkSize above 0 is used as is; 0 selects the default s.Len() divided by
pool.NumWorkers(), but at least 1. Fold panics if chunkSize is negative, or
if p contains a scan stage, in both cases before any task is submitted.

The result equals sequential.Fold on the same arguments provided the
pipeline's combiner is associative and init is its identity. If chunks
terminate the fold early, the first terminating chunk in chunk order
provides the result; there is no cancellation of in-flight tasks on the
workers.

The first error encountered while submitting or awaiting in chunk order is
returned, with the zero accumulator; tasks are not retried, and tasks
already submitted keep running.
*/
func Fold[A any](ctx context.Context, pool Pool, p *pipeline.Pipeline[A], init A, s seq.Seq, chunkSize int) (A, error) {
	if p.Stateful() {
		panic("distributed: fold with a stateful pipeline")
	}
	if chunkSize < 0 {
		panic(fmt.Sprintf("invalid chunk size: %v", chunkSize))
	}
	var zero A
	size := s.Len()
	if size == 0 {
		return p.Finalize(p.Initial(init)), nil
	}
	if chunkSize == 0 {
		chunkSize = size / pool.NumWorkers()
		if chunkSize == 0 {
			chunkSize = 1
		}
	}
	var futures []Future
	for low := 0; low < size; low += chunkSize {
		high := low + chunkSize
		if high > size {
			high = size
		}
		chunk := s.Sub(low, high)
		future, err := pool.Submit(ctx, Task{
			ID:   uuid.NewString(),
			Low:  low,
			High: high,
			Run: func(context.Context) (Result, error) {
				acc, done, err := p.Fold(p.Initial(init), chunk.Len(), chunk.At)
				if err != nil {
					return Result{}, err
				}
				return Result{Value: acc, Done: done}, nil
			},
		})
		if err != nil {
			return zero, err
		}
		futures = append(futures, future)
	}
	var result pipeline.Partial[A]
	for i, future := range futures {
		res, err := future.Await(ctx)
		if err != nil {
			return zero, err
		}
		part := pipeline.Partial[A]{Value: res.Value.(A), Done: res.Done}
		if i == 0 {
			result = part
		} else if !result.Done {
			result = p.CombinePartial(result, part)
		}
	}
	return p.Finalize(result.Value), nil
}

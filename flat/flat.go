/*
Package flat provides a non-recursive fallback executor for pipeline folds.

Instead of the fork-join recursion of the parallel package, the view is cut
up front into max(1, size/threshold) contiguous chunks which are folded by a
worker group whose size is fixed at runtime.GOMAXPROCS(0). The chunk results
are merged left to right afterwards.

The flat executor supports no cancellation: a chunk that the group has
started is folded to completion even when a chunk to its left has already
terminated the fold. It is intended for environments where the fan-out of
the fork-join executor is undesirable; in all other cases, prefer the
parallel package.
*/
package flat

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/exascience/parfold"
	"github.com/exascience/parfold/internal"
	"github.com/exascience/parfold/pipeline"
	"github.com/exascience/parfold/seq"
)

/*
Fold folds the view s with pipeline p chunk by chunk, seeding every chunk
with init, and returns the finalized result.

The result equals sequential.Fold on the same arguments provided the
pipeline's combiner is associative and init is its identity. If chunks
terminate the fold early, the first terminating chunk in chunk order
provides the result, and the chunks to its right do not contribute to it;
they may still be folded, since nothing cancels them.

Fold returns the first error observed by the worker group; the other chunks
still run to completion. Fold panics if p contains a scan stage. If step
invocations panic, the workers recover the panics, and Fold panics with the
one from the leftmost panicking chunk, extended with the stack of the worker
it was recovered on.
*/
func Fold[A any](p *pipeline.Pipeline[A], init A, s seq.Seq) (A, error) {
	if p.Stateful() {
		panic("flat: fold with a stateful pipeline")
	}
	size := s.Len()
	if size == 0 {
		return p.Finalize(p.Initial(init)), nil
	}
	nofChunks := parfold.ComputeNofChunks(size, s.Threshold())
	chunkSize := ((size - 1) / nofChunks) + 1
	var chunks []seq.Seq
	for low := 0; low < size; low += chunkSize {
		high := low + chunkSize
		if high > size {
			high = size
		}
		chunks = append(chunks, s.Sub(low, high))
	}
	parts := make([]pipeline.Partial[A], len(chunks))
	recs := make([]any, len(chunks))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			defer func() {
				recs[i] = internal.WrapPanic(recover())
			}()
			acc, done, err := p.Fold(p.Initial(init), chunk.Len(), chunk.At)
			if err != nil {
				return err
			}
			if done {
				parts[i] = pipeline.Stop(acc)
			} else {
				parts[i] = pipeline.Continue(acc)
			}
			return nil
		})
	}
	err := g.Wait()
	for _, rec := range recs {
		if rec != nil {
			panic(rec)
		}
	}
	if err != nil {
		var zero A
		return zero, err
	}
	result := parts[0]
	for _, part := range parts[1:] {
		if result.Done {
			break
		}
		result = p.CombinePartial(result, part)
	}
	return p.Finalize(result.Value), nil
}

// Package parallel provides the recursive fork-join executor for pipeline
// folds, with cooperative early termination.
//
// The executor recursively splits a sequence view until the parts are at or
// below the chunk threshold, folds the small parts sequentially, and merges
// the partial accumulators with the pipeline's combiner. Each split computes
// its left half synchronously and spawns one goroutine for its right half,
// so suspension happens only at join points.
//
// When a part terminates the fold early, the executor cancels, through the
// cancel package, every spawned part to its right that has not started yet:
// exactly the elements a strictly sequential left-to-right fold would never
// have visited. Parts that are already folding are not preempted, so
// cancellation reduces wasted work without bounding it.
package parallel

import (
	"sync"

	"github.com/exascience/parfold/cancel"
	"github.com/exascience/parfold/internal"
	"github.com/exascience/parfold/pipeline"
	"github.com/exascience/parfold/seq"
)

// Fold folds the view s with pipeline p in parallel, seeding every part
// with init, and returns the finalized result.
//
// The result equals sequential.Fold on the same arguments, for every chunk
// threshold and degree of parallelism, provided the pipeline's combiner is
// associative and init is its identity. If the fold terminates early, the
// leftmost terminating accumulator in element order is the one finalized,
// like in a sequential fold, and elements to the right of the termination
// point are visited at most until the cooperative cancellation reaches
// their part.
//
// Fold returns the leftmost error value in join order that is different
// from nil; parts that are already in flight are not cancelled on error.
//
// Fold panics if p contains a scan stage. If one or more step invocations
// panic, the corresponding goroutines recover the panics, and Fold
// eventually panics with a recovered panic value, extended with the stack
// of the goroutine it was recovered on.
func Fold[A any](p *pipeline.Pipeline[A], init A, s seq.Seq) (A, error) {
	if p.Stateful() {
		panic("parallel: fold with a stateful pipeline")
	}
	part, err := node(cancel.Context{}, p, init, s)
	if err != nil {
		var zero A
		return zero, err
	}
	return p.Finalize(part.Value), nil
}

// node is one step of the fork-join recursion over sequence views.
func node[A any](ctx cancel.Context, p *pipeline.Pipeline[A], init A, s seq.Seq) (pipeline.Partial[A], error) {
	if ctx.Aborted() {
		// The untouched identity; combining against it is skipped by
		// the caller.
		return pipeline.Continue(init), nil
	}
	if s.Small() {
		acc, done, err := p.Fold(p.Initial(init), s.Len(), s.At)
		if err != nil {
			return pipeline.Continue(acc), err
		}
		if done {
			ctx.Cancel()
			return pipeline.Stop(acc), nil
		}
		return pipeline.Continue(acc), nil
	}
	left, right := s.Split()
	fg, bg := ctx.Fork()
	var (
		b    pipeline.Partial[A]
		err1 error
		rec  any
		wg   sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer func() {
			rec = internal.WrapPanic(recover())
			wg.Done()
		}()
		b, err1 = node(bg, p, init, right)
	}()
	a, err0 := node(fg, p, init, left)
	// The join always happens, even when the left half already decided
	// the outcome: the spawned part must never be orphaned.
	wg.Wait()
	if rec != nil {
		panic(rec)
	}
	if err0 != nil {
		return a, err0
	}
	if err1 != nil {
		return b, err1
	}
	if a.Done {
		return a, nil
	}
	if b.Done {
		return b, nil
	}
	if ctx.Aborted() {
		// The right side aborted holding the identity, so combining is
		// skipped. Sound only when init is a true identity for the
		// combiner, which the contract requires.
		return a, nil
	}
	return p.CombinePartial(a, b), nil
}

// Package sequential provides the strict left-to-right fold executor. This
// is useful for testing and debugging the parallel executors, whose results
// must coincide with it on associative pipelines, and it is the only
// executor that accepts pipelines with stateful scan stages.
//
// It is not recommended to use this package where the parallel executors
// apply: a sequential fold gains nothing from the splittable sequence
// protocol.
package sequential

import (
	"github.com/exascience/parfold/pipeline"
	"github.com/exascience/parfold/seq"
)

/*
Fold folds the view s with pipeline p on the calling goroutine, strictly
from left to right, seeding the accumulator with init.

Every element is visited in order and the chunk threshold of the view is
ignored: there is no splitting, no goroutine is spawned, and an early
termination simply stops the loop. Scan stages keep their state for the
whole duration of the fold, which is what makes this the one executor that
accepts stateful pipelines.

The final accumulator, unwrapped from its early-termination state if any, is
passed through the pipeline's finalizer. An error from the step function is
returned as is.
*/
func Fold[A any](p *pipeline.Pipeline[A], init A, s seq.Seq) (A, error) {
	acc, _, err := p.Fold(p.Initial(init), s.Len(), s.At)
	if err != nil {
		var zero A
		return zero, err
	}
	return p.Finalize(acc), nil
}

/*
Collect folds the view s into a slice of every element that reaches the end
of the given stage chain, in encounter order. It is a convenience for
inspecting what a chain produces, used mostly by tests and examples, and
accepts stateful chains like Fold does.
*/
func Collect(s seq.Seq, stages ...pipeline.Stage) ([]any, error) {
	p := pipeline.New(
		func(acc []any, item any) ([]any, bool, error) {
			return append(acc, item), false, nil
		},
		func(left, right []any) []any { return append(left, right...) },
		stages...,
	)
	return Fold(p, nil, s)
}

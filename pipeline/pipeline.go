/*
Package pipeline provides the fold pipeline consumed by the parfold
executors: an ordered chain of transformation stages, a terminal step
function that folds elements into an accumulator, an associative combiner
that merges the accumulators of adjacent parts, and an optional finalizer.

Early termination is a first-class control value, not an error: a step that
reports termination declares its accumulator the final answer, the executors
stop consuming input, and the answer propagates through every combine
untouched. Errors, in contrast, mean the fold failed.

The package also provides the vectorization annotation pass (Annotate), and
the fold engine (Fold) that every executor uses on the parts of a sequence it
folds sequentially.
*/
package pipeline

/*
A Step folds one element into the accumulator and returns the new
accumulator. The returned bool reports early termination: true means the
accumulator is the final answer and no further input must be consumed. A
non-nil error fails the whole fold.
*/
type Step[A any] func(acc A, item any) (A, bool, error)

// StepOf is a statically typed Step for folds that cannot fail.
func StepOf[A, T any](f func(A, T) (A, bool)) Step[A] {
	return func(acc A, item any) (A, bool, error) {
		acc, done := f(acc, item.(T))
		return acc, done, nil
	}
}

/*
A Pipeline describes a fold over a sequence: a chain of stages, a terminal
step, a combiner, and an optional finalizer.

Pipelines are immutable after construction and safe to share between
concurrent folds; any per-fold state (scan stages in the sequential
executor) lives in private runners that the fold engine creates per fold.

The step, the combiner, and the init value passed to the executors must form
a monoid: combine must be associative, and init must be its identity. The
executors rely on this for splitting the input at all, and for skipping
combines against parts that aborted while still holding the untouched
identity.
*/
type Pipeline[A any] struct {
	stages   []Stage
	step     Step[A]
	combine  func(left, right A) A
	finalize func(acc A) A
}

/*
New returns a Pipeline folding with the given terminal step and combiner,
with elements passing through the given stage chain first: the first stage
receives the sequence elements, each stage feeds the next, and the last
stage feeds the step.

New panics if step or combine is nil.
*/
func New[A any](step Step[A], combine func(left, right A) A, stages ...Stage) *Pipeline[A] {
	if step == nil || combine == nil {
		panic("pipeline: nil step or combine")
	}
	return &Pipeline[A]{stages: stages, step: step, combine: combine}
}

/*
WithFinalize returns a copy of p whose finalizer is f. The finalizer runs
exactly once per fold, at the outermost boundary of the executor, on the
unwrapped final accumulator, whether or not the fold terminated early.
*/
func (p *Pipeline[A]) WithFinalize(f func(acc A) A) *Pipeline[A] {
	q := *p
	q.finalize = f
	return &q
}

// Initial seeds the accumulator that one part of a fold starts from.
func (p *Pipeline[A]) Initial(init A) A { return init }

// Combine merges the accumulators of two adjacent parts, left before right,
// with the pipeline's combiner.
func (p *Pipeline[A]) Combine(left, right A) A { return p.combine(left, right) }

// Finalize produces the externally visible result from the final merged
// accumulator. Without a finalizer, Finalize returns the accumulator as is.
func (p *Pipeline[A]) Finalize(acc A) A {
	if p.finalize == nil {
		return acc
	}
	return p.finalize(acc)
}

/*
Stateful reports whether the chain contains a Scan stage. The parallel,
flat, and distributed executors reject stateful pipelines; only the
sequential executor runs them.
*/
func (p *Pipeline[A]) Stateful() bool {
	for _, s := range p.stages {
		if _, ok := s.(scanStage); ok {
			return true
		}
	}
	return false
}

/*
A Partial is the accumulator produced by one part of a fold. Done marks an
early termination: the value is final, and combining it with the partials of
parts to its right returns it untouched.
*/
type Partial[A any] struct {
	Value A
	Done  bool
}

// Continue wraps acc as the partial result of a part that has not
// terminated.
func Continue[A any](acc A) Partial[A] { return Partial[A]{Value: acc} }

// Stop wraps acc as the final answer of a part that terminated early.
func Stop[A any](acc A) Partial[A] { return Partial[A]{Value: acc, Done: true} }

/*
CombinePartial merges the partial results of two adjacent parts, a from the
left part and b from the right part.

If a is done, it is the leftmost early termination in element order and is
returned as is; b then covers elements that a sequential fold would never
have reached. If only b is done, b is returned as is. Otherwise the two
accumulators are merged with the pipeline's combiner.
*/
func (p *Pipeline[A]) CombinePartial(a, b Partial[A]) Partial[A] {
	if a.Done {
		return a
	}
	if b.Done {
		return b
	}
	return Continue(p.combine(a.Value, b.Value))
}

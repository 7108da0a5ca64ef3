// Package parfold provides functions and data structures for expressing
// associative reductions (folds) over in-memory sequences as parallel
// algorithms. A fold written with this library behaves like a strictly
// sequential left-to-right fold, including its short-circuit behavior when a
// step decides that the result is final, but executes on multiple logical
// CPUs, or on a pool of workers in coarse chunks.
//
// Parfold provides the following subpackages:
//
// parfold/seq provides the splittable sequence protocol, and sources over
// slices, integer ranges, and generator functions.
//
// parfold/pipeline provides the fold pipeline: transformation stages (map,
// filter, flatten, scan), the terminal step function and combiner, the
// vectorization annotation pass, and the fold engine shared by all executors.
//
// parfold/cancel provides the cooperative cancellation protocol that lets an
// early termination stop sibling computations over elements a sequential fold
// would never have reached.
//
// parfold/parallel provides the recursive fork-join executor with early
// termination.
//
// parfold/sequential provides the strict left-to-right executor, for testing
// and debugging purposes, and as the only executor that accepts stateful scan
// stages.
//
// parfold/flat provides a non-recursive executor with a fixed fan-out, for
// settings where recursive task spawning is not wanted.
//
// parfold/distributed provides the chunked executor over a worker pool,
// together with an in-process reference pool.
//
// The root parfold package provides the threshold and chunk arithmetic shared
// by the executors.
//
// Parfold has been influenced to various extents by ideas from Cilk, Threading
// Building Blocks, and the reducer/transducer designs found in functional
// languages. See http://supertech.csail.mit.edu/papers/steal.pdf for some
// theoretical background on fork-join scheduling.
package parfold

/*
Package seq provides the splittable sequence protocol that the parfold
executors fold over.

A Source is any indexable collection; a Seq is a contiguous view over a
Source together with the chunk threshold that tells the executors when to
stop splitting. Views produced by Split are disjoint and order preserving, so
no two concurrently folded parts ever read the same element, and no
synchronization is needed on the data itself.
*/
package seq

import (
	"fmt"

	"github.com/exascience/parfold"
)

/*
A Source is an indexable collection of known size.

Sources must be safe for concurrent calls of At on distinct indices; the
executors never call At twice for the same index within one fold, except when
a vectorized block is replayed after an early termination inside it.
*/
type Source interface {
	// Len returns the number of elements.
	Len() int
	// At returns the element at index i, with 0 <= i < Len().
	At(i int) any
}

// Slice adapts a Go slice to the Source interface.
type Slice[T any] []T

// Len returns the slice length.
func (s Slice[T]) Len() int { return len(s) }

// At returns the element at index i.
func (s Slice[T]) At(i int) any { return s[i] }

/*
Ints returns a Source that enumerates the integers low <= i < high in
increasing order. Ints panics if high < low.
*/
func Ints(low, high int) Source {
	if high < low {
		panic(fmt.Sprintf("invalid range: %v:%v", low, high))
	}
	return intsSource{low, high}
}

type intsSource struct{ low, high int }

func (s intsSource) Len() int     { return s.high - s.low }
func (s intsSource) At(i int) any { return s.low + i }

/*
Gen returns a Source of n elements where element i is computed on demand by
at(i). at must be safe for concurrent calls on distinct indices. Gen panics
if n is negative.
*/
func Gen(n int, at func(i int) any) Source {
	if n < 0 {
		panic(fmt.Sprintf("invalid length: %v", n))
	}
	return genSource{n, at}
}

type genSource struct {
	n  int
	at func(int) any
}

func (s genSource) Len() int     { return s.n }
func (s genSource) At(i int) any { return s.at(i) }

/*
A Seq is a view over a contiguous range of a Source, together with the chunk
threshold at or below which the view is folded sequentially instead of being
split further.

Seqs are values: Split and Sub return new views and leave their receiver
unchanged. All views derived from the same Seq share the Source and the
threshold.
*/
type Seq struct {
	src       Source
	low, high int
	threshold int
}

/*
New returns a Seq viewing all of src.

The threshold parameter is interpreted by
parfold.ComputeEffectiveThreshold: 0 selects a default based on
runtime.GOMAXPROCS(0), positive values specify the part size directly, and
negative values are invalid and panic.
*/
func New(src Source, threshold int) Seq {
	size := src.Len()
	return Seq{
		src:       src,
		low:       0,
		high:      size,
		threshold: parfold.ComputeEffectiveThreshold(size, threshold),
	}
}

// Len returns the number of elements in the view.
func (s Seq) Len() int { return s.high - s.low }

// Threshold returns the effective chunk threshold of the view, which is
// always at least 1.
func (s Seq) Threshold() int { return s.threshold }

// Small reports whether the view is at or below its chunk threshold, in
// which case it is folded sequentially rather than split.
func (s Seq) Small() bool { return s.Len() <= s.threshold }

/*
At returns the element at index i of the view, with 0 <= i < Len(). Indices
are relative to the view, not to the underlying Source.
*/
func (s Seq) At(i int) any { return s.src.At(s.low + i) }

/*
Split halves the view into a left and a right part. The parts are disjoint,
cover the view exactly, and preserve element order: every element of the left
part precedes every element of the right part.

Split panics if the view has fewer than two elements.
*/
func (s Seq) Split() (left, right Seq) {
	if s.Len() < 2 {
		panic(fmt.Sprintf("cannot split a view of %v elements", s.Len()))
	}
	mid := s.low + s.Len()/2
	left = Seq{src: s.src, low: s.low, high: mid, threshold: s.threshold}
	right = Seq{src: s.src, low: mid, high: s.high, threshold: s.threshold}
	return
}

/*
Sub returns the sub-view covering indices low <= i < high of the view. Like
the results of Split, the sub-view shares the receiver's Source and
threshold.

Sub panics if the bounds do not satisfy 0 <= low <= high <= Len().
*/
func (s Seq) Sub(low, high int) Seq {
	if low < 0 || high < low || s.Len() < high {
		panic(fmt.Sprintf("invalid bounds %v:%v for a view of %v elements", low, high, s.Len()))
	}
	return Seq{src: s.src, low: s.low + low, high: s.low + high, threshold: s.threshold}
}

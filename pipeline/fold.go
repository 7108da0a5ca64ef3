package pipeline

// Vectorized folds process elements in blocks of vecBlock, which full
// blocks split into vecLanes contiguous lanes under VecNoDeps. vecBlock
// must be a multiple of vecLanes.
const (
	vecBlock = 256
	vecLanes = 8
)

/*
Fold folds n elements into acc through the stage chain and the terminal
step, with at(j) yielding element j for 0 <= j < n. The returned bool
reports early termination; the accumulator returned with it is the final
answer of the whole fold.

Fold is the engine every executor uses on the parts it folds sequentially.
It selects the loop form per the annotation pass: loops targeted by the
marker run block-wise, all others one element at a time. Under VecNoDeps,
acc doubles as the seed of the vectorized lanes, which is sound because
executors seed every part with the identity init.
*/
func (p *Pipeline[A]) Fold(acc A, n int, at func(j int) any) (A, bool, error) {
	r := p.newRunner(acc)
	if mode, ok := p.vectorizedFrom(0); ok {
		return r.foldVec(0, acc, n, at, mode)
	}
	return r.foldPlain(0, acc, n, at)
}

/*
Advance folds one element into acc through the stage chain and the terminal
step, and reports early termination. Advance always uses the plain loop
form, ignoring any vectorization marker.

Advance panics if the pipeline contains a Scan stage; stateful pipelines
must be run through the sequential executor, which keeps the scan state for
the duration of a whole fold.
*/
func (p *Pipeline[A]) Advance(acc A, item any) (A, bool, error) {
	if p.Stateful() {
		panic("pipeline: Advance on a pipeline with a scan stage")
	}
	r := runner[A]{p: p, id: acc, scalar: true}
	return r.feed(0, acc, item)
}

// A runner holds the per-fold state of one sequential pass: the identity
// the pass started from, and the current scan states indexed by stage
// position.
type runner[A any] struct {
	p      *Pipeline[A]
	id     A
	states []any
	scalar bool
}

func (p *Pipeline[A]) newRunner(id A) *runner[A] {
	r := &runner[A]{p: p, id: id}
	for i, s := range p.stages {
		if scan, ok := s.(scanStage); ok {
			if r.states == nil {
				r.states = make([]any, len(p.stages))
			}
			r.states[i] = scan.init
		}
	}
	return r
}

// feed pushes one element through the stage chain starting at stage index
// from, and into the terminal step.
func (r *runner[A]) feed(from int, acc A, item any) (A, bool, error) {
	for i := from; i < len(r.p.stages); i++ {
		switch s := r.p.stages[i].(type) {
		case mapStage:
			item = s.f(item)
		case filterStage:
			if !s.pred(item) {
				return acc, false, nil
			}
		case flattenStage:
			return r.expand(i, s, acc, item)
		case scanStage:
			next, out := s.f(r.states[i], item)
			r.states[i] = next
			item = out
		case markStage:
			// markers do not transform elements
		}
	}
	return r.p.step(acc, item)
}

// expand folds the expansion of one element through the rest of the chain,
// in vectorized form when the marker targets this sub-loop.
func (r *runner[A]) expand(i int, s flattenStage, acc A, item any) (A, bool, error) {
	items := s.expand(item)
	at := func(j int) any { return items[j] }
	if !r.scalar {
		if mode, ok := r.p.vectorizedFrom(i + 1); ok {
			return r.foldVec(i+1, acc, len(items), at, mode)
		}
	}
	return r.foldPlain(i+1, acc, len(items), at)
}

// foldPlain is the reference loop form: one element at a time, with the
// early-termination break after every element.
func (r *runner[A]) foldPlain(from int, acc A, n int, at func(int) any) (A, bool, error) {
	for j := 0; j < n; j++ {
		var done bool
		var err error
		acc, done, err = r.feed(from, acc, at(j))
		if done || err != nil {
			return acc, done, err
		}
	}
	return acc, false, nil
}

// foldVec is the block-wise loop form selected by the marker: the
// early-termination break moves from the elements to the block boundaries.
func (r *runner[A]) foldVec(from int, acc A, n int, at func(int) any, mode Vec) (A, bool, error) {
	for base := 0; base < n; base += vecBlock {
		limit := base + vecBlock
		if limit > n {
			limit = n
		}
		var done bool
		var err error
		if mode == VecNoDeps && limit-base == vecBlock {
			acc, done, err = r.foldLanes(from, acc, base, limit, at)
		} else {
			acc, done, err = r.foldBlock(from, acc, base, limit, at)
		}
		if done || err != nil {
			return acc, done, err
		}
	}
	return acc, false, nil
}

// foldBlock folds one block carrying the accumulator, without a per-element
// break: once an element terminates or fails the fold, the remaining
// elements of the block bypass the chain entirely, and the hoisted check at
// the block boundary observes the outcome.
func (r *runner[A]) foldBlock(from int, acc A, base, limit int, at func(int) any) (A, bool, error) {
	var done bool
	var err error
	for j := base; j < limit; j++ {
		if !done && err == nil {
			acc, done, err = r.feed(from, acc, at(j))
		}
	}
	return acc, done, err
}

// foldLanes folds one full block as vecLanes contiguous lanes, each seeded
// from the identity the fold started from, and merges the lanes in element
// order at the block boundary. If any lane terminates or fails, the block
// is replayed one element at a time from the block entry accumulator, so
// the leftmost outcome stays exact; steps folded under VecNoDeps must
// tolerate that replay when they can terminate inside a block.
func (r *runner[A]) foldLanes(from int, acc A, base, limit int, at func(int) any) (A, bool, error) {
	width := (limit - base) / vecLanes
	var lanes [vecLanes]A
	clean := true
	for l := 0; clean && l < vecLanes; l++ {
		lane := r.id
		lo := base + l*width
		for j := lo; j < lo+width; j++ {
			var done bool
			var err error
			lane, done, err = r.feed(from, lane, at(j))
			if done || err != nil {
				clean = false
				break
			}
		}
		lanes[l] = lane
	}
	if !clean {
		for j := base; j < limit; j++ {
			var done bool
			var err error
			acc, done, err = r.feed(from, acc, at(j))
			if done || err != nil {
				return acc, done, err
			}
		}
		return acc, false, nil
	}
	for l := range lanes {
		acc = r.p.combine(acc, lanes[l])
	}
	return acc, false, nil
}

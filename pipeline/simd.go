package pipeline

/*
A Vec selects how the annotation pass marks a pipeline's fold loops for
vectorized execution.
*/
type Vec int

const (
	// VecOff leaves the pipeline unannotated; every loop uses the plain,
	// one-element-at-a-time form.
	VecOff Vec = iota

	// VecOn marks the tightest loop for block-wise execution: elements are
	// folded in fixed-size blocks, with the early-termination break hoisted
	// from the elements to the block boundaries.
	VecOn

	// VecNoDeps is VecOn plus a promise by the caller that the step carries
	// no dependency on the accumulator across iterations of the marked loop.
	// Full blocks are then folded as contiguous lanes that each start from
	// the identity and are merged in element order at the block boundary,
	// the loop form that lets a compiler keep independent lanes in vector
	// registers. The promise is the caller's: for steps that do depend on
	// the running accumulator, VecNoDeps computes the right result only
	// because combine is associative with init as identity, which the
	// executors require anyway.
	VecNoDeps
)

/*
Annotate inserts the vectorization marker into the stage chain and returns
the annotated pipeline.

With mode VecOff, when a marker is already present, or when the chain
contains a Scan stage, Annotate returns p unchanged; the per-element state
of a scan admits neither the hoisted termination check nor a replayed or
lane-split loop. Otherwise the returned copy carries exactly one marker:
immediately before the terminal step when the chain contains no Flatten
stage, and immediately after the innermost (last) Flatten stage otherwise.
Re-homing the marker after the innermost Flatten makes it target the
tightest loop, the one over expanded elements, rather than the loop that
iterates over the groups being flattened.
*/
func (p *Pipeline[A]) Annotate(mode Vec) *Pipeline[A] {
	if mode == VecOff || p.Annotated() || p.Stateful() {
		return p
	}
	at := len(p.stages)
	for i, s := range p.stages {
		if _, ok := s.(flattenStage); ok {
			at = i + 1
		}
	}
	stages := make([]Stage, 0, len(p.stages)+1)
	stages = append(stages, p.stages[:at]...)
	stages = append(stages, markStage{mode})
	stages = append(stages, p.stages[at:]...)
	q := *p
	q.stages = stages
	return &q
}

// Annotated reports whether the stage chain carries a vectorization marker.
func (p *Pipeline[A]) Annotated() bool {
	for _, s := range p.stages {
		if _, ok := s.(markStage); ok {
			return true
		}
	}
	return false
}

// vectorizedFrom reports whether the loop whose body starts at stage index
// from runs in vectorized form, and with which mode: scanning the chain from
// that index, a marker must occur before any flatten. A flatten first means
// the marker, if any, targets a loop nested deeper than this one.
func (p *Pipeline[A]) vectorizedFrom(from int) (Vec, bool) {
	for _, s := range p.stages[from:] {
		switch s := s.(type) {
		case markStage:
			return s.mode, true
		case flattenStage:
			return VecOff, false
		}
	}
	return VecOff, false
}

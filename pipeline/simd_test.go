package pipeline

import "testing"

func markerIndex[A any](p *Pipeline[A]) int {
	for i, s := range p.stages {
		if _, ok := s.(markStage); ok {
			return i
		}
	}
	return -1
}

func identityStage() Stage {
	return Map(func(item any) any { return item })
}

func TestAnnotateWithoutFlatten(t *testing.T) {
	p := sumPipeline(identityStage(), identityStage())
	q := p.Annotate(VecOn)
	if markerIndex(p) != -1 {
		t.Error("Annotate modified its receiver")
	}
	if got := markerIndex(q); got != 2 {
		t.Errorf("marker at %v, want 2 (immediately before the step)", got)
	}
	if len(q.stages) != 3 {
		t.Errorf("stage count %v, want 3", len(q.stages))
	}
}

func TestAnnotateAfterFlatten(t *testing.T) {
	p := sumPipeline(identityStage(), FlattenOf[int](), identityStage())
	q := p.Annotate(VecOn)
	if got := markerIndex(q); got != 2 {
		t.Errorf("marker at %v, want 2 (immediately after the flatten)", got)
	}
}

func TestAnnotateAfterInnermostFlatten(t *testing.T) {
	p := sumPipeline(
		identityStage(),
		FlattenOf[[]int](),
		identityStage(),
		FlattenOf[int](),
		identityStage(),
	)
	q := p.Annotate(VecOn)
	if got := markerIndex(q); got != 4 {
		t.Errorf("marker at %v, want 4 (immediately after the second flatten)", got)
	}
}

func TestAnnotateTwiceIsNoop(t *testing.T) {
	p := sumPipeline(identityStage(), FlattenOf[int]()).Annotate(VecOn)
	q := p.Annotate(VecNoDeps)
	if q != p {
		t.Error("second Annotate did not return the pipeline unchanged")
	}
	count := 0
	for _, s := range q.stages {
		if _, ok := s.(markStage); ok {
			count++
		}
	}
	if count != 1 {
		t.Errorf("%v markers after double annotation, want 1", count)
	}
}

func TestAnnotateOffIsNoop(t *testing.T) {
	p := sumPipeline(identityStage())
	if q := p.Annotate(VecOff); q != p || markerIndex(q) != -1 {
		t.Error("VecOff inserted a marker")
	}
}

func TestAnnotateStatefulIsNoop(t *testing.T) {
	p := sumPipeline(ScanOf(0, func(state, item int) (int, int) { return state + item, state + item }))
	if q := p.Annotate(VecNoDeps); q != p || markerIndex(q) != -1 {
		t.Error("scan pipeline annotated")
	}
}

func TestVectorizedLoopSelection(t *testing.T) {
	// Without a flatten, the marker targets the leaf loop.
	leaf := sumPipeline(identityStage()).Annotate(VecNoDeps)
	if mode, ok := leaf.vectorizedFrom(0); !ok || mode != VecNoDeps {
		t.Errorf("leaf loop not vectorized: mode %v, ok %v", mode, ok)
	}

	// With a flatten, the leaf loop stays plain and the sub-loop over
	// expanded elements is the vectorized one.
	nested := sumPipeline(identityStage(), FlattenOf[int](), identityStage()).Annotate(VecOn)
	if _, ok := nested.vectorizedFrom(0); ok {
		t.Error("leaf loop vectorized although the marker sits behind a flatten")
	}
	sub := markerIndex(nested) // the sub-loop body starts at the marker
	if mode, ok := nested.vectorizedFrom(sub); !ok || mode != VecOn {
		t.Errorf("flatten sub-loop not vectorized: mode %v, ok %v", mode, ok)
	}

	// With two flattens, only the innermost sub-loop is vectorized.
	twice := sumPipeline(FlattenOf[[]int](), FlattenOf[int]()).Annotate(VecOn)
	if _, ok := twice.vectorizedFrom(0); ok {
		t.Error("leaf loop vectorized with two flattens present")
	}
	if _, ok := twice.vectorizedFrom(1); ok {
		t.Error("outer sub-loop vectorized although another flatten follows")
	}
	if _, ok := twice.vectorizedFrom(2); !ok {
		t.Error("innermost sub-loop not vectorized")
	}
}

func TestUnannotatedLoopsArePlain(t *testing.T) {
	p := sumPipeline(identityStage(), FlattenOf[int]())
	if _, ok := p.vectorizedFrom(0); ok {
		t.Error("unannotated leaf loop vectorized")
	}
	if _, ok := p.vectorizedFrom(2); ok {
		t.Error("unannotated sub-loop vectorized")
	}
}

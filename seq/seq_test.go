package seq

import (
	"math/rand"
	"reflect"
	"testing"
)

func elements(s Seq) []any {
	result := make([]any, s.Len())
	for i := range result {
		result[i] = s.At(i)
	}
	return result
}

func TestSources(t *testing.T) {
	ints := Ints(3, 7)
	if ints.Len() != 4 {
		t.Errorf("Ints length %v, want 4", ints.Len())
	}
	for i := 0; i < 4; i++ {
		if ints.At(i) != 3+i {
			t.Errorf("Ints element %v is %v, want %v", i, ints.At(i), 3+i)
		}
	}
	slice := Slice[string]{"a", "b", "c"}
	if slice.Len() != 3 || slice.At(1) != "b" {
		t.Errorf("Slice source: got len %v, element %v", slice.Len(), slice.At(1))
	}
	gen := Gen(5, func(i int) any { return i * i })
	if gen.Len() != 5 || gen.At(3) != 9 {
		t.Errorf("Gen source: got len %v, element %v", gen.Len(), gen.At(3))
	}
}

func TestSplitCoversViewExactly(t *testing.T) {
	r := rand.New(rand.NewSource(67))
	for run := 0; run < 100; run++ {
		size := 2 + r.Intn(1000)
		s := New(Ints(0, size), 1+r.Intn(10))
		var gather func(Seq) []any
		gather = func(s Seq) []any {
			if s.Len() < 2 {
				return elements(s)
			}
			left, right := s.Split()
			if left.Len()+right.Len() != s.Len() {
				t.Fatalf("split sizes %v+%v do not cover %v", left.Len(), right.Len(), s.Len())
			}
			return append(gather(left), gather(right)...)
		}
		if got := gather(s); !reflect.DeepEqual(got, elements(s)) {
			t.Fatalf("recursive split reordered or dropped elements for size %v", size)
		}
	}
}

func TestSplitSharesThreshold(t *testing.T) {
	s := New(Ints(0, 100), 7)
	left, right := s.Split()
	if left.Threshold() != 7 || right.Threshold() != 7 {
		t.Errorf("split thresholds %v, %v, want 7", left.Threshold(), right.Threshold())
	}
	if left.Len() != 50 || right.Len() != 50 {
		t.Errorf("split sizes %v, %v, want 50, 50", left.Len(), right.Len())
	}
}

func TestEffectiveThresholdAtLeastOne(t *testing.T) {
	for _, size := range []int{0, 1, 2, 100} {
		s := New(Ints(0, size), 0)
		if s.Threshold() < 1 {
			t.Errorf("default threshold %v for size %v", s.Threshold(), size)
		}
	}
}

func TestNegativeThresholdPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("no panic for a negative threshold")
		}
	}()
	New(Ints(0, 10), -1)
}

func TestSmall(t *testing.T) {
	s := New(Ints(0, 10), 4)
	if s.Small() {
		t.Error("view of 10 elements small at threshold 4")
	}
	left, _ := s.Split()
	l, _ := left.Split()
	if !l.Small() {
		t.Errorf("view of %v elements not small at threshold 4", l.Len())
	}
}

func TestSub(t *testing.T) {
	s := New(Ints(0, 100), 1)
	sub := s.Sub(10, 20)
	if sub.Len() != 10 {
		t.Fatalf("sub length %v, want 10", sub.Len())
	}
	for i := 0; i < 10; i++ {
		if sub.At(i) != 10+i {
			t.Errorf("sub element %v is %v, want %v", i, sub.At(i), 10+i)
		}
	}
	nested := sub.Sub(2, 5)
	if nested.Len() != 3 || nested.At(0) != 12 {
		t.Errorf("nested sub: len %v, first %v", nested.Len(), nested.At(0))
	}
	defer func() {
		if recover() == nil {
			t.Error("no panic for out of range bounds")
		}
	}()
	s.Sub(90, 110)
}

func TestEmptyView(t *testing.T) {
	s := New(Ints(0, 0), 0)
	if s.Len() != 0 || !s.Small() {
		t.Errorf("empty view: len %v, small %v", s.Len(), s.Small())
	}
}

package cancel

import "testing"

func TestZeroContext(t *testing.T) {
	var ctx Context
	if ctx.Aborted() {
		t.Error("zero context reports aborted")
	}
	ctx.Cancel()
	if ctx.Aborted() {
		t.Error("zero context aborted after cancelling nothing")
	}
}

func TestForegroundCancelsBackground(t *testing.T) {
	var root Context
	fg, bg := root.Fork()
	if fg.Aborted() || bg.Aborted() {
		t.Fatal("fresh fork already aborted")
	}
	fg.Cancel()
	if !bg.Aborted() {
		t.Error("background not aborted after foreground cancel")
	}
	if fg.Aborted() {
		t.Error("foreground aborted by its own cancel")
	}
}

func TestBackgroundCannotCancelForeground(t *testing.T) {
	var root Context
	fg, bg := root.Fork()
	bg.Cancel()
	if fg.Aborted() {
		t.Error("foreground aborted by background cancel")
	}
	if bg.Aborted() {
		t.Error("background aborted by its own cancel")
	}
}

func TestLeftSpineCancelReachesAllRightSiblings(t *testing.T) {
	var ctx Context
	var siblings []Context
	for i := 0; i < 8; i++ {
		fg, bg := ctx.Fork()
		siblings = append(siblings, bg)
		ctx = fg
	}
	for i, bg := range siblings {
		if bg.Aborted() {
			t.Fatalf("sibling %v aborted before cancel", i)
		}
	}
	ctx.Cancel()
	for i, bg := range siblings {
		if !bg.Aborted() {
			t.Errorf("sibling %v not aborted after left spine cancel", i)
		}
	}
}

func TestNestedBackgroundListensToAncestors(t *testing.T) {
	var root Context
	fg, bg := root.Fork()
	_, bgNested := bg.Fork()
	fg.Cancel()
	if !bgNested.Aborted() {
		t.Error("nested background does not listen to ancestor flag")
	}
}

// Sibling forks of the same context must be fully independent: extending the
// parent's flag lists may not share backing storage between them.
func TestSiblingForksDoNotShareFlags(t *testing.T) {
	// Deepen the left spine first so the flag lists have grown a few
	// times, then fork two siblings from the same context.
	var ctx Context
	for i := 0; i < 3; i++ {
		ctx, _ = ctx.Fork()
	}
	fgA, bgA := ctx.Fork()
	fgB, bgB := ctx.Fork()
	fgA.Cancel()
	if !bgA.Aborted() {
		t.Error("first sibling background not aborted by its foreground")
	}
	if bgB.Aborted() {
		t.Error("second sibling background aborted by the first sibling's cancel")
	}
	fgB.Cancel()
	if !bgB.Aborted() {
		t.Error("second sibling background not aborted by its foreground")
	}
}

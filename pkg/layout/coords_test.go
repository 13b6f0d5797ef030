package layout

import (
	"errors"
	"testing"

	"github.com/matzehuels/phyloscope/pkg/tree"
)

func TestCompute(t *testing.T) {
	tr := parse(t, "(((a:1,e:2):1,b:2)g:1,(:1,d:3)h:2):1;", true)
	l, err := Compute(tr, 5, 4)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(l.Placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(l.Placements))
	}
	if l.DefaultName() != "Rectangular" {
		t.Errorf("default = %q, want Rectangular", l.DefaultName())
	}

	want := map[string]string{"Rectangular": "r", "Unrooted": "2"}
	got := l.Suffixes()
	if len(got) != len(want) {
		t.Fatalf("Suffixes = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Suffixes[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestComputeRootCentered(t *testing.T) {
	tr := parse(t, "(((a:1,e:2):1,b:2)g:1,(:1,d:3)h:2):1;", true)
	l, err := Compute(tr, 800, 600)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for k, p := range l.Placements {
		if p.X[tr.Root()] != 0 || p.Y[tr.Root()] != 0 {
			t.Errorf("%s root at (%v, %v), want origin", k, p.X[tr.Root()], p.Y[tr.Root()])
		}
	}
}

func TestComputeChildExtents(t *testing.T) {
	// Canvas 5x4 gives scale 1 in both axes; root-centering shifts y by
	// -2.375 (the root's pre-centering y).
	tr := parse(t, "(((a:1,e:2):1,b:2)g:1,(:1,d:3)h:2):1;", true)
	l, err := Compute(tr, 5, 4)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if l.HighestChildY == nil || l.LowestChildY == nil {
		t.Fatal("child extents missing")
	}
	// Root's direct children are g (y = -1.125) and h (y = 1.125).
	if got := l.HighestChildY[tr.Root()]; got != 1.125 {
		t.Errorf("root HighestChildY = %v, want 1.125", got)
	}
	if got := l.LowestChildY[tr.Root()]; got != -1.125 {
		t.Errorf("root LowestChildY = %v, want -1.125", got)
	}
	// Tips carry no extent.
	for _, id := range tr.Tips() {
		if l.HighestChildY[id] != 0 || l.LowestChildY[id] != 0 {
			t.Errorf("tip %d has extents (%v, %v), want zero", id, l.HighestChildY[id], l.LowestChildY[id])
		}
	}
}

func TestComputeIdempotent(t *testing.T) {
	tr := parse(t, "((a:1,b:2):1,c:3):1;", true)

	l1, err := Compute(tr, 800, 600)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	l2, err := Compute(tr, 800, 600)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	for k, p1 := range l1.Placements {
		p2 := l2.Placements[k]
		for i := range p1.X {
			if p1.X[i] != p2.X[i] || p1.Y[i] != p2.Y[i] {
				t.Errorf("%s node %d moved between runs", k, i)
			}
		}
	}
}

func TestComputePartialOnRejection(t *testing.T) {
	// Zero-span trees are rejected by the rectangular layout but still get an
	// unrooted placement; the error and the surviving layouts both come back.
	tr := parse(t, "(a:0,b:0):0;", true)
	l, err := Compute(tr, 800, 600)
	if !errors.Is(err, ErrNoHorizontalSpan) {
		t.Fatalf("Compute error = %v, want ErrNoHorizontalSpan", err)
	}
	if l == nil {
		t.Fatal("Compute returned nil Layouts alongside a rejection")
	}
	if _, ok := l.Placements[KindRectangular]; ok {
		t.Error("rejected rectangular layout should have no placement")
	}
	if _, ok := l.Placements[KindUnrooted]; !ok {
		t.Error("unrooted placement missing")
	}
	if l.DefaultName() != "Rectangular" {
		t.Errorf("default = %q, want Rectangular even when rejected", l.DefaultName())
	}
	if l.HighestChildY != nil {
		t.Error("child extents should be nil without a rectangular placement")
	}
}

func TestComputeTooFewNodes(t *testing.T) {
	tr := tree.New("lonely")
	tr.UpdateGeometry(true)
	if _, err := Compute(tr, 800, 600); !errors.Is(err, tree.ErrTooFewNodes) {
		t.Errorf("Compute = %v, want ErrTooFewNodes", err)
	}
}

func TestKindStrings(t *testing.T) {
	if KindRectangular.String() != "Rectangular" || KindRectangular.Suffix() != "r" {
		t.Errorf("rectangular kind: %q/%q", KindRectangular.String(), KindRectangular.Suffix())
	}
	if KindUnrooted.String() != "Unrooted" || KindUnrooted.Suffix() != "2" {
		t.Errorf("unrooted kind: %q/%q", KindUnrooted.String(), KindUnrooted.Suffix())
	}
	if Kinds[0] != KindRectangular {
		t.Error("the first kind must be the default layout")
	}
}

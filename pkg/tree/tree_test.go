package tree

import (
	"errors"
	"slices"
	"testing"
)

// buildCaterpillar constructs ((a,b)i,c)root by hand and returns the tree
// plus the IDs in creation order.
func buildCaterpillar(t *testing.T) (*Tree, map[string]int) {
	t.Helper()
	tr := New("root")
	ids := map[string]int{"root": tr.Root()}
	var err error
	if ids["i"], err = tr.AddChild(ids["root"], "i"); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if ids["a"], err = tr.AddChild(ids["i"], "a"); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if ids["b"], err = tr.AddChild(ids["i"], "b"); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if ids["c"], err = tr.AddChild(ids["root"], "c"); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	return tr, ids
}

func TestAddChild(t *testing.T) {
	tr, ids := buildCaterpillar(t)

	if tr.Len() != 5 {
		t.Fatalf("Len = %d, want 5", tr.Len())
	}
	if got := tr.Node(ids["a"]).Parent; got != ids["i"] {
		t.Errorf("parent of a = %d, want %d", got, ids["i"])
	}
	if got := tr.Node(ids["root"]).Parent; got != NoParent {
		t.Errorf("parent of root = %d, want NoParent", got)
	}

	// Child order matches insertion order.
	want := []int{ids["a"], ids["b"]}
	if got := tr.Node(ids["i"]).Children; !slices.Equal(got, want) {
		t.Errorf("children of i = %v, want %v", got, want)
	}
}

func TestAddChildUnknownParent(t *testing.T) {
	tr := New("root")
	if _, err := tr.AddChild(42, "x"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddChild(42) error = %v, want ErrUnknownNode", err)
	}
	if _, err := tr.AddChild(-1, "x"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("AddChild(-1) error = %v, want ErrUnknownNode", err)
	}
}

func TestPostorder(t *testing.T) {
	tr, ids := buildCaterpillar(t)

	want := []int{ids["a"], ids["b"], ids["i"], ids["c"], ids["root"]}
	if got := tr.Postorder(); !slices.Equal(got, want) {
		t.Errorf("Postorder = %v, want %v", got, want)
	}
}

func TestPreorder(t *testing.T) {
	tr, ids := buildCaterpillar(t)

	want := []int{ids["root"], ids["i"], ids["a"], ids["b"], ids["c"]}
	if got := tr.Preorder(true); !slices.Equal(got, want) {
		t.Errorf("Preorder(true) = %v, want %v", got, want)
	}
	if got := tr.Preorder(false); !slices.Equal(got, want[1:]) {
		t.Errorf("Preorder(false) = %v, want %v", got, want[1:])
	}
}

func TestTips(t *testing.T) {
	tr, ids := buildCaterpillar(t)

	// Tips come back in postorder visitation order.
	want := []int{ids["a"], ids["b"], ids["c"]}
	if got := tr.Tips(); !slices.Equal(got, want) {
		t.Errorf("Tips = %v, want %v", got, want)
	}

	for name, id := range ids {
		isTip := name == "a" || name == "b" || name == "c"
		if tr.IsTip(id) != isTip {
			t.Errorf("IsTip(%s) = %v, want %v", name, tr.IsTip(id), isTip)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := New("lonely").Validate(); !errors.Is(err, ErrTooFewNodes) {
		t.Errorf("Validate on single node = %v, want ErrTooFewNodes", err)
	}

	tr, _ := buildCaterpillar(t)
	if err := tr.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}

func TestSetLength(t *testing.T) {
	tr, ids := buildCaterpillar(t)

	if tr.Node(ids["a"]).HasLength {
		t.Error("HasLength should be false before SetLength")
	}
	tr.SetLength(ids["a"], 1.5)
	n := tr.Node(ids["a"])
	if !n.HasLength || n.Length != 1.5 {
		t.Errorf("after SetLength: Length=%v HasLength=%v", n.Length, n.HasLength)
	}
}

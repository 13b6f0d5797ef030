package tree

import (
	"errors"
	"strings"
	"testing"
)

func TestParseNewick(t *testing.T) {
	tr, err := ParseNewick("(((a:1,e:2):1,b:2)g:1,(:1,d:3)h:2):1;")
	if err != nil {
		t.Fatalf("ParseNewick: %v", err)
	}

	if tr.Len() != 9 {
		t.Fatalf("Len = %d, want 9", tr.Len())
	}
	if got := len(tr.Tips()); got != 5 {
		t.Errorf("tip count = %d, want 5", got)
	}

	// Tip names in postorder visitation order, anonymous tip included.
	var names []string
	for _, id := range tr.Tips() {
		names = append(names, tr.Node(id).Name)
	}
	if got := strings.Join(names, ","); got != "a,e,b,,d" {
		t.Errorf("tip names = %q, want %q", got, "a,e,b,,d")
	}

	root := tr.Node(tr.Root())
	if !root.HasLength || root.Length != 1 {
		t.Errorf("root length = %v (has=%v), want 1", root.Length, root.HasLength)
	}
}

func TestParseNewickWhitespace(t *testing.T) {
	tr, err := ParseNewick("( a : 1 ,\n\tb : 2 ) ;")
	if err != nil {
		t.Fatalf("ParseNewick: %v", err)
	}
	tips := tr.Tips()
	if tr.Node(tips[0]).Name != "a" || tr.Node(tips[1]).Name != "b" {
		t.Errorf("tip names = %q, %q", tr.Node(tips[0]).Name, tr.Node(tips[1]).Name)
	}
	if tr.Node(tips[1]).Length != 2 {
		t.Errorf("b length = %v, want 2", tr.Node(tips[1]).Length)
	}
}

func TestParseNewickErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"missing semicolon", "(a:1,b:2)", ErrInvalidNewick},
		{"unbalanced", "((a:1,b:2);", ErrInvalidNewick},
		{"bad length", "(a:oops,b:2);", ErrInvalidNewick},
		{"trailing data", "(a:1,b:2);junk", ErrInvalidNewick},
		{"empty", "", ErrInvalidNewick},
		{"single node", "a;", ErrTooFewNodes},
		{"root only with length", "root:1;", ErrTooFewNodes},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseNewick(tc.input); !errors.Is(err, tc.want) {
				t.Errorf("ParseNewick(%q) = %v, want %v", tc.input, err, tc.want)
			}
		})
	}
}

func TestNewickRoundTrip(t *testing.T) {
	inputs := []string{
		"(((a:1,e:2):1,b:2)g:1,(:1,d:3)h:2):1;",
		"(a:1,b:2);",
		"((a,b),c);",
		"(a:0.5,b:1.25)r;",
	}
	for _, in := range inputs {
		tr, err := ParseNewick(in)
		if err != nil {
			t.Fatalf("ParseNewick(%q): %v", in, err)
		}
		if got := tr.Newick(); got != in {
			t.Errorf("round trip of %q = %q", in, got)
		}
	}
}

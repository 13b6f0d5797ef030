package tree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNewick is returned (wrapped with position detail) by
// [ParseNewick] when the input is not a well-formed Newick string.
var ErrInvalidNewick = errors.New("invalid newick")

// ParseNewick parses a Newick-formatted tree such as
//
//	(((a:1,e:2):1,b:2)g:1,(:1,d:3)h:2):1;
//
// Node names may be empty (anonymous internal nodes and unnamed tips are
// both allowed) and branch lengths are optional per node. Quoted labels are
// not supported. The trailing semicolon is required.
//
// The returned tree is validated: inputs describing fewer than two nodes
// are rejected with [ErrTooFewNodes].
func ParseNewick(s string) (*Tree, error) {
	p := &newickParser{src: s}
	t := New("")
	if err := p.subtree(t, t.Root()); err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eat(';') {
		return nil, p.errf("expected ';'")
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errf("trailing data after ';'")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Newick serializes the tree back to Newick format. Branch lengths are
// written only for nodes that carry one. The output always ends with ';'.
func (t *Tree) Newick() string {
	var b strings.Builder
	t.writeNewick(&b, t.Root())
	b.WriteByte(';')
	return b.String()
}

func (t *Tree) writeNewick(b *strings.Builder, id int) {
	n := t.Node(id)
	if len(n.Children) > 0 {
		b.WriteByte('(')
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte(',')
			}
			t.writeNewick(b, c)
		}
		b.WriteByte(')')
	}
	b.WriteString(n.Name)
	if n.HasLength {
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(n.Length, 'g', -1, 64))
	}
}

// newickParser is a single-pass recursive-descent parser over the raw input.
type newickParser struct {
	src string
	pos int
}

func (p *newickParser) errf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s at offset %d", ErrInvalidNewick, msg, p.pos)
}

func (p *newickParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *newickParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *newickParser) eat(c byte) bool {
	if p.peek() == c {
		p.pos++
		return true
	}
	return false
}

// subtree parses one subtree into the existing node id: an optional
// parenthesized child list followed by an optional label and branch length.
func (p *newickParser) subtree(t *Tree, id int) error {
	p.skipSpace()
	if p.eat('(') {
		for {
			child, err := t.AddChild(id, "")
			if err != nil {
				return err
			}
			if err := p.subtree(t, child); err != nil {
				return err
			}
			p.skipSpace()
			if p.eat(',') {
				continue
			}
			if p.eat(')') {
				break
			}
			return p.errf("expected ',' or ')'")
		}
	}
	return p.label(t, id)
}

// label parses "name", ":length", both, or neither.
func (p *newickParser) label(t *Tree, id int) error {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !isNewickDelim(p.src[p.pos]) {
		p.pos++
	}
	t.Node(id).Name = strings.TrimSpace(p.src[start:p.pos])

	if !p.eat(':') {
		return nil
	}
	p.skipSpace()
	numStart := p.pos
	for p.pos < len(p.src) && !isNewickDelim(p.src[p.pos]) && p.src[p.pos] != ' ' {
		p.pos++
	}
	length, err := strconv.ParseFloat(p.src[numStart:p.pos], 64)
	if err != nil {
		return p.errf("bad branch length %q", p.src[numStart:p.pos])
	}
	t.SetLength(id, length)
	return nil
}

func isNewickDelim(c byte) bool {
	switch c {
	case '(', ')', ',', ':', ';':
		return true
	}
	return false
}

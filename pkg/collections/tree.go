package collections

import (
	"fmt"
	"io"
	"sort"
)

// Tree is a node of a printable name tree. Children are printed in name
// order.
type Tree struct {
	Name  string
	Label string

	children map[string]*Tree
}

// NewTree returns a root node.
func NewTree(name string) *Tree {
	return &Tree{Name: name}
}

// Add returns the node at path below t, creating missing nodes.
func (t *Tree) Add(path ...string) *Tree {
	node := t
	for _, name := range path {
		if node.children == nil {
			node.children = make(map[string]*Tree)
		}
		child, ok := node.children[name]
		if !ok {
			child = &Tree{Name: name}
			node.children[name] = child
		}
		node = child
	}
	return node
}

// Children returns the child nodes in name order.
func (t *Tree) Children() []*Tree {
	names := make([]string, 0, len(t.children))
	for name := range t.children {
		names = append(names, name)
	}
	sort.Strings(names)
	children := make([]*Tree, len(names))
	for i, name := range names {
		children[i] = t.children[name]
	}
	return children
}

// Fprint writes the tree to w.
func (t *Tree) Fprint(w io.Writer) {
	t.fprint(w, true, "", 0, 1)
}

func (t *Tree) fprint(w io.Writer, root bool, padding string, index, n int) {
	text := t.Name
	if t.Label != "" {
		text += " " + t.Label
	}
	fmt.Fprintf(w, "%s%s%s\n", padding, boxPadding(root, boxFor(index, n)), text)

	if !root {
		padding += boxPadding(false, boxBelow(index, n))
	}
	children := t.Children()
	for i, child := range children {
		child.fprint(w, false, padding, i, len(children))
	}
}

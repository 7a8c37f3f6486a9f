package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrElementNotFound is returned when an identity does not resolve to an
	// element of the layout.
	ErrElementNotFound = errors.New("element not found")

	// ErrDeleteRoot is returned by [Layout.Delete] for the layout's root.
	ErrDeleteRoot = errors.New("cannot delete layout root")
)

// Layout is a named element tree rooted at a remote.
type Layout struct {
	ID   string
	Name string
	Root *Element
}

// NewLayout creates a layout with a fresh remote root.
func NewLayout(id, name string) *Layout {
	return &Layout{ID: id, Name: name, Root: NewElement(KindRemote, name)}
}

// Elements returns every element of the layout in depth-first order.
func (l *Layout) Elements() []*Element {
	if l.Root == nil {
		return nil
	}
	return l.Root.Subtree()
}

// Element resolves an element by UUID, by [Element.Identifier] or by name.
// UUID and identifier matches take precedence over names.
func (l *Layout) Element(ref string) (*Element, error) {
	var byName *Element
	for _, e := range l.Elements() {
		if e.UUID == ref || e.Identifier() == ref {
			return e, nil
		}
		if byName == nil && e.Name == ref {
			byName = e
		}
	}
	if byName != nil {
		return byName, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrElementNotFound, ref)
}

// Constraints returns every constraint of the layout, grouped by owner in
// depth-first owner order.
func (l *Layout) Constraints() []*Constraint {
	var out []*Constraint
	for _, e := range l.Elements() {
		out = append(out, e.owned...)
	}
	return out
}

// Add attaches child under parent.
func (l *Layout) Add(parent, child *Element) error {
	if !l.Root.Contains(parent) {
		return fmt.Errorf("%w: %s", ErrElementNotFound, parent)
	}
	return parent.AddChild(child)
}

// Delete detaches e from its parent and removes every constraint that any
// element of e's subtree owns or refers to.
func (l *Layout) Delete(e *Element) error {
	if e == l.Root {
		return ErrDeleteRoot
	}
	if !l.Root.Contains(e) {
		return fmt.Errorf("%w: %s", ErrElementNotFound, e)
	}
	doomed := make(map[*Element]bool)
	for _, n := range e.Subtree() {
		doomed[n] = true
	}
	for _, c := range l.Constraints() {
		if doomed[c.owner] || doomed[c.FirstItem] || doomed[c.SecondItem] {
			c.owner.RemoveConstraint(c)
		}
	}
	e.Detach()
	return nil
}

// Clone returns a deep copy of the layout. Elements keep their UUIDs and
// constraints are re-created on the copied elements with the same owners.
func (l *Layout) Clone() *Layout {
	dup := &Layout{ID: l.ID, Name: l.Name}
	if l.Root == nil {
		return dup
	}
	mapping := make(map[*Element]*Element)
	var copyTree func(src *Element) *Element
	copyTree = func(src *Element) *Element {
		dst := &Element{
			UUID: src.UUID, Tag: src.Tag, Key: src.Key, Name: src.Name, Kind: src.Kind,
			Role: src.Role, Shape: src.Shape, Style: src.Style,
		}
		mapping[src] = dst
		for _, c := range src.children {
			child := copyTree(c)
			child.parent = dst
			dst.children = append(dst.children, child)
		}
		return dst
	}
	dup.Root = copyTree(l.Root)
	for _, c := range l.Constraints() {
		d := c.Clone()
		d.FirstItem = mapping[c.FirstItem]
		if c.SecondItem != nil {
			d.SecondItem = mapping[c.SecondItem]
		}
		// Items were valid in the source tree, so this cannot fail.
		_ = mapping[c.owner].AddConstraint(d)
	}
	return dup
}

// Dump returns a human-readable outline of the tree and its constraints.
func (l *Layout) Dump() string {
	var b strings.Builder
	var walk func(e *Element, depth int)
	walk = func(e *Element, depth int) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(&b, "%s%s\n", indent, e)
		for _, c := range e.owned {
			fmt.Fprintf(&b, "%s  | %s\n", indent, c)
		}
		for _, child := range e.children {
			walk(child, depth+1)
		}
	}
	if l.Root != nil {
		walk(l.Root, 0)
	}
	return b.String()
}

package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/remotelayout/pkg/geom"
)

var (
	// ErrUnknownKind is returned when a kind name or value is not recognized.
	ErrUnknownKind = errors.New("unknown element kind")

	// ErrInvalidChild is returned by [Element.AddChild] when the child's kind
	// is not permitted under the parent's kind. A remote can never be a child.
	ErrInvalidChild = errors.New("invalid child kind")

	// ErrAlreadyAttached is returned by [Element.AddChild] when the child
	// already has a parent. Detach it with [Layout.Delete] or [Element.Detach]
	// first.
	ErrAlreadyAttached = errors.New("element already has a parent")

	// ErrAlreadyOwned is returned by [Element.AddConstraint] when the
	// constraint is already owned by an element.
	ErrAlreadyOwned = errors.New("constraint already has an owner")

	// ErrForeignItem is returned by [Element.AddConstraint] when one of the
	// constraint's items lies outside the owner's subtree.
	ErrForeignItem = errors.New("constraint item outside owner subtree")
)

// Element is a node of the layout tree.
//
// The zero value is not usable; create elements with [NewElement].
type Element struct {
	UUID string
	Tag  int
	Key  string
	Name string
	Kind Kind

	// Descriptive attributes carried through import and export.
	Role  string
	Shape string
	Style string

	parent      *Element // not owning
	children    []*Element
	owned       []*Constraint
	firstOrder  []*Constraint
	secondOrder []*Constraint

	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(*Element)
}

// NewElement creates a detached element with a fresh UUID.
func NewElement(kind Kind, name string) *Element {
	return &Element{UUID: uuid.NewString(), Kind: kind, Name: name}
}

// Identifier returns the name used for the element in serialized constraint
// text: an underscore followed by the UUID without dashes.
func (e *Element) Identifier() string {
	return "_" + strings.ReplaceAll(e.UUID, "-", "")
}

// Label returns the display name, falling back to the identifier.
func (e *Element) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Identifier()
}

func (e *Element) String() string {
	return fmt.Sprintf("%s(%s)", e.Kind, e.Label())
}

// Parent returns the parent element. A remote always reports nil.
func (e *Element) Parent() *Element {
	if e.Kind == KindRemote {
		return nil
	}
	return e.parent
}

// Children returns the ordered child list. The slice must not be modified.
func (e *Element) Children() []*Element { return e.children }

// AddChild appends child to e.
func (e *Element) AddChild(child *Element) error {
	return e.InsertChild(len(e.children), child)
}

// InsertChild inserts child at index i (clamped to the valid range).
func (e *Element) InsertChild(i int, child *Element) error {
	if !e.Kind.CanContain(child.Kind) {
		return fmt.Errorf("%w: %s cannot contain %s", ErrInvalidChild, e.Kind, child.Kind)
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyAttached, child)
	}
	i = max(0, min(i, len(e.children)))
	e.children = slices.Insert(e.children, i, child)
	child.parent = e
	return nil
}

// Detach removes e from its parent's child list. Constraints are left
// untouched; use [Layout.Delete] for a cascading removal.
func (e *Element) Detach() {
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(c *Element) bool { return c == e })
	e.parent = nil
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Walk visits e and its descendants depth-first in child order. Returning
// false from fn skips the subtree below the visited element.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		c.Walk(fn)
	}
}

// Subtree returns e and all its descendants in depth-first order.
func (e *Element) Subtree() []*Element {
	var out []*Element
	e.Walk(func(n *Element) bool {
		out = append(out, n)
		return true
	})
	return out
}

// Constraints returns the constraints owned by e.
func (e *Element) Constraints() []*Constraint { return e.owned }

// FirstOrder returns every constraint whose FirstItem is e, regardless of owner.
func (e *Element) FirstOrder() []*Constraint { return e.firstOrder }

// SecondOrder returns every constraint whose SecondItem is e, regardless of owner.
func (e *Element) SecondOrder() []*Constraint { return e.secondOrder }

// FirstOrderFor returns the first-order constraints of e on attr (aliases
// normalized).
func (e *Element) FirstOrderFor(attr geom.Attribute) []*Constraint {
	var out []*Constraint
	for _, c := range e.firstOrder {
		if c.FirstAttribute.Canonical() == attr.Canonical() {
			out = append(out, c)
		}
	}
	return out
}

// Intrinsic returns the first-order constraints of e whose second item is
// nil or e itself.
func (e *Element) Intrinsic() []*Constraint {
	var out []*Constraint
	for _, c := range e.firstOrder {
		if c.IsIntrinsicTo(e) {
			out = append(out, c)
		}
	}
	return out
}

// AddConstraint makes e the owner of c and indexes it on its items. Both
// items must be e or descendants of e.
func (e *Element) AddConstraint(c *Constraint) error {
	if c.owner != nil {
		return ErrAlreadyOwned
	}
	if err := c.Validate(); err != nil {
		return err
	}
	if !e.Contains(c.FirstItem) {
		return fmt.Errorf("%w: %s not under %s", ErrForeignItem, c.FirstItem, e)
	}
	if c.SecondItem != nil && !e.Contains(c.SecondItem) {
		return fmt.Errorf("%w: %s not under %s", ErrForeignItem, c.SecondItem, e)
	}
	c.owner = e
	e.owned = append(e.owned, c)
	c.FirstItem.firstOrder = append(c.FirstItem.firstOrder, c)
	if c.SecondItem != nil {
		c.SecondItem.secondOrder = append(c.SecondItem.secondOrder, c)
	}
	c.FirstItem.notify()
	return nil
}

// RemoveConstraint removes c if e owns it and reports whether it did.
func (e *Element) RemoveConstraint(c *Constraint) bool {
	if c == nil || c.owner != e {
		return false
	}
	e.owned = slices.DeleteFunc(e.owned, func(x *Constraint) bool { return x == c })
	c.FirstItem.firstOrder = slices.DeleteFunc(c.FirstItem.firstOrder, func(x *Constraint) bool { return x == c })
	if c.SecondItem != nil {
		c.SecondItem.secondOrder = slices.DeleteFunc(c.SecondItem.secondOrder, func(x *Constraint) bool { return x == c })
	}
	c.owner = nil
	c.FirstItem.notify()
	return true
}

// OnConstraintsChanged registers fn to be called synchronously whenever the
// first-order constraint set of e is structurally modified. The returned
// function unregisters it.
func (e *Element) OnConstraintsChanged(fn func(*Element)) (cancel func()) {
	e.nextID++
	id := e.nextID
	e.listeners = append(e.listeners, listener{id: id, fn: fn})
	return func() {
		e.listeners = slices.DeleteFunc(e.listeners, func(l listener) bool { return l.id == id })
	}
}

func (e *Element) notify() {
	for _, l := range e.listeners {
		l.fn(e)
	}
}

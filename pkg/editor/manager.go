package editor

import (
	"fmt"
	"slices"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/model"
)

// Relationship classifies the first-order constraint of an attribute.
type Relationship int

const (
	// None means no first-order constraint exists for the attribute, or its
	// second item is neither parent, child nor sibling.
	None Relationship = iota
	// Parent means the constraint refers to one of the element's children.
	Parent
	// Child means the constraint pins the element to its parent.
	Child
	// Sibling means the constraint refers to a peer under the same parent.
	Sibling
	// Intrinsic means the constraint is a constant or refers to the element itself.
	Intrinsic
)

func (r Relationship) String() string {
	switch r {
	case Parent:
		return "parent"
	case Child:
		return "child"
	case Sibling:
		return "sibling"
	case Intrinsic:
		return "intrinsic"
	}
	return "none"
}

// Dependency is what an attribute's value ultimately depends on.
type Dependency int

const (
	NoDependency Dependency = iota
	ParentDependency
	SiblingDependency
	IntrinsicDependency
)

func (d Dependency) String() string {
	switch d {
	case ParentDependency:
		return "parent"
	case SiblingDependency:
		return "sibling"
	case IntrinsicDependency:
		return "intrinsic"
	}
	return "none"
}

// Manager classifies the constraints of one element and edits the
// constraints of its subelements.
type Manager struct {
	editor  *Editor
	element *model.Element
	cancel  func()

	dirty          bool
	presence       geom.AttributeSet
	relationships  [geom.NumAttributes]Relationship
	proportionLock bool

	bounds map[*model.Element]SizeBounds
}

// Element returns the managed element.
func (m *Manager) Element() *model.Element { return m.element }

// refresh recomputes the classification from the element's first-order
// constraints if a structural change has been reported since the last read.
func (m *Manager) refresh() {
	if !m.dirty {
		return
	}
	e := m.element
	m.presence = geom.AttributeSet{}
	m.relationships = [geom.NumAttributes]Relationship{}
	m.proportionLock = false

	for _, c := range e.FirstOrder() {
		i := c.FirstAttribute.Index()
		if i < 0 {
			continue
		}
		m.presence[i] = true
		m.relationships[i] = classify(e, c)
		if c.IsProportionLock() {
			m.proportionLock = true
		}
	}
	m.dirty = false
}

func classify(e *model.Element, c *model.Constraint) Relationship {
	second := c.SecondItem
	switch {
	case c.IsIntrinsicTo(e):
		return Intrinsic
	case e.Parent() == second:
		return Child
	case second.Parent() == e:
		return Parent
	case e.Parent() != nil && second.Parent() == e.Parent():
		return Sibling
	}
	return None
}

// Has reports whether a first-order constraint exists for attr.
func (m *Manager) Has(attr geom.Attribute) bool {
	m.refresh()
	return m.presence.Has(attr)
}

// Presence returns the presence vector of the element's first-order constraints.
func (m *Manager) Presence() geom.AttributeSet {
	m.refresh()
	return m.presence
}

// Relationship returns the classification of the first-order constraint on attr.
func (m *Manager) Relationship(attr geom.Attribute) Relationship {
	m.refresh()
	i := attr.Index()
	if i < 0 || !m.presence[i] {
		return None
	}
	return m.relationships[i]
}

// Dependency returns what attr depends on. A child pinned to its parent
// depends on the parent.
func (m *Manager) Dependency(attr geom.Attribute) Dependency {
	switch m.Relationship(attr) {
	case Parent, Child:
		return ParentDependency
	case Sibling:
		return SiblingDependency
	case Intrinsic:
		return IntrinsicDependency
	}
	return NoDependency
}

// ProportionLock reports whether the element's width and height are coupled.
func (m *Manager) ProportionLock() bool {
	m.refresh()
	return m.proportionLock
}

// IntrinsicConstraints returns the first-order constraints of the element
// whose second item is nil or the element itself.
func (m *Manager) IntrinsicConstraints() []*model.Constraint {
	return m.element.Intrinsic()
}

// SubelementConstraints returns the constraints owned by the element that
// are not intrinsic to it.
func (m *Manager) SubelementConstraints() []*model.Constraint {
	return slices.DeleteFunc(slices.Clone(m.element.Constraints()), func(c *model.Constraint) bool {
		return c.IsIntrinsicTo(m.element)
	})
}

// DependentConstraints returns the second-order constraints of the element
// that are not intrinsic to it.
func (m *Manager) DependentConstraints() []*model.Constraint {
	return slices.DeleteFunc(slices.Clone(m.element.SecondOrder()), func(c *model.Constraint) bool {
		return c.IsIntrinsicTo(m.element)
	})
}

// DependentChildConstraints returns the dependent constraints whose first
// item is a child of the element.
func (m *Manager) DependentChildConstraints() []*model.Constraint {
	return slices.DeleteFunc(m.DependentConstraints(), func(c *model.Constraint) bool {
		return c.FirstItem.Parent() != m.element
	})
}

// DependentSiblingConstraints returns the dependent constraints whose first
// item is a sibling of the element.
func (m *Manager) DependentSiblingConstraints() []*model.Constraint {
	p := m.element.Parent()
	return slices.DeleteFunc(m.DependentConstraints(), func(c *model.Constraint) bool {
		return p == nil || c.FirstItem.Parent() != p
	})
}

// SiblingConstraints returns the first-order constraints of the element that
// refer to a sibling.
func (m *Manager) SiblingConstraints() []*model.Constraint {
	p := m.element.Parent()
	var out []*model.Constraint
	for _, c := range m.element.FirstOrder() {
		if p != nil && c.SecondItem != nil && c.SecondItem != m.element && c.SecondItem.Parent() == p {
			out = append(out, c)
		}
	}
	return out
}

// ConstraintsFor returns the first-order constraints on attr.
func (m *Manager) ConstraintsFor(attr geom.Attribute) []*model.Constraint {
	return m.element.FirstOrderFor(attr)
}

// ConstraintsAffecting returns the first-order constraints on the given axis.
func (m *Manager) ConstraintsAffecting(axis geom.Axis) []*model.Constraint {
	var out []*model.Constraint
	for _, c := range m.element.FirstOrder() {
		if c.FirstAttribute.Valid() && c.FirstAttribute.Axis() == axis {
			out = append(out, c)
		}
	}
	return out
}

func (m *Manager) requireChild(e *model.Element) {
	if e == nil || e.Parent() != m.element {
		panic(fmt.Sprintf("editor: %v is not a subelement of %s", e, m.element))
	}
}

func (m *Manager) requireSelection(elements []*model.Element) {
	if len(elements) == 0 {
		panic("editor: empty selection")
	}
	for _, e := range elements {
		m.requireChild(e)
	}
}

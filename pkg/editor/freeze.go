package editor

import (
	"slices"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/metrics"
	"github.com/matzehuels/remotelayout/pkg/model"
)

var (
	positionAttributes = geom.NewAttributeSet(geom.Left, geom.Right, geom.Top, geom.Bottom, geom.CenterX, geom.CenterY)
	allAttributes      = geom.NewAttributeSet(geom.CanonicalAttributes[:]...)
)

// FreezeConstraints rewrites every constraint in constraints whose first
// attribute is in attrs so that it depends only on the first item's parent,
// or on nothing for sizes, while producing the same box under snap.
//
// Position constraints become item.attr = parent.attr + offset, owned by the
// parent. Size constraints become constants owned by the item. The rewritten
// constraint keeps its relation, priority and identifier and has multiplier 1.
// Constraints already removed earlier in the same call are skipped.
func (m *Manager) FreezeConstraints(constraints []*model.Constraint, attrs geom.AttributeSet, snap metrics.Snapshot) {
	for _, c := range constraints {
		if c.Owner() == nil || !attrs.Has(c.FirstAttribute) {
			continue
		}
		item := c.FirstItem
		parent := item.Parent()
		frame := frameOf(snap, item)
		a := c.FirstAttribute.Canonical()

		remove(c)
		d := c.Clone()
		d.Multiplier = 1
		if a.IsSize() {
			d.SecondItem = nil
			d.SecondAttribute = geom.NoAttribute
			d.Constant = frame.Value(a)
			mustAdd(item, d)
			continue
		}
		bounds := parentBoundsOf(snap, item)
		d.SecondItem = parent
		d.SecondAttribute = a
		d.Constant = frame.Value(a) - bounds.Value(a)
		mustAdd(parent, d)
	}
}

// freezeSiblings freezes, for each element, both the sibling constraints that
// depend on it and its own constraints on siblings.
func (m *Manager) freezeSiblings(elements []*model.Element, attrs geom.AttributeSet, snap metrics.Snapshot) {
	var cs []*model.Constraint
	for _, e := range elements {
		em := m.editor.Manager(e)
		cs = append(cs, em.DependentSiblingConstraints()...)
		cs = append(cs, em.SiblingConstraints()...)
	}
	m.FreezeConstraints(cs, attrs, snap)
}

// FreezeSize fixes the size of e along the axis of attr to size, dropping the
// constraints that would otherwise determine it. For an edge the opposite
// edge is removed, for a center both edges; any existing size constraint on
// the axis is replaced by a constant owned by e.
func (m *Manager) FreezeSize(size geom.Size, e *model.Element, attr geom.Attribute) {
	a := attr.Canonical()
	axis := a.Axis()
	lead, trail, center, sizeAttr := axis.Attributes()
	em := m.editor.Manager(e)

	doomed := []geom.Attribute{sizeAttr}
	switch a {
	case lead, trail:
		if em.Has(a.Opposite()) {
			doomed = append(doomed, a.Opposite())
		}
	case center:
		doomed = append(doomed, lead, trail)
	}

	for _, c := range slices.Clone(e.FirstOrder()) {
		if slices.Contains(doomed, c.FirstAttribute.Canonical()) {
			remove(c)
		}
	}
	mustAdd(e, model.NewConstant(e, sizeAttr, size.Along(axis)))
}

// RemoveProportionLock replaces a constraint coupling e's width and height
// with a constant for the attribute it declared, taken from currentSize.
func (m *Manager) RemoveProportionLock(e *model.Element, currentSize geom.Size) {
	if !m.editor.Manager(e).ProportionLock() {
		return
	}
	for _, c := range slices.Clone(e.Intrinsic()) {
		if !c.IsProportionLock() {
			continue
		}
		a := c.FirstAttribute.Canonical()
		remove(c)
		mustAdd(e, model.NewConstant(e, a, currentSize.Along(a.Axis())))
	}
}

// RemoveMultipliers rewrites every constraint of a child on the managed
// element whose multiplier is not 1 into a fixed offset from the same
// attribute of the managed element.
func (m *Manager) RemoveMultipliers(snap metrics.Snapshot) {
	defer m.editor.track("remove-multipliers", len(m.element.Children()))()

	bounds := frameOf(snap, m.element).Bounds()
	for _, c := range m.DependentChildConstraints() {
		if c.Multiplier == 1 {
			continue
		}
		frame := frameOf(snap, c.FirstItem)
		a := c.FirstAttribute.Canonical()

		remove(c)
		d := c.Clone()
		d.Multiplier = 1
		d.SecondAttribute = a
		d.Constant = frame.Value(a) - bounds.Value(a)
		mustAdd(m.element, d)
	}
}

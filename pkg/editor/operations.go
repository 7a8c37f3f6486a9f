package editor

import (
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/metrics"
	"github.com/matzehuels/remotelayout/pkg/model"
)

// Translate moves every element of the selection by delta. Sibling
// dependencies on the affected positions are frozen first, then delta is
// added to the constant of every first-order position constraint.
//
// Containment within the content area is the caller's responsibility.
func (m *Manager) Translate(elements []*model.Element, delta geom.Point, snap metrics.Snapshot) {
	m.requireSelection(elements)
	defer m.editor.track("translate", len(elements))()

	m.freezeSiblings(elements, positionAttributes, snap)
	for _, e := range elements {
		for _, c := range e.FirstOrder() {
			switch c.FirstAttribute.Canonical() {
			case geom.Left, geom.Right, geom.CenterX:
				c.Constant += delta.X
			case geom.Top, geom.Bottom, geom.CenterY:
				c.Constant += delta.Y
			}
		}
	}
}

// Align makes attr of every selected element other than anchor equal to the
// same attribute of anchor, keeping each element's size along that axis.
func (m *Manager) Align(elements []*model.Element, anchor *model.Element, attr geom.Attribute, snap metrics.Snapshot) {
	m.requireSelection(elements)
	m.requireChild(anchor)
	attr = attr.Canonical()
	defer m.editor.track("align", len(elements))()

	lead, trail, center, _ := attr.Axis().Attributes()
	targets := without(elements, anchor)
	m.freezeSiblings(targets, geom.NewAttributeSet(lead, trail, center), snap)

	for _, e := range targets {
		m.FreezeSize(frameOf(snap, e).Size(), e, attr)
		for _, c := range slices.Clone(e.FirstOrderFor(attr)) {
			remove(c)
		}
		c := model.NewConstraint(e, attr, geom.Equal, anchor, attr, 1, 0)
		m.ResolveConflicts(c, snap)
	}
	m.ClearBoundsCache(elements...)
}

// Resize makes the size along axis of every selected element other than
// anchor equal to anchor's. Proportion locks on the resized elements are
// removed. Sibling constraints on the axis edges, center and size are frozen
// first, so unselected siblings keep their frames.
func (m *Manager) Resize(elements []*model.Element, anchor *model.Element, axis geom.Axis, snap metrics.Snapshot) {
	m.requireSelection(elements)
	m.requireChild(anchor)
	defer m.editor.track("resize", len(elements))()

	lead, trail, center, size := axis.Attributes()
	targets := without(elements, anchor)
	m.freezeSiblings(targets, geom.NewAttributeSet(lead, trail, center, size), snap)

	for _, e := range targets {
		m.RemoveProportionLock(e, frameOf(snap, e).Size())
		for _, c := range slices.Clone(e.FirstOrderFor(size)) {
			remove(c)
		}
		c := model.NewConstraint(e, size, geom.Equal, anchor, size, 1, 0)
		m.ResolveConflicts(c, snap)
	}
	m.ClearBoundsCache(elements...)
}

// ResizeElement changes the size of e from from to to around its center by
// adjusting the constants of its first-order constraints. The proportion lock
// is removed only when the aspect ratio changes.
func (m *Manager) ResizeElement(e *model.Element, from, to geom.Size, snap metrics.Snapshot) {
	m.requireChild(e)
	m.freezeSiblings([]*model.Element{e}, allAttributes, snap)

	if m.editor.Manager(e).ProportionLock() && from.Aspect() != to.Aspect() {
		m.RemoveProportionLock(e, from)
	}

	dw, dh := to.Width-from.Width, to.Height-from.Height
	for _, c := range e.FirstOrder() {
		switch c.FirstAttribute.Canonical() {
		case geom.Left:
			c.Constant -= dw / 2
		case geom.Right:
			c.Constant += dw / 2
		case geom.Top:
			c.Constant -= dh / 2
		case geom.Bottom:
			c.Constant += dh / 2
		case geom.Width:
			resizeConstant(c, dw, to.Width)
		case geom.Height:
			resizeConstant(c, dh, to.Height)
		}
	}
}

func resizeConstant(c *model.Constraint, delta, target float64) {
	switch {
	case delta == 0:
	case c.Static():
		c.Constant = target
	case c.SecondItem != c.FirstItem:
		c.Constant += delta
	}
}

// Scale resizes every selected element by the same factor around its center
// and returns the factor actually applied. The factor is clamped so that no
// element leaves its [SizeBounds]: growth stops at the most restrictive
// maximum and shrinking at the most restrictive minimum.
func (m *Manager) Scale(elements []*model.Element, factor float64, snap metrics.Snapshot) float64 {
	m.requireSelection(elements)
	if factor <= 0 {
		panic(fmt.Sprintf("editor: invalid scale factor %g", factor))
	}
	defer m.editor.track("scale", len(elements))()

	applied := m.clampScale(elements, factor, snap)
	if applied == 1 {
		return applied
	}

	m.freezeSiblings(elements, allAttributes, snap)
	for _, e := range elements {
		from := frameOf(snap, e).Size()
		m.ResizeElement(e, from, from.Scale(applied), snap)
	}
	return applied
}

func (m *Manager) clampScale(elements []*model.Element, factor float64, snap metrics.Snapshot) float64 {
	var rejections []float64
	for _, e := range elements {
		size := frameOf(snap, e).Size()
		b := m.SizeBounds(e, snap)
		if b.Admits(size.Scale(factor)) {
			continue
		}
		if factor > 1 {
			rejections = append(rejections, ratio(b.Max, size, math.Min))
		} else {
			rejections = append(rejections, ratio(b.Min, size, math.Max))
		}
	}

	applied := factor
	if len(rejections) > 0 {
		if factor > 1 {
			applied = slices.Min(rejections)
		} else {
			applied = slices.Max(rejections)
		}
	}
	if factor > 1 {
		return clamp(applied, 1, factor)
	}
	return clamp(applied, factor, 1)
}

// ratio combines bound/size over the axes with a non-zero size.
func ratio(bound, size geom.Size, pick func(float64, float64) float64) float64 {
	switch {
	case size.Width == 0 && size.Height == 0:
		return 1
	case size.Width == 0:
		return bound.Height / size.Height
	case size.Height == 0:
		return bound.Width / size.Width
	}
	return pick(bound.Width/size.Width, bound.Height/size.Height)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

func without(elements []*model.Element, anchor *model.Element) []*model.Element {
	return slices.DeleteFunc(slices.Clone(elements), func(e *model.Element) bool { return e == anchor })
}

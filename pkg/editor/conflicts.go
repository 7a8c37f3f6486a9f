package editor

import (
	"fmt"
	"slices"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/metrics"
	"github.com/matzehuels/remotelayout/pkg/model"
)

// role names an attribute by its position on the axis of the attribute
// being added.
type role int

const (
	roleAdded role = iota
	roleOpposite
	roleLead
	roleTrail
	roleCenter
	roleSize
)

type roleKind int

const (
	addingEdge roleKind = iota
	addingCenter
	addingSize
)

type conflictRule struct {
	adding  roleKind
	present []role
	absent  []role
	remove  []role
	add     []role
}

// conflictTable is evaluated top to bottom; the first matching row wins.
var conflictTable = []conflictRule{
	{adding: addingEdge, present: []role{roleSize}, remove: []role{roleCenter, roleOpposite}},
	{adding: addingEdge, present: []role{roleOpposite}, remove: []role{roleCenter}},
	{adding: addingEdge, remove: []role{roleCenter, roleOpposite}, add: []role{roleSize}},

	{adding: addingCenter, present: []role{roleSize}, remove: []role{roleLead, roleTrail}},
	{adding: addingCenter, remove: []role{roleLead, roleTrail}, add: []role{roleSize}},

	{adding: addingSize, present: []role{roleCenter}, remove: []role{roleLead, roleTrail}},
	{adding: addingSize, present: []role{roleLead, roleTrail}, remove: []role{roleLead}},
	{adding: addingSize, present: []role{roleLead}},
	{adding: addingSize, present: []role{roleTrail}},
	{adding: addingSize, absent: []role{roleCenter, roleLead, roleTrail}, add: []role{roleCenter}},
}

func resolveRole(r role, attr geom.Attribute) geom.Attribute {
	lead, trail, center, size := attr.Axis().Attributes()
	switch r {
	case roleAdded:
		return attr
	case roleOpposite:
		return attr.Opposite()
	case roleLead:
		return lead
	case roleTrail:
		return trail
	case roleCenter:
		return center
	}
	return size
}

func resolveRoles(roles []role, attr geom.Attribute) []geom.Attribute {
	out := make([]geom.Attribute, 0, len(roles))
	for _, r := range roles {
		out = append(out, resolveRole(r, attr))
	}
	return out
}

// Conflicts returns the first-order attributes that must be removed and the
// attributes that must be synthesized when a constraint on attr is added to
// an element whose current presence vector is p. The attribute being added
// is not included in the removals.
//
// It panics for non-canonical attributes after alias normalization.
func Conflicts(attr geom.Attribute, p geom.AttributeSet) (removals, additions []geom.Attribute) {
	a := attr.Canonical()
	if !a.IsCanonical() {
		panic(fmt.Sprintf("editor: no conflict rule for attribute %v", attr))
	}
	kind := addingEdge
	switch {
	case a.IsCenter():
		kind = addingCenter
	case a.IsSize():
		kind = addingSize
	}

	for _, rule := range conflictTable {
		if rule.adding != kind || !matches(rule, a, p) {
			continue
		}
		return resolveRoles(rule.remove, a), resolveRoles(rule.add, a)
	}
	panic(fmt.Sprintf("editor: no conflict rule for %v with %v", a, p))
}

func matches(rule conflictRule, a geom.Attribute, p geom.AttributeSet) bool {
	for _, r := range rule.present {
		if !p.Has(resolveRole(r, a)) {
			return false
		}
	}
	for _, r := range rule.absent {
		if p.Has(resolveRole(r, a)) {
			return false
		}
	}
	return true
}

// ResolveConflicts removes the first-order constraints of c.FirstItem made
// redundant by c, synthesizes any constraint needed to keep the axis fully
// determined, and adds c through the managed element.
//
// Synthesized sizes are constants equal to the current size, owned by the
// item. Synthesized centers are relative to the item's parent with the
// current offset between the two centers, owned by the parent.
func (m *Manager) ResolveConflicts(c *model.Constraint, snap metrics.Snapshot) {
	item := c.FirstItem
	attr := c.FirstAttribute.Canonical()

	removals, additions := Conflicts(attr, m.editor.Manager(item).Presence())
	removals = append(removals, attr)
	for _, k := range slices.Clone(item.FirstOrder()) {
		if slices.Contains(removals, k.FirstAttribute.Canonical()) {
			remove(k)
		}
	}

	frame := frameOf(snap, item)
	for _, a := range additions {
		switch {
		case a.IsSize():
			mustAdd(item, model.NewConstant(item, a, frame.Value(a)))
		case a.IsCenter():
			parent := item.Parent()
			bounds := parentBoundsOf(snap, item)
			mustAdd(parent, model.NewConstraint(item, a, geom.Equal, parent, a, 1, frame.Value(a)-bounds.Value(a)))
		}
	}

	mustAdd(m.element, c)
}

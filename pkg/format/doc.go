// Package format reads and writes the textual form of layout constraints.
//
// # Syntax
//
// One constraint per line (or separated by semicolons):
//
//	['identifier'] item.attribute relation [item.attribute [* multiplier]] [± constant] [@ priority]
//
// The relation is one of =, ≥, ≤ (or ==, >=, <=). The multiplier operator may
// be written as * or x. Attribute names are those of [geom.Attribute] plus the
// compounds center and size, which expand to their two axis attributes when
// both sides of the constraint use the same compound:
//
//	'pin' button.center = group.center
//	button.size = other.size * 0.5
//
// Lines starting with // are comments.
//
// # Binding
//
// [Parse] produces [Pseudo] constraints whose items are plain names. [Bind]
// resolves those names through a [Directory] into a [*model.Constraint] that
// can be added to its owner. [FromConstraint] and [Format] go the other way.
package format

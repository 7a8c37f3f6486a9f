// Package geom provides the geometry vocabulary shared by the layout model and
// the constraint editor.
//
// # Boxes
//
// A [Box] is an axis-aligned rectangle (x, y, width, height). Boxes handed to
// the editor are always expressed in the coordinate space of the element's
// parent, so the parent's own bounds are (0, 0, w, h). [Box.Bounds] returns
// that zero-origin rectangle.
//
// # Attributes
//
// Constraints relate one of eight canonical [Attribute] values:
//
//	Left, Right, Top, Bottom, Width, Height, CenterX, CenterY
//
// Leading, Trailing and Baseline are accepted as aliases and normalize to
// Left, Right and Bottom through [Attribute.Canonical]. Every canonical
// attribute belongs to exactly one [Axis]; Horizontal covers Left, Right,
// CenterX and Width, Vertical covers Top, Bottom, CenterY and Height.
//
// # Attribute Sets
//
// [AttributeSet] is an enum-indexed presence vector with one slot per canonical
// attribute. It replaces the bit-packed option sets used by older layout
// editors and is cheap to copy.
package geom

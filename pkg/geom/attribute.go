package geom

import (
	"fmt"
	"strings"
)

// Attribute names one dimension of an element's box.
type Attribute int

const (
	// NoAttribute is the second attribute of a constraint without a second item.
	NoAttribute Attribute = iota
	Left
	Right
	Top
	Bottom
	Width
	Height
	CenterX
	CenterY

	// Aliases. Canonical maps them onto Left, Right and Bottom.
	Leading
	Trailing
	Baseline
)

// NumAttributes is the number of canonical attributes.
const NumAttributes = 8

// CanonicalAttributes lists the canonical attributes in index order.
var CanonicalAttributes = [NumAttributes]Attribute{Left, Right, Top, Bottom, Width, Height, CenterX, CenterY}

var attributeNames = map[Attribute]string{
	NoAttribute: "none",
	Left:        "left",
	Right:       "right",
	Top:         "top",
	Bottom:      "bottom",
	Width:       "width",
	Height:      "height",
	CenterX:     "centerX",
	CenterY:     "centerY",
	Leading:     "leading",
	Trailing:    "trailing",
	Baseline:    "baseline",
}

func (a Attribute) String() string {
	if s, ok := attributeNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Attribute(%d)", int(a))
}

// ParseAttribute returns the attribute with the given name. Matching is
// case-insensitive, so "centerx" and "centerX" are equivalent.
func ParseAttribute(s string) (Attribute, error) {
	for a, name := range attributeNames {
		if strings.EqualFold(name, s) {
			return a, nil
		}
	}
	return NoAttribute, fmt.Errorf("unknown attribute %q", s)
}

// Canonical normalizes the directional aliases.
func (a Attribute) Canonical() Attribute {
	switch a {
	case Leading:
		return Left
	case Trailing:
		return Right
	case Baseline:
		return Bottom
	}
	return a
}

// IsCanonical reports whether a is one of the eight canonical attributes.
func (a Attribute) IsCanonical() bool {
	return a >= Left && a <= CenterY
}

// Valid reports whether a is a canonical attribute or an alias.
func (a Attribute) Valid() bool {
	return a >= Left && a <= Baseline
}

// Index returns the slot of the canonical form of a in an [AttributeSet], or
// -1 for NoAttribute and unknown values.
func (a Attribute) Index() int {
	c := a.Canonical()
	if !c.IsCanonical() {
		return -1
	}
	return int(c - Left)
}

// Axis returns the axis a belongs to. It panics for NoAttribute.
func (a Attribute) Axis() Axis {
	switch a.Canonical() {
	case Left, Right, CenterX, Width:
		return Horizontal
	case Top, Bottom, CenterY, Height:
		return Vertical
	}
	panic(fmt.Sprintf("geom: attribute %v has no axis", a))
}

// IsSize reports whether a is Width or Height.
func (a Attribute) IsSize() bool { return a == Width || a == Height }

// IsCenter reports whether a is CenterX or CenterY.
func (a Attribute) IsCenter() bool { return a == CenterX || a == CenterY }

// IsEdge reports whether a is one of the four edges (aliases included).
func (a Attribute) IsEdge() bool {
	switch a.Canonical() {
	case Left, Right, Top, Bottom:
		return true
	}
	return false
}

// IsPosition reports whether a locates the box rather than sizing it.
func (a Attribute) IsPosition() bool { return a.IsEdge() || a.Canonical().IsCenter() }

// Opposite returns the other edge on the same axis. Non-edges return themselves.
func (a Attribute) Opposite() Attribute {
	switch a.Canonical() {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	case Bottom:
		return Top
	}
	return a
}

// Axis is one of the two layout directions.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (x Axis) String() string {
	if x == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseAxis accepts "horizontal"/"width"/"x" and "vertical"/"height"/"y".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(s) {
	case "horizontal", "width", "x":
		return Horizontal, nil
	case "vertical", "height", "y":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown axis %q", s)
}

// Attributes returns the axis attributes as (leading edge, trailing edge,
// center, size).
func (x Axis) Attributes() (lead, trail, center, size Attribute) {
	if x == Horizontal {
		return Left, Right, CenterX, Width
	}
	return Top, Bottom, CenterY, Height
}

// Size returns Width or Height.
func (x Axis) Size() Attribute {
	_, _, _, s := x.Attributes()
	return s
}

// Edges returns the two edge attributes of the axis.
func (x Axis) Edges() (Attribute, Attribute) {
	lead, trail, _, _ := x.Attributes()
	return lead, trail
}

// Other returns the perpendicular axis.
func (x Axis) Other() Axis {
	if x == Horizontal {
		return Vertical
	}
	return Horizontal
}

// AttributeSet is a presence vector with one slot per canonical attribute.
type AttributeSet [NumAttributes]bool

// NewAttributeSet returns a set containing attrs (aliases normalized).
func NewAttributeSet(attrs ...Attribute) AttributeSet {
	var s AttributeSet
	for _, a := range attrs {
		s.Add(a)
	}
	return s
}

// Has reports whether a (after normalization) is in the set.
func (s AttributeSet) Has(a Attribute) bool {
	i := a.Index()
	return i >= 0 && s[i]
}

// Add inserts a. Non-attributes are ignored.
func (s *AttributeSet) Add(a Attribute) {
	if i := a.Index(); i >= 0 {
		s[i] = true
	}
}

// Remove deletes a.
func (s *AttributeSet) Remove(a Attribute) {
	if i := a.Index(); i >= 0 {
		s[i] = false
	}
}

// Len returns the number of attributes present.
func (s AttributeSet) Len() int {
	n := 0
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

// Attributes returns the present attributes in canonical order.
func (s AttributeSet) Attributes() []Attribute {
	var out []Attribute
	for i, ok := range s {
		if ok {
			out = append(out, CanonicalAttributes[i])
		}
	}
	return out
}

// Union returns the attributes present in either set.
func (s AttributeSet) Union(o AttributeSet) AttributeSet {
	for i := range s {
		s[i] = s[i] || o[i]
	}
	return s
}

func (s AttributeSet) String() string {
	names := make([]string, 0, NumAttributes)
	for _, a := range s.Attributes() {
		names = append(names, a.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/remotelayout/pkg/geom"
)

var (
	// ErrMissingFirstItem is returned by [Constraint.Validate] when FirstItem is nil.
	ErrMissingFirstItem = errors.New("constraint has no first item")

	// ErrInvalidAttribute is returned by [Constraint.Validate] when an attribute
	// is unknown or when SecondAttribute disagrees with SecondItem.
	ErrInvalidAttribute = errors.New("invalid constraint attribute")

	// ErrZeroMultiplier is returned by [Constraint.Validate] when a constraint
	// with a second item has a zero multiplier.
	ErrZeroMultiplier = errors.New("constraint multiplier must not be zero")
)

// Constraint relates one attribute of FirstItem to a constant or to an
// attribute of SecondItem:
//
//	FirstItem.FirstAttribute Relation SecondItem.SecondAttribute * Multiplier + Constant
//
// SecondAttribute is [geom.NoAttribute] exactly when SecondItem is nil.
type Constraint struct {
	Identifier string

	FirstItem       *Element
	FirstAttribute  geom.Attribute
	Relation        geom.Relation
	SecondItem      *Element
	SecondAttribute geom.Attribute
	Multiplier      float64
	Constant        float64
	Priority        geom.Priority

	owner *Element
}

// NewConstraint returns an unowned required constraint.
func NewConstraint(first *Element, attr geom.Attribute, rel geom.Relation, second *Element, secondAttr geom.Attribute, multiplier, constant float64) *Constraint {
	return &Constraint{
		FirstItem:       first,
		FirstAttribute:  attr,
		Relation:        rel,
		SecondItem:      second,
		SecondAttribute: secondAttr,
		Multiplier:      multiplier,
		Constant:        constant,
		Priority:        geom.PriorityRequired,
	}
}

// NewConstant returns an unowned constraint fixing attr of first to value.
func NewConstant(first *Element, attr geom.Attribute, value float64) *Constraint {
	return NewConstraint(first, attr, geom.Equal, nil, geom.NoAttribute, 1, value)
}

// Owner returns the element that owns c, or nil if c has not been added.
func (c *Constraint) Owner() *Element { return c.owner }

// Static reports whether c has no second item.
func (c *Constraint) Static() bool { return c.SecondItem == nil }

// IsIntrinsicTo reports whether c is first-order for e and its second item is
// nil or e.
func (c *Constraint) IsIntrinsicTo(e *Element) bool {
	return c.FirstItem == e && (c.SecondItem == nil || c.SecondItem == e)
}

// IsProportionLock reports whether c couples the width and height of a
// single element.
func (c *Constraint) IsProportionLock() bool {
	return c.SecondItem != nil && c.FirstItem == c.SecondItem && c.FirstAttribute.IsSize()
}

// Validate checks the structural invariants of c.
func (c *Constraint) Validate() error {
	if c.FirstItem == nil {
		return ErrMissingFirstItem
	}
	if !c.FirstAttribute.Valid() {
		return fmt.Errorf("%w: first attribute %v", ErrInvalidAttribute, c.FirstAttribute)
	}
	if c.SecondItem == nil {
		if c.SecondAttribute != geom.NoAttribute {
			return fmt.Errorf("%w: %v without second item", ErrInvalidAttribute, c.SecondAttribute)
		}
		return nil
	}
	if !c.SecondAttribute.Valid() {
		return fmt.Errorf("%w: second attribute %v", ErrInvalidAttribute, c.SecondAttribute)
	}
	if c.Multiplier == 0 {
		return ErrZeroMultiplier
	}
	return nil
}

// Clone returns an unowned copy of c referring to the same items.
func (c *Constraint) Clone() *Constraint {
	d := *c
	d.owner = nil
	return &d
}

// String renders c in the serialized constraint form using element labels.
func (c *Constraint) String() string {
	var b strings.Builder
	if c.Identifier != "" {
		fmt.Fprintf(&b, "'%s' ", c.Identifier)
	}
	fmt.Fprintf(&b, "%s.%s %s ", label(c.FirstItem), c.FirstAttribute, c.Relation)
	if c.SecondItem == nil {
		fmt.Fprintf(&b, "%g", c.Constant)
	} else {
		fmt.Fprintf(&b, "%s.%s", label(c.SecondItem), c.SecondAttribute)
		if c.Multiplier != 1 {
			fmt.Fprintf(&b, " * %g", c.Multiplier)
		}
		switch {
		case c.Constant > 0:
			fmt.Fprintf(&b, " + %g", c.Constant)
		case c.Constant < 0:
			fmt.Fprintf(&b, " - %g", -c.Constant)
		}
	}
	if c.Priority != geom.PriorityRequired {
		fmt.Fprintf(&b, " @%g", float64(c.Priority))
	}
	return b.String()
}

func label(e *Element) string {
	if e == nil {
		return "nil"
	}
	return e.Label()
}

package format

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/model"
)

var (
	// ErrUnknownItem is returned by [Bind] when an item name is not in the
	// directory.
	ErrUnknownItem = errors.New("unknown item")

	// ErrUnknownAttribute is returned when an attribute name is not a
	// [geom.Attribute] and cannot be expanded.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrMissingSecondItem is returned for a constraint that neither names a
	// second item nor a constant.
	ErrMissingSecondItem = errors.New("constraint needs a second item or a constant")
)

// Compound attribute names.
const (
	Center = "center"
	Size   = "size"
)

// Pseudo is a constraint whose items are referred to by name.
type Pseudo struct {
	Identifier      string
	FirstItem       string
	FirstAttribute  string
	Relation        geom.Relation
	SecondItem      string
	SecondAttribute string
	Multiplier      float64
	Constant        float64
	Priority        geom.Priority
}

// Parse reads constraints from r, expanding compound attributes.
func Parse(r io.Reader) ([]Pseudo, error) {
	doc, err := parseDocument("", r)
	if err != nil {
		return nil, fmt.Errorf("parse constraints: %w", err)
	}
	var out []Pseudo
	for _, st := range doc.Statements {
		p, err := st.pseudo()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.Pos, err)
		}
		out = append(out, p.Expand()...)
	}
	return out, nil
}

// ParseString reads constraints from s.
func ParseString(s string) ([]Pseudo, error) {
	return Parse(strings.NewReader(s))
}

// ParseLines parses each line separately and concatenates the results.
func ParseLines(lines []string) ([]Pseudo, error) {
	var out []Pseudo
	for _, line := range lines {
		ps, err := ParseString(line)
		if err != nil {
			return nil, err
		}
		out = append(out, ps...)
	}
	return out, nil
}

func (st *statement) pseudo() (Pseudo, error) {
	p := Pseudo{
		FirstItem:      st.First.Item,
		FirstAttribute: st.First.Attribute,
		Multiplier:     1,
		Priority:       geom.PriorityRequired,
	}
	if st.Identifier != nil {
		p.Identifier = string(*st.Identifier)
	}
	rel, err := geom.ParseRelation(st.Relation)
	if err != nil {
		return Pseudo{}, err
	}
	p.Relation = rel

	if st.Second == nil && st.Constant == nil {
		return Pseudo{}, ErrMissingSecondItem
	}
	if st.Second != nil {
		p.SecondItem = st.Second.Operand.Item
		p.SecondAttribute = st.Second.Operand.Attribute
		if st.Second.Multiplier != nil {
			p.Multiplier = float64(*st.Second.Multiplier)
		}
	}
	if st.Constant != nil {
		p.Constant = float64(*st.Constant)
	}
	if st.Priority != nil {
		p.Priority = geom.Priority(*st.Priority)
	}
	return p, nil
}

// Static reports whether p has no second item.
func (p Pseudo) Static() bool { return p.SecondItem == "" }

// Expandable reports whether both sides use the same compound attribute.
func (p Pseudo) Expandable() bool {
	return p.FirstAttribute == p.SecondAttribute && (p.FirstAttribute == Center || p.FirstAttribute == Size)
}

// Expand splits a compound constraint into its two axis constraints. Other
// constraints are returned unchanged.
func (p Pseudo) Expand() []Pseudo {
	if !p.Expandable() {
		return []Pseudo{p}
	}
	x, y := geom.CenterX, geom.CenterY
	if p.FirstAttribute == Size {
		x, y = geom.Width, geom.Height
	}
	px, py := p, p
	px.FirstAttribute, px.SecondAttribute = x.String(), x.String()
	py.FirstAttribute, py.SecondAttribute = y.String(), y.String()
	return []Pseudo{px, py}
}

// String renders p in canonical form, omitting defaults.
func (p Pseudo) String() string {
	var b strings.Builder
	if p.Identifier != "" {
		fmt.Fprintf(&b, "'%s' ", p.Identifier)
	}
	fmt.Fprintf(&b, "%s.%s %s", p.FirstItem, p.FirstAttribute, p.Relation)
	if p.Static() {
		fmt.Fprintf(&b, " %s", number(p.Constant))
	} else {
		fmt.Fprintf(&b, " %s.%s", p.SecondItem, p.SecondAttribute)
		if p.Multiplier != 1 {
			fmt.Fprintf(&b, " * %s", number(p.Multiplier))
		}
		switch {
		case p.Constant > 0:
			fmt.Fprintf(&b, " + %s", number(p.Constant))
		case p.Constant < 0:
			fmt.Fprintf(&b, " - %s", number(-p.Constant))
		}
	}
	if p.Priority != geom.PriorityRequired {
		fmt.Fprintf(&b, " @%s", number(float64(p.Priority)))
	}
	return b.String()
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Directory resolves item names to elements.
type Directory map[string]*model.Element

// Bind resolves the items of p through dir and returns an unowned constraint.
func Bind(p Pseudo, dir Directory) (*model.Constraint, error) {
	first, ok := dir[p.FirstItem]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, p.FirstItem)
	}
	firstAttr, err := attribute(p.FirstAttribute)
	if err != nil {
		return nil, err
	}

	var second *model.Element
	secondAttr := geom.NoAttribute
	if !p.Static() {
		if second, ok = dir[p.SecondItem]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownItem, p.SecondItem)
		}
		if secondAttr, err = attribute(p.SecondAttribute); err != nil {
			return nil, err
		}
	}

	c := model.NewConstraint(first, firstAttr, p.Relation, second, secondAttr, p.Multiplier, p.Constant)
	c.Priority = p.Priority
	c.Identifier = p.Identifier
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("bind %s: %w", p, err)
	}
	return c, nil
}

// BindAll binds every constraint in ps.
func BindAll(ps []Pseudo, dir Directory) ([]*model.Constraint, error) {
	out := make([]*model.Constraint, 0, len(ps))
	for _, p := range ps {
		c, err := Bind(p, dir)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func attribute(name string) (geom.Attribute, error) {
	a, err := geom.ParseAttribute(name)
	if err != nil || a == geom.NoAttribute {
		return geom.NoAttribute, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
	}
	return a, nil
}

// FromConstraint converts c to its textual form, naming elements with name.
func FromConstraint(c *model.Constraint, name func(*model.Element) string) Pseudo {
	p := Pseudo{
		Identifier:     c.Identifier,
		FirstItem:      name(c.FirstItem),
		FirstAttribute: c.FirstAttribute.String(),
		Relation:       c.Relation,
		Multiplier:     c.Multiplier,
		Constant:       c.Constant,
		Priority:       c.Priority,
	}
	if c.SecondItem != nil {
		p.SecondItem = name(c.SecondItem)
		p.SecondAttribute = c.SecondAttribute.String()
	}
	return p
}

// Format renders c in canonical form, naming elements with name.
func Format(c *model.Constraint, name func(*model.Element) string) string {
	return FromConstraint(c, name).String()
}

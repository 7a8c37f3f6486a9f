package session

import (
	"regexp"
	"slices"
	"strings"

	"github.com/matzehuels/remotelayout/pkg/editor"
	apperr "github.com/matzehuels/remotelayout/pkg/errors"
	"github.com/matzehuels/remotelayout/pkg/format"
	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/model"
)

var itemName = regexp.MustCompile(`^[\p{L}$_][\p{L}\p{N}_]*$`)

// names maps the elements of owner's subtree to the item names used in
// constraint text: the display name when it is a valid, unique item name,
// otherwise the identifier.
func names(owner *model.Element) (format.Directory, func(*model.Element) string) {
	subtree := owner.Subtree()
	counts := map[string]int{}
	for _, e := range subtree {
		counts[e.Name]++
	}
	dir := format.Directory{}
	byElement := map[*model.Element]string{}
	for _, e := range subtree {
		dir[e.Identifier()] = e
		byElement[e] = e.Identifier()
		if itemName.MatchString(e.Name) && counts[e.Name] == 1 {
			dir[e.Name] = e
			byElement[e] = e.Name
		}
	}
	return dir, func(e *model.Element) string { return byElement[e] }
}

// Constraints returns the constraints owned by ref, one per line.
func (s *Session) Constraints(ref string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, err := s.element(ref)
	if err != nil {
		return "", err
	}
	_, name := names(owner)
	var b strings.Builder
	for _, c := range owner.Constraints() {
		b.WriteString(format.Format(c, name))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// SetConstraints replaces the constraints owned by ref with those parsed
// from text. Items are named as in [Session.Constraints]. The change is
// rejected if it leaves any affected element without exactly one canonical
// pair of constraints per axis.
func (s *Session) SetConstraints(ref, text string) error {
	return s.edit("set constraints", func() error {
		owner, err := s.element(ref)
		if err != nil {
			return err
		}
		pseudo, err := format.ParseString(text)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "parse constraints")
		}
		dir, _ := names(owner)
		bound, err := format.BindAll(pseudo, dir)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidConstraint, err, "bind constraints")
		}

		affected := map[*model.Element]bool{}
		for _, c := range owner.Constraints() {
			affected[c.FirstItem] = true
		}
		for _, c := range slices.Clone(owner.Constraints()) {
			owner.RemoveConstraint(c)
		}
		for _, c := range bound {
			if err := owner.AddConstraint(c); err != nil {
				return apperr.Wrap(apperr.ErrCodeInvalidConstraint, err, "add %s", c)
			}
			affected[c.FirstItem] = true
		}

		for _, e := range owner.Subtree() {
			if !affected[e] || e == s.layout.Root {
				continue
			}
			if err := editor.CheckAxes(e); err != nil {
				return apperr.Wrap(apperr.ErrCodeInvalidConstraint, err, "constraints of %s", owner.Label())
			}
		}
		return nil
	})
}

// AttributeReport describes how one attribute of an element is constrained.
type AttributeReport struct {
	Attribute    string   `json:"attribute"`
	Relationship string   `json:"relationship"`
	Dependency   string   `json:"dependency"`
	Constraints  []string `json:"constraints,omitempty"`
}

// Report describes an element and the classification of its constraints.
type Report struct {
	UUID           string            `json:"uuid"`
	Name           string            `json:"name,omitempty"`
	Kind           string            `json:"kind"`
	ProportionLock bool              `json:"proportion_lock"`
	Attributes     []AttributeReport `json:"attributes"`
	Owned          int               `json:"owned"`
	Problems       []string          `json:"problems,omitempty"`
}

// Describe classifies the constraints of ref per canonical attribute.
func (s *Session) Describe(ref string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := s.element(ref)
	if err != nil {
		return nil, err
	}
	return s.describe(e), nil
}

// DescribeAll reports every element in depth-first order.
func (s *Session) DescribeAll() []*Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Report
	for _, e := range s.layout.Elements() {
		out = append(out, s.describe(e))
	}
	return out
}

func (s *Session) describe(e *model.Element) *Report {
	m := s.editor.Manager(e)
	r := &Report{
		UUID:           e.UUID,
		Name:           e.Name,
		Kind:           e.Kind.String(),
		ProportionLock: m.ProportionLock(),
		Owned:          len(e.Constraints()),
	}
	for _, attr := range geom.CanonicalAttributes {
		a := AttributeReport{
			Attribute:    attr.String(),
			Relationship: m.Relationship(attr).String(),
			Dependency:   m.Dependency(attr).String(),
		}
		for _, c := range m.ConstraintsFor(attr) {
			a.Constraints = append(a.Constraints, c.String())
		}
		r.Attributes = append(r.Attributes, a)
	}
	if e != s.layout.Root {
		if err := editor.CheckAxes(e); err != nil {
			r.Problems = strings.Split(err.Error(), "\n")
		}
	}
	return r
}

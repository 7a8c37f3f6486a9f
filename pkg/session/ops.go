package session

import (
	"errors"
	"slices"

	"github.com/matzehuels/remotelayout/pkg/editor"
	apperr "github.com/matzehuels/remotelayout/pkg/errors"
	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/metrics"
	"github.com/matzehuels/remotelayout/pkg/model"
)

// Translate moves the selected elements by delta. Every moved frame must
// stay inside the content area of the common parent.
func (s *Session) Translate(refs []string, delta geom.Point, snap metrics.Snapshot) error {
	return s.edit("translate", func() error {
		elements, parent, err := s.selection(refs)
		if err != nil {
			return err
		}
		if err := requireMetrics(snap, append(elements, parent)...); err != nil {
			return err
		}
		m := s.editor.Manager(parent)
		content := m.ContentRect(snap)
		for _, e := range elements {
			frame, _ := snap.Box(e)
			if moved := frame.Offset(delta); !content.Contains(moved) {
				return apperr.New(apperr.ErrCodeOutOfBounds, "%s would leave the content area of %s", e.Label(), parent.Label())
			}
		}
		m.Translate(elements, delta, snap)
		return nil
	})
}

// Align aligns attr of the selected elements with the anchor, which must be
// part of the selection. Size attributes are rejected; use [Session.Resize].
func (s *Session) Align(refs []string, anchorRef, attrName string, snap metrics.Snapshot) error {
	return s.edit("align", func() error {
		attr, err := geom.ParseAttribute(attrName)
		if err != nil || attr == geom.NoAttribute {
			return apperr.New(apperr.ErrCodeInvalidInput, "unknown attribute %q", attrName)
		}
		if attr.IsSize() {
			return apperr.New(apperr.ErrCodeInvalidInput, "cannot align %s; resize along the axis instead", attr)
		}
		elements, parent, err := s.selection(refs)
		if err != nil {
			return err
		}
		anchor, err := s.anchor(anchorRef, elements)
		if err != nil {
			return err
		}
		if err := requireMetrics(snap, append(elements, parent)...); err != nil {
			return err
		}
		s.editor.Manager(parent).Align(elements, anchor, attr, snap)
		return nil
	})
}

// Resize gives the selected elements the anchor's size along axis.
func (s *Session) Resize(refs []string, anchorRef, axisName string, snap metrics.Snapshot) error {
	return s.edit("resize", func() error {
		axis, err := geom.ParseAxis(axisName)
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "invalid axis")
		}
		elements, parent, err := s.selection(refs)
		if err != nil {
			return err
		}
		anchor, err := s.anchor(anchorRef, elements)
		if err != nil {
			return err
		}
		if err := requireMetrics(snap, append(elements, parent)...); err != nil {
			return err
		}
		s.editor.Manager(parent).Resize(elements, anchor, axis, snap)
		return nil
	})
}

// Scale scales the selected elements around their centers and returns the
// factor actually applied after clamping to their size bounds.
func (s *Session) Scale(refs []string, factor float64, snap metrics.Snapshot) (float64, error) {
	applied := 1.0
	err := s.edit("scale", func() error {
		if err := apperr.ValidateScaleFactor(factor); err != nil {
			return err
		}
		elements, parent, err := s.selection(refs)
		if err != nil {
			return err
		}
		if err := requireMetrics(snap, append(elements, parent)...); err != nil {
			return err
		}
		m := s.editor.Manager(parent)
		m.ClearBoundsCache()
		applied = m.Scale(elements, factor, snap)
		return nil
	})
	return applied, err
}

// SetSize resizes one element around its center. The proportion lock is
// kept when the aspect ratio does not change.
func (s *Session) SetSize(ref string, size geom.Size, snap metrics.Snapshot) error {
	return s.edit("resize", func() error {
		if size.Width <= 0 || size.Height <= 0 {
			return apperr.New(apperr.ErrCodeOutOfBounds, "size must be positive, got %gx%g", size.Width, size.Height)
		}
		elements, parent, err := s.selection([]string{ref})
		if err != nil {
			return err
		}
		e := elements[0]
		if err := requireMetrics(snap, e, parent); err != nil {
			return err
		}
		frame, _ := snap.Box(e)
		m := s.editor.Manager(parent)
		m.ResizeElement(e, frame.Size(), size, snap)
		m.ClearBoundsCache(e)
		return nil
	})
}

// AddElement appends a new child under parentRef. The kind follows from the
// parent's kind.
func (s *Session) AddElement(parentRef, name string) (*model.Element, error) {
	var added *model.Element
	err := s.edit("add", func() error {
		if name != "" {
			if err := apperr.ValidateName(name); err != nil {
				return err
			}
		}
		parent, err := s.element(parentRef)
		if err != nil {
			return err
		}
		kind, ok := parent.Kind.ChildKind()
		if !ok {
			return apperr.New(apperr.ErrCodeInvalidKind, "%s cannot have subelements", parent.Kind)
		}
		e := model.NewElement(kind, name)
		if err := s.layout.Add(parent, e); err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidKind, err, "add %s", e)
		}
		added = e
		return nil
	})
	return added, err
}

// DeleteElement removes an element, its subtree and every constraint that
// refers to any of them.
func (s *Session) DeleteElement(ref string) error {
	return s.edit("delete", func() error {
		e, err := s.element(ref)
		if err != nil {
			return err
		}
		if e == s.layout.Root {
			return apperr.New(apperr.ErrCodeInvalidInput, "cannot delete the remote")
		}
		for _, n := range e.Subtree() {
			s.editor.Forget(n)
		}
		if err := s.layout.Delete(e); err != nil {
			return apperr.Wrap(apperr.ErrCodeInternal, err, "delete %s", e)
		}
		return nil
	})
}

func (s *Session) element(ref string) (*model.Element, error) {
	if err := apperr.ValidateElementRef(ref); err != nil {
		return nil, err
	}
	e, err := s.layout.Element(ref)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeElementNotFound, err, "element %q", ref)
	}
	return e, nil
}

// selection resolves refs to distinct elements sharing one parent.
func (s *Session) selection(refs []string) ([]*model.Element, *model.Element, error) {
	if err := apperr.ValidateSelection(refs); err != nil {
		return nil, nil, err
	}
	elements := make([]*model.Element, 0, len(refs))
	var parent *model.Element
	for _, ref := range refs {
		e, err := s.element(ref)
		if err != nil {
			return nil, nil, err
		}
		if slices.Contains(elements, e) {
			return nil, nil, apperr.New(apperr.ErrCodeInvalidSelection, "%s selected twice", e.Label())
		}
		p := e.Parent()
		switch {
		case p == nil:
			return nil, nil, apperr.New(apperr.ErrCodeInvalidSelection, "the remote cannot be selected")
		case parent == nil:
			parent = p
		case p != parent:
			return nil, nil, apperr.New(apperr.ErrCodeInvalidSelection, "%s and %s have different parents", elements[0].Label(), e.Label())
		}
		elements = append(elements, e)
	}
	return elements, parent, nil
}

func (s *Session) anchor(ref string, elements []*model.Element) (*model.Element, error) {
	if ref == "" {
		return nil, apperr.New(apperr.ErrCodeInvalidSelection, "anchor is required")
	}
	a, err := s.element(ref)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(elements, a) {
		return nil, apperr.New(apperr.ErrCodeInvalidSelection, "anchor %s is not selected", a.Label())
	}
	return a, nil
}

func requireMetrics(snap metrics.Snapshot, elements ...*model.Element) error {
	if err := snap.Require(elements...); err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "incomplete metrics")
	}
	return nil
}

// Check reports every element whose axes are not determined by exactly one
// canonical pair of constraints. The remote is skipped.
func (s *Session) Check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for _, e := range s.layout.Elements() {
		if e == s.layout.Root {
			continue
		}
		if err := editor.CheckAxes(e); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return apperr.Wrap(apperr.ErrCodeInvalidConstraint, errors.Join(errs...), "layout is not fully determined")
}

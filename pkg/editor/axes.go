package editor

import (
	"errors"
	"fmt"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/model"
)

var (
	// ErrUnderdetermined is reported by [CheckAxes] when an axis lacks the
	// constraints to fix both its position and its extent.
	ErrUnderdetermined = errors.New("axis is underdetermined")

	// ErrOverdetermined is reported by [CheckAxes] when an axis has more
	// constraints than needed, or two constraints on the same attribute.
	ErrOverdetermined = errors.New("axis is overdetermined")

	// ErrNonCanonical is reported by [CheckAxes] for an edge paired with a
	// center. The axis is solvable but edits assume one of the canonical pairs.
	ErrNonCanonical = errors.New("axis pairs an edge with a center")
)

// CheckAxes verifies that each axis of e is determined by exactly one of
// edge+edge, edge+size or center+size among its first-order constraints.
// The returned error joins one entry per failing axis.
func CheckAxes(e *model.Element) error {
	var counts [geom.NumAttributes]int
	for _, c := range e.FirstOrder() {
		if i := c.FirstAttribute.Index(); i >= 0 {
			counts[i]++
		}
	}
	var errs []error
	for _, axis := range []geom.Axis{geom.Horizontal, geom.Vertical} {
		if err := checkAxis(axis, counts); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", e, axis, err))
		}
	}
	return errors.Join(errs...)
}

func checkAxis(axis geom.Axis, counts [geom.NumAttributes]int) error {
	lead, trail, center, size := axis.Attributes()
	has := func(a geom.Attribute) bool { return counts[a.Index()] > 0 }

	n := 0
	for _, a := range []geom.Attribute{lead, trail, center, size} {
		if counts[a.Index()] > 1 {
			return fmt.Errorf("%w: %d constraints on %s", ErrOverdetermined, counts[a.Index()], a)
		}
		n += counts[a.Index()]
	}
	switch {
	case n > 2:
		return ErrOverdetermined
	case n < 2:
		return ErrUnderdetermined
	case has(center) && !has(size):
		return ErrNonCanonical
	}
	return nil
}

// Package metrics supplies the solved geometry the constraint editor works
// against.
//
// A [Snapshot] maps element UUIDs to boxes expressed in the coordinate space
// of each element's parent. The root's box is its own frame; only its size
// matters to the editor. Snapshots come from an external solver through a
// [Provider] and are treated as read-only for the duration of one edit.
//
// Two providers are included: [Static] wraps a snapshot already in memory and
// [File] reads one from a JSON or TOML document written by the solver.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/model"
)

// ErrMissingBox is returned when a snapshot has no entry for an element.
var ErrMissingBox = errors.New("no metrics for element")

// Snapshot maps element UUIDs to their solved boxes.
type Snapshot map[string]geom.Box

// Box returns the box of e.
func (s Snapshot) Box(e *model.Element) (geom.Box, bool) {
	b, ok := s[e.UUID]
	return b, ok
}

// ParentBounds returns the bounds of e's parent, i.e. the parent's size at
// origin zero.
func (s Snapshot) ParentBounds(e *model.Element) (geom.Box, bool) {
	p := e.Parent()
	if p == nil {
		return geom.Box{}, false
	}
	b, ok := s[p.UUID]
	return b.Bounds(), ok
}

// Union returns the union of the boxes of elements. Elements without an
// entry are ignored.
func (s Snapshot) Union(elements []*model.Element) geom.Box {
	boxes := make([]geom.Box, 0, len(elements))
	for _, e := range elements {
		if b, ok := s[e.UUID]; ok {
			boxes = append(boxes, b)
		}
	}
	return geom.UnionAll(boxes)
}

// Require checks that every element has an entry.
func (s Snapshot) Require(elements ...*model.Element) error {
	for _, e := range elements {
		if _, ok := s[e.UUID]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingBox, e)
		}
	}
	return nil
}

// Clone returns a copy of s.
func (s Snapshot) Clone() Snapshot { return maps.Clone(s) }

// Provider produces a snapshot reflecting the last committed constraint set
// of a layout.
type Provider interface {
	Metrics(ctx context.Context, l *model.Layout) (Snapshot, error)
}

// Static is a provider that always returns the same snapshot.
type Static struct {
	Snapshot Snapshot
}

// Metrics returns a copy of the wrapped snapshot.
func (s Static) Metrics(context.Context, *model.Layout) (Snapshot, error) {
	return s.Snapshot.Clone(), nil
}

var _ Provider = Static{}

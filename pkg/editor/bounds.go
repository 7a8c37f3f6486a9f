package editor

import (
	"math"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/metrics"
	"github.com/matzehuels/remotelayout/pkg/model"
)

// SizeBounds is the range of sizes an element may be scaled to.
type SizeBounds struct {
	Min geom.Size
	Max geom.Size
}

// Admits reports whether s lies within the bounds on both axes.
func (b SizeBounds) Admits(s geom.Size) bool {
	return s.Width <= b.Max.Width && s.Height <= b.Max.Height &&
		s.Width >= b.Min.Width && s.Height >= b.Min.Height
}

// ContentRect returns the editable area for subelements in the managed
// element's coordinate space.
func (m *Manager) ContentRect(snap metrics.Snapshot) geom.Box {
	inset := m.editor.opts.ContentInset
	return frameOf(snap, m.element).Bounds().Inset(inset.Width, inset.Height)
}

// SizeBounds returns the cached size bounds of e, computing them from snap
// on first use.
//
// The maximum starts from the element's unconstrained maximum size centred on
// its current frame. If that frame leaves the content area, growth on each
// axis is limited to twice the smaller distance to the content edges, and a
// proportion lock carries the tighter axis over to the other.
func (m *Manager) SizeBounds(e *model.Element, snap metrics.Snapshot) SizeBounds {
	if b, ok := m.bounds[e]; ok {
		return b
	}
	frame := frameOf(snap, e)
	content := m.ContentRect(snap)
	maxSize := m.editor.maxSize(e, content)

	maxFrame := geom.NewBox(
		frame.X-(maxSize.Width-frame.Width)/2,
		frame.Y-(maxSize.Height-frame.Height)/2,
		maxSize.Width, maxSize.Height)

	upper := maxSize
	if !content.Contains(maxFrame) {
		in := content.Intersect(maxFrame)
		dx := math.Min(math.Abs(frame.MinX()-in.MinX()), math.Abs(frame.MaxX()-in.MaxX()))
		dy := math.Min(math.Abs(frame.MinY()-in.MinY()), math.Abs(frame.MaxY()-in.MaxY()))
		upper = geom.Size{Width: frame.Width + 2*dx, Height: frame.Height + 2*dy}
		if m.editor.Manager(e).ProportionLock() && frame.Width > 0 && frame.Height > 0 {
			if upper.Width < upper.Height {
				upper.Height = frame.Height / frame.Width * upper.Width
			} else {
				upper.Width = frame.Width / frame.Height * upper.Height
			}
		}
	}

	b := SizeBounds{Min: m.editor.minSize(e), Max: upper}
	m.bounds[e] = b
	return b
}

// ClearBoundsCache drops the cached bounds of the given elements, or of all
// elements when none are given.
func (m *Manager) ClearBoundsCache(elements ...*model.Element) {
	if len(elements) == 0 {
		clear(m.bounds)
		return
	}
	for _, e := range elements {
		delete(m.bounds, e)
	}
}

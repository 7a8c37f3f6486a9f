package editor

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/remotelayout/pkg/geom"
	"github.com/matzehuels/remotelayout/pkg/metrics"
	"github.com/matzehuels/remotelayout/pkg/model"
	"github.com/matzehuels/remotelayout/pkg/observability"
)

// Options configures an [Editor].
type Options struct {
	// Logger receives debug output for every operation. Nil uses log.Default().
	Logger *log.Logger

	// ContentInset shrinks the parent's bounds on each side to obtain the
	// editable content area used for scale bounds and translate containment.
	ContentInset geom.Size

	// MinSizes is the smallest size an element of each kind may be scaled to.
	// Kinds without an entry use [DefaultMinSize].
	MinSizes map[model.Kind]geom.Size

	// MaxSize returns the unconstrained maximum size of e given the content
	// area of its parent. Nil uses the content area's size.
	MaxSize func(e *model.Element, content geom.Box) geom.Size
}

// DefaultMinSize is the minimum element size when no per-kind value is set.
var DefaultMinSize = geom.Square(22)

// Editor owns the per-element managers of one editing session.
type Editor struct {
	opts     Options
	logger   *log.Logger
	managers map[*model.Element]*Manager
}

// New creates an editor.
func New(opts Options) *Editor {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Editor{
		opts:     opts,
		logger:   logger,
		managers: make(map[*model.Element]*Manager),
	}
}

// Manager returns the manager of e, creating it on first use. The manager
// subscribes to e's constraint change events to keep its classification
// current.
func (ed *Editor) Manager(e *model.Element) *Manager {
	if m, ok := ed.managers[e]; ok {
		return m
	}
	m := &Manager{
		editor:  ed,
		element: e,
		dirty:   true,
		bounds:  make(map[*model.Element]SizeBounds),
	}
	m.cancel = e.OnConstraintsChanged(func(*model.Element) { m.dirty = true })
	ed.managers[e] = m
	return m
}

// Forget drops the manager of e and unsubscribes it.
func (ed *Editor) Forget(e *model.Element) {
	if m, ok := ed.managers[e]; ok {
		m.cancel()
		delete(ed.managers, e)
	}
}

// Close releases every manager.
func (ed *Editor) Close() {
	for e := range ed.managers {
		ed.Forget(e)
	}
}

func (ed *Editor) minSize(e *model.Element) geom.Size {
	if s, ok := ed.opts.MinSizes[e.Kind]; ok {
		return s
	}
	return DefaultMinSize
}

func (ed *Editor) maxSize(e *model.Element, content geom.Box) geom.Size {
	if ed.opts.MaxSize != nil {
		return ed.opts.MaxSize(e, content)
	}
	return content.Size()
}

// track reports an operation to the logger and the editor hooks. Call the
// returned function when the operation completes.
func (ed *Editor) track(op string, n int) func() {
	start := time.Now()
	observability.Editor().OnOperationStart(op, n)
	return func() {
		d := time.Since(start)
		ed.logger.Debug("editor operation", "op", op, "elements", n, "duration", d)
		observability.Editor().OnOperationComplete(op, n, d)
	}
}

func frameOf(snap metrics.Snapshot, e *model.Element) geom.Box {
	b, ok := snap.Box(e)
	if !ok {
		panic(fmt.Sprintf("editor: no metrics for %s", e))
	}
	return b
}

func parentBoundsOf(snap metrics.Snapshot, e *model.Element) geom.Box {
	b, ok := snap.ParentBounds(e)
	if !ok {
		panic(fmt.Sprintf("editor: no metrics for parent of %s", e))
	}
	return b
}

func mustAdd(owner *model.Element, c *model.Constraint) {
	if err := owner.AddConstraint(c); err != nil {
		panic(fmt.Sprintf("editor: add %v to %s: %v", c, owner, err))
	}
}

func remove(c *model.Constraint) {
	if o := c.Owner(); o != nil {
		o.RemoveConstraint(c)
	}
}

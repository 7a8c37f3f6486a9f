// Package editor rewrites the constraint graph of a layout in response to
// direct-manipulation gestures without leaving any element over- or
// under-determined.
//
// # Overview
//
// An [Editor] hands out one [Manager] per element. A manager classifies the
// first-order constraints of its element (the relationship classifier) and
// edits the constraints of its subelements (the constraint-graph editor).
// Interactive operations are invoked on the manager of the element whose
// children are being edited:
//
//	ed := editor.New(editor.Options{})
//	m := ed.Manager(group)
//	m.Align([]*model.Element{a, b}, anchor, geom.Top, snapshot)
//
// Every operation takes a [metrics.Snapshot] describing the currently solved
// boxes. The snapshot is the ground truth used when constraints are frozen or
// synthesized; it is never retained after the call returns.
//
// # Determinacy
//
// After any operation each axis of an edited element is determined by exactly
// one of edge+edge, edge+size or center+size. [Manager.ResolveConflicts]
// maintains this whenever a first-order constraint is added, and
// [CheckAxes] verifies it.
//
// # Freezing
//
// Before a structural edit, constraints that tie an element to a sibling are
// rewritten against the parent (or a constant for sizes) using the snapshot,
// so moving or resizing one element cannot silently move another. Freezing is
// done for the whole selection before any constant is changed.
//
// # Failure Semantics
//
// Operations assume their preconditions have been validated by the caller:
// non-empty selection, anchor present, every element a child of the managed
// element, a snapshot entry for every element involved. Violations panic.
// The session package performs those checks and turns panics into errors.
//
// # Concurrency
//
// An Editor and its managers are not safe for concurrent use. A single edit
// session owns them.
package editor

// Package model defines the element tree and the constraint graph that
// describe a remote control layout.
//
// # Overview
//
// A layout is a rooted tree of [Element] values. The root is always a
// [KindRemote]; its children are button groups and their children are
// buttons. Which kinds may nest is fixed by a small dispatch table (see
// [Kind.ChildKind] and [Kind.ParentKind]) rather than by type tests.
//
// Elements carry no geometry. Their boxes are derived by an external solver
// from the [Constraint] values attached to the tree.
//
// # Constraints and Ownership
//
// Every constraint has exactly one owner, the element responsible for its
// lifetime. Constraints are added and removed only through the owner:
//
//	c := model.NewConstraint(button, geom.Left, geom.Equal, group, geom.Left, 1, 8)
//	if err := group.AddConstraint(c); err != nil { ... }
//	...
//	group.RemoveConstraint(c)
//
// Relative to an element a constraint is first-order when the element is its
// FirstItem, second-order when it is the SecondItem, and intrinsic when it is
// the FirstItem and the SecondItem is nil or the element itself. Each element
// keeps reverse indexes so [Element.FirstOrder] and [Element.SecondOrder]
// do not need to scan the tree.
//
// Changing which element a constraint refers to is never done in place. The
// old constraint is removed and a fresh one added. Editing only the Constant
// field in place is allowed and does not count as a structural change.
//
// # Change Notification
//
// Whenever the set of first-order constraints of an element changes
// structurally, the element synchronously notifies the callbacks registered
// through [Element.OnConstraintsChanged]. The editor uses this to mark its
// cached relationship state dirty.
//
// # Deletion
//
// [Layout.Delete] detaches an element from its parent and removes every
// constraint for which an element of the deleted subtree is owner, first
// item or second item, so no dangling relations remain.
//
// # Concurrency
//
// Elements and layouts are not safe for concurrent use. The session package
// serializes all edits to a layout.
package model

// Package pkg provides the core libraries for remotelayout.
//
// # Overview
//
// A remote control layout is a tree of elements (one remote, its button
// groups, their buttons) positioned by linear layout constraints. Each
// constraint is owned by the element that holds it, and each element owns
// only constraints between itself and its direct subelements. The editor
// rewrites those constraints when a designer translates, aligns, resizes or
// scales elements, so that every element stays fully determined.
//
// # Architecture
//
// The typical data flow:
//
//	layout document (JSON) ──► [io] ──► [model] tree
//	                                       │
//	             [metrics] frames ──► [editor] managers ◄── [session]
//	                                       │
//	                     [store] ◄── [io] ─┴─► [render/dot]
//
// # Main Packages
//
// ## Domain
//
// [geom] - Attributes, relations, priorities, points, sizes and boxes.
//
// [model] - Elements, layouts and constraints. Elements are created with a
// kind (remote, button group, button) that fixes which children they accept.
// Constraints are added and removed only through their owner.
//
// [editor] - Per-element constraint managers. A manager classifies how each
// attribute of its element is constrained, resolves conflicts when a new
// constraint is added, freezes positions and sizes, and implements the
// translate, align, resize and scale operations.
//
// [metrics] - Solved frames of elements, supplied by the caller. The editor
// never solves constraints itself.
//
// ## Serialization
//
// [format] - The textual constraint form, e.g. "b.top = a.bottom + 10 @750".
//
// [io] - JSON layout documents with per-owner constraint blocks.
//
// ## Infrastructure
//
// [session] - Single-writer editing sessions with rollback and commit.
//
// [store] - Layout persistence: memory, file, Redis and MongoDB backends.
//
// [config] - TOML configuration for the editor, store, server and logging.
//
// [errors] - Machine-readable error codes shared by the CLI and the API.
//
// [observability] - Hooks for editor, store and HTTP events.
//
// [render/dot] - Graphviz export of the constraint graph.
//
// # Common Workflows
//
// Align two buttons and save the layout:
//
//	sess, _ := session.Open(ctx, st, "living-room", cfg.EditorOptions(logger))
//	defer sess.Close()
//	snap, _ := metrics.Load("frames.toml", sess.Layout())
//	if err := sess.Align([]string{"play", "pause"}, "play", "top", snap); err != nil {
//	    return err
//	}
//	return sess.Commit(ctx)
//
// Parse constraints:
//
//	ps, _ := format.ParseString("play.size = pause.size")
//	for _, p := range ps {
//	    fmt.Println(p) // play.width = pause.width, play.height = pause.height
//	}
//
// # Testing
//
//	go test ./pkg/...                  # All tests
//	go test ./pkg/editor/...           # Specific package
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/geom
// [model]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/model
// [editor]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/editor
// [metrics]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/metrics
// [format]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/format
// [io]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/io
// [session]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/session
// [store]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/observability
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/remotelayout/pkg/render/dot
package pkg

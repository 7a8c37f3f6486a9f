// Package session runs constraint edits against one layout.
//
// A [Session] owns a layout, an [editor.Editor] bound to it, and the store the
// layout was loaded from. Edits validate their input, run the editor
// operation, and leave the layout modified in memory. [Session.Commit]
// writes the layout back to the store and [Session.Rollback] restores the
// state captured by [Session.Begin].
//
// # Usage
//
//	sess, err := session.Open(ctx, st, "living-room", opts)
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	if err := sess.Align([]string{"play", "pause"}, "play", "top", snap); err != nil {
//	    return err
//	}
//	return sess.Commit(ctx)
//
// Sessions are safe for concurrent use; edits are serialized.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/remotelayout/pkg/editor"
	apperr "github.com/matzehuels/remotelayout/pkg/errors"
	"github.com/matzehuels/remotelayout/pkg/io"
	"github.com/matzehuels/remotelayout/pkg/model"
	"github.com/matzehuels/remotelayout/pkg/store"
)

// Session is a single-writer editing session over one layout.
type Session struct {
	ID string

	mu     sync.Mutex
	layout *model.Layout
	backup *model.Layout
	editor *editor.Editor
	opts   editor.Options
	store  store.Store
	logger *log.Logger
	closed bool
}

// New starts a session over l. st may be nil for a session that is never
// committed.
func New(l *model.Layout, st store.Store, opts editor.Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	opts.Logger = logger
	return &Session{
		ID:     uuid.NewString(),
		layout: l,
		editor: editor.New(opts),
		opts:   opts,
		store:  st,
		logger: logger.With("layout", l.ID),
	}
}

// Open loads the layout id from st and starts a session over it.
func Open(ctx context.Context, st store.Store, id string, opts editor.Options) (*Session, error) {
	if err := apperr.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	data, err := st.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.ErrCodeLayoutNotFound, "layout %q not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "load layout %q", id)
	}
	l, err := io.Unmarshal(data)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode layout %q", id)
	}
	if l.ID == "" {
		l.ID = id
	}
	return New(l, st, opts), nil
}

// Layout returns the edited layout. Callers must not modify it while edits
// may run concurrently.
func (s *Session) Layout() *model.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

// Dirty reports whether the layout has changes since the last Begin or Commit.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backup != nil
}

// Begin captures the current layout as the rollback point. Edits made
// without an explicit Begin capture it implicitly.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed()
	}
	s.backup = s.layout.Clone()
	return nil
}

// Rollback restores the layout captured by the last Begin. It is a no-op
// when there is nothing to restore.
func (s *Session) Rollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollback()
}

func (s *Session) rollback() {
	if s.backup == nil {
		return
	}
	s.restore(s.backup)
	s.backup = nil
	s.logger.Debug("rolled back")
}

// restore replaces the layout. Managers are keyed by element, so the
// editor is rebuilt for the new tree.
func (s *Session) restore(l *model.Layout) {
	s.editor.Close()
	s.layout = l
	s.editor = editor.New(s.opts)
}

// Commit writes the layout to the store and clears the rollback point.
func (s *Session) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed()
	}
	if s.store == nil {
		return apperr.New(apperr.ErrCodeUnsupported, "session has no store")
	}
	data, err := io.Marshal(s.layout)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInternal, err, "encode layout")
	}
	if err := s.store.Put(ctx, s.layout.ID, data); err != nil {
		return apperr.Wrap(apperr.ErrCodeStorage, err, "save layout %q", s.layout.ID)
	}
	s.backup = nil
	s.logger.Debug("committed", "bytes", len(data), "etag", store.Hash(data))
	return nil
}

// Close releases the editor. Uncommitted changes are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.rollback()
	s.editor.Close()
	s.closed = true
}

func errClosed() error {
	return apperr.New(apperr.ErrCodeSessionClosed, "session is closed")
}

// edit runs fn under the session lock. A failing or panicking edit restores
// the layout to its state before the call.
func (s *Session) edit(op string, fn func() error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed()
	}

	before := s.layout.Clone()
	implicit := s.backup == nil
	if implicit {
		s.backup = before
	}
	defer func() {
		if r := recover(); r != nil {
			err = apperr.Wrap(apperr.ErrCodeInternal, fmt.Errorf("%v", r), "%s failed", op)
		}
		if err != nil {
			s.restore(before)
			if implicit {
				s.backup = nil
			}
			s.logger.Debug("edit reverted", "op", op, "err", err)
		}
	}()
	return fn()
}

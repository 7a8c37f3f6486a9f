package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/remotelayout/pkg/buildinfo"
	apperr "github.com/matzehuels/remotelayout/pkg/errors"
	"github.com/matzehuels/remotelayout/pkg/geom"
	layoutio "github.com/matzehuels/remotelayout/pkg/io"
	"github.com/matzehuels/remotelayout/pkg/metrics"
	"github.com/matzehuels/remotelayout/pkg/render/dot"
	"github.com/matzehuels/remotelayout/pkg/session"
	"github.com/matzehuels/remotelayout/pkg/store"
)

// editRequest is the body of the interactive operation endpoints. Metrics
// boxes may be keyed by UUID, identifier or unique name.
type editRequest struct {
	Selection []string         `json:"selection"`
	Anchor    string           `json:"anchor,omitempty"`
	Attribute string           `json:"attribute,omitempty"`
	Axis      string           `json:"axis,omitempty"`
	Delta     geom.Point       `json:"delta"`
	Factor    float64          `json:"factor,omitempty"`
	Metrics   metrics.Document `json:"metrics"`
}

// editResponse reports the committed layout after an operation.
type editResponse struct {
	ID     string   `json:"id"`
	ETag   string   `json:"etag"`
	Factor *float64 `json:"factor,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) listLayouts(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeStorage, err, "list layouts"))
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"layouts": ids})
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, err := s.load(r, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	etag := strconv.Quote(store.Hash(data))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) putLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperr.ValidateLayoutID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	l, err := layoutio.Unmarshal(body)
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode layout"))
		return
	}
	l.ID = id

	defer s.locks.lock(id)()
	if err := s.checkIfMatch(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(l, s.store, s.opts)
	defer sess.Close()
	if strict, _ := strconv.ParseBool(r.URL.Query().Get("strict")); strict {
		if err := sess.Check(); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	_, existed := s.store.Get(r.Context(), id)
	if err := sess.Commit(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusOK
	if errors.Is(existed, store.ErrNotFound) {
		status = http.StatusCreated
	}
	s.respondCommitted(w, r, sess, status, nil)
}

func (s *Server) deleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperr.ValidateLayoutID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer s.locks.lock(id)()
	if err := s.checkIfMatch(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.load(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeStorage, err, "delete layout %q", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listElements(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	defer sess.Close()
	writeJSON(w, http.StatusOK, sess.DescribeAll())
}

func (s *Server) relationships(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	defer sess.Close()
	report, err := sess.Describe(chi.URLParam(r, "eid"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) getConstraints(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	defer sess.Close()
	text, err := sess.Constraints(chi.URLParam(r, "eid"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, text)
}

func (s *Server) putConstraints(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	s.mutate(w, r, func(sess *session.Session, _ editRequest, _ metrics.Snapshot) (*float64, error) {
		return nil, sess.SetConstraints(chi.URLParam(r, "eid"), string(body))
	}, false)
}

func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session, req editRequest, snap metrics.Snapshot) (*float64, error) {
		return nil, sess.Translate(req.Selection, req.Delta, snap)
	}, true)
}

func (s *Server) align(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session, req editRequest, snap metrics.Snapshot) (*float64, error) {
		return nil, sess.Align(req.Selection, req.Anchor, req.Attribute, snap)
	}, true)
}

func (s *Server) resize(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session, req editRequest, snap metrics.Snapshot) (*float64, error) {
		return nil, sess.Resize(req.Selection, req.Anchor, req.Axis, snap)
	}, true)
}

func (s *Server) scale(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(sess *session.Session, req editRequest, snap metrics.Snapshot) (*float64, error) {
		applied, err := sess.Scale(req.Selection, req.Factor, snap)
		return &applied, err
	}, true)
}

func (s *Server) graphDOT(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	defer sess.Close()
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = io.WriteString(w, dot.ToDOT(sess.Layout(), graphOptions(r)))
}

func (s *Server) graphSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	defer sess.Close()
	svg, err := dot.RenderSVG(r.Context(), dot.ToDOT(sess.Layout(), graphOptions(r)))
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "render graph"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func graphOptions(r *http.Request) dot.Options {
	q := r.URL.Query()
	detailed, _ := strconv.ParseBool(q.Get("detailed"))
	owners, _ := strconv.ParseBool(q.Get("owners"))
	return dot.Options{Detailed: detailed, Owners: owners}
}

// checkIfMatch compares the If-Match header with the ETag of the stored
// layout. A missing header always passes; "*" requires the layout to exist.
// Callers hold the layout lock.
func (s *Server) checkIfMatch(r *http.Request, id string) error {
	want := r.Header.Get("If-Match")
	if want == "" {
		return nil
	}
	data, err := s.load(r, id)
	if err != nil {
		if apperr.Is(err, apperr.ErrCodeLayoutNotFound) {
			return apperr.Wrap(apperr.ErrCodeStaleLayout, err, "layout %q does not exist", id)
		}
		return err
	}
	if want != "*" && want != strconv.Quote(store.Hash(data)) {
		return apperr.New(apperr.ErrCodeStaleLayout, "layout %q was modified", id)
	}
	return nil
}

// mutate opens the layout named in the URL, runs op and commits while
// holding the layout lock. When
// decode is set the body is read as an editRequest and its metrics resolved
// against the layout.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(*session.Session, editRequest, metrics.Snapshot) (*float64, error), decode bool) {
	var req editRequest
	if decode {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	id := chi.URLParam(r, "id")
	if err := apperr.ValidateLayoutID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer s.locks.lock(id)()
	if err := s.checkIfMatch(r, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, ok := s.open(w, r)
	if !ok {
		return
	}
	defer sess.Close()

	var snap metrics.Snapshot
	if decode {
		var err error
		if snap, err = req.Metrics.Resolve(sess.Layout()); err != nil {
			s.writeError(w, r, apperr.Wrap(apperr.ErrCodeElementNotFound, err, "resolve metrics"))
			return
		}
	}

	factor, err := op(sess, req, snap)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Commit(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respondCommitted(w, r, sess, http.StatusOK, factor)
}

func (s *Server) respondCommitted(w http.ResponseWriter, r *http.Request, sess *session.Session, status int, factor *float64) {
	l := sess.Layout()
	data, err := layoutio.Marshal(l)
	if err != nil {
		s.writeError(w, r, apperr.Wrap(apperr.ErrCodeInternal, err, "encode layout"))
		return
	}
	etag := store.Hash(data)
	w.Header().Set("ETag", strconv.Quote(etag))
	writeJSON(w, status, editResponse{ID: l.ID, ETag: etag, Factor: factor})
}

func (s *Server) open(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := session.Open(r.Context(), s.store, chi.URLParam(r, "id"), s.opts)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) load(r *http.Request, id string) ([]byte, error) {
	if err := apperr.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	data, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.New(apperr.ErrCodeLayoutNotFound, "layout %q not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeStorage, err, "load layout %q", id)
	}
	return data, nil
}

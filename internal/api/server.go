// Package api serves layouts and constraint edits over HTTP.
//
// Layouts live in a [store.Store] as JSON documents. Every mutating request
// opens a [session.Session] on the stored layout, applies one operation and
// commits the result, so requests never share in-memory state. Writers of
// the same layout are serialized; a write carrying If-Match fails with 412
// when the stored layout no longer has that ETag.
//
// # Routes
//
//	GET    /healthz
//	GET    /layouts
//	GET    /layouts/{id}
//	PUT    /layouts/{id}[?strict=true]
//	DELETE /layouts/{id}
//	GET    /layouts/{id}/elements
//	GET    /layouts/{id}/elements/{eid}/relationships
//	GET    /layouts/{id}/elements/{eid}/constraints
//	PUT    /layouts/{id}/elements/{eid}/constraints
//	POST   /layouts/{id}/translate
//	POST   /layouts/{id}/align
//	POST   /layouts/{id}/resize
//	POST   /layouts/{id}/scale
//	GET    /layouts/{id}/graph.dot
//	GET    /layouts/{id}/graph.svg
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/remotelayout/pkg/editor"
	"github.com/matzehuels/remotelayout/pkg/store"
)

// maxBodySize bounds request bodies; layouts and metrics are small.
const maxBodySize = 4 << 20

// Server is the HTTP front end for a layout store.
type Server struct {
	store  store.Store
	opts   editor.Options
	logger *log.Logger
	router chi.Router
	locks  layoutLocks
}

// New returns a server over st. opts configures the editor of every request
// session.
func New(st store.Store, opts editor.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	opts.Logger = logger
	s := &Server{store: st, opts: opts, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(middleware.RequestSize(maxBodySize))

	r.Get("/healthz", s.health)
	r.Route("/layouts", func(r chi.Router) {
		r.Get("/", s.listLayouts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getLayout)
			r.Put("/", s.putLayout)
			r.Delete("/", s.deleteLayout)

			r.Get("/elements", s.listElements)
			r.Get("/elements/{eid}/relationships", s.relationships)
			r.Get("/elements/{eid}/constraints", s.getConstraints)
			r.Put("/elements/{eid}/constraints", s.putConstraints)

			r.Post("/translate", s.translate)
			r.Post("/align", s.align)
			r.Post("/resize", s.resize)
			r.Post("/scale", s.scale)

			r.Get("/graph.dot", s.graphDOT)
			r.Get("/graph.svg", s.graphSVG)
		})
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

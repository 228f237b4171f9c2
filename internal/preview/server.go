// Package preview serves a site directory over HTTP for local review, with a
// small JSON API over the paper cache.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/corpxiv/corpxiv/internal/export"
	"github.com/corpxiv/corpxiv/internal/storage"
)

// DefaultLimit caps list and search responses when no limit is given.
const DefaultLimit = 100

// Server serves one site.
type Server struct {
	root    string
	baseURL string
	db      *storage.DB
	log     *zap.Logger
	router  *chi.Mux
}

// New builds the router for the site at root. db must already be rebuilt
// from the site's paper index. baseURL fills the url field of BibTeX entries.
func New(root, baseURL string, db *storage.DB, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{root: root, baseURL: baseURL, db: db, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/papers", s.handleList)
		r.Get("/papers/{id}", s.handleGet)
		r.Get("/papers/{id}/bibtex", s.handleBibTeX)
		r.Get("/lookup/{category}/{slug}", s.handleLookup)
		r.Get("/search", s.handleSearch)
		r.Get("/categories", s.handleCategories)
	})
	r.With(hideDotfiles).Handle("/*", http.FileServer(http.Dir(root)))

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("preview server listening", zap.String("addr", addr), zap.String("root", s.root))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.db.Count()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "papers": count})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	filters := storage.SearchFilters{Category: r.URL.Query().Get("category")}
	papers, err := s.db.SearchWithFilters(filters, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(papers))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	paper, err := s.db.GetByID(id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if paper == nil {
		s.writeError(w, http.StatusNotFound, errors.New("paper not found: "+id))
		return
	}
	s.writeJSON(w, http.StatusOK, paper)
}

// handleLookup resolves a landing page location to its paper.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	category, slug := chi.URLParam(r, "category"), chi.URLParam(r, "slug")
	paper, err := s.db.GetBySlug(category, slug)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if paper == nil {
		s.writeError(w, http.StatusNotFound, errors.New("no paper at "+category+"/"+slug))
		return
	}
	s.writeJSON(w, http.StatusOK, paper)
}

func (s *Server) handleBibTeX(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	paper, err := s.db.GetByID(id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if paper == nil {
		s.writeError(w, http.StatusNotFound, errors.New("paper not found: "+id))
		return
	}
	w.Header().Set("Content-Type", "application/x-bibtex; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, export.ToBibTeX(*paper, s.baseURL))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := storage.SearchFilters{
		Keyword:  q.Get("q"),
		Title:    q.Get("title"),
		Author:   q.Get("author"),
		Category: q.Get("category"),
	}
	if filters.Keyword == "" && filters.Title == "" && filters.Author == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("one of q, title or author is required"))
		return
	}

	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	papers, err := s.db.SearchWithFilters(filters, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nonNil(papers))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := s.db.Categories()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if counts == nil {
		counts = []storage.CategoryCount{}
	}
	s.writeJSON(w, http.StatusOK, counts)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("encoding response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// logRequests logs each request once it completes.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// hideDotfiles keeps .corpxiv/ and other dot paths out of the file server.
func hideDotfiles(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, seg := range strings.Split(r.URL.Path, "/") {
			if strings.HasPrefix(seg, ".") {
				http.NotFound(w, r)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

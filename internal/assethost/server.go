package assethost

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Pavlentiyys/digitalFest/internal/logger"
)

// Server hosts the local AR bundle: library scripts under /libs/ and
// tracking targets under /targets/ (plus the legacy /target/ alias).
//
// With the SPA fallback enabled, unknown paths answer 200 with index.html
// the way single-page app hosts do. That mode exists for local development
// and for exercising the loader's HTML guard; asset-only deployments should
// leave it off so missing files are honest 404s.
type Server struct {
	addr        string
	root        string
	spaFallback bool
	log         *logger.Logger
	httpServer  *http.Server
}

// New creates a Server serving files from root.
func New(addr, root string, spaFallback bool) *Server {
	return &Server{
		addr:        addr,
		root:        root,
		spaFallback: spaFallback,
		log:         logger.Default().WithPrefix("assethost"),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/libs/*", s.fileHandler("libs", "/libs/"))
	r.Handle("/targets/*", s.fileHandler("targets", "/targets/"))
	// Some deployments placed the target one directory up.
	r.Handle("/target/*", s.fileHandler("targets", "/target/"))
	r.NotFound(s.handleNotFound)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// fileHandler serves one subdirectory, deferring misses to the not-found
// behavior so the SPA fallback applies uniformly.
func (s *Server) fileHandler(subdir, prefix string) http.Handler {
	dir := filepath.Join(s.root, subdir)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, prefix)
		clean := path.Clean("/" + rel)
		full := filepath.Join(dir, filepath.FromSlash(clean))

		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			s.handleNotFound(w, r)
			return
		}
		http.ServeFile(w, r, full)
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if !s.spaFallback {
		http.NotFound(w, r)
		return
	}

	index := filepath.Join(s.root, "index.html")
	if _, err := os.Stat(index); err != nil {
		http.NotFound(w, r)
		return
	}
	logger.FromContext(r.Context()).Debug("serving index fallback for %s", r.URL.Path)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, index)
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving bundle from %s on %s (spa_fallback=%v)", s.root, s.addr, s.spaFallback)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

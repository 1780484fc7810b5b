// Package server hosts folio over HTTP: full documents for first loads, a
// websocket for live navigation, a JSON route endpoint, raw content and the
// drawbook upload proxy.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/river-now/folio/internal/document"
	"github.com/river-now/folio/internal/drawbook"
	"github.com/river-now/folio/internal/pages"
	"github.com/river-now/folio/internal/seo"
	"github.com/river-now/folio/internal/session"
	"github.com/river-now/folio/kit/colorlog"
	"github.com/river-now/folio/kit/grace"
	"github.com/river-now/folio/kit/lazycache"
	"github.com/river-now/folio/kit/markdown"
	"github.com/river-now/folio/kit/middleware/etag"
	"github.com/river-now/folio/kit/middleware/secureheaders"
)

var Log = colorlog.New("server")

const maxUploadBytes = 4 << 20

type Options struct {
	Store       *session.Store
	Site        seo.Site
	Highlighter *markdown.Highlighter
	// Served under /content/ when set.
	Content fs.FS
	// Nil disables uploads.
	Drawbook *drawbook.Client
	// Defaults to three uploads, then one every ten seconds.
	UploadLimiter *rate.Limiter
	CORSOrigins   []string
	Log           *slog.Logger
}

type Server struct {
	o       Options
	log     *slog.Logger
	limiter *rate.Limiter
	css     lazycache.Value[[]byte]
}

func New(o Options) *Server {
	s := &Server{o: o, log: o.Log, limiter: o.UploadLimiter}
	if s.log == nil {
		s.log = Log
	}
	if s.limiter == nil {
		s.limiter = rate.NewLimiter(rate.Every(10*time.Second), 3)
	}
	if s.o.Highlighter == nil {
		s.o.Highlighter = markdown.NewHighlighter("")
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(secureheaders.Middleware)
	r.Use(chimw.Heartbeat("/healthz"))

	// Upgrades must reach the websocket handler unbuffered.
	r.Get(document.LivePath, s.live)

	r.Group(func(r chi.Router) {
		r.Use(etag.Middleware)
		r.Use(chimw.Compress(5))

		r.Get("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			io.WriteString(w, "User-agent: *\nAllow: /\n")
		})
		r.Get(document.HighlightCSSPath, s.highlightCSS)
		r.With(s.cors()).Get(document.RoutePath, s.route)
		if s.o.Content != nil {
			r.Handle("/content/*", http.StripPrefix("/content/", http.FileServerFS(s.o.Content)))
		}
		r.Get("/*", s.page)
	})

	r.Post(document.UploadPath, s.upload)

	return r
}

func (s *Server) cors() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   s.o.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

// SessionParam names the query parameter that carries a document's session
// id on the live and route endpoints.
const SessionParam = "session"

// session returns the document session named by sid for the caller's
// visitor. An empty, unknown or foreign sid starts a new session. The
// visitor cookie is added to h when the visitor is new.
func (s *Server) session(h http.Header, r *http.Request, sid string) (*session.Session, error) {
	visitor, created, err := s.o.Store.Visitor(r)
	if err != nil {
		return nil, err
	}
	if created {
		h.Add("Set-Cookie", s.o.Store.Cookie(visitor, isSecure(r)).String())
	}
	if sid != "" {
		if sess, ok := s.o.Store.Get(sid, visitor); ok {
			return sess, nil
		}
	}
	return s.o.Store.Create(visitor)
}

// page renders a full document. Every load gets a session of its own, so
// overlapping loads from one browser never share page state.
func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w.Header(), r, "")
	if err != nil {
		s.fail(w, "Could not start session", err)
		return
	}
	if err := sess.Visit(r.Context(), r.URL.RequestURI()); err != nil {
		s.log.Warn("Visit failed", "path", r.URL.Path, "error", err)
	}

	snap := sess.Snapshot()
	var buf bytes.Buffer
	nonce, err := document.Render(&buf, snap, document.Options{Site: s.o.Site, Live: true})
	if err != nil {
		s.fail(w, "Could not render document", err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Security-Policy", document.CSP(nonce))
	h.Set("Cache-Control", "private, no-cache")
	if snap.Active == pages.NotFound {
		w.WriteHeader(http.StatusNotFound)
	}
	w.Write(buf.Bytes())
}

// route navigates the session named by ?session= to ?path= and returns the
// snapshot, which names the session to use next.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if path == "" {
		path = "/"
	}
	sess, err := s.session(w.Header(), r, q.Get(SessionParam))
	if err != nil {
		s.fail(w, "Could not start session", err)
		return
	}
	if err := sess.Navigate(r.Context(), path); err != nil {
		s.log.Warn("Navigate failed", "path", path, "error", err)
	}
	w.Header().Set("Cache-Control", "private, no-cache")
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) highlightCSS(w http.ResponseWriter, _ *http.Request) {
	css, err := s.css.Get(func() ([]byte, error) {
		var buf bytes.Buffer
		err := s.o.Highlighter.CSS(&buf)
		return buf.Bytes(), err
	})
	if err != nil {
		s.fail(w, "Could not write stylesheet", err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(css)
}

// upload forwards a PNG drawing to the drawbook worker.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if s.o.Drawbook == nil {
		http.NotFound(w, r)
		return
	}
	if !s.limiter.Allow() {
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"message": "Too Many Requests"})
		return
	}
	if ct := r.Header.Get("Content-Type"); ct != "image/png" {
		writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"message": "expected image/png"})
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	url, err := s.o.Drawbook.Submit(r.Context(), body)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"message": "drawing too large"})
	case errors.Is(err, drawbook.ErrNotConfigured):
		http.NotFound(w, r)
	case err != nil:
		s.log.Error("Drawbook upload failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"message": "upload failed"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"imageUrl": url})
	}
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.log.Error(msg, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		Log.Warn("Could not encode response", "error", err)
	}
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}

// Serve listens on addr until ctx is done or the process is signaled, then
// shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelWarn),
	}

	return grace.Orchestrate(ctx, grace.OrchestrateOptions{
		Logger: s.log,
		StartupCallback: func() error {
			s.log.Info("Starting server", "url", "http://localhost"+addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen: %w", err)
			}
			return nil
		},
		ShutdownCallback: func(shutdownCtx context.Context) error {
			s.log.Info("Shutting down server")
			s.o.Store.Close()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// Package site hosts the static marketing pages (landing, privacy, terms)
// and the contact page whose form posts into the relay pipeline. Pages are
// rendered through a pongo2 template set; the look comes from an optional
// go-theme manifest flattened into CSS custom properties.
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-formrelay/pkg/form"
	"github.com/goliatone/go-formrelay/pkg/submission"
)

const defaultShutdownTimeout = 5 * time.Second

// Config defines the inputs for the site server.
type Config struct {
	// Addr is the HTTP listen address, for example ":8080".
	Addr string

	// SiteName appears in page titles and the shell header.
	SiteName string

	// Theme and ThemeVariant select a palette when a selector is injected.
	Theme        string
	ThemeVariant string
}

// Option customises a Server before construction.
type Option func(*Server)

// WithLogger injects the server logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithController binds the submission controller handling POST /contact.
func WithController(controller *submission.Controller) Option {
	return func(s *Server) {
		if controller != nil {
			s.controller = controller
		}
	}
}

// WithEngine injects a pre-built template engine.
func WithEngine(engine *Engine) Option {
	return func(s *Server) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithTemplates overrides the embedded template bundle.
func WithTemplates(files fs.FS) Option {
	return func(s *Server) {
		s.templates = files
	}
}

// WithThemeSelector injects the selector resolving Config.Theme.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(s *Server) {
		s.selector = selector
	}
}

// Server hosts the site pages and the contact submission endpoint.
type Server struct {
	addr     string
	siteName string

	logger     *zap.Logger
	controller *submission.Controller
	engine     *Engine
	templates  fs.FS
	selector   theme.ThemeSelector
	palette    Palette

	httpServer *http.Server
}

// NewServer builds a configured site server. Missing dependencies fall back
// to the built-ins: the embedded templates, the default contact form bound
// to a fresh controller, and the default palette.
func NewServer(cfg Config, options ...Option) (*Server, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("site: http address is required")
	}

	s := &Server{
		addr:     addr,
		siteName: strings.TrimSpace(cfg.SiteName),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.siteName == "" {
		s.siteName = "Formrelay"
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.controller == nil {
		s.controller = submission.New(form.DefaultContact())
	}
	if s.engine == nil {
		files := s.templates
		if files == nil {
			files = TemplatesFS()
		}
		engine, err := NewEngine(WithTemplatesFS(files))
		if err != nil {
			return nil, fmt.Errorf("site: configure engine: %w", err)
		}
		s.engine = engine
	}

	palette, err := resolvePalette(s.selector, cfg.Theme, cfg.ThemeVariant)
	if err != nil {
		return nil, err
	}
	s.palette = palette

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s, nil
}

// Controller returns the bound submission controller.
func (s *Server) Controller() *submission.Controller {
	return s.controller
}

// Handler returns the route table for the site.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage("landing"))
	mux.HandleFunc("GET /privacy", s.handlePage("privacy"))
	mux.HandleFunc("GET /terms", s.handlePage("terms"))
	mux.HandleFunc("GET /contact", s.handleContactPage)
	mux.HandleFunc("POST /contact", s.handleContactSubmit)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe runs the HTTP server until the context ends, then shuts
// down gracefully. The challenge provider's background load starts here so
// the first submission does not pay the cold-start wait.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("site: server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.controller.Start(ctx)

	serveErr := make(chan error, 1)
	s.logger.Info("site listening", zap.String("addr", s.addr))
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("site: shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("site: serve http: %w", err)
	}
}

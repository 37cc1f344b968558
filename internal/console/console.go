// Package console serves template forms over HTTP and streams generated
// documents back to the browser.
package console

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-docforge/pkg/client"
	"github.com/goliatone/go-docforge/pkg/fieldkind"
	"github.com/goliatone/go-docforge/pkg/form"
	"github.com/goliatone/go-docforge/pkg/render"
	"github.com/goliatone/go-docforge/pkg/render/template/pongo"
)

//go:embed templates/*.tpl
var pageTemplates embed.FS

// Backend is the slice of the REST API the console needs.
type Backend interface {
	FetchSchema(ctx context.Context, templateKey string) (form.Schema, error)
	Generate(ctx context.Context, templateKey string, data any) (*client.Document, error)
}

// Server is the HTTP console.
type Server struct {
	backend  Backend
	renderer render.Renderer
	kinds    *fieldkind.Registry
	pages    *pongo.Engine
	logger   *zap.SugaredLogger
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger routes request logs to logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithKinds sets the kind registry used to parse submissions.
func WithKinds(reg *fieldkind.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.kinds = reg
		}
	}
}

// New wires the routes. renderer must emit HTML fragments.
func New(backend Backend, renderer render.Renderer, opts ...Option) (*Server, error) {
	s := &Server{
		backend:  backend,
		renderer: renderer,
		kinds:    fieldkind.NewRegistry(),
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	sub, err := fs.Sub(pageTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("console: page templates: %w", err)
	}
	pages, err := pongo.New(pongo.WithFS(sub), pongo.WithSetName("docforge-console"))
	if err != nil {
		return nil, fmt.Errorf("console: page templates: %w", err)
	}
	s.pages = pages

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/documents/{key}", s.showForm)
	r.Post("/documents/{key}", s.submitForm)
	s.router = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("console listening", "addr", addr)
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
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("console: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	schema, ok := s.loadSchema(w, r, key)
	if !ok {
		return
	}
	f := form.New(schema.Fields, form.WithRegistry(s.kinds))
	s.writeForm(w, r, http.StatusOK, f, s.formOptions(schema))
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := r.ParseForm(); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Malformed submission", err.Error())
		return
	}
	schema, ok := s.loadSchema(w, r, key)
	if !ok {
		return
	}

	f := form.New(schema.Fields, form.WithRegistry(s.kinds))
	opts := s.formOptions(schema)
	inputErrors := make(map[string][]string)
	for _, field := range f.Fields() {
		raw := r.PostForm.Get(field.Name)
		if err := f.SetInput(field.Name, raw); err != nil {
			inputErrors[field.Name] = []string{inputMessage(err)}
			// keep the rejected text so the user can correct it
			_ = f.Set(field.Name, raw)
		}
	}

	if posted := r.PostForm.Get(render.HiddenVersion); posted != "" && schema.Version != 0 {
		if v, err := strconv.Atoi(posted); err == nil && v != schema.Version {
			opts.Notice = fmt.Sprintf("The template was updated to version %d. Review the form and submit again.", schema.Version)
			s.writeForm(w, r, http.StatusConflict, f, opts)
			return
		}
	}

	payload, err := f.Submit()
	if len(inputErrors) > 0 || err != nil {
		opts = render.ErrorMapping{Fields: inputErrors}.Apply(opts)
		opts = render.MapError(err).Apply(opts)
		s.writeForm(w, r, http.StatusUnprocessableEntity, f, opts)
		return
	}

	doc, err := s.backend.Generate(r.Context(), key, payload)
	if err != nil {
		s.logger.Warnw("document generation failed", "template", key, "error", err)
		s.writeForm(w, r, http.StatusBadGateway, f, render.MapError(err).Apply(opts))
		return
	}

	contentType := doc.ContentType
	if contentType == "" {
		contentType = client.DocxContentType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Body)
	s.logger.Infow("document generated", "template", key, "file", doc.Filename, "bytes", len(doc.Body))
}

func (s *Server) loadSchema(w http.ResponseWriter, r *http.Request, key string) (form.Schema, bool) {
	schema, err := s.backend.FetchSchema(r.Context(), key)
	if err == nil {
		return schema, true
	}
	var apiErr *client.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		s.writeError(w, r, http.StatusNotFound, "Template not found", fmt.Sprintf("No published template %q.", key))
		return form.Schema{}, false
	}
	s.logger.Warnw("schema fetch failed", "template", key, "error", err)
	s.writeError(w, r, http.StatusBadGateway, "Template unavailable", err.Error())
	return form.Schema{}, false
}

func (s *Server) formOptions(schema form.Schema) render.RenderOptions {
	return render.RenderOptions{
		TemplateKey: schema.TemplateKey,
		Version:     schema.Version,
		Action:      "/documents/" + schema.TemplateKey,
		Method:      http.MethodPost,
		Hidden:      render.SchemaFields(schema.TemplateKey, schema.Version),
	}
}

func (s *Server) writeForm(w http.ResponseWriter, r *http.Request, status int, f *form.Form, opts render.RenderOptions) {
	body, err := s.renderer.Render(r.Context(), f, opts)
	if err != nil {
		s.logger.Errorw("render form failed", "template", opts.TemplateKey, "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "Rendering failed", err.Error())
		return
	}
	title := opts.Title
	if title == "" {
		title = opts.TemplateKey
	}
	page, err := s.pages.RenderTemplate("page", map[string]any{"title": title, "body": string(body)})
	if err != nil {
		s.logger.Errorw("render page failed", "template", opts.TemplateKey, "error", err)
		http.Error(w, "rendering failed", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, page)
}

func (s *Server) writeError(w http.ResponseWriter, _ *http.Request, status int, heading, message string) {
	page, err := s.pages.RenderTemplate("error", map[string]any{
		"status":  status,
		"heading": heading,
		"message": message,
	})
	if err != nil {
		http.Error(w, message, status)
		return
	}
	writeHTML(w, status, page)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func writeHTML(w http.ResponseWriter, status int, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(page))
}

func inputMessage(err error) string {
	switch {
	case errors.Is(err, fieldkind.ErrNotNumber):
		return "must be a number"
	case errors.Is(err, fieldkind.ErrNotDate):
		return "must be a date (YYYY-MM-DD)"
	case errors.Is(err, fieldkind.ErrNotOption):
		return "is not one of the options"
	}
	return err.Error()
}

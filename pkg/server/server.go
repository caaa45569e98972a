// Package server provides an HTTP API over the corpus: document
// listing and retrieval, rendered HTML bodies, the skill registry, and
// on-demand validation.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"

	"github.com/skillcase/skillcase/pkg/corpus"
	"github.com/skillcase/skillcase/pkg/logger"
	"github.com/skillcase/skillcase/pkg/registry"
	"github.com/skillcase/skillcase/pkg/validate"
)

// Config holds the configuration for the corpus server
type Config struct {
	Host string
	Port int
}

// Validate validates the server configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server serves the corpus over HTTP. The corpus is reloaded per
// request so edits show up without restarting.
type Server struct {
	router    *mux.Router
	loader    *corpus.Loader
	registry  *registry.Registry
	validator *validate.Validator
	config    *Config
	server    *http.Server
}

// NewServer creates a new corpus server
func NewServer(config *Config, loader *corpus.Loader, reg *registry.Registry, validator *validate.Validator) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}

	s := &Server{
		router:    mux.NewRouter(),
		loader:    loader,
		registry:  reg,
		validator: validator,
		config:    config,
	}

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all the HTTP routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/documents", s.handleListDocuments).Methods("GET")
	api.HandleFunc("/documents/{slug}", s.handleGetDocument).Methods("GET")
	api.HandleFunc("/documents/{slug}/html", s.handleGetDocumentHTML).Methods("GET")
	api.HandleFunc("/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/validate", s.handleValidate).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.corsMiddleware)
}

// Start begins serving and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.G(ctx).WithField("addr", addr).Info("corpus server listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "server failed")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "failed to shut down server")
		}
		return nil
	}
}

func (s *Server) loadCorpus(ctx context.Context) (*corpus.Corpus, error) {
	return s.loader.Load(ctx)
}

type documentResponse struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	Path        string   `json:"path"`
	Body        string   `json:"body,omitempty"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	c, err := s.loadCorpus(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	filter := corpus.Filter{
		Category: r.URL.Query().Get("category"),
		Skill:    r.URL.Query().Get("skill"),
		Tag:      r.URL.Query().Get("tag"),
	}

	docs, err := c.Select(filter)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	resp := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		fm := doc.FrontMatter
		resp = append(resp, documentResponse{
			Title:       fm.Title,
			Slug:        fm.Slug,
			Description: fm.Description,
			Skills:      fm.Skills,
			Category:    fm.Category,
			Tags:        fm.Tags,
			Path:        doc.Path,
		})
	}

	s.writeJSON(w, r, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	c, err := s.loadCorpus(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	doc, err := c.Get(slug)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}

	fm := doc.FrontMatter
	s.writeJSON(w, r, documentResponse{
		Title:       fm.Title,
		Slug:        fm.Slug,
		Description: fm.Description,
		Skills:      fm.Skills,
		Category:    fm.Category,
		Tags:        fm.Tags,
		Path:        doc.Path,
		Body:        doc.Body,
	})
}

func (s *Server) handleGetDocumentHTML(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	c, err := s.loadCorpus(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	doc, err := c.Get(slug)
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err)
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(doc.Body), &buf); err != nil {
		s.writeError(w, r, http.StatusInternalServerError, errors.Wrap(err, "failed to render document"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

type skillResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Homepage    string `json:"homepage,omitempty"`
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	resp := make([]skillResponse, 0, s.registry.Len())
	for _, name := range s.registry.Names() {
		skill, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		resp = append(resp, skillResponse{
			Name:        skill.Name,
			Description: skill.Description,
			Homepage:    skill.Homepage,
		})
	}

	s.writeJSON(w, r, resp)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	c, err := s.loadCorpus(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	result := s.validator.Validate(c)

	status := http.StatusOK
	if !result.OK() {
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to encode validation result")
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.G(r.Context()).WithError(err).Error("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger.G(r.Context()).WithError(err).WithField("status", status).Warn("request failed")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

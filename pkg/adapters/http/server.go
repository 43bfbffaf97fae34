// Package http exposes walkthrough sessions over a JSON API.
package http

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/ladle/internal/logging"
	"github.com/aretw0/ladle/pkg/domain"
)

//go:embed openapi.yaml
var specFS embed.FS

// maxUtteranceLen bounds a single utterance body.
const maxUtteranceLen = 2048

// Engine defines the walkthrough operations the API needs.
type Engine interface {
	LoadRecipe(ctx context.Context, url string) (*domain.Recipe, error)
	Recipe(ctx context.Context, id string) (*domain.Recipe, error)
	CreateSession(ctx context.Context, recipeID string) (string, error)
	Say(ctx context.Context, sessionID, utterance string) (*domain.Response, error)
	State(ctx context.Context, sessionID string) (*domain.WalkState, error)
	EndSession(ctx context.Context, sessionID string) error
}

// Server handles the HTTP API.
type Server struct {
	engine Engine
	logger *slog.Logger
}

type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler builds the router. The embedded OpenAPI document is loaded and
// validated at startup so a drifting spec fails fast, and is served at
// /openapi.yaml with a Swagger UI at /swagger. Metrics from the given
// registry are served at /metrics.
func NewHandler(engine Engine, registry *prometheus.Registry, opts ...Option) (http.Handler, error) {
	server := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(server)
	}

	rawSpec, err := specFS.ReadFile("openapi.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded openapi spec: %w", err)
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("openapi spec is invalid: %w", err)
	}

	r := chi.NewRouter()

	r.Post("/sessions", server.createSession)
	r.Get("/sessions/{sessionId}", server.getState)
	r.Delete("/sessions/{sessionId}", server.deleteSession)
	r.Post("/sessions/{sessionId}/utterances", server.say)
	r.Get("/recipes/{recipeId}", server.getRecipe)
	r.Get("/health", server.getHealth)

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return enableCORS(r), nil
}

type createSessionRequest struct {
	RecipeID string `json:"recipe_id,omitempty"`
	URL      string `json:"url,omitempty"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	RecipeID  string `json:"recipe_id"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	recipeID := body.RecipeID
	if recipeID == "" && body.URL != "" {
		recipe, err := s.engine.LoadRecipe(r.Context(), body.URL)
		if err != nil {
			s.writeError(w, err)
			return
		}
		recipeID = recipe.ID
	}
	if recipeID == "" {
		http.Error(w, "Either recipe_id or url is required", http.StatusBadRequest)
		return
	}

	sessionID, err := s.engine.CreateSession(r.Context(), recipeID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: sessionID,
		RecipeID:  recipeID,
	})
}

type utteranceRequest struct {
	Text string `json:"text"`
}

func (s *Server) say(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var body utteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if len(body.Text) > maxUtteranceLen {
		http.Error(w, "text too long", http.StatusBadRequest)
		return
	}

	resp, err := s.engine.Say(r.Context(), sessionID, body.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	state, err := s.engine.State(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.EndSession(r.Context(), chi.URLParam(r, "sessionId")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.engine.Recipe(r.Context(), chi.URLParam(r, "recipeId"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrRecipeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrUnsupportedSite):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, domain.ErrExtractionFailed), errors.Is(err, domain.ErrInvalidRecipe):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		s.logger.Error("request failed", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Ladle API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

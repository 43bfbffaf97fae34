// Package mcp exposes walkthrough sessions as MCP tools so agent hosts can
// drive a recipe walkthrough over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/ladle"
	"github.com/aretw0/ladle/pkg/domain"
)

// SessionResponse is returned by tools that open a walkthrough session.
type SessionResponse struct {
	SessionID string `json:"session_id" jsonschema_description:"The walkthrough session ID"`
	RecipeID  string `json:"recipe_id" jsonschema_description:"The loaded recipe ID"`
	Title     string `json:"title" jsonschema_description:"The recipe title"`
	NumSteps  int    `json:"num_steps" jsonschema_description:"Number of steps in the recipe"`
}

// Engine defines the walkthrough operations the MCP tools need.
type Engine interface {
	LoadRecipe(ctx context.Context, url string) (*domain.Recipe, error)
	Recipe(ctx context.Context, id string) (*domain.Recipe, error)
	CreateSession(ctx context.Context, recipeID string) (string, error)
	Say(ctx context.Context, sessionID, utterance string) (*domain.Response, error)
	State(ctx context.Context, sessionID string) (*domain.WalkState, error)
	EndSession(ctx context.Context, sessionID string) error
	Sessions(ctx context.Context) ([]string, error)
}

// Server wraps the Ladle Engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server with the walkthrough tools registered.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("ladle-mcp", strings.TrimSpace(ladle.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: load_recipe
	loadTool := mcp.NewTool("load_recipe",
		mcp.WithDescription("Load a recipe (by stored ID or by URL via the extractor) and open a walkthrough session for it."),
		mcp.WithString("recipe_id", mcp.Description("The ID of an already-stored recipe")),
		mcp.WithString("url", mcp.Description("A recipe page URL to extract (used when recipe_id is not given)")),
		mcp.WithOutputSchema[SessionResponse](),
	)
	s.mcpServer.AddTool(loadTool, mcp.NewStructuredToolHandler(s.handleLoadRecipe))

	// TOOL: say
	sayTool := mcp.NewTool("say",
		mcp.WithDescription("Send one user utterance to a walkthrough session: a navigation command (start, next, back, repeat), a recipe question, or anything else."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The walkthrough session ID")),
		mcp.WithString("text", mcp.Required(), mcp.Description("The utterance text")),
		mcp.WithOutputSchema[domain.Response](),
	)
	s.mcpServer.AddTool(sayTool, mcp.NewStructuredToolHandler(s.handleSay))

	// TOOL: get_state
	stateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Get the walkthrough state of a session: current step index and verbatim visit history."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The walkthrough session ID")),
		mcp.WithOutputSchema[domain.WalkState](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleGetState))

	// TOOL: end_session
	s.mcpServer.AddTool(mcp.NewTool("end_session",
		mcp.WithDescription("End a walkthrough session and discard its state."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("The walkthrough session ID")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.engine.EndSession(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("end session failed: %v", err)), nil
		}
		return mcp.NewToolResultText("session ended"), nil
	})
}

func (s *Server) handleLoadRecipe(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SessionResponse, error) {
	recipeID, _ := args["recipe_id"].(string)
	url, _ := args["url"].(string)

	var recipe *domain.Recipe
	var err error
	switch {
	case recipeID != "":
		recipe, err = s.engine.Recipe(ctx, recipeID)
	case url != "":
		recipe, err = s.engine.LoadRecipe(ctx, url)
	default:
		return SessionResponse{}, fmt.Errorf("either recipe_id or url is required")
	}
	if err != nil {
		return SessionResponse{}, fmt.Errorf("load recipe failed: %w", err)
	}

	sessionID, err := s.engine.CreateSession(ctx, recipe.ID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("create session failed: %w", err)
	}

	return SessionResponse{
		SessionID: sessionID,
		RecipeID:  recipe.ID,
		Title:     recipe.Title,
		NumSteps:  recipe.NumSteps(),
	}, nil
}

func (s *Server) handleSay(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Response, error) {
	sessionID, _ := args["session_id"].(string)
	text, _ := args["text"].(string)
	if sessionID == "" || text == "" {
		return domain.Response{}, fmt.Errorf("session_id and text are required")
	}

	resp, err := s.engine.Say(ctx, sessionID, text)
	if err != nil {
		return domain.Response{}, fmt.Errorf("say failed: %w", err)
	}
	return *resp, nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.WalkState, error) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return domain.WalkState{}, fmt.Errorf("session_id is required")
	}

	state, err := s.engine.State(ctx, sessionID)
	if err != nil {
		return domain.WalkState{}, fmt.Errorf("get state failed: %w", err)
	}
	return *state, nil
}

func (s *Server) registerResources() {
	// EXPOSE: ladle://sessions
	s.mcpServer.AddResource(mcp.NewResource("ladle://sessions", "Active Walkthrough Sessions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.engine.Sessions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "ladle://sessions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

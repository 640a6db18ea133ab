package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"KisanGPT/app/chat"
	"KisanGPT/app/configs"
	"KisanGPT/app/metrics"
)

const askPath = "/api/v1/chat/ask"

type HTTPServer struct {
	name  string
	asker Asker
	mcp   *MCPServer
	mux   *http.ServeMux
	cfg   configs.ServerConfig
}

// NewHTTPServer mounts the REST API, the banner and /metrics. When
// cfg.MCPPath is set the MCP server is mounted there as well.
func NewHTTPServer(cfg configs.ServerConfig, asker Asker) *HTTPServer {
	s := &HTTPServer{
		name:  cfg.Name,
		asker: asker,
		mux:   http.NewServeMux(),
		cfg:   cfg,
	}
	s.mux.HandleFunc("POST "+askPath, s.handleAsk)
	s.mux.HandleFunc("GET /{$}", s.handleRoot)
	s.mux.Handle("GET /metrics", metrics.Handler())
	if cfg.MCPPath != "" {
		s.mcp = NewMCPServer(cfg.Name, asker)
		s.mux.Handle(cfg.MCPPath, s.mcp.Handler())
	}
	return s
}

func (s *HTTPServer) Handler() http.Handler { return s.mux }

// Run blocks until ctx is cancelled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("⚠️ Error shutting down HTTP server: %v", err)
		}
	}()

	log.Printf("🚀 %s listening on %s", s.name, s.cfg.Addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

type errorBody struct {
	Detail string `json:"detail"`
}

func (s *HTTPServer) handleAsk(w http.ResponseWriter, r *http.Request) {
	var q chat.ChatQuery
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: "malformed request body: " + err.Error()})
		return
	}
	answer, err := s.asker.Ask(r.Context(), q)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func (s *HTTPServer) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": s.name + " API is running",
		"docs":    "POST " + askPath + " with {\"query\": \"...\", \"language\": \"en\"}",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error writing response: %v", err)
	}
}

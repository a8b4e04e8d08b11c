// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/azrabano23/AI-PolicyBot-ALI2025/cmd/policybot-api/handlers"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/config"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/internal/observability"
	"github.com/azrabano23/AI-PolicyBot-ALI2025/pkg/engine"
)

// NewRouter creates the API router with all routes configured.
func NewRouter(eng *engine.Engine, cfg *config.Config, logger *observability.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))

	chatHandler := handlers.NewChatHandler(logger, eng)
	knowledgeHandler := handlers.NewKnowledgeHandler(logger, eng)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Get("/health", chatHandler.Health)
		r.Post("/search", knowledgeHandler.Search)
		r.Get("/stats", knowledgeHandler.Stats)
		r.Get("/knowledge/{id}", knowledgeHandler.Get)
		r.Post("/knowledge", knowledgeHandler.Upsert)
		r.Post("/refresh-data", knowledgeHandler.RefreshData)
	})

	return r
}

func cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			for _, o := range allowedOrigins {
				if o == "*" || o == origin {
					allowed = true
					break
				}
			}
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Max-Age", "86400")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

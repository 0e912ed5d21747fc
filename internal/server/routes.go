package server

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/directoryai/directoryai/internal/agent"
	"github.com/directoryai/directoryai/internal/audit"
	"github.com/directoryai/directoryai/internal/handler"
	"github.com/directoryai/directoryai/internal/middleware"
	"github.com/directoryai/directoryai/internal/store"
)

// setupRoutes returns (router, db, error) so the database can be closed on shutdown
func (s *Server) setupRoutes() (http.Handler, *sql.DB, error) {
	cfg := s.cfg

	// ─── Storage ────────────────────────────────────────────────────────────────
	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	users := store.NewUserStore(db)

	auditLogger := audit.NewLogger(cfg.EnableAuditLogging)

	// ─── AI Agent ───────────────────────────────────────────────────────────────
	var directoryH *agent.DirectoryHandler
	if cfg.AnthropicAPIKey != "" {
		directoryAgent := agent.NewDirectoryAgent(cfg.AnthropicAPIKey, cfg.Model, cfg.AnthropicBaseURL)
		directoryH = agent.NewDirectoryHandler(directoryAgent, users, auditLogger)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - AI agent disabled")
	}

	// Startup summary — warn clearly about disabled features
	log.Info().
		Str("db_path", cfg.DBPath).
		Bool("agent_enabled", directoryH != nil).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Msg("service configuration")

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	// ─── Handlers ───────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(users)
	usersH := handler.NewUsersHandler(users, auditLogger)
	chatH := handler.NewChatHandler(directoryH, cfg.MaxPromptLength)

	// ─── Router ─────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	// Auth + rate limiting for API routes
	apiMiddleware := []func(http.Handler) http.Handler{
		middleware.RateLimit(cfg.RateLimitPerMinute),
	}
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			// Directory CRUD
			r.Route("/users", func(r chi.Router) {
				r.Post("/", usersH.Create)
				r.Get("/", usersH.List)
				r.Delete("/", usersH.DeleteAll)
				r.Post("/seed", usersH.Seed)
				r.Get("/{user_id}", usersH.Get)
				r.Patch("/{user_id}", usersH.Update)
				r.Delete("/{user_id}", usersH.Delete)
			})

			// AI Agent
			r.Post("/chat", chatH.Chat)
		})
	})

	return r, db, nil
}

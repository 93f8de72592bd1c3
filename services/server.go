package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/careerloop/backend/models"
	"github.com/careerloop/backend/realtime"
	"github.com/careerloop/backend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// Server holds all server dependencies
type Server struct {
	config        *Config
	repo          *repository.GORMRepository
	gormDB        *gorm.DB
	pgPool        *pgxpool.Pool
	counters      *repository.CounterStore
	feed          *realtime.Hub
	geminiService *GeminiService
	predictions   *PredictionService
	documentStore *DocumentStore
	authService   *AuthService

	authEndpoints      *AuthEndpoints
	jobEndpoints       *JobEndpoints
	interviewEndpoints *InterviewEndpoints
	mockEndpoints      *MockEndpoints
	followUpEndpoints  *FollowUpEndpoints
	campaignEndpoints  *CampaignEndpoints
	communityEndpoints *CommunityEndpoints
	documentEndpoints  *DocumentEndpoints

	upgrader websocket.Upgrader
}

func NewServer(config *Config) *Server {
	return &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return CheckOrigin(r, config.WebSocket.AllowedOrigins)
			},
		},
	}
}

// SetDatabase wires the database handles created in main
func (s *Server) SetDatabase(repo *repository.GORMRepository, gormDB *gorm.DB, pgPool *pgxpool.Pool) {
	s.repo = repo
	s.gormDB = gormDB
	s.pgPool = pgPool
}

// SetFeed wires the change-feed hub created in main
func (s *Server) SetFeed(feed *realtime.Hub) {
	s.feed = feed
}

// InitializeServices builds every service from config and the wired handles
func (s *Server) InitializeServices() error {
	if s.config.AI.GeminiAPIKey != "" {
		s.geminiService = NewGeminiService(s.config.AI.GeminiAPIKey)
		slog.Info("Gemini service initialized")
	} else {
		slog.Warn("Gemini API key not configured, AI features disabled")
	}

	if s.pgPool != nil {
		s.counters = repository.NewCounterStore(s.pgPool, s.feed)
		slog.Info("Counter store initialized")
	}

	s.documentStore = NewDocumentStore(s.config.Storage.DocumentRoot)

	if s.repo != nil && s.geminiService != nil && s.feed != nil {
		s.predictions = NewPredictionService(s.repo, s.geminiService, s.feed)
		s.predictions.Start()
	}

	if s.config.JWT.Secret != "" && s.repo != nil {
		s.authService = NewAuthService(s.repo, s.config.JWT.Secret)
		s.authEndpoints = NewAuthEndpoints(s.authService)
		slog.Info("Authentication service initialized")
	}

	if s.repo != nil {
		s.jobEndpoints = NewJobEndpoints(s.repo)
		s.interviewEndpoints = NewInterviewEndpoints(s.repo, s.predictions)
		s.mockEndpoints = NewMockEndpoints(s.repo, s.geminiService)
		s.followUpEndpoints = NewFollowUpEndpoints(s.repo, s.geminiService)
		s.campaignEndpoints = NewCampaignEndpoints(s.repo, s.counters)
		s.communityEndpoints = NewCommunityEndpoints(s.repo, s.counters, s.geminiService)
		s.documentEndpoints = NewDocumentEndpoints(s.repo, s.documentStore, s.config.Storage.MaxUploadMB)
	}

	return nil
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.apiV1Handler)

		if s.authEndpoints != nil {
			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", s.authEndpoints.LoginHandler)
				r.Post("/signup", s.authEndpoints.SignupHandler)
				r.Post("/refresh", s.authEndpoints.RefreshHandler)

				r.Group(func(r chi.Router) {
					r.Use(s.authService.Middleware)
					r.Post("/logout", s.authEndpoints.LogoutHandler)
					r.Get("/me", s.authEndpoints.MeHandler)
				})
			})
		}

		if s.authService == nil {
			return
		}

		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)

			r.Get("/ws", s.websocketHandlerFunc)

			if s.jobEndpoints != nil {
				s.jobEndpoints.RegisterRoutes(r)
			}
			if s.interviewEndpoints != nil {
				s.interviewEndpoints.RegisterRoutes(r)
			}
			if s.mockEndpoints != nil {
				s.mockEndpoints.RegisterRoutes(r)
			}
			if s.followUpEndpoints != nil {
				s.followUpEndpoints.RegisterRoutes(r)
			}
			if s.campaignEndpoints != nil {
				s.campaignEndpoints.RegisterRoutes(r)
			}
			if s.communityEndpoints != nil {
				s.communityEndpoints.RegisterRoutes(r)
			}
			if s.documentEndpoints != nil {
				s.documentEndpoints.RegisterRoutes(r)
			}
		})
	})

	return r
}

// Start runs the HTTP server until interrupted, then shuts down gracefully
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.SetupRoutes(),
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	if s.predictions != nil {
		s.predictions.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

// CheckOrigin validates the origin of WebSocket connections. With no allowed
// origins configured every connection is rejected.
func CheckOrigin(r *http.Request, allowedOriginsStr string) bool {
	origin := r.Header.Get("Origin")

	if allowedOriginsStr == "" {
		slog.Warn("WebSocket connection rejected: no allowed origins configured", "origin", origin)
		return false
	}

	for _, allowed := range strings.Split(allowedOriginsStr, ",") {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}

	slog.Warn("WebSocket connection rejected: origin not allowed", "origin", origin, "allowed_origins", allowedOriginsStr)
	return false
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "not configured"

	if s.gormDB != nil {
		dbStatus = "up"
		if sqlDB, err := s.gormDB.DB(); err != nil || sqlDB.PingContext(r.Context()) != nil {
			dbStatus = "down"
			status = "degraded"
		}
	}
	if s.pgPool != nil && dbStatus == "up" {
		if err := s.pgPool.Ping(r.Context()); err != nil {
			dbStatus = "down"
			status = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"` + status + `","database":"` + dbStatus + `"}`))
}

func (s *Server) apiV1Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message":"API v1","version":"1.0.0"}`))
}

// websocketHandlerFunc upgrades the connection and attaches the client to
// the change feed. Clients pick tables with subscribe frames after connect.
func (s *Server) websocketHandlerFunc(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value("user").(*models.User)
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	slog.Info("WebSocket connection established", "user_id", user.ID)

	client := s.feed.RegisterClient(conn, user.ID)
	go client.ReadPump()
	go client.WritePump()
}

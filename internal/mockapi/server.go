// Package mockapi is an in-memory EcoPulse backend for tests and offline
// development. It serves the same routes and error shapes as the real API.
package mockapi

import (
	"net/http"
	"time"

	"github.com/TechyShie/ecopulse/internal/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Options configures the mock backend.
type Options struct {
	// Secret signs access tokens.
	Secret string
	// TokenTTL defaults to DefaultTokenTTL.
	TokenTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost. Tests use bcrypt.MinCost.
	BcryptCost int
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	Logger         *zap.Logger
	Now            func() time.Time
}

// Server holds the handlers of the mock backend.
type Server struct {
	store    *Store
	tokens   *Tokens
	validate *validator.Validate
	cost     int
	origins  []string
	logger   *zap.Logger
	now      func() time.Time
}

// New returns a mock backend over store.
func New(store *Store, opts Options) *Server {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Server{
		store:    store,
		tokens:   NewTokens(opts.Secret, opts.TokenTTL, opts.Now),
		validate: api.NewValidator(),
		cost:     opts.BcryptCost,
		origins:  opts.AllowedOrigins,
		logger:   opts.Logger,
		now:      opts.Now,
	}
}

// Tokens returns the token issuer, for tests that need a valid token.
func (s *Server) Tokens() *Tokens {
	return s.tokens
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", s.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)
		r.With(AuthMiddleware(s.tokens)).Get("/me", s.handleMe)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(s.tokens))

		r.Get("/dashboard/stats", s.handleDashboardStats)
		r.Get("/dashboard/activities", s.handleDashboardActivities)

		r.Get("/logs", s.handleListLogs)
		r.Post("/logs", s.handleCreateLog)
		r.Put("/logs/{id}", s.handleUpdateLog)
		r.Delete("/logs/{id}", s.handleDeleteLog)

		r.Get("/insights/weekly", s.handleWeekly)
		r.Get("/insights/categories", s.handleCategories)
		r.Get("/insights/summary", s.handleSummary)

		r.Get("/leaderboard", s.handleLeaderboard)

		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handleUpdateProfile)
		r.Get("/profile/badges", s.handleBadges)
		r.Get("/profile/achievements", s.handleAchievements)

		r.Post("/ai/chat", s.handleChat)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("mock request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

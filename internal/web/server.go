// Package web exposes the trainer over a JSON HTTP API.
package web

import (
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Cyber-shmuck/Dutch/internal/auth"
	"github.com/Cyber-shmuck/Dutch/internal/search"
	"github.com/Cyber-shmuck/Dutch/internal/storage"
	"github.com/Cyber-shmuck/Dutch/internal/sync"
	"github.com/Cyber-shmuck/Dutch/internal/translate"
)

// Deps are the services the server dispatches to.
type Deps struct {
	DB         *storage.DB
	Search     *search.Service
	Translator translate.Provider
	Auth       *auth.Service
	Syncer     *sync.Syncer
	Logger     *slog.Logger
	// SecureCookie marks the session cookie Secure.
	SecureCookie bool
	// CORSOrigin enables CORS for one origin when set.
	CORSOrigin string
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	db           *storage.DB
	search       *search.Service
	translator   translate.Provider
	auth         *auth.Service
	syncer       *sync.Syncer
	logger       *slog.Logger
	validate     *validator.Validate
	secureCookie bool
	router       *http.ServeMux
	handler      http.Handler
}

// NewServer creates and configures a new server.
func NewServer(d Deps) *Server {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names in validation errors.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	s := &Server{
		db:           d.DB,
		search:       d.Search,
		translator:   d.Translator,
		auth:         d.Auth,
		syncer:       d.Syncer,
		logger:       d.Logger,
		validate:     v,
		secureCookie: d.SecureCookie,
		router:       http.NewServeMux(),
	}
	s.routes()
	s.handler = Logging(s.logger)(CORS(d.CORSOrigin)(s.auth.Middleware(s.router)))
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("GET /health", s.handleHealth())

	s.router.HandleFunc("GET /api/words", s.handleListWords())
	s.router.HandleFunc("GET /api/words/queue", s.handleQueue())
	s.router.HandleFunc("POST /api/words", s.handleCreateWord())
	s.router.HandleFunc("POST /api/words/{id}/answer", s.handleAnswer())
	s.router.HandleFunc("POST /api/words/{id}/learned", s.handleMarkLearned())
	s.router.HandleFunc("POST /api/words/{id}/undo-learned", s.handleUndoLearned())
	s.router.HandleFunc("PUT /api/words/{id}/repeat-list", s.handleRepeatList())
	s.router.HandleFunc("DELETE /api/words/{id}", s.handleDeleteWord())

	s.router.HandleFunc("GET /api/rules", s.handleListRules())
	s.router.HandleFunc("POST /api/rules", s.handleCreateRule())
	s.router.HandleFunc("PATCH /api/rules/{id}", s.handleUpdateRule())
	s.router.HandleFunc("DELETE /api/rules/{id}", s.handleDeleteRule())

	s.router.HandleFunc("GET /api/verbs", s.handleListVerbs())
	s.router.HandleFunc("PUT /api/verbs/{id}/learned", s.handleVerbLearned())

	s.router.HandleFunc("GET /api/translate", s.handleTranslate())
	s.router.HandleFunc("GET /api/context", s.handleContext())
	s.router.HandleFunc("GET /api/context/count", s.handleContextCount())

	s.router.HandleFunc("POST /api/auth/register", s.handleRegister())
	s.router.HandleFunc("POST /api/auth/login", s.handleLogin())
	s.router.HandleFunc("POST /api/auth/logout", s.handleLogout())
	s.router.Handle("GET /api/auth/user", requireUser(s.handleCurrentUser()))

	// Source management routes require a session.
	s.router.Handle("GET /api/sources", requireUser(s.handleListSources()))
	s.router.Handle("POST /api/sources", requireUser(s.handleAddSource()))
	s.router.Handle("DELETE /api/sources/{id}", requireUser(s.handleDeleteSource()))
	s.router.Handle("POST /api/sync", requireUser(s.handleSync()))
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.Ping(r.Context()); err != nil {
			s.logger.Error("health check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

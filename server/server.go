package server

import (
	"database/sql"
	"net/http"

	"github.com/pkg/errors"

	"github.com/carterisland/portal-auth/auth"
	"github.com/carterisland/portal-auth/cache"
	"github.com/carterisland/portal-auth/internal/config"
)

type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config
	auth   *auth.Service
	cache  *cache.Service
	db     *sql.DB
}

func New(cfg config.Config, authService *auth.Service, cacheService *cache.Service, db *sql.DB) (*Server, error) {
	if authService == nil {
		return nil, errors.New("[Server New] auth service is required")
	}
	if cacheService == nil {
		return nil, errors.New("[Server New] cache service is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: cfg,
		auth:   authService,
		cache:  cacheService,
		db:     db,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

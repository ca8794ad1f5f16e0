package server

import "net/http"

// Method patterns are checked in-handler rather than via mux method
// routing so misuse gets the JSON method-not-allowed shape.
func (s *Server) initRoutes() {
	s.RegisterRouteFunc("/api/auth/login", ChainMiddleware(s.LoginHandler(),
		s.APIMiddleware(Method(http.MethodPost))...))
	s.RegisterRouteFunc("/api/auth/register", ChainMiddleware(s.RegisterHandler(),
		s.APIMiddleware(Method(http.MethodPost))...))
	s.RegisterRouteFunc("/api/auth/me", ChainMiddleware(s.MeHandler(),
		s.APIMiddleware(Method(http.MethodGet), s.RequireAuth())...))
	s.RegisterRouteFunc("/api/health", ChainMiddleware(s.HealthHandler(),
		s.APIMiddleware(Method(http.MethodGet))...))
}

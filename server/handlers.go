package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/carterisland/portal-auth/auth"
	"github.com/carterisland/portal-auth/users"
)

const contentTypeJSON = "application/json; charset=utf-8"

// User-facing messages. The credential mismatch message is byte-identical
// for unknown email, inactive account and wrong password.
const (
	msgMethodNotAllowed = "Method not allowed"
	msgMissingFields    = "Email dan password harus diisi"
	msgBadCredentials   = "Email atau password salah"
	msgLoginOK          = "Login berhasil"
	msgServerError      = "Terjadi kesalahan server"
	msgDuplicateUser    = "Email atau username sudah digunakan"
	msgUserCreated      = "User berhasil dibuat"
	msgNoToken          = "No token provided"
	msgInvalidToken     = "Invalid token"
)

type authResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token,omitempty"`
	User    *users.User `json:"user,omitempty"`
}

func failure(message string) authResponse {
	return authResponse{Success: false, Message: message}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}

// LoginHandler authenticates {email, password} and returns the issued
// token with the non-secret user projection.
func (s *Server) LoginHandler() http.HandlerFunc {
	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, failure(msgMissingFields))
			return
		}

		result, err := s.auth.Login(r.Context(), req.Email, req.Password, clientMeta(r))
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, authResponse{
				Success: true,
				Message: msgLoginOK,
				Token:   result.Token,
				User:    result.User,
			})
		case errors.Is(err, auth.ErrMissingCredentials):
			writeJSON(w, http.StatusBadRequest, failure(msgMissingFields))
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, failure(msgBadCredentials))
		default:
			log.Err(err).Msg("login failed")
			writeJSON(w, http.StatusInternalServerError, failure(msgServerError))
		}
	}
}

// RegisterHandler creates a new user account.
func (s *Server) RegisterHandler() http.HandlerFunc {
	type registerRequest struct {
		Email      string         `json:"email"`
		Password   string         `json:"password"`
		Username   string         `json:"username"`
		FirstName  string         `json:"firstName"`
		LastName   string         `json:"lastName"`
		Role       users.RoleType `json:"role"`
		Department string         `json:"department"`
		Position   string         `json:"position"`
		Phone      string         `json:"phone"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, failure(msgMissingFields))
			return
		}

		created, err := s.auth.Register(r.Context(), auth.NewUser{
			Email:      req.Email,
			Password:   req.Password,
			Username:   req.Username,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Role:       req.Role,
			Department: req.Department,
			Position:   req.Position,
			Phone:      req.Phone,
		})
		switch {
		case err == nil:
			writeJSON(w, http.StatusCreated, authResponse{Success: true, Message: msgUserCreated, User: created})
		case errors.Is(err, auth.ErrMissingCredentials):
			writeJSON(w, http.StatusBadRequest, failure(msgMissingFields))
		case errors.Is(err, auth.ErrDuplicateUser):
			writeJSON(w, http.StatusBadRequest, failure(msgDuplicateUser))
		default:
			log.Err(err).Msg("registration failed")
			writeJSON(w, http.StatusInternalServerError, failure(msgServerError))
		}
	}
}

// MeHandler returns the authenticated caller's non-secret projection.
// Must be chained after RequireAuth.
func (s *Server) MeHandler() http.HandlerFunc {
	type meResponse struct {
		Success bool        `json:"success"`
		User    *users.User `json:"user"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, failure(msgInvalidToken))
			return
		}

		w.Header().Set("Cache-Control", "private, max-age=300")
		writeJSON(w, http.StatusOK, meResponse{Success: true, User: user})
	}
}

// HealthHandler reports database and cache reachability with per-dependency
// latency.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		dbStart := time.Now()
		dbErr := errors.New("database not configured")
		if s.db != nil {
			dbErr = s.db.PingContext(r.Context())
		}
		dbTime := time.Since(dbStart)

		if dbErr != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"status":    "unhealthy",
				"error":     dbErr.Error(),
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}

		cacheStart := time.Now()
		s.cache.Set(r.Context(), "health:check", map[string]any{"timestamp": time.Now().UnixMilli()}, 10)
		_, cacheOK := s.cache.Get(r.Context(), "health:check")
		cacheTime := time.Since(cacheStart)

		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database": map[string]any{
				"connected":    true,
				"responseTime": fmt.Sprintf("%dms", dbTime.Milliseconds()),
			},
			"cache": map[string]any{
				"connected":    cacheOK,
				"responseTime": fmt.Sprintf("%dms", cacheTime.Milliseconds()),
			},
			"totalResponseTime": fmt.Sprintf("%dms", time.Since(start).Milliseconds()),
		})
	}
}

// clientMeta derives the audit metadata: first forwarded-for entry when
// present, else the socket address.
func clientMeta(r *http.Request) auth.ClientMeta {
	ip := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return auth.ClientMeta{
		IPAddress: ip,
		UserAgent: r.Header.Get("User-Agent"),
	}
}

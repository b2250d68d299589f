package web

import (
	"errors"
	"net/http"

	"github.com/Cyber-shmuck/Dutch/internal/auth"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6"`
	Nickname string `json:"nickname" validate:"required,max=50"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (s *Server) handleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !s.decode(w, r, &req) {
			return
		}
		u, sess, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Nickname)
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			respondError(w, http.StatusConflict, codeConflict, err.Error())
			return
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrPasswordTooLong):
			respondFieldError(w, "password", err.Error())
			return
		case err != nil:
			s.logger.Error("registration failed", "error", err)
			respondError(w, http.StatusInternalServerError, codeInternal, "internal error")
			return
		}
		auth.SetCookie(w, sess, s.secureCookie)
		respondJSON(w, http.StatusCreated, u)
	}
}

func (s *Server) handleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !s.decode(w, r, &req) {
			return
		}
		u, sess, err := s.auth.Login(r.Context(), req.Email, req.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, codeUnauthorized, err.Error())
			return
		}
		if err != nil {
			s.logger.Error("login failed", "error", err)
			respondError(w, http.StatusInternalServerError, codeInternal, "internal error")
			return
		}
		auth.SetCookie(w, sess, s.secureCookie)
		respondJSON(w, http.StatusOK, u)
	}
}

func (s *Server) handleLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(auth.CookieName); err == nil {
			if err := s.auth.Logout(r.Context(), c.Value); err != nil {
				s.logger.Warn("failed to delete session", "error", err)
			}
		}
		auth.ClearCookie(w, s.secureCookie)
		respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

func (s *Server) handleCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, _ := auth.UserFromContext(r.Context())
		respondJSON(w, http.StatusOK, u)
	}
}

package api

import (
	"net/http"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/services"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	err := s.AuthService.Register(r.Context(), services.RegisterRequest{Username: req.Username, Password: req.Password})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"username": req.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	res, err := s.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"token":    res.Token,
		"username": res.Session.Username,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess == nil {
		handleError(w, r, errors.NewUnauthorizedError("no active session"))
		return
	}
	if err := s.AuthService.Logout(r.Context(), sess); err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("session closed")
	w.WriteHeader(http.StatusNoContent)
}

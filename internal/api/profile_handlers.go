package api

import (
	"net/http"

	"github.com/vytor/flashstudy/internal/models"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	profile, err := s.ProfileService.GetProfile(r.Context(), sess.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.Profile
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sess := sessionFromContext(r.Context())
	profile, err := s.ProfileService.UpdateProfile(r.Context(), sess.Username, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ProfileService.GetTheme(r.Context(), sessionFromContext(r.Context())))
}

func (s *Server) handleUpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req models.Theme
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	theme, err := s.ProfileService.UpdateTheme(r.Context(), sessionFromContext(r.Context()), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	stats, err := s.StatsService.ComputeStats(r.Context(), sess.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	history, err := s.StatsService.Progress(r.Context(), sess.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	entries, err := s.LeaderboardService.List(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (s *Server) handleLeaderboardEntry(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	entry, err := s.LeaderboardService.Entry(r.Context(), sess.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit")
	if err != nil {
		handleError(w, r, err)
		return
	}
	sess := sessionFromContext(r.Context())
	list, err := s.LeaderboardService.Achievements(r.Context(), sess.Username, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"achievements": list})
}

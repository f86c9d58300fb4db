package api

import (
	"net/http"

	"github.com/vytor/flashstudy/internal/services"
)

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	var opts services.QuizOptions
	if err := decodeOptionalJSON(w, r, &opts); err != nil {
		handleError(w, r, err)
		return
	}

	q, err := s.QuizService.Start(r.Context(), sessionFromContext(r.Context()), opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.QuizService.Current(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	out, err := s.QuizService.Answer(r.Context(), sessionFromContext(r.Context()), req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQuizResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.QuizService.Result(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRecordResult retries saving a finished quiz whose score could not be
// written when the last answer came in.
func (s *Server) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.QuizService.Record(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAbandonQuiz(w http.ResponseWriter, r *http.Request) {
	s.QuizService.Abandon(r.Context(), sessionFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/vytor/flashstudy/internal/cardio"
	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/services"
)

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	q := r.URL.Query()

	filter := services.CardFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
	}
	if raw := q.Get("due"); raw != "" {
		due, err := strconv.ParseBool(raw)
		if err != nil {
			handleError(w, r, errors.NewBadRequestError("invalid due: "+raw))
			return
		}
		filter.DueOnly = due
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"cards": s.CardService.List(r.Context(), sess, filter),
	})
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var req services.NewCard
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	added, err := s.CardService.Add(r.Context(), sessionFromContext(r.Context()), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": s.CardService.Categories(r.Context(), sessionFromContext(r.Context())),
	})
}

func (s *Server) handleEditCard(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var edit models.CardEdit
	if err := decodeJSON(w, r, &edit); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.Edit(r.Context(), sessionFromContext(r.Context()), index, edit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"index": index, "card": card})
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.CardService.Delete(r.Context(), sessionFromContext(r.Context()), index); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScheduleCard(w http.ResponseWriter, r *http.Request) {
	index, err := indexParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req struct {
		Days int `json:"days"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.Schedule(r.Context(), sessionFromContext(r.Context()), index, req.Days)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"index": index, "card": card})
}

func (s *Server) handleSaveCards(w http.ResponseWriter, r *http.Request) {
	n, err := s.CardService.Save(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"saved": n})
}

func (s *Server) handleLoadCards(w http.ResponseWriter, r *http.Request) {
	n, err := s.CardService.Load(r.Context(), sessionFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"loaded": n})
}

// formatParam reads ?format=, falling back to the extension of ?filename=
// and then to JSON.
func formatParam(r *http.Request) (cardio.Format, error) {
	q := r.URL.Query()
	if raw := q.Get("format"); raw != "" {
		return cardio.ParseFormat(raw)
	}
	if name := q.Get("filename"); name != "" {
		return cardio.FormatFromPath(name)
	}
	return cardio.JSON, nil
}

func (s *Server) handleImportCards(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	n, err := s.CardService.Import(r.Context(), sessionFromContext(r.Context()), body, format)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": n})
}

func (s *Server) handleExportCards(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sess := sessionFromContext(r.Context())
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.Username+"_flashcards."+string(format)))
	if _, err := s.CardService.Export(r.Context(), sess, w, format); err != nil {
		handleError(w, r, err)
	}
}

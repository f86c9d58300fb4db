package filestore

import (
	"context"

	apperrors "github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

type scoreRepository struct {
	dir *Dir
}

// NewScoreRepository stores each user's score history in <user>_stats.json.
func NewScoreRepository(dir *Dir) repository.ScoreRepository {
	return &scoreRepository{dir: dir}
}

func (r *scoreRepository) Append(ctx context.Context, username string, record models.ScoreRecord) error {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("appending score: username=%s, score=%d/%d", username, record.Score, record.Total)

	path, err := r.dir.userPath(username, statsSuffix)
	if err != nil {
		return err
	}

	r.dir.mu.Lock()
	defer r.dir.mu.Unlock()

	var history []models.ScoreRecord
	if _, err := readJSON(path, &history); err != nil {
		log.Error("failed to read score history: %v", err)
		return apperrors.NewIOFailureError("read score history", err)
	}
	history = append(history, record)
	if err := writeJSON(path, history); err != nil {
		log.Error("failed to write score history: %v", err)
		return apperrors.NewIOFailureError("write score history", err)
	}
	return nil
}

func (r *scoreRepository) List(ctx context.Context, username string) ([]models.ScoreRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("score_repo")
	log.Debug("listing scores: username=%s", username)

	path, err := r.dir.userPath(username, statsSuffix)
	if err != nil {
		return nil, err
	}

	history := []models.ScoreRecord{}
	if _, err := readJSON(path, &history); err != nil {
		log.Error("failed to read score history: %v", err)
		return nil, apperrors.NewIOFailureError("read score history", err)
	}
	if history == nil {
		history = []models.ScoreRecord{}
	}
	log.Debug("found %d score records", len(history))
	return history, nil
}

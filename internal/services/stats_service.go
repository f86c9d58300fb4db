package services

import (
	"context"

	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

// StatsService summarizes score histories
type StatsService interface {
	ComputeStats(ctx context.Context, username string) (models.Stats, error)
	Progress(ctx context.Context, username string) ([]models.ScoreRecord, error)
}

type statsService struct {
	scoreRepo repository.ScoreRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(scoreRepo repository.ScoreRepository) StatsService {
	return &statsService{scoreRepo: scoreRepo}
}

// Summarize returns the count and mean score of history. An empty history
// averages to zero.
func Summarize(history []models.ScoreRecord) models.Stats {
	if len(history) == 0 {
		return models.Stats{}
	}
	sum := 0
	for _, r := range history {
		sum += r.Score
	}
	return models.Stats{Count: len(history), Average: float64(sum) / float64(len(history))}
}

func (s *statsService) ComputeStats(ctx context.Context, username string) (models.Stats, error) {
	log := logger.FromContext(ctx).WithPrefix("stats")
	log.Debug("computing stats: username=%s", username)

	history, err := s.scoreRepo.List(ctx, username)
	if err != nil {
		log.Error("failed to read score history: %v", err)
		return models.Stats{}, appError(err)
	}
	stats := Summarize(history)
	log.Debug("stats computed: count=%d, average=%.2f", stats.Count, stats.Average)
	return stats, nil
}

func (s *statsService) Progress(ctx context.Context, username string) ([]models.ScoreRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("stats")
	log.Debug("reading progress: username=%s", username)

	history, err := s.scoreRepo.List(ctx, username)
	if err != nil {
		log.Error("failed to read score history: %v", err)
		return nil, appError(err)
	}
	if history == nil {
		history = []models.ScoreRecord{}
	}
	return history, nil
}

package services

import (
	"context"

	"github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

// LeaderboardService reads the leaderboard and achievement log
type LeaderboardService interface {
	List(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	Entry(ctx context.Context, username string) (*models.LeaderboardEntry, error)
	Achievements(ctx context.Context, username string, limit int) ([]models.Achievement, error)
}

type leaderboardService struct {
	leaderboardRepo repository.LeaderboardRepository
	achievementRepo repository.AchievementRepository
	defaultLimit    int
}

// NewLeaderboardService creates a new LeaderboardService. defaultLimit
// applies when a caller passes limit <= 0.
func NewLeaderboardService(leaderboardRepo repository.LeaderboardRepository, achievementRepo repository.AchievementRepository, defaultLimit int) LeaderboardService {
	return &leaderboardService{
		leaderboardRepo: leaderboardRepo,
		achievementRepo: achievementRepo,
		defaultLimit:    defaultLimit,
	}
}

func (s *leaderboardService) limit(n int) int {
	if n <= 0 {
		return s.defaultLimit
	}
	return n
}

func (s *leaderboardService) List(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard")
	log.Debug("listing leaderboard: limit=%d", limit)

	entries, err := s.leaderboardRepo.List(ctx, s.limit(limit))
	if err != nil {
		log.Error("failed to list leaderboard: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return entries, nil
}

func (s *leaderboardService) Entry(ctx context.Context, username string) (*models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard")
	log.Debug("getting leaderboard entry: username=%s", username)

	entry, err := s.leaderboardRepo.Get(ctx, username)
	if err != nil {
		log.Error("failed to get leaderboard entry: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entry == nil {
		return nil, errors.NewNotFoundError("leaderboard entry", username)
	}
	return entry, nil
}

func (s *leaderboardService) Achievements(ctx context.Context, username string, limit int) ([]models.Achievement, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard")
	log.Debug("listing achievements: username=%s", username)

	list, err := s.achievementRepo.ListByUser(ctx, username, limit)
	if err != nil {
		log.Error("failed to list achievements: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return list, nil
}

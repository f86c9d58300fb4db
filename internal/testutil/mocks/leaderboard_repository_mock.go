package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashstudy/internal/models"
)

// MockLeaderboardRepository is a mock implementation of repository.LeaderboardRepository
type MockLeaderboardRepository struct {
	mock.Mock
}

func (m *MockLeaderboardRepository) Upsert(ctx context.Context, username string, score int) error {
	args := m.Called(ctx, username, score)
	return args.Error(0)
}

func (m *MockLeaderboardRepository) Get(ctx context.Context, username string) (*models.LeaderboardEntry, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepository) List(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LeaderboardEntry), args.Error(1)
}

// MockAchievementRepository is a mock implementation of repository.AchievementRepository
type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) Insert(ctx context.Context, achievement models.Achievement) (int64, error) {
	args := m.Called(ctx, achievement)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAchievementRepository) ListByUser(ctx context.Context, username string, limit int) ([]models.Achievement, error) {
	args := m.Called(ctx, username, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Achievement), args.Error(1)
}

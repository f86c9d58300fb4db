package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashstudy/internal/models"
)

// MockScoreRepository is a mock implementation of repository.ScoreRepository
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) Append(ctx context.Context, username string, record models.ScoreRecord) error {
	args := m.Called(ctx, username, record)
	return args.Error(0)
}

func (m *MockScoreRepository) List(ctx context.Context, username string) ([]models.ScoreRecord, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScoreRecord), args.Error(1)
}

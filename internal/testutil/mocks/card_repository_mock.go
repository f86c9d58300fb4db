package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashstudy/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Save(ctx context.Context, username string, cards []models.Flashcard) error {
	args := m.Called(ctx, username, cards)
	return args.Error(0)
}

func (m *MockCardRepository) Load(ctx context.Context, username string) ([]models.Flashcard, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Flashcard), args.Error(1)
}

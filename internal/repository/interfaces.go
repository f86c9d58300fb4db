package repository

import (
	"context"

	"github.com/vytor/flashstudy/internal/models"
)

// CardRepository persists a user's whole card collection.
type CardRepository interface {
	// Save overwrites the stored collection.
	Save(ctx context.Context, username string, cards []models.Flashcard) error
	// Load returns a NOT_FOUND error when nothing was saved for the user.
	Load(ctx context.Context, username string) ([]models.Flashcard, error)
}

// ScoreRepository keeps the append-only score history of each user.
type ScoreRepository interface {
	Append(ctx context.Context, username string, record models.ScoreRecord) error
	// List returns an empty history when nothing was recorded.
	List(ctx context.Context, username string) ([]models.ScoreRecord, error)
}

// ProfileRepository handles profile data access
type ProfileRepository interface {
	// Get returns nil, nil when the user has no profile.
	Get(ctx context.Context, username string) (*models.Profile, error)
	Save(ctx context.Context, username string, profile models.Profile) error
}

// CredentialRepository stores password hashes by username.
type CredentialRepository interface {
	// Get returns nil, nil for unknown usernames.
	Get(ctx context.Context, username string) (*models.Credential, error)
	// Create returns a CONFLICT error when the username is taken.
	Create(ctx context.Context, cred models.Credential) error
}

// LeaderboardRepository keeps one current score per user.
type LeaderboardRepository interface {
	Upsert(ctx context.Context, username string, score int) error
	// Get returns nil, nil when the user has no entry.
	Get(ctx context.Context, username string) (*models.LeaderboardEntry, error)
	// List orders by score descending, then username ascending. limit <= 0
	// returns every entry.
	List(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
}

// AchievementRepository handles achievement log access
type AchievementRepository interface {
	Insert(ctx context.Context, achievement models.Achievement) (int64, error)
	// ListByUser returns newest first. limit <= 0 returns every entry.
	ListByUser(ctx context.Context, username string, limit int) ([]models.Achievement, error)
}

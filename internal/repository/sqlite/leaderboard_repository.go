package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

type leaderboardRepository struct {
	db *sql.DB
}

// NewLeaderboardRepository creates a new LeaderboardRepository implementation
func NewLeaderboardRepository(db *sql.DB) repository.LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) Upsert(ctx context.Context, username string, score int) error {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_repo")
	log.Debug("upserting leaderboard entry: username=%s, score=%d", username, score)

	query, args, err := sqlBuilder.Insert("leaderboard").
		Columns("username", "score").
		Values(username, score).
		Suffix("ON CONFLICT(username) DO UPDATE SET score = excluded.score").
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to upsert leaderboard entry: %v", err)
		return err
	}
	return nil
}

func (r *leaderboardRepository) Get(ctx context.Context, username string) (*models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_repo")
	log.Debug("getting leaderboard entry: username=%s", username)

	query, args, err := sqlBuilder.Select("username", "score").
		From("leaderboard").
		Where(squirrel.Eq{"username": username}).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var e models.LeaderboardEntry
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&e.Username, &e.Score)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("leaderboard entry not found: username=%s", username)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get leaderboard entry: %v", err)
		return nil, err
	}
	return &e, nil
}

func (r *leaderboardRepository) List(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_repo")
	log.Debug("listing leaderboard: limit=%d", limit)

	q := sqlBuilder.Select("username", "score").
		From("leaderboard").
		OrderBy("score DESC", "username ASC")
	query, args, err := withLimit(q, limit).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.Username, &e.Score); err != nil {
			log.Error("failed to scan leaderboard row: %v", err)
			return nil, err
		}
		entries = append(entries, e)
	}
	log.Debug("found %d leaderboard entries", len(entries))
	return entries, rows.Err()
}

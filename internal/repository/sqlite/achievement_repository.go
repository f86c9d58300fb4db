package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository"
)

type achievementRepository struct {
	db *sql.DB
}

// NewAchievementRepository creates a new AchievementRepository implementation
func NewAchievementRepository(db *sql.DB) repository.AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) Insert(ctx context.Context, a models.Achievement) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("inserting achievement: username=%s, score=%d, date=%s", a.Username, a.Score, a.Date)

	query, args, err := sqlBuilder.Insert("achievements").
		Columns("username", "score", "date").
		Values(a.Username, a.Score, a.Date).
		ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert achievement: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get achievement id: %v", err)
		return 0, err
	}
	log.Debug("achievement inserted: id=%d", id)
	return id, nil
}

func (r *achievementRepository) ListByUser(ctx context.Context, username string, limit int) ([]models.Achievement, error) {
	log := logger.FromContext(ctx).WithPrefix("achievement_repo")
	log.Debug("listing achievements: username=%s, limit=%d", username, limit)

	q := sqlBuilder.Select("id", "username", "score", "date").
		From("achievements").
		Where(squirrel.Eq{"username": username}).
		OrderBy("id DESC")
	query, args, err := withLimit(q, limit).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list achievements: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.Achievement{}
	for rows.Next() {
		var a models.Achievement
		if err := rows.Scan(&a.ID, &a.Username, &a.Score, &a.Date); err != nil {
			log.Error("failed to scan achievement row: %v", err)
			return nil, err
		}
		out = append(out, a)
	}
	log.Debug("found %d achievements", len(out))
	return out, rows.Err()
}

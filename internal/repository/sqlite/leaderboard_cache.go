package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/Pavlentiyys/digitalFest/internal/logger"
	"github.com/Pavlentiyys/digitalFest/internal/models"
	"github.com/Pavlentiyys/digitalFest/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type leaderboardCache struct {
	db *sql.DB
}

// NewLeaderboardCache creates a new LeaderboardCache implementation
func NewLeaderboardCache(db *sql.DB) repository.LeaderboardCache {
	return &leaderboardCache{db: db}
}

func (r *leaderboardCache) Replace(ctx context.Context, students []models.Student) error {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_cache")
	log.Debug("replacing leaderboard snapshot with %d entries", len(students))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_cache`); err != nil {
			log.Error("failed to clear leaderboard cache: %v", err)
			return err
		}
		for _, s := range students {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO leaderboard_cache (telegram_id, subject_id, username, study_group, coins, fetched_at)
VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
`, s.TelegramID, s.SubjectID, s.Username, s.Group, s.Coins); err != nil {
				log.Error("failed to insert leaderboard entry: %v", err)
				return err
			}
		}
		return nil
	})
}

func (r *leaderboardCache) List(ctx context.Context, filter repository.StudentFilter) ([]models.Student, error) {
	log := logger.FromContext(ctx).WithPrefix("leaderboard_cache")
	log.Debug("listing cached leaderboard: group=%s, limit=%d", filter.Group, filter.Limit)

	query := sqlBuilder.Select("telegram_id", "subject_id", "username", "study_group", "coins").
		From("leaderboard_cache").
		OrderBy("coins DESC", "username ASC")

	// Dynamic WHERE clauses
	if filter.Group != "" {
		query = query.Where(squirrel.Eq{"study_group": filter.Group})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build leaderboard query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cached leaderboard: %v", err)
		return nil, err
	}
	defer rows.Close()

	var students []models.Student
	for rows.Next() {
		var s models.Student
		if err := rows.Scan(&s.TelegramID, &s.SubjectID, &s.Username, &s.Group, &s.Coins); err != nil {
			log.Error("failed to scan leaderboard row: %v", err)
			return nil, err
		}
		students = append(students, s)
	}

	log.Debug("found %d cached entries", len(students))
	return students, rows.Err()
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/teamroster/internal/model"
)

// PostgresGoalRepo はPostgreSQLを使用した目標リポジトリ。
type PostgresGoalRepo struct {
	db *sql.DB
}

// NewPostgresGoalRepo はPostgresGoalRepoを生成する。
func NewPostgresGoalRepo(db *sql.DB) *PostgresGoalRepo {
	return &PostgresGoalRepo{db: db}
}

// ListActiveGoals はユーザーのアクティブな目標を終了日の昇順で返す。
// 終了日のない目標は末尾に並ぶ。
func (r *PostgresGoalRepo) ListActiveGoals(ctx context.Context, userID int64) ([]model.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, goal_name, status, start_date, end_date, progress, updated_at
		 FROM goals
		 WHERE user_id = $1 AND NOT (status = ANY($2))
		 ORDER BY end_date ASC NULLS LAST, id`,
		userID, pq.Array(model.InactiveGoalStatuses),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active goals: %w", err)
	}
	defer rows.Close()

	goals := []model.Goal{}
	for rows.Next() {
		var (
			g         model.Goal
			startDate sql.NullTime
			endDate   sql.NullTime
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Status, &startDate, &endDate, &g.Progress, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		g.StartDate = nullTimePtr(startDate)
		g.EndDate = nullTimePtr(endDate)
		g.UpdatedAt = nullTimePtr(updatedAt)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return goals, nil
}

// ListUpdates は目標の進捗更新を作成日時の新しい順に返す。
func (r *PostgresGoalRepo) ListUpdates(ctx context.Context, goalID int64) ([]model.GoalUpdate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, goal_id, created_at, status_after, progress_after, content
		 FROM goal_updates
		 WHERE goal_id = $1
		 ORDER BY created_at DESC NULLS LAST, id DESC`,
		goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list goal updates: %w", err)
	}
	defer rows.Close()

	updates := []model.GoalUpdate{}
	for rows.Next() {
		var (
			u             model.GoalUpdate
			createdAt     sql.NullTime
			progressAfter sql.NullInt64
		)
		if err := rows.Scan(&u.ID, &u.GoalID, &createdAt, &u.StatusAfter, &progressAfter, &u.Content); err != nil {
			return nil, fmt.Errorf("failed to scan goal update: %w", err)
		}
		u.CreatedAt = nullTimePtr(createdAt)
		u.ProgressAfter = nullIntPtr(progressAfter)
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goal updates: %w", err)
	}

	return updates, nil
}

// compile-time interface check
var _ GoalRepository = (*PostgresGoalRepo)(nil)

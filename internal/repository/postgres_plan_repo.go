package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/teamroster/internal/model"
)

// PostgresPlanRepo はuser_plansテーブルから契約プランのラベルを読む。
type PostgresPlanRepo struct {
	db *sql.DB
}

// NewPostgresPlanRepo はPostgresPlanRepoを生成する。
func NewPostgresPlanRepo(db *sql.DB) *PostgresPlanRepo {
	return &PostgresPlanRepo{db: db}
}

// FindByUserID は指定ユーザーのプランを返す。レコードがない場合はnil。
// ラベルは正規化せずに返し、判定はroster.Gateで行う。
func (r *PostgresPlanRepo) FindByUserID(ctx context.Context, userID int64) (*model.Plan, error) {
	return findOne(ctx, r.db, "plan",
		`SELECT user_id, current_plan FROM user_plans WHERE user_id = $1`, []any{userID},
		func(row rowScanner, p *model.Plan) error {
			return row.Scan(&p.UserID, &p.Label)
		})
}

var _ PlanRepository = (*PostgresPlanRepo)(nil)

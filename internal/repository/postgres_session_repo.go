package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/teamroster/internal/model"
)

// PostgresSessionRepo はホスト側の認証基盤が書き込むsessionsテーブルを参照する。
// 発行と破棄は行わない。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

const findLiveSessionQuery = `
SELECT id, user_id, expires_at, created_at
FROM sessions
WHERE id = $1 AND expires_at > now()`

// FindByID は有効期限内のセッションを返す。期限切れまたは存在しない場合はnil。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, nil
	}
	return findOne(ctx, r.db, "session", findLiveSessionQuery, []any{id},
		func(row rowScanner, s *model.Session) error {
			return row.Scan(&s.ID, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
		})
}

var _ SessionRepository = (*PostgresSessionRepo)(nil)

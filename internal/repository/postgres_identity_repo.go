package repository

import (
	"context"
	"database/sql"

	"github.com/hitoshi/teamroster/internal/model"
)

// PostgresIdentityRepo はusersテーブルからメンバーの表示用プロフィールを読む。
type PostgresIdentityRepo struct {
	db *sql.DB
}

// NewPostgresIdentityRepo はPostgresIdentityRepoを生成する。
func NewPostgresIdentityRepo(db *sql.DB) *PostgresIdentityRepo {
	return &PostgresIdentityRepo{db: db}
}

const findIdentityQuery = `
SELECT id, first_name, last_name, display_name, email, title, avatar_key
FROM users
WHERE id = $1`

// FindByID はユーザーのプロフィールを返す。退会などで存在しない場合はnil。
// ロスターではnilのメンバーを描画対象から外す。
func (r *PostgresIdentityRepo) FindByID(ctx context.Context, id int64) (*model.Identity, error) {
	return findOne(ctx, r.db, "user", findIdentityQuery, []any{id},
		func(row rowScanner, u *model.Identity) error {
			return row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.DisplayName,
				&u.Email, &u.Title, &u.AvatarKey)
		})
}

var _ IdentityRepository = (*PostgresIdentityRepo)(nil)

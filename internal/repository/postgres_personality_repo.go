package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/teamroster/internal/model"
)

// PostgresPersonalityRepo はPostgreSQLを使用したパーソナリティ特性リポジトリ。
type PostgresPersonalityRepo struct {
	db *sql.DB
}

// NewPostgresPersonalityRepo はPostgresPersonalityRepoを生成する。
func NewPostgresPersonalityRepo(db *sql.DB) *PostgresPersonalityRepo {
	return &PostgresPersonalityRepo{db: db}
}

// ListByUserID はユーザーの特性レコードを特性名の昇順で返す。
func (r *PostgresPersonalityRepo) ListByUserID(ctx context.Context, userID int64) ([]model.TraitRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, trait, high_trait_type, high_trait_type_value,
		        low_trait_type, low_trait_type_value, user_primary_trait
		 FROM personality_summaries
		 WHERE user_id = $1
		 ORDER BY trait, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list personality summaries: %w", err)
	}
	defer rows.Close()

	records := []model.TraitRecord{}
	for rows.Next() {
		var (
			rec       model.TraitRecord
			highValue sql.NullInt64
			lowValue  sql.NullInt64
		)
		if err := rows.Scan(
			&rec.UserID, &rec.Trait, &rec.HighType, &highValue,
			&rec.LowType, &lowValue, &rec.PrimaryTrait,
		); err != nil {
			return nil, fmt.Errorf("failed to scan personality summary: %w", err)
		}
		rec.HighValue = nullIntPtr(highValue)
		rec.LowValue = nullIntPtr(lowValue)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate personality summaries: %w", err)
	}

	return records, nil
}

// compile-time interface check
var _ PersonalityRepository = (*PostgresPersonalityRepo)(nil)

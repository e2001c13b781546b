package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// rowScanner は*sql.Rowと*sql.Rowsに共通するScanを表す。
type rowScanner interface {
	Scan(dest ...any) error
}

// findOne は1行を返すクエリを実行し、scanで値を詰める。
// 該当行がない場合は(nil, nil)を返す。whatはエラーメッセージ用の対象名。
func findOne[T any](ctx context.Context, db *sql.DB, what, query string, args []any, scan func(rowScanner, *T) error) (*T, error) {
	v := new(T)
	err := scan(db.QueryRowContext(ctx, query, args...), v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find %s: %w", what, err)
	}
	return v, nil
}

// nullTimePtr はsql.NullTimeをポインタに変換する。NULLの場合はnilを返す。
func nullTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// nullIntPtr はsql.NullInt64をintポインタに変換する。NULLの場合はnilを返す。
func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

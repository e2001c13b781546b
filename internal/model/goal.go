// Package model はドメインモデルを定義する。
package model

import "time"

// Goal はユーザーごとの目標を表す。
type Goal struct {
	ID        int64
	UserID    int64
	Name      string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Progress  int // 0〜100
	UpdatedAt *time.Time
}

// GoalUpdate は目標の進捗更新履歴の1件を表す。
type GoalUpdate struct {
	ID            int64
	GoalID        int64
	CreatedAt     *time.Time
	StatusAfter   string
	ProgressAfter *int
	Content       string // 未サニタイズのHTMLを含みうる
}

// InactiveGoalStatuses はアクティブとみなさない目標ステータスの一覧。
// 保存されている文字列と大文字小文字を区別して比較する。
var InactiveGoalStatuses = []string{"Complete", "Canceled", "Cancelled", "Archived"}

// IsActiveGoalStatus はステータスがアクティブな目標を表すかどうかを判定する。
func IsActiveGoalStatus(status string) bool {
	for _, s := range InactiveGoalStatuses {
		if status == s {
			return false
		}
	}
	return true
}

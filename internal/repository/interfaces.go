// Package repository はデータストアへの読み取りインターフェースを定義する。
// いずれのデータも外部システムが所有しており、このサービスは更新しない。
package repository

import (
	"context"

	"github.com/hitoshi/teamroster/internal/model"
)

// PlanRepository は契約プランの読み取りインターフェース。
type PlanRepository interface {
	// FindByUserID は指定ユーザーのプランを取得する。レコードがない場合はnilを返す。
	FindByUserID(ctx context.Context, userID int64) (*model.Plan, error)
}

// TeamRepository は組織・チーム所属の読み取りインターフェース。
type TeamRepository interface {
	// ListTeamsForUser はユーザーが所属するチームを所属順に返す。
	// 所属がない場合は空スライスを返す。
	ListTeamsForUser(ctx context.Context, userID int64) ([]model.Team, error)

	// ListMembers はチームの所属レコードを返す。
	// 存在しないチームやメンバーのいないチームでは空スライスを返す。
	ListMembers(ctx context.Context, teamID int64) ([]model.MembershipRecord, error)

	// IsTeamLead はユーザーが指定チームのリーダーかどうかを返す。
	IsTeamLead(ctx context.Context, userID, teamID int64) (bool, error)
}

// IdentityRepository はユーザー情報の読み取りインターフェース。
type IdentityRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Identity, error)
}

// GoalRepository は目標と進捗更新の読み取りインターフェース。
type GoalRepository interface {
	// ListActiveGoals はユーザーのアクティブな目標を終了日の昇順で返す。
	ListActiveGoals(ctx context.Context, userID int64) ([]model.Goal, error)

	// ListUpdates は目標の進捗更新を新しい順に返す。
	ListUpdates(ctx context.Context, goalID int64) ([]model.GoalUpdate, error)
}

// PersonalityRepository はパーソナリティ特性集計の読み取りインターフェース。
type PersonalityRepository interface {
	// ListByUserID はユーザーの特性レコードを特性名の昇順で返す。
	ListByUserID(ctx context.Context, userID int64) ([]model.TraitRecord, error)
}

// SessionRepository はセッションの読み取りインターフェース。
type SessionRepository interface {
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/teamroster/internal/model"
)

// PostgresTeamRepo はPostgreSQLを使用したチーム所属リポジトリ。
type PostgresTeamRepo struct {
	db *sql.DB
}

// NewPostgresTeamRepo はPostgresTeamRepoを生成する。
func NewPostgresTeamRepo(db *sql.DB) *PostgresTeamRepo {
	return &PostgresTeamRepo{db: db}
}

// ListTeamsForUser はユーザーが所属するチームを所属日時の古い順に返す。
func (r *PostgresTeamRepo) ListTeamsForUser(ctx context.Context, userID int64) ([]model.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.name
		 FROM team_members tm
		 JOIN teams t ON t.id = tm.team_id
		 WHERE tm.user_id = $1
		 ORDER BY tm.joined_at, t.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for user: %w", err)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate teams: %w", err)
	}

	return teams, nil
}

// ListMembers はチームの所属レコードを所属日時の古い順に返す。
// 役割ラベルはここでRoleに変換する。
func (r *PostgresTeamRepo) ListMembers(ctx context.Context, teamID int64) ([]model.MembershipRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, team_id, role_type
		 FROM team_members
		 WHERE team_id = $1
		 ORDER BY joined_at, user_id`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := []model.MembershipRecord{}
	for rows.Next() {
		var m model.MembershipRecord
		if err := rows.Scan(&m.UserID, &m.TeamID, &m.RoleLabel); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		m.Role = model.ParseRole(m.RoleLabel)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team members: %w", err)
	}

	return members, nil
}

// IsTeamLead はユーザーが指定チームのリーダーかどうかを返す。
// 所属していない場合はfalseを返す。
func (r *PostgresTeamRepo) IsTeamLead(ctx context.Context, userID, teamID int64) (bool, error) {
	var label string
	err := r.db.QueryRowContext(ctx,
		`SELECT role_type FROM team_members WHERE user_id = $1 AND team_id = $2`,
		userID, teamID,
	).Scan(&label)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to find team role: %w", err)
	}

	return model.ParseRole(label) == model.RoleLead, nil
}

// compile-time interface check
var _ TeamRepository = (*PostgresTeamRepo)(nil)

package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/repository"
)

// MembershipResolver はユーザーの所属チームとチームのメンバー一覧を解決する。
type MembershipResolver struct {
	teams repository.TeamRepository
}

// NewMembershipResolver はMembershipResolverを生成する。
func NewMembershipResolver(teams repository.TeamRepository) *MembershipResolver {
	return &MembershipResolver{teams: teams}
}

// PrimaryTeam はユーザーの主チームを返す。所属がない場合はnilを返す。
// 複数所属の場合はストアが返す順序の先頭を主チームとする。
func (r *MembershipResolver) PrimaryTeam(ctx context.Context, userID int64) (*model.Team, error) {
	teams, err := r.teams.ListTeamsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, nil
	}
	team := teams[0]
	return &team, nil
}

// Roster はチームの所属レコードを返す。
// nilや存在しないチームでも空スライスを返し、エラーにはしない。
func (r *MembershipResolver) Roster(ctx context.Context, team *model.Team) ([]model.MembershipRecord, error) {
	if team == nil || team.ID <= 0 {
		return []model.MembershipRecord{}, nil
	}
	members, err := r.teams.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	if members == nil {
		members = []model.MembershipRecord{}
	}
	return members, nil
}

// leadMemo は1回の描画内でリーダー判定の結果をキャッシュする。
// エンリッチは並行に行われるためmutexで保護する。
type leadMemo struct {
	mu     sync.Mutex
	teams  repository.TeamRepository
	teamID int64
	logger *slog.Logger
	cache  map[int64]bool
}

func newLeadMemo(teams repository.TeamRepository, teamID int64, logger *slog.Logger) *leadMemo {
	return &leadMemo{
		teams:  teams,
		teamID: teamID,
		logger: logger,
		cache:  make(map[int64]bool),
	}
}

// isLead はユーザーがチームのリーダーかどうかを返す。
// 参照失敗時はリーダーではないものとして扱い、結果はキャッシュしない。
func (m *leadMemo) isLead(ctx context.Context, userID int64) bool {
	m.mu.Lock()
	if v, ok := m.cache[userID]; ok {
		m.mu.Unlock()
		return v
	}
	m.mu.Unlock()

	lead, err := m.teams.IsTeamLead(ctx, userID, m.teamID)
	if err != nil {
		m.logger.Warn("team lead lookup failed",
			slog.Int64("user_id", userID),
			slog.Int64("team_id", m.teamID),
			slog.String("error", err.Error()),
		)
		return false
	}

	m.mu.Lock()
	m.cache[userID] = lead
	m.mu.Unlock()
	return lead
}

package fixture

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/repository"
)

// Store はフィクスチャから構築したインメモリのデータストア。
// すべてのリポジトリインターフェースを実装し、読み取りは並行に行える。
type Store struct {
	mu         sync.RWMutex
	identities map[int64]model.Identity
	plans      map[int64]model.Plan
	sessions   map[string]model.Session
	teams      []model.Team
	members    map[int64][]model.MembershipRecord
	goals      map[int64][]model.Goal
	updates    map[int64][]model.GoalUpdate
	traits     map[int64][]model.TraitRecord

	now func() time.Time
}

func newStore() *Store {
	return &Store{
		identities: make(map[int64]model.Identity),
		plans:      make(map[int64]model.Plan),
		sessions:   make(map[string]model.Session),
		members:    make(map[int64][]model.MembershipRecord),
		goals:      make(map[int64][]model.Goal),
		updates:    make(map[int64][]model.GoalUpdate),
		traits:     make(map[int64][]model.TraitRecord),
		now:        time.Now,
	}
}

// FindByUserID はユーザーのプランを返す。
func (s *Store) FindByUserID(_ context.Context, userID int64) (*model.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListTeamsForUser はユーザーが所属するチームをフィクスチャの記述順に返す。
func (s *Store) ListTeamsForUser(_ context.Context, userID int64) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	teams := []model.Team{}
	for _, t := range s.teams {
		for _, m := range s.members[t.ID] {
			if m.UserID == userID {
				teams = append(teams, t)
				break
			}
		}
	}
	return teams, nil
}

func (s *Store) ListMembers(_ context.Context, teamID int64) ([]model.MembershipRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.MembershipRecord{}, s.members[teamID]...), nil
}

func (s *Store) IsTeamLead(_ context.Context, userID, teamID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members[teamID] {
		if m.UserID == userID {
			return m.Role == model.RoleLead, nil
		}
	}
	return false, nil
}

// FindByID はユーザー情報を返す。
func (s *Store) FindByID(_ context.Context, id int64) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.identities[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// ListActiveGoals はPostgres実装と同じく終了日の昇順（未設定は末尾）で返す。
func (s *Store) ListActiveGoals(_ context.Context, userID int64) ([]model.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	goals := []model.Goal{}
	for _, g := range s.goals[userID] {
		if model.IsActiveGoalStatus(g.Status) {
			goals = append(goals, g)
		}
	}
	sort.SliceStable(goals, func(i, j int) bool {
		a, b := goals[i].EndDate, goals[j].EndDate
		if a == nil || b == nil {
			return a != nil
		}
		return a.Before(*b)
	})
	return goals, nil
}

// ListUpdates は作成日時の新しい順（未設定は末尾）で返す。
func (s *Store) ListUpdates(_ context.Context, goalID int64) ([]model.GoalUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	updates := append([]model.GoalUpdate{}, s.updates[goalID]...)
	sort.SliceStable(updates, func(i, j int) bool {
		a, b := updates[i].CreatedAt, updates[j].CreatedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	return updates, nil
}

// ListByUserID は特性名の昇順で返す。
func (s *Store) ListByUserID(_ context.Context, userID int64) ([]model.TraitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := append([]model.TraitRecord{}, s.traits[userID]...)
	sort.SliceStable(records, func(i, j int) bool { return records[i].Trait < records[j].Trait })
	return records, nil
}

// FindSession は期限内のセッションを返す。
// SessionRepositoryとして渡す場合はSessions()を使う。
func (s *Store) FindSession(_ context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok || !sess.ExpiresAt.After(s.now()) {
		return nil, nil
	}
	return &sess, nil
}

// Sessions はSessionRepositoryとしてのビューを返す。
func (s *Store) Sessions() repository.SessionRepository {
	return sessionView{s}
}

type sessionView struct{ s *Store }

func (v sessionView) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return v.s.FindSession(ctx, id)
}

var (
	_ repository.PlanRepository        = (*Store)(nil)
	_ repository.TeamRepository        = (*Store)(nil)
	_ repository.IdentityRepository    = (*Store)(nil)
	_ repository.GoalRepository        = (*Store)(nil)
	_ repository.PersonalityRepository = (*Store)(nil)
	_ repository.SessionRepository     = sessionView{}
)

package roster

import (
	"context"
	"sync"

	"github.com/hitoshi/teamroster/internal/model"
)

type mockPlanRepo struct {
	findFn func(ctx context.Context, userID int64) (*model.Plan, error)
	calls  int
}

func (m *mockPlanRepo) FindByUserID(ctx context.Context, userID int64) (*model.Plan, error) {
	m.calls++
	if m.findFn != nil {
		return m.findFn(ctx, userID)
	}
	return nil, nil
}

type mockTeamRepo struct {
	listTeamsFn   func(ctx context.Context, userID int64) ([]model.Team, error)
	listMembersFn func(ctx context.Context, teamID int64) ([]model.MembershipRecord, error)
	isLeadFn      func(ctx context.Context, userID, teamID int64) (bool, error)

	mu          sync.Mutex
	isLeadCalls map[int64]int
}

func (m *mockTeamRepo) ListTeamsForUser(ctx context.Context, userID int64) ([]model.Team, error) {
	if m.listTeamsFn != nil {
		return m.listTeamsFn(ctx, userID)
	}
	return []model.Team{}, nil
}

func (m *mockTeamRepo) ListMembers(ctx context.Context, teamID int64) ([]model.MembershipRecord, error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(ctx, teamID)
	}
	return []model.MembershipRecord{}, nil
}

func (m *mockTeamRepo) IsTeamLead(ctx context.Context, userID, teamID int64) (bool, error) {
	m.mu.Lock()
	if m.isLeadCalls == nil {
		m.isLeadCalls = make(map[int64]int)
	}
	m.isLeadCalls[userID]++
	m.mu.Unlock()
	if m.isLeadFn != nil {
		return m.isLeadFn(ctx, userID, teamID)
	}
	return false, nil
}

type mockIdentityRepo struct {
	findFn func(ctx context.Context, id int64) (*model.Identity, error)
}

func (m *mockIdentityRepo) FindByID(ctx context.Context, id int64) (*model.Identity, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id)
	}
	return nil, nil
}

type mockGoalRepo struct {
	listActiveFn  func(ctx context.Context, userID int64) ([]model.Goal, error)
	listUpdatesFn func(ctx context.Context, goalID int64) ([]model.GoalUpdate, error)
}

func (m *mockGoalRepo) ListActiveGoals(ctx context.Context, userID int64) ([]model.Goal, error) {
	if m.listActiveFn != nil {
		return m.listActiveFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGoalRepo) ListUpdates(ctx context.Context, goalID int64) ([]model.GoalUpdate, error) {
	if m.listUpdatesFn != nil {
		return m.listUpdatesFn(ctx, goalID)
	}
	return nil, nil
}

type mockPersonalityRepo struct {
	listFn func(ctx context.Context, userID int64) ([]model.TraitRecord, error)
}

func (m *mockPersonalityRepo) ListByUserID(ctx context.Context, userID int64) ([]model.TraitRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, nil
}

func intPtr(v int) *int { return &v }

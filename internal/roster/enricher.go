package roster

import (
	"context"
	"log/slog"
	"sort"

	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/repository"
)

// Enricher は所属レコードにユーザー情報・目標・パーソナリティを付与する。
type Enricher struct {
	identities  repository.IdentityRepository
	goals       repository.GoalRepository
	personality repository.PersonalityRepository
	logger      *slog.Logger
}

// NewEnricher はEnricherを生成する。
func NewEnricher(
	identities repository.IdentityRepository,
	goals repository.GoalRepository,
	personality repository.PersonalityRepository,
	logger *slog.Logger,
) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		identities:  identities,
		goals:       goals,
		personality: personality,
		logger:      logger,
	}
}

// Enrich は1件の所属レコードを描画用のメンバーに変換する。
// ユーザー情報が解決できない場合はnil, nilを返し、呼び出し側はそのメンバーを除外する。
// 目標・特性の取得失敗はその欄を省略するだけで、メンバー自体は返す。
// IsLeadは設定しない。リーダー判定は呼び出し側が解決済みのメンバーに対してのみ行う。
func (e *Enricher) Enrich(ctx context.Context, rec model.MembershipRecord) (*model.EnrichedMember, error) {
	identity, err := e.identities.FindByID(ctx, rec.UserID)
	if err != nil {
		e.logger.Warn("identity lookup failed, skipping member",
			slog.Int64("user_id", rec.UserID),
			slog.Int64("team_id", rec.TeamID),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}
	if identity == nil {
		return nil, nil
	}

	member := &model.EnrichedMember{
		MembershipRecord: rec,
		Identity:         *identity,
	}

	goals, err := e.goals.ListActiveGoals(ctx, rec.UserID)
	if err != nil {
		e.logger.Warn("goal lookup failed, omitting goals",
			slog.Int64("user_id", rec.UserID),
			slog.String("error", err.Error()),
		)
	} else {
		member.Goals = activeGoalsByEndDate(goals)
	}

	traits, err := e.personality.ListByUserID(ctx, rec.UserID)
	if err != nil {
		e.logger.Warn("personality lookup failed, omitting traits",
			slog.Int64("user_id", rec.UserID),
			slog.String("error", err.Error()),
		)
	} else {
		member.Traits = traitsByName(traits)
	}

	member.ShowPersonality = model.ShouldDisplayPersonality(member.Traits)
	return member, nil
}

// activeGoalsByEndDate はアクティブな目標だけを終了日の昇順に並べて返す。
// 終了日のない目標は末尾に置く。
func activeGoalsByEndDate(goals []model.Goal) []model.Goal {
	active := make([]model.Goal, 0, len(goals))
	for _, g := range goals {
		if model.IsActiveGoalStatus(g.Status) {
			active = append(active, g)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i].EndDate, active[j].EndDate
		if a == nil || b == nil {
			return a != nil
		}
		return a.Before(*b)
	})
	return active
}

func traitsByName(traits []model.TraitRecord) []model.TraitRecord {
	sorted := append([]model.TraitRecord(nil), traits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Trait < sorted[j].Trait })
	return sorted
}

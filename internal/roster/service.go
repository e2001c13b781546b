// Package roster はチームロスターの構築（プラン判定、所属解決、メンバー情報の付与、並び替え）を提供する。
package roster

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hitoshi/teamroster/internal/metrics"
	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/repository"
)

// DefaultEnrichConcurrency はメンバー情報付与の既定並列数。
const DefaultEnrichConcurrency = 8

// Result はロスター構築の結果。Outcomeに応じてTeamとMembersが設定される。
type Result struct {
	Outcome  model.Outcome
	ViewerID int64
	Team     *model.Team
	Members  []model.EnrichedMember
}

// Stores はロスター構築が参照するデータストアの組。
type Stores struct {
	Plans       repository.PlanRepository
	Teams       repository.TeamRepository
	Identities  repository.IdentityRepository
	Goals       repository.GoalRepository
	Personality repository.PersonalityRepository
}

// Service はロスター構築のパイプラインを実行する。
type Service struct {
	gate        *Gate
	membership  *MembershipResolver
	enricher    *Enricher
	teams       repository.TeamRepository
	metrics     metrics.MetricsCollector
	logger      *slog.Logger
	concurrency int
}

// Option はServiceの任意設定。
type Option func(*Service)

// WithConcurrency はメンバー情報付与の並列数を設定する。1未満は既定値を使う。
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMetrics はメトリクス収集先を設定する。
func WithMetrics(m metrics.MetricsCollector) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// NewService はServiceを生成する。
func NewService(stores Stores, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		gate:        NewGate(stores.Plans, logger),
		membership:  NewMembershipResolver(stores.Teams),
		enricher:    NewEnricher(stores.Identities, stores.Goals, stores.Personality, logger),
		teams:       stores.Teams,
		metrics:     metrics.Nop{},
		logger:      logger,
		concurrency: DefaultEnrichConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Gate はプラン判定器を返す。
func (s *Service) Gate() *Gate {
	return s.gate
}

// Build は閲覧者のチームロスターを構築する。
// どの段階の失敗もResultのOutcomeで表現し、エラーは返さない。
func (s *Service) Build(ctx context.Context, viewerID int64) *Result {
	start := time.Now()
	result := s.build(ctx, viewerID)
	s.metrics.RecordBuildLatency(time.Since(start))
	s.metrics.RecordOutcome(string(result.Outcome))
	return result
}

func (s *Service) build(ctx context.Context, viewerID int64) *Result {
	result := &Result{ViewerID: viewerID}

	if viewerID <= 0 {
		result.Outcome = model.OutcomeUnauthenticated
		return result
	}

	if !s.gate.IsEntitled(ctx, viewerID) {
		result.Outcome = model.OutcomeNotEntitled
		return result
	}

	team, err := s.membership.PrimaryTeam(ctx, viewerID)
	if err != nil {
		s.logger.Error("failed to resolve team",
			slog.Int64("user_id", viewerID),
			slog.String("error", err.Error()),
		)
		result.Outcome = model.OutcomeTeamUnavailable
		return result
	}
	if team == nil {
		result.Outcome = model.OutcomeNoMembership
		return result
	}
	if team.ID <= 0 {
		s.logger.Error("primary team has no identifier", slog.Int64("user_id", viewerID))
		result.Outcome = model.OutcomeTeamUnavailable
		return result
	}
	result.Team = team

	records, err := s.membership.Roster(ctx, team)
	if err != nil {
		s.logger.Error("failed to load roster",
			slog.Int64("team_id", team.ID),
			slog.String("error", err.Error()),
		)
		result.Outcome = model.OutcomeTeamUnavailable
		return result
	}

	memo := newLeadMemo(s.teams, team.ID, s.logger)
	members := s.enrichAll(ctx, records, memo)
	if len(members) == 0 {
		result.Outcome = model.OutcomeEmptyRoster
		return result
	}

	result.Members = Order(members, func(userID int64) bool {
		return memo.isLead(ctx, userID)
	})
	result.Outcome = model.OutcomeRendered
	return result
}

// enrichAll はメンバー情報の付与を並行に行い、ロスター順を保ったまま返す。
// ユーザー情報が解決できなかったメンバーは除外する。
func (s *Service) enrichAll(ctx context.Context, records []model.MembershipRecord, memo *leadMemo) []model.EnrichedMember {
	slots := make([]*model.EnrichedMember, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, rec := range records {
		g.Go(func() error {
			member, err := s.enricher.Enrich(gctx, rec)
			if err != nil {
				return err
			}
			if member == nil {
				return nil
			}
			member.IsLead = memo.isLead(gctx, rec.UserID)
			slots[i] = member
			return nil
		})
	}
	// Enrichは個別の失敗をエラーとして返さないため、ここでのエラーは想定外
	if err := g.Wait(); err != nil {
		s.logger.Error("member enrichment aborted", slog.String("error", err.Error()))
	}

	members := make([]model.EnrichedMember, 0, len(records))
	for i, m := range slots {
		if m == nil {
			s.metrics.RecordSkippedMember("identity_unresolved")
			s.logger.Info("member skipped",
				slog.Int64("user_id", records[i].UserID),
				slog.Int64("team_id", records[i].TeamID),
			)
			continue
		}
		members = append(members, *m)
	}
	return members
}

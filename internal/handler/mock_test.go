package handler

import (
	"context"
	"time"

	"github.com/hitoshi/teamroster/internal/goalupdate"
	"github.com/hitoshi/teamroster/internal/roster"
)

// --- モック定義 ---

// mockRosterBuilder はRosterBuilderのモック実装。
type mockRosterBuilder struct {
	buildFn func(ctx context.Context, viewerID int64) *roster.Result
	calls   []int64
}

func (m *mockRosterBuilder) Build(ctx context.Context, viewerID int64) *roster.Result {
	m.calls = append(m.calls, viewerID)
	if m.buildFn != nil {
		return m.buildFn(ctx, viewerID)
	}
	return &roster.Result{ViewerID: viewerID}
}

// mockRosterRenderer はRosterRendererのモック実装。
type mockRosterRenderer struct {
	rosterFn  func(ctx context.Context, res *roster.Result, nonce string) (string, error)
	lastNonce string
}

func (m *mockRosterRenderer) Roster(ctx context.Context, res *roster.Result, nonce string) (string, error) {
	m.lastNonce = nonce
	if m.rosterFn != nil {
		return m.rosterFn(ctx, res, nonce)
	}
	return `<div class="roster-fragment"></div>`, nil
}

// mockNonceIssuer はNonceIssuerのモック実装。
type mockNonceIssuer struct {
	issueFn func(viewerID int64, action string) (string, error)
	calls   int
}

func (m *mockNonceIssuer) Issue(viewerID int64, action string) (string, error) {
	m.calls++
	if m.issueFn != nil {
		return m.issueFn(viewerID, action)
	}
	return "nonce-token", nil
}

// mockGoalUpdateFetcher はGoalUpdateFetcherのモック実装。
type mockGoalUpdateFetcher struct {
	fetchFn func(ctx context.Context, rawGoalID string) (*goalupdate.Result, error)
	lastRaw string
}

func (m *mockGoalUpdateFetcher) Fetch(ctx context.Context, rawGoalID string) (*goalupdate.Result, error) {
	m.lastRaw = rawGoalID
	if m.fetchFn != nil {
		return m.fetchFn(ctx, rawGoalID)
	}
	return &goalupdate.Result{Empty: true}, nil
}

// mockHealthChecker はHealthCheckerのモック実装。
type mockHealthChecker struct {
	pingFn func(ctx context.Context) error
}

func (m *mockHealthChecker) PingContext(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

// recordingMetrics は記録されたメトリクスを保持する。
type recordingMetrics struct {
	goalFetches []string
	statuses    []int
}

func (r *recordingMetrics) RecordOutcome(string)             {}
func (r *recordingMetrics) RecordSkippedMember(string)       {}
func (r *recordingMetrics) RecordBuildLatency(time.Duration) {}
func (r *recordingMetrics) RecordGoalUpdateFetch(result string) {
	r.goalFetches = append(r.goalFetches, result)
}
func (r *recordingMetrics) RecordHTTPStatus(code int) { r.statuses = append(r.statuses, code) }

package roster

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/repository"
)

// freePlanLabel はチーム機能を利用できないプランのラベル（正規化後）。
const freePlanLabel = "free"

// ResolveEntitlement はプランレコードからチーム機能の利用可否を判定する。
// レコードがない場合とラベルが空の場合は利用可とする（fail-open）。
// 利用不可となるのは正規化したラベルが"free"の場合のみ。
func ResolveEntitlement(plan *model.Plan) bool {
	if plan == nil {
		return true
	}
	return normalizePlanLabel(plan.Label) != freePlanLabel
}

func normalizePlanLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// EntitlementReport は判定過程の診断情報。CLIのentitlementサブコマンドで表示する。
type EntitlementReport struct {
	UserID          int64  `json:"user_id"`
	RecordFound     bool   `json:"record_found"`
	RawLabel        string `json:"raw_label"`
	NormalizedLabel string `json:"normalized_label"`
	IsFree          bool   `json:"is_free"`
	LookupError     string `json:"lookup_error,omitempty"`
	Entitled        bool   `json:"entitled"`
}

// Gate はユーザーのプランに基づいてチーム機能の利用可否を判定する。
type Gate struct {
	plans  repository.PlanRepository
	logger *slog.Logger
}

// NewGate はGateを生成する。
func NewGate(plans repository.PlanRepository, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{plans: plans, logger: logger}
}

// IsEntitled はユーザーがチーム機能を利用できるかどうかを返す。
// 不正なユーザーIDではストアを参照せずにfalseを返す。
func (g *Gate) IsEntitled(ctx context.Context, userID int64) bool {
	return g.Explain(ctx, userID).Entitled
}

// Explain は判定結果と判定に使用した情報を返す。
func (g *Gate) Explain(ctx context.Context, userID int64) EntitlementReport {
	report := EntitlementReport{UserID: userID}
	if userID <= 0 {
		return report
	}

	plan, err := g.plans.FindByUserID(ctx, userID)
	if err != nil {
		// 参照失敗はレコードなしと同様に扱う
		g.logger.Warn("plan lookup failed, treating as no record",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		report.LookupError = err.Error()
		plan = nil
	}

	if plan != nil {
		report.RecordFound = true
		report.RawLabel = plan.Label
		report.NormalizedLabel = normalizePlanLabel(plan.Label)
		report.IsFree = report.NormalizedLabel == freePlanLabel
	}
	report.Entitled = ResolveEntitlement(plan)
	return report
}

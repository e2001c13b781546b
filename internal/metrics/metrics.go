// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ロスター構築サービスとハンドラー層から利用する。
type MetricsCollector interface {
	RecordOutcome(outcome string)
	RecordSkippedMember(reason string)
	RecordBuildLatency(duration time.Duration)
	RecordGoalUpdateFetch(result string)
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	outcomes     *prometheus.CounterVec
	skipped      *prometheus.CounterVec
	buildLatency prometheus.Histogram
	goalUpdates  *prometheus.CounterVec
	httpStatus   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamroster_render_outcome_total",
			Help: "ロスター描画の結果種別ごとの件数",
		}, []string{"outcome"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamroster_skipped_members_total",
			Help: "描画から除外されたメンバー数",
		}, []string{"reason"}),
		buildLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamroster_build_latency_seconds",
			Help:    "ロスター構築のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		goalUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamroster_goal_update_fetch_total",
			Help: "目標進捗履歴取得の結果別件数",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamroster_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.outcomes,
		c.skipped,
		c.buildLatency,
		c.goalUpdates,
		c.httpStatus,
	)

	return c
}

// RecordOutcome は描画結果の種別を記録する。
func (c *Collector) RecordOutcome(outcome string) {
	c.outcomes.WithLabelValues(outcome).Inc()
}

// RecordSkippedMember はメンバーの除外を記録する。
func (c *Collector) RecordSkippedMember(reason string) {
	c.skipped.WithLabelValues(reason).Inc()
}

// RecordBuildLatency はロスター構築のレイテンシを記録する。
func (c *Collector) RecordBuildLatency(duration time.Duration) {
	c.buildLatency.Observe(duration.Seconds())
}

// RecordGoalUpdateFetch は進捗履歴取得の結果（ok, empty, invalid, error）を記録する。
func (c *Collector) RecordGoalUpdateFetch(result string) {
	c.goalUpdates.WithLabelValues(result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Nop は何も記録しないMetricsCollector。テストやメトリクス無効時に使用する。
type Nop struct{}

func (Nop) RecordOutcome(string)             {}
func (Nop) RecordSkippedMember(string)       {}
func (Nop) RecordBuildLatency(time.Duration) {}
func (Nop) RecordGoalUpdateFetch(string)     {}
func (Nop) RecordHTTPStatus(int)             {}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

var (
	_ MetricsCollector = (*Collector)(nil)
	_ MetricsCollector = Nop{}
)

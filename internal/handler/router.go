package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/teamroster/internal/metrics"
	"github.com/hitoshi/teamroster/internal/middleware"
	"github.com/hitoshi/teamroster/internal/security"
	"github.com/hitoshi/teamroster/internal/view"
)

const (
	// RosterPath はロスター表示のパス。
	RosterPath = "/teams"
	// GoalUpdatesPath は進捗履歴取得のパス。
	GoalUpdatesPath = "/teams/goal-updates"
	// StaticPrefix は静的ファイル（CSS/JS）の配信パス。
	StaticPrefix = "/static"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	SessionCookieName string
	RateLimiter       *middleware.RateLimiter
	NonceVerifier     middleware.NonceVerifier

	// ロスター
	RosterBuilder  RosterBuilder
	RosterRenderer RosterRenderer
	NonceIssuer    NonceIssuer
	// EmbedKey はuser_id指定を許可する埋め込み用の共有鍵。空の場合はuser_idをセッション利用者以外に使わない。
	EmbedKey string

	// 進捗履歴
	GoalUpdates GoalUpdateFetcher

	// 運用
	HealthChecker  HealthChecker
	Metrics        metrics.MetricsCollector
	MetricsHandler http.Handler

	// ImageOrigins はCSPのimg-srcに追加するプロフィール画像の配信元。
	ImageOrigins []string
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Session → Logging → Metrics → Recovery → SecurityHeaders
//
// セッションはログ出力より外側に置き、user_idがリクエストログに載るようにする。
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.Nop{}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewSessionMiddleware(deps.SessionFinder, middleware.WithCookieName(deps.SessionCookieName)))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewRecoveryMiddleware(logger))
	r.Use(middleware.NewSecurityHeadersMiddleware(middleware.SecurityHeadersConfig{
		ImageOrigins: deps.ImageOrigins,
	}))

	rosterHandler := NewRosterHandler(deps.RosterBuilder, deps.RosterRenderer, deps.NonceIssuer, StaticPrefix,
		WithEmbedKey(deps.EmbedKey))
	goalUpdateHandler := NewGoalUpdateHandler(deps.GoalUpdates, collector)

	// --- 運用エンドポイント ---
	r.Get("/health", NewHealthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	r.Handle(StaticPrefix+"/*", http.StripPrefix(StaticPrefix+"/", http.FileServer(http.FS(view.Assets()))))

	// --- ロスター ---
	r.With(deps.RateLimiter.GeneralMiddleware()).Get(RosterPath, rosterHandler.Show)

	// 進捗履歴取得: レート制限 → ノンス検証
	r.With(
		deps.RateLimiter.GoalUpdatesMiddleware(),
		middleware.NewNonceMiddleware(deps.NonceVerifier, security.ActionGoalUpdates),
	).Post(GoalUpdatesPath, goalUpdateHandler.Fetch)

	return r
}

package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/hitoshi/teamroster/internal/avatar"
	"github.com/hitoshi/teamroster/internal/config"
	"github.com/hitoshi/teamroster/internal/database"
	"github.com/hitoshi/teamroster/internal/fixture"
	"github.com/hitoshi/teamroster/internal/goalupdate"
	"github.com/hitoshi/teamroster/internal/handler"
	"github.com/hitoshi/teamroster/internal/logger"
	"github.com/hitoshi/teamroster/internal/metrics"
	"github.com/hitoshi/teamroster/internal/middleware"
	"github.com/hitoshi/teamroster/internal/repository"
	"github.com/hitoshi/teamroster/internal/roster"
	"github.com/hitoshi/teamroster/internal/security"
	"github.com/hitoshi/teamroster/internal/view"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数（と.envファイル）からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer, envFiles ...string) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. 設定されたログレベルを反映する
	logger.SetLevel(cfg.LogLevel)

	return cfg, nil
}

// backend はデータストアの接続と、そこから作ったリポジトリ群をまとめる。
type backend struct {
	stores   roster.Stores
	sessions repository.SessionRepository
	db       *sql.DB
	close    func() error
}

// healthChecker はヘルスチェック対象を返す。フィクスチャ動作時はnil。
func (b *backend) healthChecker() handler.HealthChecker {
	if b.db == nil {
		return nil
	}
	return b.db
}

// openBackend はFIXTURES_PATHが設定されていればYAMLフィクスチャを、
// そうでなければPostgreSQLを開いてリポジトリを構築する。
func openBackend(cfg *config.Config) (*backend, error) {
	if cfg.UsesFixtures() {
		store, err := fixture.Load(cfg.FixturesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
		slog.Info("using fixture store", slog.String("path", cfg.FixturesPath))
		return &backend{
			stores: roster.Stores{
				Plans:       store,
				Teams:       store,
				Identities:  store,
				Goals:       store,
				Personality: store,
			},
			sessions: store.Sessions(),
			close:    func() error { return nil },
		}, nil
	}

	db, err := database.Connect(context.Background(), cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}, database.DefaultRetry)
	if err != nil {
		return nil, err
	}
	slog.Info("database connection established")

	return &backend{
		stores: roster.Stores{
			Plans:       repository.NewPostgresPlanRepo(db),
			Teams:       repository.NewPostgresTeamRepo(db),
			Identities:  repository.NewPostgresIdentityRepo(db),
			Goals:       repository.NewPostgresGoalRepo(db),
			Personality: repository.NewPostgresPersonalityRepo(db),
		},
		sessions: repository.NewPostgresSessionRepo(db),
		db:       db,
		close:    db.Close,
	}, nil
}

// buildRouter は設定とバックエンドから全依存関係をワイヤリングしたルーターを返す。
// 戻り値のstopはレートリミッターのバックグラウンド処理を停止する。
func buildRouter(cfg *config.Config, b *backend, reg *prometheus.Registry) (http.Handler, func(), error) {
	// 1. セキュリティ
	nonces, err := security.NewNonceIssuer(cfg.NonceSecret, cfg.NonceTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create nonce issuer: %w", err)
	}
	sanitizer := security.NewContentSanitizer()

	// 2. メトリクス
	collector := metrics.NewCollector(reg)

	// 3. アバター
	avatarCfg := avatar.Config{
		Endpoint:   cfg.AvatarEndpoint,
		AccessKey:  cfg.AvatarAccessKey,
		SecretKey:  cfg.AvatarSecretKey,
		Bucket:     cfg.AvatarBucket,
		UseSSL:     cfg.AvatarUseSSL,
		DefaultURL: cfg.AvatarDefaultURL,
		Expiry:     cfg.AvatarURLExpiry,
	}
	avatars, err := avatar.NewMinioResolver(avatarCfg, slog.Default())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create avatar resolver: %w", err)
	}

	// 4. ドメインサービス
	rosterService := roster.NewService(b.stores, slog.Default(),
		roster.WithConcurrency(cfg.EnrichConcurrency),
		roster.WithMetrics(collector),
	)
	goalUpdateService := goalupdate.NewService(b.stores.Goals, sanitizer)
	renderer := view.NewRenderer(avatars, view.Options{
		ProgramsURL:    cfg.ProgramsURL,
		GoalUpdatesURL: handler.GoalUpdatesPath,
	})

	// 5. レート制限（req/min -> req/sec に変換）
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = middleware.PerMinute(cfg.RateLimitGeneral)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.GoalUpdatesRate = middleware.PerMinute(cfg.RateLimitGoalUpdates)
	rateLimiterCfg.GoalUpdatesBurst = cfg.RateLimitGoalUpdates
	limiter := middleware.NewRateLimiter(rateLimiterCfg)

	// 6. ルーター
	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		SessionFinder:     b.sessions,
		SessionCookieName: cfg.SessionCookieName,
		RateLimiter:       limiter,
		NonceVerifier:     nonces,
		RosterBuilder:     rosterService,
		RosterRenderer:    renderer,
		NonceIssuer:       nonces,
		EmbedKey:          cfg.EmbedKey,
		GoalUpdates:       goalUpdateService,
		HealthChecker:     b.healthChecker(),
		Metrics:           collector,
		MetricsHandler:    metrics.Handler(reg),
		ImageOrigins:      avatarCfg.Origins(),
	})

	return router, limiter.Stop, nil
}

// newRegistry はプロセス・ランタイムのメトリクスを含むレジストリを生成する。
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// runServe はHTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	router, stop, err := buildRouter(cfg, b, newRegistry())
	if err != nil {
		return err
	}
	defer stop()

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			slog.String("addr", server.Addr),
			slog.String("base_url", cfg.BaseURL),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-sigCh:
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// rollbackが正の場合はその段数だけ巻き戻し、それ以外は未適用分をすべて適用する。
func runMigrate(cfg *config.Config, rollback int) error {
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required for migrate")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
		slog.Int("rollback", rollback),
	)

	var (
		version database.SchemaVersion
		err     error
	)
	if rollback > 0 {
		version, err = database.RollbackMigrations(cfg.DatabaseURL, rollback)
	} else {
		version, err = database.RunMigrations(cfg.DatabaseURL)
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully",
		slog.String("schema_version", version.String()),
	)
	return nil
}

// runEntitlement は指定ユーザーのプラン判定の診断結果をJSONで書き出す。
func runEntitlement(ctx context.Context, cfg *config.Config, out io.Writer, userID int64) error {
	b, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	report := roster.NewGate(b.stores.Plans, slog.Default()).Explain(ctx, userID)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}

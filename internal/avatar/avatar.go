// Package avatar はメンバーのプロフィール画像URLを解決する。
// 画像はS3互換のオブジェクトストレージに置かれ、署名付きURLで配信する。
package avatar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hitoshi/teamroster/internal/model"
)

// DefaultImageURL はプロフィール画像がない場合に使う既定画像のパス。
const DefaultImageURL = "/static/img/default-profile.svg"

// DefaultExpiry は署名付きURLの既定有効期間。
const DefaultExpiry = time.Hour

// Presigner は署名付きGET URLを発行するインターフェース。*minio.Clientが満たす。
type Presigner interface {
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
}

// Config はアバター解決の設定。
type Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	DefaultURL string
	Expiry     time.Duration
}

// Origins は画像の配信元オリジンを返す。CSPのimg-srcに使う。
// 相対パスの既定画像は同一オリジンなので含めない。
func (c Config) Origins() []string {
	var origins []string
	if c.Endpoint != "" {
		scheme := "http"
		if c.UseSSL {
			scheme = "https"
		}
		origins = append(origins, scheme+"://"+c.Endpoint)
	}
	if u, err := url.Parse(c.DefaultURL); err == nil && u.Scheme != "" && u.Host != "" {
		origins = append(origins, u.Scheme+"://"+u.Host)
	}
	return origins
}

// Resolver はユーザーのアバターURLを解決する。
type Resolver struct {
	presigner  Presigner
	bucket     string
	defaultURL string
	expiry     time.Duration
	logger     *slog.Logger
}

// NewResolver はResolverを生成する。presignerがnilの場合は常に既定画像を返す。
func NewResolver(presigner Presigner, bucket, defaultURL string, expiry time.Duration, logger *slog.Logger) *Resolver {
	if defaultURL == "" {
		defaultURL = DefaultImageURL
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		presigner:  presigner,
		bucket:     bucket,
		defaultURL: defaultURL,
		expiry:     expiry,
		logger:     logger,
	}
}

// NewMinioResolver は設定からMinIOクライアントを構築してResolverを返す。
// エンドポイントが未設定の場合はストレージを使わず既定画像のみを返す。
func NewMinioResolver(cfg Config, logger *slog.Logger) (*Resolver, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return NewResolver(nil, "", cfg.DefaultURL, cfg.Expiry, logger), nil
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("avatar bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create avatar storage client: %w", err)
	}

	return NewResolver(client, cfg.Bucket, cfg.DefaultURL, cfg.Expiry, logger), nil
}

// URL はユーザーのアバターURLを返す。
// 画像キーがない場合や署名に失敗した場合は、サイズ指定付きの既定画像URLを返す。
func (r *Resolver) URL(ctx context.Context, identity model.Identity, size int) string {
	if r.presigner != nil && identity.AvatarKey != "" {
		u, err := r.presigner.PresignedGetObject(ctx, r.bucket, identity.AvatarKey, r.expiry, nil)
		if err == nil {
			return u.String()
		}
		r.logger.Warn("avatar presign failed, using default image",
			slog.Int64("user_id", identity.ID),
			slog.String("error", err.Error()),
		)
	}
	return r.sizedDefault(size)
}

func (r *Resolver) sizedDefault(size int) string {
	if size <= 0 {
		return r.defaultURL
	}
	sep := "?"
	if strings.Contains(r.defaultURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sw=%d&h=%d&fit=crop", r.defaultURL, sep, size, size)
}

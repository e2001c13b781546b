package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeadersConfig はロスターページのセキュリティヘッダー設定。
type SecurityHeadersConfig struct {
	// ImageOrigins はプロフィール画像の配信元として追加で許可するオリジン。
	ImageOrigins []string
}

// ContentSecurityPolicy はロスターページ用のCSPを組み立てる。
// スクリプトとスタイルは同一オリジンの静的ファイルのみで、インラインは許可しない。
func (c SecurityHeadersConfig) ContentSecurityPolicy() string {
	img := []string{"'self'", "data:"}
	for _, origin := range c.ImageOrigins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			img = append(img, origin)
		}
	}
	directives := []string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self'",
		"img-src " + strings.Join(img, " "),
		"connect-src 'self'",
		"frame-ancestors 'none'",
	}
	return strings.Join(directives, "; ")
}

// NewSecurityHeadersMiddleware はセキュリティ関連のHTTPレスポンスヘッダーを付与するミドルウェアを返す。
func NewSecurityHeadersMiddleware(cfg SecurityHeadersConfig) func(next http.Handler) http.Handler {
	csp := cfg.ContentSecurityPolicy()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "same-origin")
			h.Set("Content-Security-Policy", csp)
			next.ServeHTTP(w, r)
		})
	}
}

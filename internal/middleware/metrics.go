package middleware

import (
	"net/http"

	"github.com/hitoshi/teamroster/internal/metrics"
)

// NewMetricsMiddleware はレスポンスのステータスコードをメトリクスに記録するミドルウェアを返す。
func NewMetricsMiddleware(m metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := wrapResponse(w, r)
			next.ServeHTTP(ww, r)
			m.RecordHTTPStatus(responseStatus(ww))
		})
	}
}

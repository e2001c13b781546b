package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// OutcomeHeader はロスター描画の結果区分を示すレスポンスヘッダー。
// リクエストログにoutcomeとして転記する。
const OutcomeHeader = "X-Roster-Outcome"

// wrapResponse はステータスコードと書き込みバイト数を記録するラッパーを返す。
func wrapResponse(w http.ResponseWriter, r *http.Request) chimw.WrapResponseWriter {
	return chimw.NewWrapResponseWriter(w, r.ProtoMajor)
}

// responseStatus はハンドラーが明示的に書き込まなかった場合に200とみなす。
func responseStatus(ww chimw.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}

// statusLevel はステータスコードに応じたログレベルを返す。
func statusLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// NewLoggingMiddleware はリクエストごとに1行のJSON構造化ログを出力するミドルウェアを返す。
// method、path、status、bytes、duration_msに加え、分かる場合はrequest_id、user_id、outcomeを含む。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := wrapResponse(w, r)

			next.ServeHTTP(ww, r)

			status := responseStatus(ww)
			args := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
			}
			if reqID := chimw.GetReqID(r.Context()); reqID != "" {
				args = append(args, slog.String("request_id", reqID))
			}
			if userID, ok := UserIDFromContext(r.Context()); ok {
				args = append(args, slog.Int64("user_id", userID))
			}
			if outcome := ww.Header().Get(OutcomeHeader); outcome != "" {
				args = append(args, slog.String("outcome", outcome))
			}

			logger.Log(r.Context(), statusLevel(status), "http_request", args...)
		})
	}
}

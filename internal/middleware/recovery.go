package middleware

import (
	"html"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/teamroster/internal/view"
)

// unavailableFragment はロスター表示中にpanicした場合に返すHTML。
var unavailableFragment = `<div class="roster-error"><p>` + html.EscapeString(view.MsgTeamUnavailable) + `</p></div>`

// NewRecoveryMiddleware はハンドラーのpanicを回収して500を返すミドルウェアを生成する。
// HTMLを要求するGETにはエラー表示用の断片を、それ以外にはJSONのエラーを返す。
// http.ErrAbortHandlerは接続中断の合図なので回収せずに再送出する。
func NewRecoveryMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []any{
					slog.Any("panic", rec),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("request_id", chimw.GetReqID(r.Context())),
					slog.String("stack", string(debug.Stack())),
				}
				if userID, ok := UserIDFromContext(r.Context()); ok {
					attrs = append(attrs, slog.Int64("user_id", userID))
				}
				logger.Error("panic recovered", attrs...)

				if wantsHTML(r) {
					w.Header().Set("Content-Type", "text/html; charset=utf-8")
					w.Header().Set("Cache-Control", "no-store")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(unavailableFragment))
					return
				}
				WriteInternalServerError(w, r)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func wantsHTML(r *http.Request) bool {
	return r.Method == http.MethodGet && strings.Contains(r.Header.Get("Accept"), "text/html")
}

// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/teamroster/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの既定名。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストにユーザーIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// SessionOption はセッションミドルウェアの設定を変更する。
type SessionOption func(*sessionResolver)

// WithCookieName はセッションIDを読むCookie名を指定する。空文字列は無視する。
func WithCookieName(name string) SessionOption {
	return func(s *sessionResolver) {
		if name != "" {
			s.cookieName = name
		}
	}
}

type sessionResolver struct {
	finder     SessionFinder
	cookieName string
}

// viewer はリクエストのログイン利用者を返す。
// Cookieがない、セッションが無効、または検索に失敗した場合は未ログインとして扱う。
func (s *sessionResolver) viewer(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}

	session, err := s.finder.FindByID(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to find session",
			slog.String("cookie", s.cookieName),
			slog.String("error", err.Error()),
		)
		return 0, false
	}
	if session == nil || session.UserID <= 0 {
		return 0, false
	}
	return session.UserID, true
}

// NewSessionMiddleware はCookieのセッションが有効であればユーザーIDをコンテキストに注入するミドルウェアを返す。
// 未ログインでもリクエストは拒否しない。未ログイン時の表示はハンドラーが決める。
func NewSessionMiddleware(finder SessionFinder, opts ...SessionOption) func(next http.Handler) http.Handler {
	s := &sessionResolver{finder: finder, cookieName: SessionCookieName}
	for _, opt := range opts {
		opt(s)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := s.viewer(r); ok {
				r = r.WithContext(ContextWithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext はリクエストコンテキストからログイン中のユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// ContextWithUserID はコンテキストにユーザーIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

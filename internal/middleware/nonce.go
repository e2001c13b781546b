package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/teamroster/internal/model"
)

const (
	// NonceHeaderName はリクエストヘッダーからノンスを読み取る際のヘッダー名。
	NonceHeaderName = "X-Roster-Nonce"

	// nonceFormField はフォーム送信時のノンスのフィールド名。
	nonceFormField = "nonce"
)

// nonceViewerContextKey は検証済みノンスの閲覧者IDを格納するキー。
var nonceViewerContextKey = contextKey("nonce_viewer")

// NonceVerifier はノンスの検証に必要なインターフェース。
// security.NonceIssuerが満たす。
type NonceVerifier interface {
	Verify(nonce, action string) (int64, error)
}

// NewNonceMiddleware はリクエストの真正性をノンスで検証するミドルウェアを返す。
// ノンスはヘッダーX-Roster-Nonceまたはフォームのnonceフィールドから読み取る。
// 検証に失敗した場合は403とSECURITY_CHECK_FAILEDを返し、後続のハンドラーは呼ばない。
// ノンスの発行対象はリクエストのセッション利用者（未ログインなら0）と一致しなければならない。
func NewNonceMiddleware(verifier NonceVerifier, action string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := r.Header.Get(NonceHeaderName)
			if nonce == "" {
				nonce = r.PostFormValue(nonceFormField)
			}

			viewerID, err := verifier.Verify(nonce, action)
			if err != nil {
				slog.Warn("nonce validation failed",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, r, http.StatusForbidden, model.NewSecurityCheckFailedError())
				return
			}

			sessionUser, _ := UserIDFromContext(r.Context())
			if sessionUser != viewerID {
				slog.Warn("nonce validation failed: viewer mismatch",
					slog.String("path", r.URL.Path),
					slog.Int64("user_id", sessionUser),
					slog.Int64("nonce_user_id", viewerID),
				)
				WriteErrorResponse(w, r, http.StatusForbidden, model.NewSecurityCheckFailedError())
				return
			}

			ctx := context.WithValue(r.Context(), nonceViewerContextKey, viewerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NonceViewerFromContext はノンス検証済みの閲覧者IDを返す。
func NonceViewerFromContext(ctx context.Context) (int64, bool) {
	viewerID, ok := ctx.Value(nonceViewerContextKey).(int64)
	return viewerID, ok
}

package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/hitoshi/teamroster/internal/middleware"
	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/roster"
	"github.com/hitoshi/teamroster/internal/security"
	"github.com/hitoshi/teamroster/internal/view"
)

// OutcomeHeader はロスター描画の結果区分を返すレスポンスヘッダー。
const OutcomeHeader = middleware.OutcomeHeader

// rosterPageTitle はロスターページのタイトル。
const rosterPageTitle = "Team Roster"

// EmbedKeyHeader はホスト側サーバーがロスターを埋め込む際に送る共有鍵のヘッダー。
// 鍵が一致した場合に限り、user_idクエリで描画対象を指定できる。
const EmbedKeyHeader = "X-Roster-Embed-Key"

// RosterBuilder はロスター構築サービスのインターフェース。
type RosterBuilder interface {
	Build(ctx context.Context, viewerID int64) *roster.Result
}

// RosterRenderer はロスターのHTML断片を生成するインターフェース。
type RosterRenderer interface {
	Roster(ctx context.Context, res *roster.Result, nonce string) (string, error)
}

// NonceIssuer は進捗履歴取得用のノンスを発行するインターフェース。
type NonceIssuer interface {
	Issue(viewerID int64, action string) (string, error)
}

// RosterHandler はチームロスター表示のHTTPハンドラー。
type RosterHandler struct {
	builder      RosterBuilder
	renderer     RosterRenderer
	nonces       NonceIssuer
	assetsPrefix string
	embedKey     []byte
}

// RosterOption はRosterHandlerの設定を変更する。
type RosterOption func(*RosterHandler)

// WithEmbedKey はuser_idの指定を許可する埋め込み用の共有鍵を設定する。空の場合は指定を常に無視する。
func WithEmbedKey(key string) RosterOption {
	return func(h *RosterHandler) {
		if key != "" {
			h.embedKey = []byte(key)
		}
	}
}

// NewRosterHandler はRosterHandlerを生成する。
func NewRosterHandler(builder RosterBuilder, renderer RosterRenderer, nonces NonceIssuer, assetsPrefix string, opts ...RosterOption) *RosterHandler {
	h := &RosterHandler{
		builder:      builder,
		renderer:     renderer,
		nonces:       nonces,
		assetsPrefix: assetsPrefix,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Show はチームロスターのHTMLドキュメントを返す。
// GET /teams
//
// 通常はセッションの利用者として描画する。user_idクエリは埋め込み鍵が一致する場合のみ有効で、
// それ以外でセッションと異なる値は無視する。
// ノンスは描画対象ではなくリクエストの送り手（セッション利用者、未ログインなら0）に紐づける。
// 結果区分はすべて200で返し、区分はX-Roster-Outcomeヘッダーで示す。
func (h *RosterHandler) Show(w http.ResponseWriter, r *http.Request) {
	viewerID, err := h.resolveViewer(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	result := h.builder.Build(r.Context(), viewerID)

	var nonce string
	if result.Outcome == model.OutcomeRendered {
		sessionUser, _ := middleware.UserIDFromContext(r.Context())
		nonce, err = h.nonces.Issue(sessionUser, security.ActionGoalUpdates)
		if err != nil {
			slog.Error("failed to issue nonce",
				slog.Int64("user_id", sessionUser),
				slog.String("error", err.Error()),
			)
			middleware.WriteInternalServerError(w, r)
			return
		}
	}

	fragment, err := h.renderer.Roster(r.Context(), result, nonce)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	doc, err := view.Page(rosterPageTitle, fragment, h.assetsPrefix)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set(OutcomeHeader, string(result.Outcome))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc))
}

// resolveViewer は描画対象の利用者IDを決定する。
// user_idクエリが整数でなければINVALID_USER_IDを返す。未ログインは0。
func (h *RosterHandler) resolveViewer(r *http.Request) (int64, error) {
	sessionUser, _ := middleware.UserIDFromContext(r.Context())
	if !r.URL.Query().Has("user_id") {
		return sessionUser, nil
	}

	raw := strings.TrimSpace(r.URL.Query().Get("user_id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, model.NewInvalidUserIDError(raw)
	}
	if id == sessionUser || h.trustedEmbedder(r) {
		return id, nil
	}

	slog.Warn("untrusted user_id ignored",
		slog.Int64("requested_user_id", id),
		slog.Int64("session_user_id", sessionUser),
	)
	return sessionUser, nil
}

// trustedEmbedder は埋め込み鍵ヘッダーが設定値と一致するかを返す。
func (h *RosterHandler) trustedEmbedder(r *http.Request) bool {
	if len(h.embedKey) == 0 {
		return false
	}
	got := r.Header.Get(EmbedKeyHeader)
	return got != "" && subtle.ConstantTimeCompare([]byte(got), h.embedKey) == 1
}

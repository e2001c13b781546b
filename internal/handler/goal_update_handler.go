package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/hitoshi/teamroster/internal/goalupdate"
	"github.com/hitoshi/teamroster/internal/metrics"
	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/view"
)

// maxGoalUpdateBody はJSONリクエストボディの上限バイト数。
const maxGoalUpdateBody = 4 << 10

// GoalUpdateFetcher は目標の進捗履歴を取得するサービスのインターフェース。
type GoalUpdateFetcher interface {
	Fetch(ctx context.Context, rawGoalID string) (*goalupdate.Result, error)
}

// GoalUpdateHandler は進捗履歴取得のHTTPハンドラー。
// ノンス検証はミドルウェアで済んでいる前提で動作する。
type GoalUpdateHandler struct {
	service GoalUpdateFetcher
	metrics metrics.MetricsCollector
}

// NewGoalUpdateHandler はGoalUpdateHandlerを生成する。
func NewGoalUpdateHandler(service GoalUpdateFetcher, m metrics.MetricsCollector) *GoalUpdateHandler {
	if m == nil {
		m = metrics.Nop{}
	}
	return &GoalUpdateHandler{service: service, metrics: m}
}

// goalUpdatesResponse は進捗履歴取得のAPIレスポンス。
type goalUpdatesResponse struct {
	HTML  string `json:"html"`
	Empty bool   `json:"empty"`
	Count int    `json:"count"`
}

// goalUpdatesRequest はJSONで送られた場合のリクエストボディ。
// goal_idは数値・文字列のどちらも受け付ける。
type goalUpdatesRequest struct {
	GoalID json.RawMessage `json:"goal_id"`
}

// Fetch は目標の進捗履歴をHTML断片として返す。
// POST /teams/goal-updates
func (h *GoalUpdateHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Fetch(r.Context(), readGoalID(r))
	if err != nil {
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			h.metrics.RecordGoalUpdateFetch("invalid")
		} else {
			h.metrics.RecordGoalUpdateFetch("error")
		}
		handleServiceError(w, r, err)
		return
	}

	fragment, err := view.GoalUpdates(result)
	if err != nil {
		h.metrics.RecordGoalUpdateFetch("error")
		handleServiceError(w, r, err)
		return
	}

	if result.Empty {
		h.metrics.RecordGoalUpdateFetch("empty")
	} else {
		h.metrics.RecordGoalUpdateFetch("ok")
	}

	writeJSON(w, http.StatusOK, goalUpdatesResponse{
		HTML:  fragment,
		Empty: result.Empty,
		Count: len(result.Updates),
	})
}

// readGoalID はフォームまたはJSONボディからgoal_idの生の値を取り出す。
// 読み取れない場合は空文字を返し、検証はサービスに任せる。
func readGoalID(r *http.Request) string {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return r.PostFormValue("goal_id")
	}

	var req goalUpdatesRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxGoalUpdateBody)).Decode(&req); err != nil {
		slog.Debug("failed to decode goal updates request", slog.String("error", err.Error()))
		return ""
	}
	return strings.Trim(string(req.GoalID), `"`)
}

// Package goalupdate は目標の進捗更新履歴をオンデマンドで取得するサービスを提供する。
package goalupdate

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/teamroster/internal/model"
	"github.com/hitoshi/teamroster/internal/repository"
	"github.com/hitoshi/teamroster/internal/security"
)

// Request は進捗履歴取得の入力。
type Request struct {
	GoalID int64 `validate:"required,gt=0"`
}

// Result は進捗履歴取得の結果。
// Emptyがtrueの場合、Updatesは空でプレースホルダーを表示する。
type Result struct {
	GoalID  int64
	Updates []model.GoalUpdate
	Empty   bool
}

// Service は目標の進捗更新履歴を取得する。
// 呼び出しごとに状態を持たず、リトライは行わない。
type Service struct {
	goals     repository.GoalRepository
	sanitizer security.ContentSanitizerService
	validate  *validator.Validate
}

// NewService はServiceを生成する。
func NewService(goals repository.GoalRepository, sanitizer security.ContentSanitizerService) *Service {
	return &Service{
		goals:     goals,
		sanitizer: sanitizer,
		validate:  validator.New(),
	}
}

// ParseRequest は生の目標IDを検証してRequestを返す。
// 正の整数でない場合は*model.APIError（INVALID_GOAL_ID）を返す。
func (s *Service) ParseRequest(raw string) (Request, error) {
	trimmed := strings.TrimSpace(raw)
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return Request{}, model.NewInvalidGoalIDError(raw)
	}
	req := Request{GoalID: id}
	if err := s.validate.Struct(req); err != nil {
		return Request{}, model.NewInvalidGoalIDError(raw)
	}
	return req, nil
}

// Fetch は目標の進捗更新を新しい順に返す。本文はサニタイズ済み。
// 入力が不正な場合はデータストアを参照せずにエラーを返す。
func (s *Service) Fetch(ctx context.Context, rawGoalID string) (*Result, error) {
	req, err := s.ParseRequest(rawGoalID)
	if err != nil {
		return nil, err
	}

	updates, err := s.goals.ListUpdates(ctx, req.GoalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goal updates: %w", err)
	}

	result := &Result{GoalID: req.GoalID}
	if len(updates) == 0 {
		result.Empty = true
		result.Updates = []model.GoalUpdate{}
		return result, nil
	}

	sorted := append([]model.GoalUpdate(nil), updates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CreatedAt, sorted[j].CreatedAt
		if a == nil || b == nil {
			return a != nil
		}
		return a.After(*b)
	})
	for i := range sorted {
		sorted[i].Content = s.sanitizer.Sanitize(sorted[i].Content)
	}
	result.Updates = sorted
	return result, nil
}

// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, security, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidGoalID       = "INVALID_GOAL_ID"
	ErrCodeSecurityCheckFailed = "SECURITY_CHECK_FAILED"
	ErrCodeInvalidUserID       = "INVALID_USER_ID"
	ErrCodeRateLimitExceeded   = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewInvalidGoalIDError は目標IDが不正な場合のエラーを生成する。
func NewInvalidGoalIDError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidGoalID,
		Message:  fmt.Sprintf("Invalid goal ID: %q", raw),
		Category: "validation",
		Action:   "Specify the goal ID as a positive integer.",
	}
}

// NewSecurityCheckFailedError はリクエストの真正性検証に失敗した場合のエラーを生成する。
func NewSecurityCheckFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeSecurityCheckFailed,
		Message:  "Security check failed.",
		Category: "security",
		Action:   "Reload the page and try again.",
	}
}

// NewInvalidUserIDError はユーザーIDパラメータが不正な場合のエラーを生成する。
func NewInvalidUserIDError(raw string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidUserID,
		Message:  fmt.Sprintf("Invalid user ID: %q", raw),
		Category: "validation",
		Action:   "Specify the user ID as a positive integer.",
	}
}

// NewInternalError は内部エラーの統一フォーマットを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "An internal error occurred.",
		Category: "system",
		Action:   "Please wait a moment and try again.",
	}
}

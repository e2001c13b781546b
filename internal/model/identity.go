// Package model はドメインモデルを定義する。
package model

import (
	"strings"
	"time"
)

// Identity は外部のユーザーストアが保持するユーザー情報を表す。
// このサービスからは読み取り専用。
type Identity struct {
	ID          int64
	FirstName   string
	LastName    string
	DisplayName string
	Email       string
	Title       string // 自由記述の肩書き
	AvatarKey   string // プロフィール画像のオブジェクトキー。未設定の場合は空文字列
}

// FullName は「名 姓」を返す。両方とも空の場合は表示名を返す。
func (i *Identity) FullName() string {
	full := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if full == "" {
		return i.DisplayName
	}
	return full
}

// Plan はユーザーの契約プランを表す。
type Plan struct {
	UserID int64
	Label  string
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

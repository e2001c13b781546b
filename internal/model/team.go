// Package model はドメインモデルを定義する。
package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Team はチームを表す。
type Team struct {
	ID   int64
	Name string
}

// Role はチーム内の役割を表す。
// ストアから読み込んだ自由記述のラベルは境界でこの列挙型に変換し、
// 並び替えや描画の分岐には生の文字列を使わない。
type Role int

const (
	// RoleIndividual は一般メンバー。認識できないラベルもすべてこれになる。
	RoleIndividual Role = iota
	// RoleLead はチームリーダー。
	RoleLead
)

// leadRoleLabel はチームリーダーを表す正規化済みラベル。
const leadRoleLabel = "team_lead"

// ParseRole はストアの役割ラベルをRoleに変換する。
// 大文字小文字を区別せず、空白とハイフンはアンダースコアとみなす。
func ParseRole(label string) Role {
	normalized := strings.ToLower(strings.TrimSpace(label))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	if normalized == leadRoleLabel {
		return RoleLead
	}
	return RoleIndividual
}

// String はログ出力用の文字列表現を返す。
func (r Role) String() string {
	if r == RoleLead {
		return "lead"
	}
	return "individual"
}

// MembershipRecord はユーザー・チーム・役割の組を表す。
type MembershipRecord struct {
	UserID    int64
	TeamID    int64
	Role      Role
	RoleLabel string // 表示用の生ラベル
}

// FormatRoleLabel は役割ラベルを表示用に整形する。
// アンダースコアを空白に置き換え、各単語の先頭を大文字にする。
func FormatRoleLabel(label string) string {
	words := strings.Fields(strings.ReplaceAll(label, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

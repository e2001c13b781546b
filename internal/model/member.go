// Package model はドメインモデルを定義する。
package model

// EnrichedMember はロスターの1エントリにユーザー情報・目標・パーソナリティを結合したもの。
// 描画1回分の間だけ存在し、永続化しない。
type EnrichedMember struct {
	MembershipRecord
	Identity        Identity
	IsLead          bool
	Goals           []Goal
	Traits          []TraitRecord
	ShowPersonality bool
}

// Outcome はロスター描画の結果区分を表す。
type Outcome string

const (
	OutcomeUnauthenticated Outcome = "unauthenticated"
	OutcomeNotEntitled     Outcome = "not_entitled"
	OutcomeNoMembership    Outcome = "no_membership"
	OutcomeTeamUnavailable Outcome = "team_unavailable"
	OutcomeEmptyRoster     Outcome = "empty_roster"
	OutcomeRendered        Outcome = "rendered"
)

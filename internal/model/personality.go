// Package model はドメインモデルを定義する。
package model

// FadedThreshold はこの値未満の特性強度を薄く表示する境界値。
const FadedThreshold = 50

// TraitRecord はパーソナリティ特性の1次元分の集計を表す。
// 1ユーザーにつき次元の数だけ存在し、全体でそのユーザーのパーソナリティとなる。
type TraitRecord struct {
	UserID       int64
	Trait        string
	HighType     string
	HighValue    *int
	LowType      string
	LowValue     *int
	PrimaryTrait string
}

// ShouldDisplayPersonality はパーソナリティ欄を表示すべきかどうかを判定する。
// 特性名が空でなく、かつhigh/lowどちらかの極ラベルを持つレコードが1件以上必要。
func ShouldDisplayPersonality(records []TraitRecord) bool {
	for _, r := range records {
		if r.Trait != "" && (r.HighType != "" || r.LowType != "") {
			return true
		}
	}
	return false
}

// IsFaded は特性強度を薄く表示すべきかどうかを返す。
// 値が存在しない場合は薄くしない。
func IsFaded(value *int) bool {
	return value != nil && *value < FadedThreshold
}

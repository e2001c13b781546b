package roster

import (
	"sort"

	"github.com/hitoshi/teamroster/internal/model"
)

// Order はメンバーをリーダー優先、次に姓の昇順（バイト比較）で並べた新しいスライスを返す。
// 同順位のメンバーは元の順序を保つ。
func Order(members []model.EnrichedMember, isLead func(userID int64) bool) []model.EnrichedMember {
	ordered := make([]model.EnrichedMember, len(members))
	copy(ordered, members)

	lead := make(map[int64]bool, len(ordered))
	for _, m := range ordered {
		if _, ok := lead[m.UserID]; !ok {
			lead[m.UserID] = isLead(m.UserID)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		li, lj := lead[ordered[i].UserID], lead[ordered[j].UserID]
		if li != lj {
			return li
		}
		return ordered[i].Identity.LastName < ordered[j].Identity.LastName
	})
	return ordered
}

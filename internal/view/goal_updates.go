package view

import (
	"golang.org/x/net/html/atom"

	"github.com/hitoshi/teamroster/internal/goalupdate"
)

// 進捗履歴の固定文言。
const (
	MsgNoUpdates    = "No updates found for this goal."
	MsgNoUpdateBody = "No update content"
)

// GoalUpdates は進捗履歴の取得結果をHTMLフラグメントとして返す。
// 本文はサニタイズ済みの前提で、ノードツリーとして再解析して埋め込む。
func GoalUpdates(res *goalupdate.Result) (string, error) {
	if res == nil || res.Empty || len(res.Updates) == 0 {
		return render(para("roster-no-updates", MsgNoUpdates))
	}

	table := el(atom.Table, "roster-updates-table")
	head := el(atom.Tr, "")
	for _, h := range []string{"Date", "Status", "Progress", "Updated"} {
		head.AppendChild(el(atom.Th, "", text(h)))
	}
	table.AppendChild(el(atom.Thead, "", head))

	body := el(atom.Tbody, "")
	for _, u := range res.Updates {
		content := el(atom.Td, "roster-update-content")
		if u.Content == "" {
			content.AppendChild(text(MsgNoUpdateBody))
		} else if err := parseFragment(content, u.Content); err != nil {
			return "", err
		}

		body.AppendChild(el(atom.Tr, "",
			el(atom.Td, "", text(FormatDateTime(u.CreatedAt))),
			el(atom.Td, "", text(orNA(u.StatusAfter))),
			el(atom.Td, "", text(FormatProgress(u.ProgressAfter))),
			content,
		))
	}
	table.AppendChild(body)

	return render(table)
}

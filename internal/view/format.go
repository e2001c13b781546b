package view

import (
	"strconv"
	"time"
)

const (
	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006 3:04 PM"
	notAvailable   = "N/A"
)

// FormatDate は日付を表示用に整形する。値がない場合はN/A。
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return notAvailable
	}
	return t.Format(dateLayout)
}

// FormatDateTime は日時を表示用に整形する。値がない場合はN/A。
func FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return notAvailable
	}
	return t.Format(dateTimeLayout)
}

// FormatProgress は進捗率を"N%"で返す。値がない場合はN/A。
func FormatProgress(p *int) string {
	if p == nil {
		return notAvailable
	}
	return strconv.Itoa(*p) + "%"
}

// GridSizeClass はメンバー数に応じたグリッドのサイズ区分を返す。
func GridSizeClass(count int) string {
	switch {
	case count <= 2:
		return "small"
	case count <= 4:
		return "medium"
	default:
		return "large"
	}
}

// DisplayMode はメンバー数に応じた表示モードを返す。
func DisplayMode(count int) string {
	switch {
	case count <= 3:
		return "card"
	case count <= 8:
		return "list"
	default:
		return "compact"
	}
}

func activeGoalsLabel(n int) string {
	if n == 1 {
		return "1 active goal"
	}
	return strconv.Itoa(n) + " active goals"
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

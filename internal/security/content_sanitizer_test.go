package security

import (
	"strings"
	"testing"
)

// TestSanitize_AllowedTags は進捗メモで使う書式タグが通過することを検証する。
func TestSanitize_AllowedTags(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"段落", "<p>Finished the draft</p>", "<p>Finished the draft</p>"},
		{"強調", "<strong>done</strong> and <em>tested</em>", "<strong>done</strong> and <em>tested</em>"},
		{"リスト", "<ul><li>a</li><li>b</li></ul>", "<ul><li>a</li><li>b</li></ul>"},
		{"下線", "<u>note</u>", "<u>note</u>"},
		{"コード", "<code>make test</code>", "<code>make test</code>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizer.Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestSanitize_ForbiddenContent は危険なタグや属性が除去されることを検証する。
func TestSanitize_ForbiddenContent(t *testing.T) {
	sanitizer := NewContentSanitizer()

	tests := []struct {
		name       string
		input      string
		wantAbsent []string
	}{
		{"script", `<p>ok</p><script>alert(1)</script>`, []string{"<script", "alert(1)"}},
		{"iframe", `<iframe src="https://evil.example"></iframe>`, []string{"<iframe"}},
		{"style", `<style>body{display:none}</style><p>x</p>`, []string{"<style", "display:none"}},
		{"img", `<img src="https://example.com/a.png" onerror="alert(1)">`, []string{"<img", "onerror"}},
		{"onclick", `<p onclick="steal()">hi</p>`, []string{"onclick", "steal"}},
		{"javascript href", `<a href="javascript:alert(1)">x</a>`, []string{"javascript:"}},
		{"data href", `<a href="data:text/html,<b>x</b>">x</a>`, []string{"data:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			for _, absent := range tt.wantAbsent {
				if strings.Contains(got, absent) {
					t.Errorf("Sanitize(%q) = %q, should not contain %q", tt.input, got, absent)
				}
			}
		})
	}
}

// TestSanitize_Links はリンクにrel属性が付与されることを検証する。
func TestSanitize_Links(t *testing.T) {
	sanitizer := NewContentSanitizer()

	got := sanitizer.Sanitize(`<a href="https://example.com/doc">design doc</a>`)
	for _, want := range []string{`href="https://example.com/doc"`, "nofollow", "noreferrer", `target="_blank"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Sanitize() = %q, want to contain %q", got, want)
		}
	}

	relative := sanitizer.Sanitize(`<a href="/internal">x</a>`)
	if strings.Contains(relative, "href") {
		t.Errorf("relative link should lose href, got %q", relative)
	}
}

// TestSanitize_EmptyInput は空文字列の入力に空文字列を返すことを検証する。
func TestSanitize_EmptyInput(t *testing.T) {
	if got := NewContentSanitizer().Sanitize(""); got != "" {
		t.Errorf("Sanitize(\"\") = %q, want empty", got)
	}
}

// TestSanitize_Idempotent は再サニタイズしても結果が変わらないことを検証する。
func TestSanitize_Idempotent(t *testing.T) {
	sanitizer := NewContentSanitizer()
	input := `<p onclick="x()">Progress <strong>80%</strong> <a href="https://example.com">link</a></p><script>bad()</script>`

	first := sanitizer.Sanitize(input)
	second := sanitizer.Sanitize(first)
	if first != second {
		t.Errorf("not idempotent:\nfirst:  %q\nsecond: %q", first, second)
	}
}

// TestContentSanitizerInterface は実装がインターフェースを満たすことを検証する。
func TestContentSanitizerInterface(t *testing.T) {
	var _ ContentSanitizerService = NewContentSanitizer()
}

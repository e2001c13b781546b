package view

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// el は要素ノードを生成し、子ノードを追加する。
// classが空でなければclass属性を付与する。
func el(a atom.Atom, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

// text はテキストノードを生成する。出力時にエスケープされる。
func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// withAttr は属性を追加したノードを返す。
func withAttr(n *html.Node, key, val string) *html.Node {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}

// para はclass付きの段落にテキストを入れる。
func para(class, s string) *html.Node {
	return el(atom.P, class, text(s))
}

// parseFragment はサニタイズ済みのHTMLを親要素の子として解析する。
func parseFragment(parent *html.Node, markup string) error {
	ctxNode := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctxNode)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

// render はノード群をHTML文字列として出力する。
func render(nodes ...*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

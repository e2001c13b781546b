package view

import (
	"embed"
	"io/fs"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed assets/*
var assetsFS embed.FS

// Assets は静的ファイル（スクリプトとスタイル）のファイルシステムを返す。
func Assets() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page はフラグメントをHTMLドキュメントで包んで返す。
// fragmentは本パッケージで生成した出力を前提とし、再エスケープしない。
func Page(title, fragment, assetsPrefix string) (string, error) {
	head := el(atom.Head, "",
		withAttr(el(atom.Meta, ""), "charset", "utf-8"),
		withAttr(withAttr(el(atom.Meta, ""), "name", "viewport"), "content", "width=device-width, initial-scale=1"),
		el(atom.Title, "", text(title)),
		withAttr(withAttr(el(atom.Link, ""), "rel", "stylesheet"), "href", assetsPrefix+"/roster.css"),
		withAttr(withAttr(el(atom.Script, ""), "src", assetsPrefix+"/roster.js"), "defer", ""),
	)
	body := el(atom.Body, "", &html.Node{Type: html.RawNode, Data: fragment})

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(withAttr(el(atom.Html, "", head, body), "lang", "en"))
	return render(doc)
}

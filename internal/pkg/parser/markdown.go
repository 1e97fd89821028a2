// internal/pkg/parser/markdown.go
package parser

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var mdParser goldmark.Markdown
var policy *bluemonday.Policy

func init() {
	// 文章正文使用 GFM，换行按用户输入保留
	mdParser = goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(), // 原始 HTML 交给 bluemonday 清理
		),
	)

	policy = bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code")
	policy.AllowElements("table", "thead", "tbody", "tr", "th", "td")
}

// MarkdownToHTML 将 Markdown 字符串转换为安全的 HTML 字符串
func MarkdownToHTML(mdContent string) (string, error) {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(mdContent), &buf); err != nil {
		return "", err
	}
	return policy.Sanitize(buf.String()), nil
}

// RenderContent 供模板使用，渲染失败时退回到转义后的原文
func RenderContent(mdContent string) template.HTML {
	safeHTML, err := MarkdownToHTML(mdContent)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(mdContent))
	}
	return template.HTML(safeHTML)
}

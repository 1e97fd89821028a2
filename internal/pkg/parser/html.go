package parser

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/anzhiyu-c/myblog/internal/pkg/strutil"
)

var stripTagsPolicy = bluemonday.StripTagsPolicy()

// StripHTML 接受一个HTML字符串，返回一个去除了所有标签的纯文本字符串。
func StripHTML(htmlContent string) string {
	return stripTagsPolicy.Sanitize(htmlContent)
}

// Excerpt 从 Markdown 正文生成纯文本摘要，最多 maxLength 个字符
func Excerpt(mdContent string, maxLength int) string {
	rendered, err := MarkdownToHTML(mdContent)
	if err != nil {
		rendered = mdContent
	}
	// StripTagsPolicy 会转义实体，这里还原成纯文本，输出时由模板再转义
	text := html.UnescapeString(StripHTML(rendered))
	text = strings.Join(strings.Fields(text), " ")
	return strutil.Truncate(text, maxLength)
}

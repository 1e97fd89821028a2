package strutil

import (
	"strings"
	"unicode/utf8"
)

// Truncate 安全地将UTF-8字符串截断到指定的长度，并在需要时添加省略号。
func Truncate(s string, maxLength int) string {
	if utf8.RuneCountInString(s) <= maxLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLength]) + "..."
}

// SplitNames 将逗号分隔的名称列表拆分、去空白并去重 (不区分大小写)，保持输入顺序。
// 同时接受中文逗号。
func SplitNames(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，'
	})
	seen := make(map[string]struct{}, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		name := strings.TrimSpace(f)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}

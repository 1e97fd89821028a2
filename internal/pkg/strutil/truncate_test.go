package strutil

import (
	"reflect"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{name: "未超长", input: "hello", max: 5, expected: "hello"},
		{name: "英文截断", input: "hello world", max: 5, expected: "hello..."},
		{name: "中文按字符截断", input: "你好世界", max: 2, expected: "你好..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.max); got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, 期望 %q", tt.input, tt.max, got, tt.expected)
			}
		})
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "空字符串", input: "", expected: []string{}},
		{name: "只有分隔符", input: " , ,", expected: []string{}},
		{name: "常规", input: "go, web ,blog", expected: []string{"go", "web", "blog"}},
		{name: "中文逗号", input: "随笔，技术", expected: []string{"随笔", "技术"}},
		{name: "忽略大小写去重", input: "Go,go,GO,rust", expected: []string{"Go", "rust"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitNames(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("SplitNames(%q) = %#v, 期望 %#v", tt.input, got, tt.expected)
			}
		})
	}
}

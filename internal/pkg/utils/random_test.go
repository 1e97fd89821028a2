package utils

import "testing"

func TestGenerateRandomString(t *testing.T) {
	a, err := GenerateRandomString(32)
	if err != nil {
		t.Fatalf("GenerateRandomString 返回错误: %v", err)
	}
	b, _ := GenerateRandomString(32)
	if len(a) != 32 || a == b {
		t.Errorf("随机串长度或唯一性异常: %q %q", a, b)
	}
}

func TestIsLocalRedirect(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"/post/1/", true},
		{"/", true},
		{"", false},
		{"https://evil.example/", false},
		{"//evil.example/", false},
		{"/\\evil.example/", false},
		{"post/1/", false},
		{"/login/?next=%2Fpost%2F1%2F", true},
		{"/\t/evil.example", false},
		{"/\n/evil.example", false},
		{"/\r\n/evil.example", false},
		{"/post/\x7f", false},
	}
	for _, tt := range tests {
		if got := IsLocalRedirect(tt.target); got != tt.want {
			t.Errorf("IsLocalRedirect(%q) = %v, 期望 %v", tt.target, got, tt.want)
		}
	}
}

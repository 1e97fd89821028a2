package utils

import (
	"crypto/rand"
	"encoding/base64"
	"net/url"
	"strings"
)

// GenerateRandomString 生成指定长度的 URL 安全随机字符串，用于密钥等场景
func GenerateRandomString(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes)[:length], nil
}

// IsLocalRedirect 判断跳转目标是否为站内路径，防止开放重定向
func IsLocalRedirect(target string) bool {
	if target == "" || target[0] != '/' {
		return false
	}
	// 浏览器会删掉制表符和换行，"/\t/host" 最终变成 "//host"
	if strings.IndexFunc(target, func(r rune) bool { return r < 0x20 || r == 0x7f }) >= 0 {
		return false
	}
	// "//host" 与 "/\host" 会被浏览器当作其他站点
	if len(target) > 1 && (target[1] == '/' || target[1] == '\\') {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

package security

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength 是注册和重置密码时允许的最短密码长度
const MinPasswordLength = 8

// HashPassword 对密码进行哈希处理
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash 验证密码哈希
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword 检查密码强度，返回面向用户的错误提示；空字符串表示通过。
// username 非空时，密码不能与用户名相同。
func ValidatePassword(password, username string) string {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "密码太短，至少需要 8 个字符。"
	}
	if isAllDigits(password) {
		return "密码不能全部为数字。"
	}
	if username != "" && strings.EqualFold(password, username) {
		return "密码与用户名太相似。"
	}
	return ""
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

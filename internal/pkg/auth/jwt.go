package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/anzhiyu-c/myblog/pkg/idgen"
)

const issuer = "myblog"

// GenerateSessionToken 为用户签发一个会话 Token，返回 token 字符串和其 jti
func GenerateSessionToken(userID uint, username string, ttl time.Duration, secretKey []byte) (string, string, error) {
	if len(secretKey) == 0 {
		return "", "", fmt.Errorf("JWT Secret 不能为空")
	}

	publicUserID, err := idgen.GeneratePublicID(userID, idgen.EntityTypeUser)
	if err != nil {
		return "", "", fmt.Errorf("生成用户公共ID失败: %w", err)
	}

	now := time.Now()
	jti := uuid.NewString()
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   publicUserID,
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secretKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

// ParseSessionToken 解析并校验会话 Token
func ParseSessionToken(tokenStr string, secretKey []byte) (*SessionClaims, error) {
	if len(secretKey) == 0 {
		return nil, fmt.Errorf("JWT Secret 不能为空")
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, fmt.Errorf("解析token失败: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("无效或过期Token")
	}
	return claims, nil
}

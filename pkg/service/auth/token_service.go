package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anzhiyu-c/myblog/internal/pkg/auth"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/idgen"
	"github.com/anzhiyu-c/myblog/pkg/service/utility"
)

// TokenService 负责会话令牌和密码重置令牌
type TokenService interface {
	IssueSession(user *model.User) (string, error)
	// ParseSession 解析会话令牌，已注销的令牌返回 ErrInvalidToken
	ParseSession(ctx context.Context, token string) (*auth.SessionClaims, error)
	RevokeSession(ctx context.Context, token string) error
	// MakeResetToken 生成与用户当前密码绑定的重置令牌
	MakeResetToken(user *model.User) string
	CheckResetToken(user *model.User, token string) error
}

type tokenService struct {
	secret     []byte
	sessionTTL time.Duration
	cacheSvc   utility.CacheService
	now        func() time.Time
}

// NewTokenService 构造函数。secret 由启动流程从配置或 settings 表加载。
func NewTokenService(secret []byte, sessionTTL time.Duration, cacheSvc utility.CacheService) TokenService {
	return &tokenService{
		secret:     secret,
		sessionTTL: sessionTTL,
		cacheSvc:   cacheSvc,
		now:        time.Now,
	}
}

// --- 会话令牌 ---

func (s *tokenService) IssueSession(user *model.User) (string, error) {
	token, _, err := auth.GenerateSessionToken(user.ID, user.Username, s.sessionTTL, s.secret)
	return token, err
}

func (s *tokenService) ParseSession(ctx context.Context, token string) (*auth.SessionClaims, error) {
	claims, err := auth.ParseSessionToken(token, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constant.ErrInvalidToken, err)
	}
	revoked, err := s.cacheSvc.Get(ctx, constant.RevokedSessionKeyPrefix+claims.ID)
	if err != nil {
		return nil, fmt.Errorf("查询会话状态失败: %w", err)
	}
	if revoked != "" {
		return nil, fmt.Errorf("%w: 会话已注销", constant.ErrInvalidToken)
	}
	return claims, nil
}

func (s *tokenService) RevokeSession(ctx context.Context, token string) error {
	claims, err := auth.ParseSessionToken(token, s.secret)
	if err != nil {
		// 无效令牌本身就无法再使用
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.cacheSvc.Set(ctx, constant.RevokedSessionKeyPrefix+claims.ID, "1", ttl)
}

// --- 密码重置令牌 ---
// 格式为 "<过期时间(36进制)>-<签名>"，签名覆盖公共 ID、密码哈希和上次登录时间，
// 因此修改密码或重新登录后旧链接自动失效。

func (s *tokenService) resetSignature(user *model.User, expiry int64) string {
	publicID, _ := idgen.GeneratePublicID(user.ID, idgen.EntityTypeUser)
	var lastLogin int64
	if user.LastLoginAt != nil {
		lastLogin = user.LastLoginAt.Unix()
	}
	h := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(h, "%s:%s:%d:%d", publicID, user.PasswordHash, lastLogin, expiry)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

func (s *tokenService) MakeResetToken(user *model.User) string {
	expiry := s.now().Add(constant.PasswordResetTTL).Unix()
	return strconv.FormatInt(expiry, 36) + "-" + s.resetSignature(user, expiry)
}

func (s *tokenService) CheckResetToken(user *model.User, token string) error {
	expiryStr, sig, ok := strings.Cut(token, "-")
	if !ok {
		return fmt.Errorf("%w: 令牌格式无效", constant.ErrInvalidToken)
	}
	expiry, err := strconv.ParseInt(expiryStr, 36, 64)
	if err != nil {
		return fmt.Errorf("%w: 令牌过期时间格式无效", constant.ErrInvalidToken)
	}
	if s.now().Unix() > expiry {
		return fmt.Errorf("%w: 令牌已过期", constant.ErrInvalidToken)
	}
	if !hmac.Equal([]byte(sig), []byte(s.resetSignature(user, expiry))) {
		return fmt.Errorf("%w: 签名无效", constant.ErrInvalidToken)
	}
	return nil
}

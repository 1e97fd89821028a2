// internal/app/middleware/auth.go
package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/myblog/internal/pkg/auth"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/response"
	service_auth "github.com/anzhiyu-c/myblog/pkg/service/auth"
)

type Middleware struct {
	authSvc service_auth.AuthService
}

func NewMiddleware(authSvc service_auth.AuthService) *Middleware {
	return &Middleware{authSvc: authSvc}
}

// SessionAuth 从会话 Cookie 中恢复当前用户。
// 没有 Cookie 或令牌无效时按匿名用户继续处理，无效的 Cookie 会被清除。
func (m *Middleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(constant.SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := m.authSvc.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, constant.ErrInvalidToken) {
				log.Printf("[SessionAuth] 加载会话用户失败: %v", err)
			}
			ClearSessionCookie(c)
			c.Next()
			return
		}

		c.Set(auth.ActorKey, user.Actor())
		c.Set(auth.SessionTokenKey, token)
		c.Next()
	}
}

// LoginRequired 要求已登录，匿名用户被重定向到登录页
func (m *Middleware) LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.CurrentActor(c) == nil {
			response.RedirectToLogin(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie 写入会话 Cookie
func SetSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constant.SessionCookieName, token, maxAge, "/", "", false, true)
}

// ClearSessionCookie 删除会话 Cookie
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constant.SessionCookieName, "", -1, "/", "", false, true)
}

package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
)

// CurrentActor 返回会话中间件放入上下文的当前用户，匿名访问时返回 nil
func CurrentActor(c *gin.Context) *model.Actor {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*model.Actor)
	return actor
}

// CurrentSessionToken 返回当前请求携带的有效会话令牌
func CurrentSessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/response"
	"github.com/anzhiyu-c/myblog/pkg/service/utility"
)

// FlashBox 为每个浏览器分配一个消息盒 ID，并把消息盒绑定到请求上下文
func FlashBox(flashSvc utility.FlashService) gin.HandlerFunc {
	return func(c *gin.Context) {
		boxID, err := c.Cookie(constant.FlashCookieName)
		if err != nil || uuid.Validate(boxID) != nil {
			boxID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(constant.FlashCookieName, boxID, 0, "/", "", false, true)
		}
		response.UseFlashBox(c, flashSvc, boxID)
		c.Next()
	}
}

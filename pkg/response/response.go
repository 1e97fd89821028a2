package response

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/myblog/internal/pkg/auth"
	"github.com/anzhiyu-c/myblog/pkg/constant"
)

// HTML 渲染页面，并附加所有页面共用的数据：当前用户和待显示的提示消息
func HTML(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["User"] = auth.CurrentActor(c)
	data["Messages"] = popFlashes(c)
	data["Path"] = c.Request.URL.Path
	c.HTML(code, name, data)
}

// Redirect 以 302 跳转到站内地址
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// LoginURL 返回登录页地址，next 为登录后要回到的页面
func LoginURL(next string) string {
	if next == "" {
		return "/login/"
	}
	return "/login/?next=" + url.QueryEscape(next)
}

// RedirectToLogin 跳转到登录页，登录后回到当前请求的页面
func RedirectToLogin(c *gin.Context) {
	Redirect(c, LoginURL(c.Request.URL.RequestURI()))
}

// NotFound 渲染 404 页面
func NotFound(c *gin.Context) {
	HTML(c, http.StatusNotFound, "404.html", gin.H{"Title": "页面不存在"})
}

// Forbidden 渲染 403 页面
func Forbidden(c *gin.Context) {
	HTML(c, http.StatusForbidden, "403.html", gin.H{"Title": "无权访问"})
}

// Error 把业务错误映射为对应的页面
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, constant.ErrNotFound):
		NotFound(c)
	case errors.Is(err, constant.ErrForbidden):
		Forbidden(c)
	case errors.Is(err, constant.ErrUnauthorized):
		RedirectToLogin(c)
	default:
		log.Printf("[Response] %s %s 处理失败: %v", c.Request.Method, c.Request.URL.Path, err)
		HTML(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "服务器错误"})
	}
}

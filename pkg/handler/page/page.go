package page

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/myblog/internal/pkg/auth"
	"github.com/anzhiyu-c/myblog/pkg/response"
	"github.com/anzhiyu-c/myblog/pkg/service/post"
)

// Handler 静态页面和个人主页
type Handler struct {
	postSvc *post.Service
}

// NewHandler 创建页面处理器
func NewHandler(postSvc *post.Service) *Handler {
	return &Handler{postSvc: postSvc}
}

// About 关于页面
func (h *Handler) About(c *gin.Context) {
	response.HTML(c, http.StatusOK, "about.html", gin.H{"Title": "About"})
}

// Profile 当前用户发布的文章
func (h *Handler) Profile(c *gin.Context) {
	posts, err := h.postSvc.ListByAuthor(c.Request.Context(), auth.CurrentActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.HTML(c, http.StatusOK, "profile.html", gin.H{
		"Title": "个人主页",
		"Posts": posts,
	})
}

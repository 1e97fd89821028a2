package post_handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/myblog/internal/pkg/auth"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/response"
	"github.com/anzhiyu-c/myblog/pkg/service/comment"
	"github.com/anzhiyu-c/myblog/pkg/service/policy"
	"github.com/anzhiyu-c/myblog/pkg/service/post"
	"github.com/anzhiyu-c/myblog/pkg/service/post_category"
	"github.com/anzhiyu-c/myblog/pkg/service/post_tag"
)

// Handler 封装了文章和评论相关的页面
type Handler struct {
	postSvc     *post.Service
	commentSvc  *comment.Service
	categorySvc *post_category.Service
	tagSvc      *post_tag.Service
}

func NewHandler(postSvc *post.Service, commentSvc *comment.Service, categorySvc *post_category.Service, tagSvc *post_tag.Service) *Handler {
	return &Handler{postSvc: postSvc, commentSvc: commentSvc, categorySvc: categorySvc, tagSvc: tagSvc}
}

// parseID 解析路径中的文章 ID，格式错误按 404 处理
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.NotFound(c)
		return 0, false
	}
	return uint(id), true
}

func detailURL(id uint) string {
	return fmt.Sprintf("/post/%d/", id)
}

// List 首页文章列表
func (h *Handler) List(c *gin.Context) {
	res, err := h.postSvc.List(c.Request.Context(), c.Query("page"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.HTML(c, http.StatusOK, "home.html", gin.H{
		"Posts": res.Posts,
		"Page":  res.Page,
	})
}

func (h *Handler) renderDetail(c *gin.Context, code int, id uint, form *model.CommentForm, verr *model.ValidationError) {
	res, err := h.postSvc.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.HTML(c, code, "post_detail.html", gin.H{
		"Title":     res.Post.Title,
		"Post":      res.Post,
		"Comments":  res.Comments,
		"Form":      form,
		"Errors":    verr,
		"CanModify": policy.CanModifyPost(auth.CurrentActor(c), res.Post),
	})
}

// Detail 文章详情，附带空的评论表单
func (h *Handler) Detail(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.renderDetail(c, http.StatusOK, id, &model.CommentForm{}, nil)
}

// Comment 处理详情页提交的评论
func (h *Handler) Comment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var form model.CommentForm
	_ = c.ShouldBind(&form)

	_, err := h.commentSvc.Create(c.Request.Context(), auth.CurrentActor(c), id, &form)
	var verr *model.ValidationError
	switch {
	case err == nil:
		response.Flash(c, constant.FlashSuccess, "评论已发布！")
		response.Redirect(c, detailURL(id))
	case errors.Is(err, constant.ErrUnauthorized):
		response.Flash(c, constant.FlashWarning, "登录后才能发表评论哦~")
		response.Redirect(c, response.LoginURL(detailURL(id)))
	case errors.As(err, &verr):
		h.renderDetail(c, http.StatusOK, id, &form, verr)
	default:
		response.Error(c, err)
	}
}

// renderForm 渲染文章表单，已有的分类和标签作为输入提示，加载失败时不影响表单本身
func (h *Handler) renderForm(c *gin.Context, title string, form *model.PostForm, verr *model.ValidationError) {
	ctx := c.Request.Context()
	categories, err := h.categorySvc.List(ctx)
	if err != nil {
		log.Printf("[PostHandler] 加载分类列表失败: %v", err)
	}
	tags, err := h.tagSvc.List(ctx)
	if err != nil {
		log.Printf("[PostHandler] 加载标签列表失败: %v", err)
	}
	response.HTML(c, http.StatusOK, "post_form.html", gin.H{
		"Title":      title,
		"Form":       form,
		"Errors":     verr,
		"Categories": categories,
		"Tags":       tags,
	})
}

// New 发布文章表单
func (h *Handler) New(c *gin.Context) {
	h.renderForm(c, "发布文章", &model.PostForm{}, nil)
}

// Create 提交新文章
func (h *Handler) Create(c *gin.Context) {
	var form model.PostForm
	_ = c.ShouldBind(&form)

	p, err := h.postSvc.Create(c.Request.Context(), auth.CurrentActor(c), &form)
	var verr *model.ValidationError
	switch {
	case err == nil:
		response.Flash(c, constant.FlashSuccess, "文章已成功发布！")
		response.Redirect(c, detailURL(p.ID))
	case errors.As(err, &verr):
		h.renderForm(c, "发布文章", &form, verr)
	default:
		response.Error(c, err)
	}
}

// Edit 编辑文章表单，仅作者可访问
func (h *Handler) Edit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.postSvc.GetForEdit(c.Request.Context(), auth.CurrentActor(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.renderForm(c, "编辑文章", model.NewPostForm(p), nil)
}

// Update 提交文章修改
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var form model.PostForm
	_ = c.ShouldBind(&form)

	p, err := h.postSvc.Update(c.Request.Context(), auth.CurrentActor(c), id, &form)
	var verr *model.ValidationError
	switch {
	case err == nil:
		response.Flash(c, constant.FlashSuccess, "文章已成功更新！")
		response.Redirect(c, detailURL(p.ID))
	case errors.As(err, &verr):
		h.renderForm(c, "编辑文章", &form, verr)
	default:
		response.Error(c, err)
	}
}

// ConfirmDelete 删除确认页
func (h *Handler) ConfirmDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.postSvc.GetForEdit(c.Request.Context(), auth.CurrentActor(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.HTML(c, http.StatusOK, "post_confirm_delete.html", gin.H{
		"Title": "删除文章",
		"Post":  p,
	})
}

// Delete 执行删除
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.postSvc.Delete(c.Request.Context(), auth.CurrentActor(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Flash(c, constant.FlashSuccess, "文章已成功删除！")
	response.Redirect(c, "/")
}

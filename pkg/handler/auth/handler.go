package auth_handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/myblog/internal/app/middleware"
	ctxauth "github.com/anzhiyu-c/myblog/internal/pkg/auth"
	"github.com/anzhiyu-c/myblog/internal/pkg/utils"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/response"
	"github.com/anzhiyu-c/myblog/pkg/service/auth"
	"github.com/anzhiyu-c/myblog/pkg/service/imagecaptcha"
)

const invalidLoginMessage = "请输入正确的用户名和密码。注意这两个字段可能都区分大小写。"

// AuthHandler 封装了所有认证相关的页面
type AuthHandler struct {
	authSvc    auth.AuthService
	tokenSvc   auth.TokenService
	captchaSvc imagecaptcha.ImageCaptchaService
	sessionTTL time.Duration
}

// NewAuthHandler 是 AuthHandler 的构造函数，用于依赖注入
func NewAuthHandler(authSvc auth.AuthService, tokenSvc auth.TokenService, captchaSvc imagecaptcha.ImageCaptchaService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authSvc:    authSvc,
		tokenSvc:   tokenSvc,
		captchaSvc: captchaSvc,
		sessionTTL: sessionTTL,
	}
}

// startSession 签发会话令牌并写入 Cookie
func (h *AuthHandler) startSession(c *gin.Context, user *model.User) error {
	token, err := h.tokenSvc.IssueSession(user)
	if err != nil {
		return err
	}
	middleware.SetSessionCookie(c, token, int(h.sessionTTL/time.Second))
	return nil
}

// --- 注册 ---

func (h *AuthHandler) renderRegister(c *gin.Context, form *model.RegisterRequest, verr *model.ValidationError) {
	ch, err := h.captchaSvc.Generate(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	// 不回显密码
	form.Password1, form.Password2, form.CaptchaAnswer = "", "", ""
	response.HTML(c, http.StatusOK, "register.html", gin.H{
		"Title":   "注册",
		"Form":    form,
		"Errors":  verr,
		"Captcha": ch,
	})
}

// RegisterPage 注册表单
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	h.renderRegister(c, &model.RegisterRequest{}, nil)
}

// Register 处理注册，成功后直接登录
func (h *AuthHandler) Register(c *gin.Context) {
	var form model.RegisterRequest
	_ = c.ShouldBind(&form)

	if err := h.captchaSvc.Verify(c.Request.Context(), form.CaptchaID, form.CaptchaAnswer); err != nil {
		verr := model.NewValidationError()
		verr.Add("captcha", err.Error())
		h.renderRegister(c, &form, verr)
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &form)
	var verr *model.ValidationError
	switch {
	case errors.As(err, &verr):
		h.renderRegister(c, &form, verr)
		return
	case err != nil:
		response.Error(c, err)
		return
	}

	if err := h.startSession(c, user); err != nil {
		response.Error(c, err)
		return
	}
	response.Flash(c, constant.FlashSuccess, fmt.Sprintf("账户%s创建成功！", user.Username))
	response.Redirect(c, "/")
}

// --- 登录 / 注销 ---

func renderLogin(c *gin.Context, form *model.LoginRequest, message string) {
	form.Password = ""
	response.HTML(c, http.StatusOK, "login.html", gin.H{
		"Title": "登录",
		"Form":  form,
		"Error": message,
	})
}

// LoginPage 登录表单
func (h *AuthHandler) LoginPage(c *gin.Context) {
	renderLogin(c, &model.LoginRequest{Next: c.Query("next")}, "")
}

// Login 校验凭据，成功后跳回 next (仅限站内地址)
func (h *AuthHandler) Login(c *gin.Context) {
	var form model.LoginRequest
	_ = c.ShouldBind(&form)
	if form.Next == "" {
		form.Next = c.Query("next")
	}

	user, err := h.authSvc.Login(c.Request.Context(), form.Username, form.Password)
	if errors.Is(err, constant.ErrInvalidCredentials) {
		renderLogin(c, &form, invalidLoginMessage)
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.startSession(c, user); err != nil {
		response.Error(c, err)
		return
	}

	target := "/"
	if utils.IsLocalRedirect(form.Next) {
		target = form.Next
	}
	response.Redirect(c, target)
}

// Logout 注销当前会话并显示已退出页面
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := ctxauth.CurrentSessionToken(c); token != "" {
		if err := h.tokenSvc.RevokeSession(c.Request.Context(), token); err != nil {
			log.Printf("[AuthHandler] 注销会话失败: %v", err)
		}
	}
	middleware.ClearSessionCookie(c)
	// 本次响应按匿名用户渲染
	c.Set(ctxauth.ActorKey, (*model.Actor)(nil))
	response.HTML(c, http.StatusOK, "logout.html", gin.H{"Title": "已退出"})
}

// --- 找回密码 ---

// PasswordResetPage 申请重置密码表单
func (h *AuthHandler) PasswordResetPage(c *gin.Context) {
	response.HTML(c, http.StatusOK, "password_reset.html", gin.H{
		"Title": "重置密码",
		"Form":  &model.PasswordResetRequest{},
	})
}

// PasswordReset 发送重置邮件。邮箱未注册时同样跳转到完成页。
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var form model.PasswordResetRequest
	_ = c.ShouldBind(&form)

	err := h.authSvc.RequestPasswordReset(c.Request.Context(), form.Email)
	var verr *model.ValidationError
	switch {
	case err == nil:
		response.Redirect(c, "/password-reset/done/")
	case errors.As(err, &verr):
		response.HTML(c, http.StatusOK, "password_reset.html", gin.H{
			"Title":  "重置密码",
			"Form":   &form,
			"Errors": verr,
		})
	default:
		response.Error(c, err)
	}
}

// PasswordResetDone 邮件已发送
func (h *AuthHandler) PasswordResetDone(c *gin.Context) {
	response.HTML(c, http.StatusOK, "password_reset_done.html", gin.H{"Title": "邮件已发送"})
}

func renderResetConfirm(c *gin.Context, validLink bool, verr *model.ValidationError) {
	response.HTML(c, http.StatusOK, "password_reset_confirm.html", gin.H{
		"Title":     "设置新密码",
		"ValidLink": validLink,
		"Errors":    verr,
	})
}

// PasswordResetConfirmPage 校验重置链接并显示设置新密码表单
func (h *AuthHandler) PasswordResetConfirmPage(c *gin.Context) {
	_, err := h.authSvc.CheckPasswordReset(c.Request.Context(), c.Param("uid"), c.Param("token"))
	if err != nil && !errors.Is(err, constant.ErrInvalidToken) {
		response.Error(c, err)
		return
	}
	renderResetConfirm(c, err == nil, nil)
}

// PasswordResetConfirm 保存新密码
func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	var form model.SetPasswordRequest
	_ = c.ShouldBind(&form)

	err := h.authSvc.PerformPasswordReset(c.Request.Context(), c.Param("uid"), c.Param("token"), &form)
	var verr *model.ValidationError
	switch {
	case err == nil:
		response.Redirect(c, "/password-reset-complete/")
	case errors.Is(err, constant.ErrInvalidToken):
		renderResetConfirm(c, false, nil)
	case errors.As(err, &verr):
		renderResetConfirm(c, true, verr)
	default:
		response.Error(c, err)
	}
}

// PasswordResetComplete 密码已修改
func (h *AuthHandler) PasswordResetComplete(c *gin.Context) {
	response.HTML(c, http.StatusOK, "password_reset_complete.html", gin.H{"Title": "密码已重置"})
}

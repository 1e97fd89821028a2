package router

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/myblog/internal/app/middleware"
	auth_handler "github.com/anzhiyu-c/myblog/pkg/handler/auth"
	page_handler "github.com/anzhiyu-c/myblog/pkg/handler/page"
	post_handler "github.com/anzhiyu-c/myblog/pkg/handler/post"
	"github.com/anzhiyu-c/myblog/pkg/response"
	"github.com/anzhiyu-c/myblog/pkg/service/utility"
)

// NoCacheMiddleware 禁止缓存动态页面，页面中含有当前用户和一次性提示消息
func NoCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache, no-store, must-revalidate, private, max-age=0")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	}
}

// Router 封装了应用的所有路由和其依赖的处理器。
type Router struct {
	authHandler *auth_handler.AuthHandler
	postHandler *post_handler.Handler
	pageHandler *page_handler.Handler
	mw          *middleware.Middleware
	flashSvc    utility.FlashService
}

// NewRouter 是 Router 的构造函数，通过依赖注入接收所有处理器。
func NewRouter(
	authHandler *auth_handler.AuthHandler,
	postHandler *post_handler.Handler,
	pageHandler *page_handler.Handler,
	mw *middleware.Middleware,
	flashSvc utility.FlashService,
) *Router {
	return &Router{
		authHandler: authHandler,
		postHandler: postHandler,
		pageHandler: pageHandler,
		mw:          mw,
		flashSvc:    flashSvc,
	}
}

// Setup 将模板、静态文件和所有路由注册到 Gin 引擎。
// webFS 中需要有 templates/ 和 static/ 两个目录。
func (r *Router) Setup(engine *gin.Engine, webFS fs.FS) error {
	htmlRender, err := LoadTemplates(webFS, "templates")
	if err != nil {
		return err
	}
	engine.HTMLRender = htmlRender

	static, err := fs.Sub(webFS, "static")
	if err != nil {
		return err
	}
	engine.StaticFS("/static", http.FS(static))

	site := engine.Group("/")
	site.Use(NoCacheMiddleware(), middleware.FlashBox(r.flashSvc), r.mw.SessionAuth())

	r.registerPostRoutes(site)
	r.registerAuthRoutes(site)
	r.registerPageRoutes(site)

	engine.NoRoute(middleware.FlashBox(r.flashSvc), r.mw.SessionAuth(), response.NotFound)
	return nil
}

func (r *Router) registerPostRoutes(site *gin.RouterGroup) {
	site.GET("/", r.postHandler.List)
	site.GET("/post/:id/", r.postHandler.Detail)
	site.POST("/post/:id/", r.postHandler.Comment)

	authed := site.Group("/", r.mw.LoginRequired())
	{
		authed.GET("/post/new", r.postHandler.New)
		authed.POST("/post/new", r.postHandler.Create)
		authed.GET("/post/:id/update/", r.postHandler.Edit)
		authed.POST("/post/:id/update/", r.postHandler.Update)
		authed.GET("/post/:id/delete/", r.postHandler.ConfirmDelete)
		authed.POST("/post/:id/delete/", r.postHandler.Delete)
	}
}

func (r *Router) registerAuthRoutes(site *gin.RouterGroup) {
	site.GET("/register/", r.authHandler.RegisterPage)
	site.POST("/register/", r.authHandler.Register)
	site.GET("/login/", r.authHandler.LoginPage)
	site.POST("/login/", r.authHandler.Login)
	site.GET("/logout/", r.authHandler.Logout)
	site.POST("/logout/", r.authHandler.Logout)

	site.GET("/password-reset/", r.authHandler.PasswordResetPage)
	site.POST("/password-reset/", r.authHandler.PasswordReset)
	site.GET("/password-reset/done/", r.authHandler.PasswordResetDone)
	site.GET("/password-reset-confirm/:uid/:token/", r.authHandler.PasswordResetConfirmPage)
	site.POST("/password-reset-confirm/:uid/:token/", r.authHandler.PasswordResetConfirm)
	site.GET("/password-reset-complete/", r.authHandler.PasswordResetComplete)
}

func (r *Router) registerPageRoutes(site *gin.RouterGroup) {
	site.GET("/about/", r.pageHandler.About)
	site.GET("/profile/", r.mw.LoginRequired(), r.pageHandler.Profile)
}

// myblog/cmd/server/app.go
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"entgo.io/ent/dialect"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/anzhiyu-c/myblog/internal/app/bootstrap"
	"github.com/anzhiyu-c/myblog/internal/app/middleware"
	"github.com/anzhiyu-c/myblog/internal/infra/persistence/database"
	ent_impl "github.com/anzhiyu-c/myblog/internal/infra/persistence/ent"
	"github.com/anzhiyu-c/myblog/internal/infra/router"
	"github.com/anzhiyu-c/myblog/internal/pkg/version"
	"github.com/anzhiyu-c/myblog/pkg/config"
	auth_handler "github.com/anzhiyu-c/myblog/pkg/handler/auth"
	page_handler "github.com/anzhiyu-c/myblog/pkg/handler/page"
	post_handler "github.com/anzhiyu-c/myblog/pkg/handler/post"
	"github.com/anzhiyu-c/myblog/pkg/service/auth"
	comment_service "github.com/anzhiyu-c/myblog/pkg/service/comment"
	"github.com/anzhiyu-c/myblog/pkg/service/imagecaptcha"
	post_service "github.com/anzhiyu-c/myblog/pkg/service/post"
	"github.com/anzhiyu-c/myblog/pkg/service/post_category"
	"github.com/anzhiyu-c/myblog/pkg/service/post_tag"
	"github.com/anzhiyu-c/myblog/pkg/service/utility"
	"github.com/anzhiyu-c/myblog/web"
)

const defaultSessionDays = 14

type App struct {
	cfg         *config.Config
	engine      *gin.Engine
	sqlDB       *sql.DB
	drv         dialect.Driver
	redisClient *redis.Client
	cacheSvc    utility.CacheService
}

func (a *App) PrintBanner() {
	banner := `
    __  ___      ____  __
   /  |/  /_  __/ __ )/ /___  ____ _
  / /|_/ / / / / __  / / __ \/ __ ` + "`" + `/
 / /  / / /_/ / /_/ / / /_/ / /_/ /
/_/  /_/\__, /_____/_/\____/\__, /
       /____/              /____/
`
	log.Println(banner)
	log.Println("--------------------------------------------------------")
	log.Printf(" MyBlog Version: %s", version.GetVersionString())
	log.Println("--------------------------------------------------------")
}

// NewApp 是应用的构造函数，它执行所有的初始化和依赖注入工作
func NewApp() (*App, error) {
	// --- Phase 1: 加载外部配置 ---
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	if !cfg.GetBool(config.KeyServerDebug) {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- Phase 2: 初始化基础设施 ---
	sqlDB, dialectName, err := database.NewSQLDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("创建数据库连接池失败: %w", err)
	}
	ctx := context.Background()
	if err := database.NewMigrationService(sqlDB, dialectName).RunMigrations(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	drv := database.NewDriver(sqlDB, dialectName, cfg.GetBool(config.KeyDBDebug))

	// Redis 不可用时自动降级到内存缓存
	redisClient := database.NewRedisClient(ctx, cfg)
	cacheSvc := utility.NewCacheServiceWithFallback(redisClient)

	app := &App{cfg: cfg, sqlDB: sqlDB, drv: drv, redisClient: redisClient, cacheSvc: cacheSvc}

	// --- Phase 3: 初始化数据仓库层 ---
	repos := ent_impl.NewRepositories(drv)
	txManager := ent_impl.NewTransactionManager(drv)

	// --- Phase 4: 引导程序 (密钥和 ID 编码器) ---
	boot, err := bootstrap.NewBootstrapper(repos).Run(ctx, cfg.GetString(config.KeySecret))
	if err != nil {
		app.Stop()
		return nil, fmt.Errorf("引导程序执行失败: %w", err)
	}

	// --- Phase 5: 初始化业务逻辑层 ---
	sessionDays := cfg.GetInt(config.KeySessionDays)
	if sessionDays <= 0 {
		sessionDays = defaultSessionDays
	}
	sessionTTL := time.Duration(sessionDays) * 24 * time.Hour

	emailSvc := utility.NewEmailService(cfg)
	flashSvc := utility.NewFlashService(cacheSvc)
	tokenSvc := auth.NewTokenService([]byte(boot.Secret), sessionTTL, cacheSvc)
	authSvc := auth.NewAuthService(repos.User, tokenSvc, emailSvc, cfg.GetString(config.KeySiteURL))
	captchaSvc := imagecaptcha.NewImageCaptchaService(cfg.GetBool(config.KeyCaptchaEnable), cacheSvc)
	postSvc := post_service.NewService(repos, txManager)
	commentSvc := comment_service.NewService(repos)
	categorySvc := post_category.NewService(repos.PostCategory)
	tagSvc := post_tag.NewService(repos.PostTag)

	// --- Phase 6: 初始化表现层 ---
	mw := middleware.NewMiddleware(authSvc)
	appRouter := router.NewRouter(
		auth_handler.NewAuthHandler(authSvc, tokenSvc, captchaSvc, sessionTTL),
		post_handler.NewHandler(postSvc, commentSvc, categorySvc, tagSvc),
		page_handler.NewHandler(postSvc),
		mw,
		flashSvc,
	)

	engine := gin.Default()
	if err := appRouter.Setup(engine, web.FS); err != nil {
		app.Stop()
		return nil, fmt.Errorf("注册路由失败: %w", err)
	}
	app.engine = engine
	return app, nil
}

func (a *App) Config() *config.Config {
	return a.cfg
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

func (a *App) Run() error {
	port := a.cfg.GetString(config.KeyServerPort)
	if port == "" {
		port = "8000"
	}
	log.Printf("应用程序启动成功，正在监听端口: %s", port)
	return a.engine.Run(":" + port)
}

// Stop 释放缓存、Redis 和数据库连接
func (a *App) Stop() {
	utility.StopCacheService(a.cacheSvc)
	if a.redisClient != nil {
		log.Println("关闭 Redis 连接...")
		a.redisClient.Close()
	}
	if a.drv != nil {
		log.Println("关闭数据库连接...")
		a.drv.Close()
	} else if a.sqlDB != nil {
		a.sqlDB.Close()
	}
}

package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/handler"
	"github.com/sitecraft/internal/logging"
	"go.uber.org/zap"
)

const sessionName = "sitecraft_session"

// Options 配置路由所需的会话与静态文件参数。
type Options struct {
	SessionSecret string
	StaticDir     string
	UploadDir     string
	UploadURLPath string
	SecureCookie  bool
	Logger        *zap.Logger
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(logging.Middleware(logger), gin.Recovery())

	// 配置会话中间件
	secret := opts.SessionSecret
	if strings.TrimSpace(secret) == "" {
		secret = "sitecraft-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(api.LocaleMiddleware())

	// 静态文件服务
	staticDir := opts.StaticDir
	if staticDir == "" {
		staticDir = "./web/static"
	}
	r.Static("/static", staticDir)
	uploadURL := strings.TrimRight(opts.UploadURLPath, "/")
	if opts.UploadDir != "" && uploadURL != "" && !strings.HasPrefix(uploadURL, "/static/") {
		r.Static(uploadURL, opts.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", api.Register)
		auth.POST("/login", api.Login)
		auth.POST("/logout", api.Logout)
		auth.GET("/me", api.AuthRequired(), api.Me)
	}

	dashboard := r.Group("/dashboard", api.AuthRequired())
	{
		dashboard.GET("/websites", api.ListWebsites)
		dashboard.POST("/websites", api.CreateWebsite)
		dashboard.DELETE("/websites/:id", api.DeleteWebsite)
		dashboard.GET("/templates", api.ListTemplates)
		dashboard.GET("/variants", api.ListVariants)
	}

	websiteEditor := r.Group("/website-editor", api.AuthRequired())
	{
		websiteEditor.GET("/:id", api.GetWebsite)
		websiteEditor.PUT("/:id", api.UpdateWebsite)
	}

	editor := r.Group("/editor/:id", api.AuthRequired())
	{
		editor.POST("/open", api.OpenEditor)
		editor.GET("/state", api.EditorState)
		editor.DELETE("", api.DiscardEditor)
		editor.GET("/preview", api.EditorPreview)
		editor.GET("/live", api.LivePreview)
		editor.PUT("/name", api.RenameWebsite)
		editor.PUT("/order", api.ReorderSections)
		editor.POST("/sections", api.InsertSection)
		editor.GET("/sections/:sectionId", api.GetSection)
		editor.PATCH("/sections/:sectionId", api.PatchSection)
		editor.DELETE("/sections/:sectionId", api.DeleteSection)
		editor.POST("/sections/:sectionId/move", api.MoveSection)
		editor.PATCH("/sections/:sectionId/array", api.PatchSectionArray)
		editor.POST("/sections/:sectionId/variant", api.SelectVariant)
		editor.POST("/session", api.UpdateSession)
		editor.POST("/save", api.SaveEditor)
		editor.POST("/publish", api.PublishEditor)
		editor.POST("/unpublish", api.UnpublishWebsite)
		editor.POST("/uploads", api.UploadImage)
	}

	// 其余单段路径按网站 slug 处理
	r.NoRoute(api.ShowSite)

	return r
}

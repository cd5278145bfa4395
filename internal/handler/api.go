package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sitecraft/internal/blob"
	"github.com/sitecraft/internal/editor"
	"github.com/sitecraft/internal/locale"
	"github.com/sitecraft/internal/render"
	"github.com/sitecraft/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options 汇总 API 依赖的外部组件。
type Options struct {
	Blobs           blob.Store
	Logger          *zap.Logger
	DefaultLanguage string
	SiteBaseURL     string
}

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db              *gorm.DB
	auth            *service.AuthService
	websites        *service.WebsiteService
	persist         *service.PersistenceService
	workspaces      *editor.Registry
	renderer        *render.Renderer
	blobs           blob.Store
	logger          *zap.Logger
	defaultLanguage string
	baseURL         string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, opts Options) (*API, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer, err := render.New(logger.Named("render"))
	if err != nil {
		return nil, err
	}

	blobs := opts.Blobs
	if blobs == nil {
		blobs = blob.NewLocalStore("", "")
	}

	persist := service.NewPersistenceService(gdb, logger.Named("persistence"))
	return &API{
		db:              gdb,
		auth:            service.NewAuthService(gdb),
		websites:        service.NewWebsiteService(gdb),
		persist:         persist,
		workspaces:      editor.NewRegistry(persist, logger.Named("editor")),
		renderer:        renderer,
		blobs:           blobs,
		logger:          logger,
		defaultLanguage: locale.Resolve(opts.DefaultLanguage),
		baseURL:         strings.TrimRight(strings.TrimSpace(opts.SiteBaseURL), "/"),
	}, nil
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Workspaces exposes the editor registry so the server can prune idle sessions.
func (a *API) Workspaces() *editor.Registry {
	return a.workspaces
}

// publicURL 返回已发布网站的完整访问地址。
func (a *API) publicURL(c *gin.Context, slug string) string {
	base := a.baseURL
	if base == "" && c != nil && c.Request != nil {
		base = a.detectScheme(c) + "://" + c.Request.Host
	}
	return base + "/" + slug
}

func (a *API) detectScheme(c *gin.Context) string {
	if proto := strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")); proto != "" {
		return strings.ToLower(strings.Split(proto, ",")[0])
	}
	if c.Request != nil && c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

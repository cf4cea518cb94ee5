package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/fsx"
	"github.com/dfhdfh403/ship-progress-monitor/internal/scheduler"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/alert"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/cache"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/settings"
	"github.com/dfhdfh403/ship-progress-monitor/internal/store"
)

// Server HTTP服务器
type Server struct {
	router    *gin.Engine
	cache     *cache.Manager
	settings  *settings.Store
	active    *alert.ActiveStore
	sched     *scheduler.Scheduler
	history   *store.History
	staticDir string
	log       zerolog.Logger
}

// Options 服务器装配参数
type Options struct {
	Cache     *cache.Manager
	Settings  *settings.Store
	Active    *alert.ActiveStore
	Scheduler *scheduler.Scheduler
	History   *store.History
	StaticDir string
	DevMode   bool
	Log       zerolog.Logger
}

// NewServer 创建服务器
func NewServer(opts Options) *Server {
	if !opts.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	staticDir := opts.StaticDir
	if staticDir == "" {
		staticDir = "."
	}

	s := &Server{
		router:    gin.New(),
		cache:     opts.Cache,
		settings:  opts.Settings,
		active:    opts.Active,
		sched:     opts.Scheduler,
		history:   opts.History,
		staticDir: staticDir,
		log:       opts.Log,
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		api.GET("/data", s.getData)
		api.POST("/save_settings", s.saveSettings)
		api.GET("/history", s.getHistory)
	}

	s.router.GET("/health", s.health)

	// 首页与静态文件：工作目录直接对外
	s.router.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(s.staticDir, "index.html"))
	})
	s.router.NoRoute(s.staticFile)
}

// staticFile 提供工作目录下的静态文件，禁止目录穿越
func (s *Server) staticFile(c *gin.Context) {
	rel := strings.TrimPrefix(c.Request.URL.Path, "/")
	rel = filepath.Clean(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		c.Status(http.StatusNotFound)
		return
	}

	full := filepath.Join(s.staticDir, rel)
	if !fsx.FileExists(full) {
		c.Status(http.StatusNotFound)
		return
	}
	c.File(full)
}

// Router 返回底层路由，测试用
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

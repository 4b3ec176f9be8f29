package app

import (
	"net/http"
	"time"

	"github.com/dwellio/core/internal/middleware"
	"github.com/dwellio/core/internal/modules/appearance"
	"github.com/dwellio/core/internal/modules/appearance/contextual"
	"github.com/dwellio/core/internal/modules/appearance/history"
	"github.com/dwellio/core/internal/modules/appearance/preset"
	"github.com/dwellio/core/internal/modules/appearance/theme"
	"github.com/dwellio/core/internal/modules/system/legacyimport"
	"github.com/dwellio/core/internal/pkg/cache"
	"github.com/dwellio/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes() {
	r := a.router
	authMW := middleware.Auth()
	optionalMW := middleware.OptionalAuth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "dwellio-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/dwellio/core",
	}

	api := r.Group("/api/v2")

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/health", a.health)
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(processStart).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	// Appearance engine
	theme.NewHandler(a.configs).RegisterRoutes(api, authMW)
	preset.NewHandler(a.presets).RegisterRoutes(api, authMW)
	history.NewHandler(a.hist).RegisterRoutes(api, authMW)
	contextual.NewHandler(a.contexts, a.resolver).RegisterRoutes(api, authMW, optionalMW)

	// Cache diagnostics (admin)
	cacheAdmin := api.Group("/appearance/cache", authMW, middleware.RequireAdmin())
	cacheAdmin.GET("/stats", a.cacheStats)
	api.POST("/appearance/clean_cache", authMW, middleware.RequireAdmin(), a.cleanCache)

	// Background jobs (admin)
	jobs := api.Group("/jobs", authMW, middleware.RequireAdmin())
	jobs.GET("", func(c *gin.Context) {
		response.OK(c, a.sched.List())
	})
	jobs.POST("/:name/run", func(c *gin.Context) {
		if err := a.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
			response.NotFoundMsg(c, err.Error())
			return
		}
		response.OK(c, gin.H{"triggered": true})
	})

	// Legacy data migration (admin)
	importer := legacyimport.NewImporter(a.db, a.logger)
	legacyimport.NewHandler(importer).RegisterRoutes(api, authMW)
}

// GET /api/v2/health
func (a *App) health(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/v2/appearance/cache/stats
func (a *App) cacheStats(c *gin.Context) {
	stats := make(map[string]cache.Stats, len(a.caches))
	for name, ca := range a.caches {
		stats[name] = ca.Stats()
	}
	response.OK(c, stats)
}

// POST /api/v2/appearance/clean_cache
//
// Flushes every appearance cache on all replicas.
func (a *App) cleanCache(c *gin.Context) {
	removed := map[string]int{
		appearance.CacheConfigs:    a.bus.Invalidate(c.Request.Context(), appearance.CacheConfigs, appearance.KeyConfigPrefix),
		appearance.CachePresets:    a.bus.Invalidate(c.Request.Context(), appearance.CachePresets, appearance.KeyPresetPrefix),
		appearance.CacheContextual: a.bus.Invalidate(c.Request.Context(), appearance.CacheContextual, appearance.KeyContextPrefix),
	}
	response.OK(c, gin.H{"removed": removed})
}

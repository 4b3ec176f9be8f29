package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dwellio/core/internal/config"
	"github.com/dwellio/core/internal/database"
	"github.com/dwellio/core/internal/middleware"
	"github.com/dwellio/core/internal/modules/appearance"
	"github.com/dwellio/core/internal/modules/appearance/contextual"
	"github.com/dwellio/core/internal/modules/appearance/history"
	"github.com/dwellio/core/internal/modules/appearance/preset"
	"github.com/dwellio/core/internal/modules/appearance/theme"
	"github.com/dwellio/core/internal/pkg/cache"
	pkgcron "github.com/dwellio/core/internal/pkg/cron"
	pkgredis "github.com/dwellio/core/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	logger *zap.Logger
	cancel context.CancelFunc
	sched  *pkgcron.Scheduler

	configs  *theme.Store
	presets  *preset.Service
	hist     *history.Store
	contexts *contextual.Store
	resolver *contextual.Resolver

	bus    *cache.Bus
	caches map[string]*cache.Cache
}

// New initializes the application: config → DB → Redis → caches →
// routes → cron.
func New(logger *zap.Logger, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	applyRuntimeSettings(cfg, logger)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	// Redis powers cross-replica cache invalidation. A missing broker
	// degrades to per-process invalidation instead of failing startup.
	var rc *pkgredis.Client
	if cfg.RedisURL != "" {
		rc, err = pkgredis.Connect(cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, cache invalidation stays process-local", zap.Error(err))
			rc = nil
		}
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(buildCORSConfig(cfg)))

	ctx, cancel := context.WithCancel(context.Background())

	configCache := cache.New(time.Duration(cfg.Appearance.ConfigCacheTTL) * time.Second)
	presetCache := cache.New(time.Duration(cfg.Appearance.PresetCacheTTL) * time.Second)
	contextCache := cache.New(time.Duration(cfg.Appearance.ConfigCacheTTL) * time.Second)

	bus := cache.NewBus(rc, logger)
	bus.Attach(appearance.CacheConfigs, configCache)
	bus.Attach(appearance.CachePresets, presetCache)
	bus.Attach(appearance.CacheContextual, contextCache)
	go bus.Listen(ctx)

	hist := history.NewStore(db, logger)
	configs := theme.NewStore(db, configCache, bus, hist, theme.WithLogger(logger))
	presets := preset.NewService(db, presetCache, bus, configs, logger)
	contexts := contextual.NewStore(db, contextCache, bus, logger)
	resolver := contextual.NewResolver(contexts, configs, logger)

	if err := presets.Seed(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("seed presets: %w", err)
	}

	sched := pkgcron.New()
	registerCronJobs(sched, hist, cfg, logger)
	go sched.Start(ctx)

	app := &App{
		cfg:      cfg,
		router:   router,
		db:       db,
		logger:   logger,
		cancel:   cancel,
		sched:    sched,
		configs:  configs,
		presets:  presets,
		hist:     hist,
		contexts: contexts,
		resolver: resolver,
		bus:      bus,
		caches: map[string]*cache.Cache{
			appearance.CacheConfigs:    configCache,
			appearance.CachePresets:    presetCache,
			appearance.CacheContextual: contextCache,
		},
	}
	app.registerRoutes()

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown cleans up background goroutines.
func (a *App) Shutdown() { a.cancel() }

func buildCORSConfig(cfg *config.AppConfig) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		patterns := cfg.AllowedOrigins
		corsConfig.AllowOriginFunc = func(origin string) bool {
			host := extractOriginHost(origin)
			for _, pattern := range patterns {
				if matchOriginPattern(pattern, host) {
					return true
				}
			}
			return false
		}
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	return corsConfig
}

var processStart = time.Now()

package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"skillkart_backend/internal/config"
	"skillkart_backend/internal/controller"
	"skillkart_backend/internal/repository"
	"skillkart_backend/internal/service"
	"skillkart_backend/pkg/configwatcher"
	"skillkart_backend/pkg/database"
	"skillkart_backend/pkg/logger"
	"skillkart_backend/pkg/monitoring"
	"skillkart_backend/pkg/security"
	"skillkart_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	repos           *repositories
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	profile  *repository.ProfileRepository
	roadmap  *repository.RoadmapRepository
	badge    *repository.BadgeRepository
	activity *repository.ActivityRepository
	follow   *repository.FollowRepository
}

type services struct {
	auth         *service.AuthService
	storage      *service.StorageService
	gamification *service.GamificationService
	profile      *service.ProfileService
	roadmap      *service.RoadmapService
	user         *service.UserService
	badge        *service.BadgeService
	follow       *service.FollowService
	dashboard    *service.DashboardService
	engine       *service.Engine
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	profile   *controller.ProfileController
	dashboard *controller.DashboardController
	roadmap   *controller.RoadmapController
	badge     *controller.BadgeController
	follow    *controller.FollowController
	health    *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		profile:  repository.NewProfileRepository(db),
		roadmap:  repository.NewRoadmapRepository(db, rdb, time.Duration(cfg.Redis.CatalogTTL)*time.Second),
		badge:    repository.NewBadgeRepository(db),
		activity: repository.NewActivityRepository(db),
		follow:   repository.NewFollowRepository(db, rdb),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) (*services, error) {
	s := &services{}

	gamification, err := service.NewGamificationService(
		db,
		repos.user,
		repos.badge,
		repos.activity,
		repos.roadmap,
		repos.follow,
		cfg.Gamification,
	)
	if err != nil {
		return nil, err
	}
	s.gamification = gamification

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.profile = service.NewProfileService(repos.profile)
	s.roadmap = service.NewRoadmapService(db, repos.roadmap, repos.profile, s.gamification, cfg.Recommendation)
	s.user = service.NewUserService(repos.user, repos.badge, repos.follow, s.gamification, s.storage)
	s.badge = service.NewBadgeService(repos.badge, s.storage)
	s.follow = service.NewFollowService(repos.follow, s.user, s.gamification)
	s.dashboard = service.NewDashboardService(
		repos.user,
		repos.profile,
		repos.roadmap,
		repos.activity,
		s.gamification,
		s.roadmap,
	)
	s.engine = service.NewEngine(s.user, s.profile, s.roadmap, s.gamification)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		user:      controller.NewUserController(s.user),
		profile:   controller.NewProfileController(s.engine),
		dashboard: controller.NewDashboardController(s.dashboard),
		roadmap:   controller.NewRoadmapController(s.engine, s.roadmap),
		badge:     controller.NewBadgeController(s.badge, s.gamification),
		follow:    controller.NewFollowController(s.follow),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// build 在已初始化的存储之上装配服务与路由
func (a *App) build(db *gorm.DB, rdb *redis.Client) error {
	a.DB = db
	a.Redis = rdb

	a.repos = a.initRepositories(db, rdb, a.Config)
	s, err := a.initServices(a.repos, a.Config, db)
	if err != nil {
		return err
	}
	a.services = s
	c := a.initControllers(s, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if a.Config.Server.Mode != gin.ReleaseMode {
		router.Use(gin.Logger())
	}
	a.Router = router

	a.setupMiddlewares(router, a.Config)
	a.registerRoutes(router, c, a.repos, a.Config)

	if a.Config.Storage.Type == "local" {
		router.Static("/uploads", a.Config.Storage.LocalPath)
	}

	// 热加载只替换等级表、奖励与时区，其他配置需要重启
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if err := s.gamification.ApplyConfig(cfg.Gamification); err != nil {
			logger.Log.Warn("Ignoring invalid gamification config", zap.Error(err))
			return
		}
		logger.Log.Info("Gamification config reloaded")
	})

	return nil
}

func NewApp(cfg *config.Config, configDir string) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
	}

	if cfg.MigrateOnly {
		app.DB = db
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	if cfg.Seed.Enabled {
		if err := seedDatabase(db, cfg.Seed.Path); err != nil {
			logger.Log.Error("Failed to seed database", zap.Error(err))
		}
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	if err := app.build(db, rdb); err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}

	return app
}

func seedDatabase(db *gorm.DB, path string) error {
	seed, err := database.LoadSeedFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Log.Info("Seed file not found, skipping", zap.String("path", path))
			return nil
		}
		return err
	}
	return database.Seed(db, seed)
}

func (a *App) watchConfig(ctx context.Context) {
	if a.ConfigDir == "" || len(a.configCallbacks) == 0 {
		return
	}
	configFile := filepath.Join(a.ConfigDir, "config.yaml")
	err := configwatcher.WatchConfig(ctx, configFile, func(cfg *config.Config) {
		for _, callback := range a.configCallbacks {
			callback(cfg)
		}
	})
	if err != nil {
		logger.Log.Error("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go a.watchConfig(watchCtx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	stopWatch()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}

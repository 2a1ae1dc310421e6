package app

import (
	"context"
	"exam_architect_backend/internal/config"
	"exam_architect_backend/internal/controller"
	"exam_architect_backend/internal/repository"
	"exam_architect_backend/internal/service"
	"exam_architect_backend/pkg/database"
	"exam_architect_backend/pkg/logger"
	"exam_architect_backend/pkg/monitoring"
	"exam_architect_backend/pkg/security"
	"exam_architect_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerProvider  *sdktrace.TracerProvider
}

type repositories struct {
	exam    *repository.ExamRepository
	session repository.SessionRepository
}

type services struct {
	section   *service.SectionService
	question  *service.QuestionService
	converter *service.ConverterService
	storage   *service.StorageService
	publish   *service.PublishService
	document  *service.DocumentService
}

type controllers struct {
	exam     *controller.ExamController
	section  *controller.SectionController
	question *controller.QuestionController
	transfer *controller.TransferController
	publish  *controller.PublishController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，由 configwatcher 在文件变化时调用
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		exam:    repository.NewExamRepository(db),
		session: repository.NewRedisSessionRepository(rdb, cfg.Session.TTLHours),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.section = service.NewSectionService()
	s.question = service.NewQuestionService()
	s.converter = service.NewConverterService()
	s.storage = service.NewStorageService(cfg)
	s.publish = service.NewPublishService(s.converter, repos.exam, s.storage,
		cfg.Publish.BaseURL, cfg.Publish.TimeoutSeconds)
	s.document = service.NewDocumentService(
		s.section,
		s.question,
		s.converter,
		s.publish,
		repos.session,
		repos.exam,
		s.storage,
		cfg.Session.AutosaveInterval,
	)
	s.document.StartAutosave()

	// 发布端点支持热更新
	a.RegisterConfigCallback(func(c *config.Config) {
		s.publish.BaseURL = c.Publish.BaseURL
	})

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		exam:     controller.NewExamController(s.document),
		section:  controller.NewSectionController(s.document),
		question: controller.NewQuestionController(s.document),
		transfer: controller.NewTransferController(s.document),
		publish:  controller.NewPublishController(s.document, repos.exam),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db, rdb, cfg)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, repos, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("exam-architect", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == "local" {
		router.Static("/archives", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// 停止自动保存循环并做最后一次刷盘，避免丢失未落盘的编辑
	if a.services != nil && a.services.document != nil {
		a.services.document.StopAutosave()
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

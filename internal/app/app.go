package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sahayak_backend/internal/config"
	"sahayak_backend/internal/controller"
	"sahayak_backend/internal/repository"
	"sahayak_backend/internal/service"
	"sahayak_backend/pkg/configwatcher"
	"sahayak_backend/pkg/database"
	"sahayak_backend/pkg/logger"
	"sahayak_backend/pkg/monitoring"
	"sahayak_backend/pkg/security"
	"sahayak_backend/pkg/tracing"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

type App struct {
	Config     *config.Config
	ConfigPath string
	Router     *gin.Engine
	DB         *gorm.DB
	Redis      *redis.Client
	Store      *repository.Store

	services        *services
	tracer          *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	teacher *repository.TeacherRepository
	student *repository.StudentRepository
	course  *repository.CourseRepository
	quiz    *repository.QuizRepository
	result  *repository.QuizResultRepository
}

type services struct {
	directory   *service.DirectoryService
	auth        *service.AuthService
	ai          *service.AIService
	quiz        *service.QuizService
	grading     *service.GradingService
	storage     *service.StorageService
	certificate *service.CertificateService
}

type controllers struct {
	auth        *controller.AuthController
	teacher     *controller.TeacherController
	student     *controller.StudentController
	course      *controller.CourseController
	quiz        *controller.QuizController
	grading     *controller.GradingController
	ai          *controller.AIController
	certificate *controller.CertificateController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()
	for _, cb := range callbacks {
		cb(cfg)
	}
}

// openDocumentStore connects the backend selected by store.backend. The
// memory backend has no document store.
func (a *App) openDocumentStore(cfg *config.Config) (repository.DocumentStore, error) {
	switch cfg.Store.Backend {
	case "mysql":
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		a.DB = db
		return repository.NewGormDocumentStore(db), nil
	case "redis":
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		a.Redis = rdb
		return repository.NewRedisDocumentStore(rdb, cfg.Redis.Prefix), nil
	}
	return nil, nil
}

func (a *App) initRepositories(store *repository.Store) *repositories {
	return &repositories{
		teacher: repository.NewTeacherRepository(store),
		student: repository.NewStudentRepository(store),
		course:  repository.NewCourseRepository(store),
		quiz:    repository.NewQuizRepository(store),
		result:  repository.NewQuizResultRepository(store),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.directory = service.NewDirectoryService(repos.teacher, repos.student, repos.course, cfg.Security.BcryptCost)
	s.auth = service.NewAuthService(s.directory, cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.quiz = service.NewQuizService(repos.quiz, repos.result, s.directory, s.ai)
	s.grading = service.NewGradingService(repos.quiz, repos.result, s.directory)
	s.storage = service.NewStorageService(cfg)
	s.certificate = service.NewCertificateService(s.directory, repos.result, s.ai, s.storage)

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.ai.UpdateConfig(newCfg.AI)
		logger.SetLevel(newCfg)
		logger.Log.Info("AI settings updated", zap.String("model", newCfg.AI.Model), zap.String("logLevel", logger.Level.String()))
	})
	return s
}

func (a *App) initControllers(s *services, cfg *config.Config) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		teacher:     controller.NewTeacherController(s.directory),
		student:     controller.NewStudentController(s.directory),
		course:      controller.NewCourseController(s.directory),
		quiz:        controller.NewQuizController(s.quiz),
		grading:     controller.NewGradingController(s.grading),
		ai:          controller.NewAIController(s.ai),
		certificate: controller.NewCertificateController(s.certificate),
		health:      controller.NewHealthController(a.Store, cfg.Store.Backend),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// build wires everything on top of an already opened document store.
func build(ctx context.Context, cfg *config.Config, docs repository.DocumentStore, a *App) error {
	a.Config = cfg
	a.Store = repository.NewStore(docs)
	if err := a.Store.Load(ctx); err != nil {
		return fmt.Errorf("load store: %w", err)
	}

	repos := a.initRepositories(a.Store)
	a.services = a.initServices(repos, cfg)

	if cfg.Store.Seed {
		if _, err := service.SeedAdmin(ctx, a.services.directory); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	monitoring.Init()

	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	a.Router = router

	a.setupMiddlewares(router, cfg)
	a.registerRoutes(router, a.initControllers(a.services, cfg), cfg)

	if cfg.Storage.Type == "" || cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
	return nil
}

func NewApp(cfg *config.Config, configPath string) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	app := &App{ConfigPath: configPath}

	docs, err := app.openDocumentStore(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("sahayak", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := build(ctx, cfg, docs, app); err != nil {
		app.close()
		return nil, err
	}

	logger.Log.Info("Application assembled",
		zap.String("store", cfg.Store.Backend),
		zap.Bool("persistent", app.Store.Persistent()))
	return app, nil
}

func (a *App) close() {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(context.Background()); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.ConfigPath != "" {
		go func() {
			if err := configwatcher.Watch(watchCtx, a.ConfigPath, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

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
	a.close()

	logger.Log.Info("Server exiting")
	_ = logger.Log.Sync()
}

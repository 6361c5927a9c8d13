package app

import (
	"context"

	"go-onboarding/internal/access"
	"go-onboarding/internal/assignment"
	"go-onboarding/internal/auth"
	"go-onboarding/internal/bootstrap"
	"go-onboarding/internal/config"
	"go-onboarding/internal/messaging/kafka"
	"go-onboarding/internal/middleware"
	"go-onboarding/internal/notification"
	"go-onboarding/internal/plan"
	"go-onboarding/internal/rbac"
	"go-onboarding/internal/rbac/infra"
	"go-onboarding/internal/rbac/rbac_http"
	"go-onboarding/internal/shared/connection"
	"go-onboarding/internal/task"
	"go-onboarding/internal/template"
	"go-onboarding/internal/user"
	"go-onboarding/internal/week"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the connections the HTTP modules are built on. Redis is
// optional; without it the reports cache and idempotency keys are off.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Audit  bootstrap.AuditLogger
	Logger *zap.Logger
}

// BuildApp connects the database (and Redis when configured), migrates
// when enabled and mounts every module on router. The returned func
// closes the connections.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L().Named("app")

	db, err := connection.ConnectGORMWithRetry(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", zap.String("driver", cfg.DBDriver))

	closers := []func(){func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			cleanup()
			return nil, err
		}
		logger.Info("database migrated")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
		if err != nil {
			cleanup()
			return nil, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
		logger.Info("redis connection established")
	} else {
		logger.Warn("REDIS_ADDR not set, reports cache and idempotency keys disabled")
	}

	err = RegisterModules(router, Deps{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Audit:  bootstrap.NewStdoutAuditLogger(zap.L()),
		Logger: zap.L(),
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}

// RegisterModules wires repositories, services and handlers and mounts
// their routes.
func RegisterModules(router *gin.Engine, deps Deps) error {
	cfg := deps.Config
	db := deps.DB
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(db)
	userRepo := user.NewRepository(db)
	weekRepo := week.NewRepository(db)
	taskRepo := task.NewRepository(db)
	templateRepo := template.NewRepository(db)
	planRepo := plan.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)
	if err := rbacService.Load(context.Background()); err != nil {
		return err
	}

	// --- Services ---
	userService := user.NewService(userRepo, deps.Redis, logger)
	authService := auth.NewService(userRepo, cfg.JWTSecret, logger)
	weekService := week.NewService(weekRepo, userRepo, logger)
	taskService := task.NewService(taskRepo, weekRepo, task.Options{SkipWeekends: cfg.DueDateSkipWeekends}, logger)
	templateService := template.NewService(templateRepo, deps.Audit, logger)
	planService := plan.NewService(planRepo, weekRepo, userRepo, logger)
	assignmentService := assignment.NewService(db, templateRepo, userRepo, planRepo, outboxRepo, deps.Audit, logger)
	notificationService := notification.NewService(notificationRepo, logger)

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService, logger)
	userHandler := user.NewHandler(userService, logger)
	authHandler := auth.NewHandler(authService, cfg.IsProduction(), logger)
	weekHandler := week.NewHandler(weekService, logger)
	taskHandler := task.NewHandler(taskService, logger)
	templateHandler := template.NewHandler(templateService, logger)
	planHandler := plan.NewHandler(planService, logger)
	assignmentHandler := assignment.NewHandler(assignmentService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)

	router.Use(
		cors.New(corsConfig(cfg)),
		middleware.RequestID(),
		middleware.Principal(cfg.JWTSecret),
		middleware.ContextLogger(logger),
	)

	health := newHealthHandler(db, cfg.DBDriver)
	router.GET("/healthz", health.Healthz)
	router.GET("/debug/db", middleware.RequireRole(access.RoleAdmin), health.DebugDB)

	currentUser := middleware.CurrentUser(userService)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler, cfg.JWTSecret)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService, currentUser)
		plan.RegisterRoutes(api, planHandler, rbacService, currentUser)
		assignment.RegisterRoutes(api, assignmentHandler, rbacService, deps.Redis)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
	}

	v1 := api.Group("/v1")
	{
		week.RegisterRoutes(v1, weekHandler, rbacService)
		task.RegisterRoutes(v1, taskHandler)
		template.RegisterRoutes(v1, templateHandler, rbacService)
	}

	return nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		c.AllowOrigins = cfg.CORSOrigins
	} else {
		c.AllowAllOrigins = true
	}
	c.AllowHeaders = append(c.AllowHeaders,
		"Authorization",
		"X-Request-ID",
		"X-User-Role",
		"X-User-Id",
		"X-User-Email",
		middleware.HeaderIdempotencyKey,
	)
	c.ExposeHeaders = []string{"X-Request-ID"}
	return c
}

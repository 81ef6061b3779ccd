// Package http wires repositories, application services and handlers into
// the gin engine.
package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appAuth "sobrio/internal/application/auth"
	appBeck "sobrio/internal/application/beck"
	appProgress "sobrio/internal/application/progress"
	appStrategy "sobrio/internal/application/strategy"
	"sobrio/internal/infrastructure/auth"
	"sobrio/internal/infrastructure/config"
	"sobrio/internal/infrastructure/ratelimit"
	"sobrio/internal/infrastructure/repository"
	"sobrio/internal/infrastructure/session"
	"sobrio/internal/interfaces/http/handlers"
	"sobrio/internal/interfaces/http/middleware"
	"sobrio/internal/shared/logger"
)

const janitorInterval = time.Hour

// Router holds the gin engine and every handler it serves.
type Router struct {
	engine          *gin.Engine
	healthHandler   *handlers.HealthHandler
	authHandler     *handlers.AuthHandler
	userHandler     *handlers.UserHandler
	cravingHandler  *handlers.CravingHandler
	exerciseHandler *handlers.ExerciseHandler
	strategyHandler *handlers.StrategyHandler
	beckHandler     *handlers.BeckHandler
	sessionAuth     *middleware.SessionAuthMiddleware
	authLimiter     ratelimit.RateLimiter
	generalLimiter  ratelimit.RateLimiter
	logger          logger.Interface
	allowedOrigins  []string
	stopJanitors    []func()
}

// NewRouter builds the full dependency graph. redisClient may be nil, in
// which case sessions and rate limits stay process-local.
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	userRepo := repository.NewUserRepository(db, log)
	cravingRepo := repository.NewCravingRepository(db, log)
	sessionRepo := repository.NewExerciseSessionRepository(db, log)
	statsRepo := repository.NewStatsRepository(db, log)
	badgeRepo := repository.NewBadgeRepository(db, log)
	strategyRepo := repository.NewStrategyRepository(db, log)
	beckRepo := repository.NewBeckRepository(db, log)

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)

	var stopJanitors []func()
	var kv session.KV
	var authLimiter, generalLimiter ratelimit.RateLimiter
	if redisClient != nil {
		kv = session.NewRedisKV(redisClient)
		authLimiter = ratelimit.NewRedisLimiter(redisClient, "sobrio:ratelimit:auth:",
			cfg.RateLimit.AuthMaxAttempts, cfg.RateLimit.AuthWindow())
		generalLimiter = ratelimit.NewRedisLimiter(redisClient, "sobrio:ratelimit:general:",
			cfg.RateLimit.GeneralPerMinute, time.Minute)
	} else {
		memKV := session.NewMemoryKV()
		stopJanitors = append(stopJanitors, memKV.StartJanitor(janitorInterval))
		kv = memKV

		memAuth := ratelimit.NewMemoryLimiter(cfg.RateLimit.AuthMaxAttempts, cfg.RateLimit.AuthWindow())
		stopJanitors = append(stopJanitors, memAuth.StartJanitor(janitorInterval))
		authLimiter = memAuth

		memGeneral := ratelimit.NewMemoryLimiter(cfg.RateLimit.GeneralPerMinute, time.Minute)
		stopJanitors = append(stopJanitors, memGeneral.StartJanitor(janitorInterval))
		generalLimiter = memGeneral
	}
	sessions := session.NewStore(kv, "", cfg.Auth.Session.TTL())

	credentials := appAuth.NewService(userRepo, hasher, cfg.Auth.AdminEmails, log)
	progressEngine := appProgress.NewEngine(cravingRepo, sessionRepo, statsRepo, badgeRepo, userRepo, log)
	strategies := appStrategy.NewValidator(strategyRepo, log)
	journal := appBeck.NewJournal(beckRepo, log)

	return &Router{
		engine:          engine,
		healthHandler:   handlers.NewHealthHandler(db),
		authHandler:     handlers.NewAuthHandler(credentials, sessions, cfg.Auth.Cookie, log),
		userHandler:     handlers.NewUserHandler(credentials, progressEngine, log),
		cravingHandler:  handlers.NewCravingHandler(progressEngine, log),
		exerciseHandler: handlers.NewExerciseHandler(progressEngine, log),
		strategyHandler: handlers.NewStrategyHandler(strategies, log),
		beckHandler:     handlers.NewBeckHandler(journal, log),
		sessionAuth:     middleware.NewSessionAuthMiddleware(sessions, userRepo, cfg.Auth.Cookie, log),
		authLimiter:     authLimiter,
		generalLimiter:  generalLimiter,
		logger:          log,
		allowedOrigins:  cfg.Server.AllowedOrigins,
		stopJanitors:    stopJanitors,
	}
}

// SetupRoutes registers every route on the engine.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.logger))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.allowedOrigins))

	r.engine.GET("/health", r.healthHandler.Check)

	api := r.engine.Group("/api")
	api.Use(middleware.GeneralRateLimit(r.generalLimiter, r.logger))

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register",
			middleware.AuthRateLimit(r.authLimiter, "register", r.logger), r.authHandler.Register)
		authRoutes.POST("/login",
			middleware.AuthRateLimit(r.authLimiter, "login", r.logger), r.authHandler.Login)
		authRoutes.POST("/logout", r.sessionAuth.RequireAuth(), r.authHandler.Logout)
		// /me resolves the session itself so an anonymous caller gets a
		// clean {user: null} instead of the middleware's 401.
		authRoutes.GET("/me", r.authHandler.Me)
	}

	users := api.Group("/users")
	users.Use(r.sessionAuth.RequireAuth())
	{
		users.PUT("/password", r.userHandler.UpdatePassword)
		users.PUT("/profile", r.userHandler.UpdateProfile)
		users.GET("/stats", r.userHandler.GetStats)
		users.GET("/badges", r.userHandler.GetBadges)
		users.DELETE("/me", r.userHandler.DeleteAccount)
	}

	cravings := api.Group("/cravings")
	cravings.Use(r.sessionAuth.RequireAuth())
	{
		cravings.POST("", r.cravingHandler.Create)
		cravings.GET("", r.cravingHandler.List)
		cravings.GET("/stats", r.cravingHandler.Stats)
	}

	exercises := api.Group("/exercise-sessions")
	exercises.Use(r.sessionAuth.RequireAuth())
	{
		exercises.POST("", r.exerciseHandler.Create)
		exercises.GET("", r.exerciseHandler.List)
	}

	strategies := api.Group("/strategies")
	strategies.Use(r.sessionAuth.RequireAuth())
	{
		strategies.POST("", r.strategyHandler.Submit)
		strategies.GET("", r.strategyHandler.List)
	}

	beck := api.Group("/beck-analyses")
	beck.Use(r.sessionAuth.RequireAuth())
	{
		beck.POST("", r.beckHandler.Create)
		beck.GET("", r.beckHandler.List)
	}
}

// GetEngine returns the gin engine.
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Close stops the background janitors of the process-local stores.
func (r *Router) Close() {
	for _, stop := range r.stopJanitors {
		stop()
	}
}

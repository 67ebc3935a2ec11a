package app

import (
	"fmt"

	"taskflow/internal/auth"
	"taskflow/internal/cache"
	"taskflow/internal/config"
	"taskflow/internal/handlers"
	"taskflow/internal/idp"
	"taskflow/internal/ratelimit"
	"taskflow/internal/repo"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, log *logrus.Logger, db *pgxpool.Pool, rdb *redis.Client) error {
	verifier, err := auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		return fmt.Errorf("auth verifier: %w", err)
	}

	health := handlers.NewHealthHandler(cfg, db, rdb)
	r.GET("/", rootHandler(cfg))
	r.GET("/health", health.Health)
	r.GET("/health/live", health.Live)
	r.GET("/health/ready", health.Ready)
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	var limiter gin.HandlerFunc
	if cfg.RateLimit.Enabled && rdb != nil {
		limiter = ratelimit.Middleware(ratelimit.New(rdb, cfg.RateLimit.PerWindow, cfg.RateLimit.Window.Duration()), log)
	}

	api := r.Group("/api")

	// Sign-up and sign-in proxy to the identity provider, so they only exist
	// when one is configured. /auth/me needs just the verifier.
	var idpClient *idp.Client
	if cfg.Auth.IDPURL != "" {
		idpClient = idp.NewClient(cfg.Auth.IDPURL, cfg.Auth.IDPTimeout.Duration())
	}
	authHandler := handlers.NewAuthHandler(idpClient)
	authGroup := api.Group("/auth")
	if limiter != nil {
		authGroup.Use(limiter)
	}
	if idpClient != nil {
		registerAuthRoutes(authGroup, authHandler)
	}
	authGroup.GET("/me", auth.RequireAuth(verifier), authHandler.Me)

	tasks := api.Group("/:user_id/tasks", auth.RequireAuth(verifier))
	if limiter != nil {
		tasks.Use(limiter)
	}
	tasks.Use(auth.RequireUserMatch())

	taskRepo := repo.NewPGTaskRepo(db)
	var taskCache *cache.TaskCache
	if rdb != nil {
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.CacheTTL.Duration())
	}
	taskSvc := service.NewTaskService(taskRepo, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc)
	registerTaskRoutes(tasks, taskHandler)

	return nil
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(g *gin.RouterGroup, h *handlers.TaskHandler) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/search", h.Search)
	g.GET("/:task_id", h.GetByID)
	g.PUT("/:task_id", h.Update)
	g.PATCH("/:task_id", h.Update)
	g.DELETE("/:task_id", h.Delete)
}

func registerAuthRoutes(g *gin.RouterGroup, h *handlers.AuthHandler) {
	g.POST("/sign-up", h.SignUp)
	g.POST("/sign-in", h.SignIn)
}

package app

import (
	"database/sql"
	"net/http"

	"github.com/falbue/todo-denzl/internal/auth"
	"github.com/falbue/todo-denzl/internal/cache"
	"github.com/falbue/todo-denzl/internal/config"
	"github.com/falbue/todo-denzl/internal/handlers"
	"github.com/falbue/todo-denzl/internal/repo"
	"github.com/falbue/todo-denzl/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *sql.DB, rdb *redis.Client) {
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	sessionStore := auth.NewRedisStore(rdb, cfg.Session.TTL.Duration())
	userRepo := repo.NewSQLiteUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)

	taskRepo := repo.NewSQLiteTaskRepo(db)
	taskCache := cache.NewTaskCache(rdb, cfg.Redis.CacheTTL.Duration())
	taskSvc := service.NewTaskService(taskRepo, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc)

	pageHandler := handlers.NewPageHandler(sessionStore)
	registerPageRoutes(r, sessionStore, pageHandler)

	api := r.Group("/api")
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(sessionStore))
	registerTaskRoutes(protected, taskHandler)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.PUT("/tasks/:id", h.Update)
	api.PATCH("/tasks/:id/status", h.ToggleStatus)
	api.DELETE("/tasks/:id", h.Delete)
}

func registerPageRoutes(r *gin.Engine, sessions auth.Store, h *handlers.PageHandler) {
	r.GET("/", h.Index)
	r.GET("/login", h.Login)
	r.GET("/register", h.Register)
	r.GET("/todo", auth.RequireSession(sessions), h.Todo)
}

package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/tringuyenminh209/Kizamu/controllers"
	"github.com/tringuyenminh209/Kizamu/middleware"
	"github.com/tringuyenminh209/Kizamu/services"
	"gorm.io/gorm"
)

// RegisterRoutes wires the HTTP surface.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, production bool) {
	limiter := services.NewAttemptLimiter(&services.RedisAttemptStore{Client: rdb})
	authService := services.NewAuthService(db, limiter, services.NoopMailer{}, production)
	taskService := services.NewTaskService(db)

	authController := controllers.NewAuthController(authService)
	taskController := controllers.NewTaskController(taskService)

	// Public routes, rate limited per address.
	public := r.Group("/api")
	{
		public.POST("/register", middleware.Throttle(rdb, "register", 3, time.Minute), authController.Register)
		public.POST("/login", middleware.Throttle(rdb, "login", 5, time.Minute), authController.Login)
	}

	// Authenticated routes.
	private := r.Group("/api")
	private.Use(middleware.AuthMiddleware(db))
	{
		private.GET("/user", authController.GetUser)
		private.POST("/logout", authController.Logout)
		private.POST("/refresh-token", authController.RefreshToken)
		private.POST("/user/fcm-token", authController.UpdateFCMToken)

		private.GET("/tasks", taskController.Index)
		private.POST("/tasks", taskController.Store)
		private.GET("/tasks/:id", taskController.Show)
		private.PUT("/tasks/:id", taskController.Update)
		private.PATCH("/tasks/:id", taskController.Update)
		private.DELETE("/tasks/:id", taskController.Destroy)
	}

	// Liveness check
	r.GET("/api/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "API is working!", "time": time.Now()})
	})
}

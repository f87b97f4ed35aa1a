package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tasktracker/task-tracker-api/internal/logging"
	"github.com/tasktracker/task-tracker-api/internal/middleware"
	"github.com/tasktracker/task-tracker-api/internal/services"
)

// Dependencies are the collaborators the HTTP layer needs.
type Dependencies struct {
	AuthService *services.AuthService
	TaskService *services.TaskService
	Tokens      middleware.TokenVerifier
	Logger      logging.Logger
}

// RegisterRoutes mounts every endpoint on r, both at the root and under /api.
func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	authHandler := NewAuthHandler(deps.AuthService, deps.Logger)
	taskHandler := NewTaskHandler(deps.TaskService, deps.Logger)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	for _, group := range []*gin.RouterGroup{&r.RouterGroup, r.Group("/api")} {
		// Auth routes (public)
		authRoutes := group.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/checkAuth", authHandler.CheckAuth)
		}

		// Task routes (protected)
		tasks := group.Group("/task")
		tasks.Use(middleware.RequireAuth(deps.Tokens))
		{
			tasks.POST("/add-task", taskHandler.AddTask)
			tasks.GET("/all-tasks", taskHandler.AllTasks)
			tasks.PUT("/update-task/:id", middleware.RequireTaskID(), taskHandler.UpdateTask)
			tasks.DELETE("/delete-task/:id", middleware.RequireTaskID(), taskHandler.DeleteTask)
		}
	}
}

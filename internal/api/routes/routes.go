package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rozgar/jobportal/internal/api/handlers"
	"github.com/rozgar/jobportal/internal/api/middleware"
	"github.com/rozgar/jobportal/internal/models"
)

type Deps struct {
	JWTSecret string
	Users     middleware.UserLookup

	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Job          *handlers.JobHandler
	Application  *handlers.ApplicationHandler
	Notification *handlers.NotificationHandler
	WS           *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	auth := middleware.JWTAuth(d.JWTSecret, d.Users)

	// Public
	r.POST("/auth/register", d.Auth.Register)
	r.POST("/auth/login", d.Auth.Login)
	r.GET("/jobs", d.Job.List)
	r.GET("/jobs/:id", d.Job.Get)

	users := r.Group("/users", auth)
	users.GET("/me", d.User.Me)
	users.PUT("/me", d.User.UpdateMe)
	users.POST("/me/resume", middleware.RequireWorker(), d.User.UploadResume)

	jobs := r.Group("/jobs", auth)
	jobs.GET("/employer/mine", middleware.RequireEmployer(), d.Job.ListMine)
	jobs.POST("", middleware.RequireEmployer(), d.Job.Create)
	jobs.PUT("/:id", middleware.RequireRole(models.RoleEmployer, models.RoleAdmin), d.Job.Update)
	jobs.DELETE("/:id", middleware.RequireRole(models.RoleEmployer, models.RoleAdmin), d.Job.Delete)

	apps := r.Group("/applications", auth)
	apps.POST("", middleware.RequireWorker(), d.Application.Apply)
	apps.GET("", d.Application.ListMine)
	apps.GET("/employer", middleware.RequireEmployer(), d.Application.ListForEmployer)
	apps.PUT("/:id/status", middleware.RequireEmployer(), d.Application.UpdateStatus)
	apps.DELETE("/:id", d.Application.Withdraw)
	apps.GET("/:id/history", d.Application.History)

	notifs := r.Group("/notifications", auth)
	notifs.GET("", d.Notification.List)
	notifs.GET("/unread-count", d.Notification.UnreadCount)
	notifs.PUT("/read-all", d.Notification.MarkAllRead)
	notifs.PUT("/:id/read", d.Notification.MarkRead)

	admin := r.Group("/admin", auth, middleware.RequireAdmin())
	admin.POST("/users", d.User.AdminCreate)
	admin.PATCH("/users/:id/block", d.User.AdminSetBlocked)
	admin.DELETE("/users/:id", d.User.AdminDelete)
	admin.DELETE("/applications/:id", d.Application.AdminDelete)

	// WebSocket
	r.GET("/ws/notifications", auth, d.WS.Notifications)
}

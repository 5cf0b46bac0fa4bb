package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playputt/backend/internal/api/handlers"
	"github.com/playputt/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	// No-cache middleware in development so the frontend never sees stale state
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.GET("/config", handlers.GetConfig(cfg))

		// Auth
		auth := v1.Group("/auth")
		{
			auth.POST("/guest", handlers.GuestLogin(db, cfg))
		}

		// Session endpoints
		session := v1.Group("/session")
		{
			session.POST("", handlers.AuthMiddleware(cfg), handlers.CreateSession())
			session.GET("/:token", handlers.GetSessionState())
			session.GET("/:token/ws", handlers.HandleSessionWebSocket(db, rdb, cfg))
		}

		// Player endpoints
		me := v1.Group("/me", handlers.AuthMiddleware(cfg))
		{
			me.GET("/stats", handlers.GetMyStats(db))
			me.GET("/levels", handlers.GetMyLevelResults(db))
		}

		v1.GET("/leaderboard", handlers.GetLeaderboard(db))

		// Admin endpoints
		adm := v1.Group("/admin")
		{
			adm.POST("/login", handlers.AdminLogin(db, rdb, cfg))
			adm.POST("/logout", handlers.AdminLogout(rdb))

			protected := adm.Group("", handlers.AdminSessionMiddleware(rdb, db))
			{
				protected.GET("/me", handlers.AdminMe())
				protected.GET("/players", handlers.GetAdminPlayers(db))
				protected.GET("/sessions", handlers.GetAdminSessions(db))
				protected.GET("/audit", handlers.GetAdminAuditLogs(db))
			}
		}
	}
}

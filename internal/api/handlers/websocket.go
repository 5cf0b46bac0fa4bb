package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playputt/backend/internal/config"
	"github.com/playputt/backend/internal/ws"
	"github.com/redis/go-redis/v9"
)

// HandleSessionWebSocket handles real-time session communication
func HandleSessionWebSocket(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return ws.HandleWebSocket
}

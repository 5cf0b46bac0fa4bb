package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playputt/backend/internal/config"
	"github.com/playputt/backend/internal/game"
)

// GetConfig returns minimal config values required by frontend
func GetConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"playfield_width":  cfg.PlayfieldWidth,
			"playfield_height": cfg.PlayfieldHeight,
			"tick_rate":        cfg.TickRate,
			"ball_radius":      game.BallRadius,
			"goal_radius":      game.GoalRadius,
			"launch_power":     game.LaunchPower,
		})
	}
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playputt/backend/internal/models"
)

// GetMyStats returns the authenticated player's profile and aggregates.
func GetMyStats(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pidI, ok := c.Get("player_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		pid := pidI.(int)

		var player models.Player
		if err := db.Get(&player, `
			SELECT id, display_name, created_at, total_levels_completed,
			       total_shots, best_level, is_active, last_active
			FROM players WHERE id=$1
		`, pid); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
			return
		}

		avgShots := 0.0
		if player.TotalLevelsCompleted > 0 {
			avgShots = float64(player.TotalShots) / float64(player.TotalLevelsCompleted)
		}

		c.JSON(http.StatusOK, gin.H{
			"id":                     player.ID,
			"display_name":           player.DisplayName,
			"total_levels_completed": player.TotalLevelsCompleted,
			"total_shots":            player.TotalShots,
			"best_level":             player.BestLevel,
			"avg_shots_per_level":    avgShots,
		})
	}
}

// GetMyLevelResults returns the authenticated player's recent completed levels.
func GetMyLevelResults(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pidI, ok := c.Get("player_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		pid := pidI.(int)

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		var results []models.LevelResult
		if err := db.Select(&results, `
			SELECT id, session_id, player_id, level_number, shots, created_at
			FROM level_results
			WHERE player_id=$1
			ORDER BY created_at DESC
			LIMIT $2
		`, pid, limit); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch results"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

// GetLeaderboard returns the top players by deepest level reached.
func GetLeaderboard(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
		if limit <= 0 || limit > 100 {
			limit = 10
		}

		var entries []models.LeaderboardEntry
		if err := db.Select(&entries, `
			SELECT id AS player_id, display_name, best_level,
			       total_levels_completed AS levels_completed, total_shots,
			       CASE WHEN total_levels_completed > 0
			            THEN total_shots::float / total_levels_completed
			            ELSE 0 END AS avg_shots
			FROM players
			WHERE is_active AND total_levels_completed > 0
			ORDER BY best_level DESC, avg_shots ASC
			LIMIT $1
		`, limit); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch leaderboard"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
	}
}

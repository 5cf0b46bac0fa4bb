package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playputt/backend/internal/game"
)

// CreateSession starts a new sandbox session for the authenticated player and
// returns the tokens the client needs to connect the websocket.
func CreateSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		pidI, ok := c.Get("player_id")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		pid := pidI.(int)
		displayName := c.GetString("display_name")

		s, err := game.Manager.CreateSession(pid, displayName)
		if err != nil {
			log.Printf("Failed to create session for player %d: %v", pid, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id":   s.ID,
			"token":        s.Token,
			"player_token": s.PlayerToken,
			"expires_at":   s.ExpiresAt,
			"ws_url":       "/api/v1/session/" + s.Token + "/ws",
		})
	}
}

// GetSessionState returns the full drawable state for a session token.
func GetSessionState() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		s, err := game.Manager.GetSessionByToken(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, s.GetClientState())
	}
}

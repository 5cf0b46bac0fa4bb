package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playputt/backend/internal/config"
	"github.com/playputt/backend/internal/game"
	"github.com/redis/go-redis/v9"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartSessionEventSubscriber subscribes to the session_events channel and
// relays incoming events to the connected client for each session.
func StartSessionEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; session event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, "session_events")
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] session_events subscriber started")
		for msg := range ch {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				log.Printf("[WS] invalid event payload: %v", err)
				continue
			}

			typeStr, _ := payload["type"].(string)
			sessionID, _ := payload["session_id"].(string)
			sessionToken, _ := payload["session_token"].(string)
			if sessionID == "" && sessionToken != "" {
				if s, err := game.Manager.GetSessionByToken(sessionToken); err == nil {
					sessionID = s.ID
				}
			}
			if sessionID == "" {
				log.Printf("[WS] event %s carries no session reference; dropped", typeStr)
				continue
			}

			switch typeStr {
			case "session_idle_warning":
				GameHub.SendToSession(sessionID, map[string]interface{}{
					"type":              "session_idle_warning",
					"message":           payload["message"],
					"close_at":          payload["close_at"],
					"remaining_seconds": payload["remaining_seconds"],
				})

			case "session_closed", "session_expired":
				GameHub.SendToSession(sessionID, map[string]interface{}{
					"type":    typeStr,
					"message": payload["message"],
				})

			default:
				log.Printf("[WS] unknown event type: %s", typeStr)
			}
		}
	}()
}

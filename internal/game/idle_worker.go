package game

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playputt/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// StartIdleWorker starts a background worker that warns and then closes idle
// sessions using Redis sorted sets. The websocket layer refreshes the timers
// on every message; a player who stops sending input first gets a warning
// event, then the session is closed and removed.
func StartIdleWorker(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	if rdb == nil || cfg == nil {
		log.Println("[IDLE] Redis or config missing; idle worker not started")
		return
	}

	log.Println("[IDLE] Idle worker started")
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.IdleWorkerPollInterval) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case <-ticker.C:
				now := time.Now().Unix()
				processIdleWarnings(ctx, rdb, cfg, now)
				processIdleCloses(ctx, rdb, cfg, now)
			}
		}
	}()
}

func processIdleWarnings(ctx context.Context, rdb *redis.Client, cfg *config.Config, now int64) {
	members, err := rdb.ZRangeByScore(ctx, "idle_warning", &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle warnings: %v", err)
		return
	}

	for _, m := range members {
		// Attempt to remove first so concurrent workers race safely.
		if removed, _ := rdb.ZRem(ctx, "idle_warning", m).Result(); removed == 0 {
			continue
		}

		token := parseSessionMember(m)
		if token == "" {
			continue
		}

		last, _ := rdb.Get(ctx, "last_active:"+m).Result()
		lastTs, _ := strconv.ParseInt(last, 10, 64)
		if time.Now().Unix()-lastTs < int64(cfg.IdleWarningSeconds) {
			continue // activity arrived since the timer was set
		}

		s, err := Manager.GetSessionByToken(token)
		if err != nil || s.Status != StatusActive {
			continue
		}

		closeAt := time.Unix(lastTs, 0).Add(time.Duration(cfg.IdleCloseSeconds) * time.Second)
		Manager.PublishSessionEvent(map[string]interface{}{
			"type":              "session_idle_warning",
			"session_token":     token,
			"session_id":        s.ID,
			"close_at":          closeAt.Format(time.RFC3339),
			"remaining_seconds": int(time.Until(closeAt).Seconds()),
			"message":           "Session idle; it will close soon.",
		})
		log.Printf("[IDLE] Published warning for session %s (close_at=%s)", s.ID, closeAt.Format(time.RFC3339))
	}
}

func processIdleCloses(ctx context.Context, rdb *redis.Client, cfg *config.Config, now int64) {
	members, err := rdb.ZRangeByScore(ctx, "idle_close", &redis.ZRangeBy{Min: "-inf", Max: fmt.Sprintf("%d", now)}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle closes: %v", err)
		return
	}

	for _, m := range members {
		if removed, _ := rdb.ZRem(ctx, "idle_close", m).Result(); removed == 0 {
			continue
		}

		token := parseSessionMember(m)
		if token == "" {
			continue
		}

		last, _ := rdb.Get(ctx, "last_active:"+m).Result()
		lastTs, _ := strconv.ParseInt(last, 10, 64)
		if time.Now().Unix()-lastTs < int64(cfg.IdleCloseSeconds) {
			continue
		}

		s, err := Manager.GetSessionByToken(token)
		if err != nil || s.Status != StatusActive {
			continue
		}

		log.Printf("[IDLE] Closing session %s due to inactivity", s.ID)
		Manager.CloseSession(s, StatusExpired)
		Manager.PublishSessionEvent(map[string]interface{}{
			"type":          "session_closed",
			"session_token": token,
			"session_id":    s.ID,
			"message":       "Session closed due to inactivity",
		})
		rdb.Del(ctx, "last_active:"+m)
	}
}

// parseSessionMember expects member format s:<sessionToken>
func parseSessionMember(m string) string {
	parts := strings.SplitN(m, ":", 2)
	if len(parts) == 2 && parts[0] == "s" {
		return parts[1]
	}
	return ""
}

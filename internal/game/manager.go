package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playputt/backend/internal/config"
	"github.com/redis/go-redis/v9"
)

// GameManager owns all active sandbox sessions.
type GameManager struct {
	sessions       map[string]*GolfSession // keyed by session ID
	tokenToSession map[string]string       // session token -> session ID
	rdb            *redis.Client
	db             *sqlx.DB
	config         *config.Config
	mu             sync.RWMutex
}

var (
	// Global game manager instance
	Manager *GameManager
)

// InitializeManager initializes the global game manager with Redis, DB and config
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewGameManager(db, rdb, cfg)
	go Manager.StartExpiryChecker()
}

// NewGameManager creates a new game manager
func NewGameManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *GameManager {
	return &GameManager{
		sessions:       make(map[string]*GolfSession),
		tokenToSession: make(map[string]string),
		rdb:            rdb,
		db:             db,
		config:         cfg,
	}
}

// GetConfig returns the application config.
func (gm *GameManager) GetConfig() *config.Config {
	return gm.config
}

// generateToken generates a secure random token
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// generateSessionID generates a unique session ID
func generateSessionID() string {
	return "golf_" + generateToken(8)
}

// CreateSession starts a new sandbox session for a player and persists the
// run record.
func (gm *GameManager) CreateSession(dbPlayerID int, displayName string) (*GolfSession, error) {
	if gm.config == nil {
		return nil, errors.New("manager not configured")
	}

	id := generateSessionID()
	token := "PUTT_" + generateToken(10)
	playerToken := generateToken(16)
	seed := time.Now().UnixNano() ^ int64(mrand.Int())
	expiry := time.Duration(gm.config.SessionExpiryMinutes) * time.Minute

	dbSessionID := 0
	if gm.db != nil && dbPlayerID > 0 {
		err := gm.db.Get(&dbSessionID, `
			INSERT INTO game_sessions (session_token, player_id, status, created_at, expiry_time)
			VALUES ($1, $2, 'ACTIVE', NOW(), NOW() + ($3 || ' minutes')::interval)
			RETURNING id
		`, token, dbPlayerID, gm.config.SessionExpiryMinutes)
		if err != nil {
			return nil, fmt.Errorf("failed to record session: %w", err)
		}
	}

	s := NewGolfSession(id, token, playerToken, dbPlayerID, dbSessionID, displayName,
		gm.config.PlayfieldWidth, gm.config.PlayfieldHeight, seed, expiry)

	gm.mu.Lock()
	gm.sessions[id] = s
	gm.tokenToSession[token] = id
	gm.mu.Unlock()

	gm.saveSessionToRedis(s)
	log.Printf("[GOLF] Session %s created for player %q (seed=%d)", id, displayName, seed)
	return s, nil
}

// GetSessionByToken resolves a session token, falling back to the Redis
// snapshot when the session is not in memory (e.g. after a restart).
func (gm *GameManager) GetSessionByToken(token string) (*GolfSession, error) {
	gm.mu.RLock()
	id, ok := gm.tokenToSession[token]
	var s *GolfSession
	if ok {
		s = gm.sessions[id]
	}
	gm.mu.RUnlock()

	if s != nil {
		return s, nil
	}

	s, err := gm.loadSessionFromRedis(token)
	if err != nil {
		return nil, errors.New("session not found")
	}

	gm.mu.Lock()
	gm.sessions[s.ID] = s
	gm.tokenToSession[s.Token] = s.ID
	gm.mu.Unlock()

	log.Printf("[GOLF] Session %s rehydrated from Redis", s.ID)
	return s, nil
}

// RecordLevelResult persists a completed level and rolls the player's
// aggregates forward. Best-effort: a DB failure is logged, never fatal.
func (gm *GameManager) RecordLevelResult(dbSessionID, dbPlayerID, level, shots int) {
	if gm.db == nil || dbPlayerID <= 0 {
		return
	}

	if _, err := gm.db.Exec(`
		INSERT INTO level_results (session_id, player_id, level_number, shots, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, dbSessionID, dbPlayerID, level, shots); err != nil {
		log.Printf("[GOLF] Failed to record level result: %v", err)
		return
	}

	if _, err := gm.db.Exec(`
		UPDATE players SET
			total_levels_completed = total_levels_completed + 1,
			total_shots = total_shots + $1,
			best_level = GREATEST(best_level, $2),
			last_active = NOW()
		WHERE id = $3
	`, shots, level, dbPlayerID); err != nil {
		log.Printf("[GOLF] Failed to update player aggregates: %v", err)
	}

	if dbSessionID > 0 {
		if _, err := gm.db.Exec(`
			UPDATE game_sessions SET
				levels_completed = levels_completed + 1,
				total_shots = total_shots + $1
			WHERE id = $2
		`, shots, dbSessionID); err != nil {
			log.Printf("[GOLF] Failed to update session record: %v", err)
		}
	}
}

// RecordShot appends a shot row for replay/audit.
func (gm *GameManager) RecordShot(dbSessionID, dbPlayerID, level, shotNumber int, impulse Vec2) {
	if gm.db == nil || dbSessionID <= 0 {
		return
	}
	if _, err := gm.db.Exec(`
		INSERT INTO shots (session_id, player_id, level_number, shot_number, impulse_x, impulse_y, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, dbSessionID, dbPlayerID, level, shotNumber, impulse.X, impulse.Y); err != nil {
		log.Printf("[GOLF] Failed to record shot: %v", err)
	}
}

// CloseSession finalizes a session and writes the outcome to the DB.
func (gm *GameManager) CloseSession(s *GolfSession, status SessionStatus) {
	s.Close(status)

	gm.mu.Lock()
	delete(gm.sessions, s.ID)
	delete(gm.tokenToSession, s.Token)
	gm.mu.Unlock()

	if gm.db != nil && s.DBSessionID > 0 {
		if _, err := gm.db.Exec(`
			UPDATE game_sessions SET status = $1, completed_at = NOW() WHERE id = $2
		`, string(status), s.DBSessionID); err != nil {
			log.Printf("[GOLF] Failed to finalize session record: %v", err)
		}
	}

	if gm.rdb != nil {
		gm.rdb.Del(context.Background(), "golf_session:"+s.Token)
	}

	log.Printf("[GOLF] Session %s closed (%s)", s.ID, status)
}

// StartExpiryChecker sweeps expired sessions once a minute.
func (gm *GameManager) StartExpiryChecker() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()

		gm.mu.RLock()
		var expired []*GolfSession
		for _, s := range gm.sessions {
			if s.IsExpired(now) {
				expired = append(expired, s)
			}
		}
		gm.mu.RUnlock()

		for _, s := range expired {
			log.Printf("[GOLF] Session %s expired", s.ID)
			gm.CloseSession(s, StatusExpired)
			gm.PublishSessionEvent(map[string]interface{}{
				"type":          "session_expired",
				"session_token": s.Token,
				"session_id":    s.ID,
				"message":       "Session expired due to inactivity",
			})
		}
	}
}

// PublishSessionEvent pushes an event onto the session_events channel for the
// websocket layer to relay.
func (gm *GameManager) PublishSessionEvent(payload map[string]interface{}) {
	if gm.rdb == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[GOLF] Failed to marshal session event: %v", err)
		return
	}
	if err := gm.rdb.Publish(context.Background(), "session_events", b).Err(); err != nil {
		log.Printf("[GOLF] Failed to publish session event: %v", err)
	}
}

// sessionSnapshot is the Redis persistence format for a session.
type sessionSnapshot struct {
	ID           string        `json:"id"`
	Token        string        `json:"token"`
	PlayerToken  string        `json:"player_token"`
	DBPlayerID   int           `json:"db_player_id"`
	DBSessionID  int           `json:"db_session_id"`
	DisplayName  string        `json:"display_name"`
	Status       SessionStatus `json:"status"`
	Seed         int64         `json:"seed"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
	ExpiresAt    time.Time     `json:"expires_at"`
	Terrain      Terrain       `json:"terrain"`
	Ball         Ball          `json:"ball"`
	Goal         Goal          `json:"goal"`
	ShotState    ShotState     `json:"shot_state"`
	Shots        int           `json:"shots"`
	Level        int           `json:"level"`
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
}

func (gm *GameManager) saveSessionToRedis(s *GolfSession) {
	if gm.rdb == nil {
		return
	}

	s.mu.RLock()
	snap := sessionSnapshot{
		ID:           s.ID,
		Token:        s.Token,
		PlayerToken:  s.PlayerToken,
		DBPlayerID:   s.DBPlayerID,
		DBSessionID:  s.DBSessionID,
		DisplayName:  s.DisplayName,
		Status:       s.Status,
		Seed:         s.Seed,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		ExpiresAt:    s.ExpiresAt,
		Terrain:      s.level.Terrain,
		Ball:         s.level.Ball,
		Goal:         s.level.Goal,
		ShotState:    s.level.ShotState,
		Shots:        s.level.Shots,
		Level:        s.level.Level,
		Width:        s.level.width,
		Height:       s.level.height,
	}
	s.mu.RUnlock()

	b, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[GOLF] Failed to marshal session snapshot: %v", err)
		return
	}

	ttl := time.Until(snap.ExpiresAt)
	if ttl <= 0 {
		return
	}
	if err := gm.rdb.Set(context.Background(), "golf_session:"+s.Token, b, ttl).Err(); err != nil {
		log.Printf("[GOLF] Failed to save session to Redis: %v", err)
	}
}

func (gm *GameManager) loadSessionFromRedis(token string) (*GolfSession, error) {
	if gm.rdb == nil {
		return nil, errors.New("redis not configured")
	}

	raw, err := gm.rdb.Get(context.Background(), "golf_session:"+token).Result()
	if err != nil {
		return nil, err
	}

	var snap sessionSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("corrupt session snapshot: %w", err)
	}

	// Rebuild the level around the snapshot. The rng continues from the
	// original seed; terrain and goal come from the snapshot so the
	// current level is exactly what the player left.
	level := &LevelState{
		Terrain:   snap.Terrain,
		Ball:      snap.Ball,
		Goal:      snap.Goal,
		ShotState: ShotAiming, // an in-flight ball does not survive a restart
		Shots:     snap.Shots,
		Level:     snap.Level,
		width:     snap.Width,
		height:    snap.Height,
		rng:       mrand.New(mrand.NewSource(snap.Seed + int64(snap.Level))),
		stepper:   NewStepper(DefaultPhysicsParams(snap.Width, snap.Height)),
	}

	s := &GolfSession{
		ID:           snap.ID,
		Token:        snap.Token,
		PlayerToken:  snap.PlayerToken,
		DBPlayerID:   snap.DBPlayerID,
		DBSessionID:  snap.DBSessionID,
		DisplayName:  snap.DisplayName,
		Status:       snap.Status,
		Seed:         snap.Seed,
		CreatedAt:    snap.CreatedAt,
		LastActivity: snap.LastActivity,
		ExpiresAt:    snap.ExpiresAt,
		level:        level,
	}
	return s, nil
}

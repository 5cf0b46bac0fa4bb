package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// Player represents a user in the system
type Player struct {
	ID                   int          `db:"id" json:"id"`
	DisplayName          string       `db:"display_name" json:"display_name"`
	CreatedAt            time.Time    `db:"created_at" json:"created_at"`
	TotalLevelsCompleted int          `db:"total_levels_completed" json:"total_levels_completed"`
	TotalShots           int          `db:"total_shots" json:"total_shots"`
	BestLevel            int          `db:"best_level" json:"best_level"`
	IsActive             bool         `db:"is_active" json:"is_active"`
	LastActive           sql.NullTime `db:"last_active" json:"last_active,omitempty"`
}

// GameSession represents one run of the course by a single player
type GameSession struct {
	ID              int          `db:"id" json:"id"`
	SessionToken    string       `db:"session_token" json:"session_token"`
	PlayerID        int          `db:"player_id" json:"player_id"`
	Status          string       `db:"status" json:"status"`
	LevelsCompleted int          `db:"levels_completed" json:"levels_completed"`
	TotalShots      int          `db:"total_shots" json:"total_shots"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	CompletedAt     sql.NullTime `db:"completed_at" json:"completed_at,omitempty"`
	ExpiryTime      time.Time    `db:"expiry_time" json:"expiry_time"`
}

// LevelResult records a completed level within a session
type LevelResult struct {
	ID          int       `db:"id" json:"id"`
	SessionID   int       `db:"session_id" json:"session_id"`
	PlayerID    int       `db:"player_id" json:"player_id"`
	LevelNumber int       `db:"level_number" json:"level_number"`
	Shots       int       `db:"shots" json:"shots"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Shot records a single launch and its impulse
type Shot struct {
	ID          int       `db:"id" json:"id"`
	SessionID   int       `db:"session_id" json:"session_id"`
	PlayerID    int       `db:"player_id" json:"player_id"`
	LevelNumber int       `db:"level_number" json:"level_number"`
	ShotNumber  int       `db:"shot_number" json:"shot_number"`
	ImpulseX    float64   `db:"impulse_x" json:"impulse_x"`
	ImpulseY    float64   `db:"impulse_y" json:"impulse_y"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// AdminAccount represents an operator account with a bcrypt token hash
type AdminAccount struct {
	Username    string         `db:"username" json:"username"`
	DisplayName string         `db:"display_name" json:"display_name"`
	TokenHash   string         `db:"token_hash" json:"-"`
	Roles       pq.StringArray `db:"roles" json:"roles"`
	AllowedIPs  pq.StringArray `db:"allowed_ips" json:"allowed_ips"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// AdminAudit records one admin action for the audit trail
type AdminAudit struct {
	ID            int             `db:"id" json:"id"`
	AdminUsername string          `db:"admin_username" json:"admin_username"`
	IP            string          `db:"ip" json:"ip"`
	Route         string          `db:"route" json:"route"`
	Action        string          `db:"action" json:"action"`
	Details       json.RawMessage `db:"details" json:"details"`
	Success       bool            `db:"success" json:"success"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// LeaderboardEntry is one row of the best-level leaderboard
type LeaderboardEntry struct {
	PlayerID        int     `db:"player_id" json:"player_id"`
	DisplayName     string  `db:"display_name" json:"display_name"`
	BestLevel       int     `db:"best_level" json:"best_level"`
	LevelsCompleted int     `db:"levels_completed" json:"levels_completed"`
	TotalShots      int     `db:"total_shots" json:"total_shots"`
	AvgShots        float64 `db:"avg_shots" json:"avg_shots"`
}

package game

import (
	"log"
	"math/rand"
	"sync"
	"time"
)

// GolfSession wraps a LevelState for one player. All access goes through the
// mutex: websocket input handlers and the tick driver mutate the same level
// state, and the guard keeps that serialized the same way the client's event
// loop would.
type GolfSession struct {
	ID           string        `json:"id"`
	Token        string        `json:"token"`
	PlayerToken  string        `json:"-"`
	DBPlayerID   int           `json:"db_player_id,omitempty"`
	DBSessionID  int           `json:"session_id,omitempty"`
	DisplayName  string        `json:"display_name,omitempty"`
	Status       SessionStatus `json:"status"`
	Seed         int64         `json:"seed"`
	Connected    bool          `json:"connected"`
	CreatedAt    time.Time     `json:"created_at"`
	LastActivity time.Time     `json:"last_activity"`
	ExpiresAt    time.Time     `json:"expires_at"`

	level  *LevelState
	launch LaunchController
	mu     sync.RWMutex
}

// TickFrame is what one driver tick produces for the client.
type TickFrame struct {
	Outcome   StepOutcome      `json:"outcome"`
	Ball      Ball             `json:"ball"`
	ShotState ShotState        `json:"shot_state"`
	Events    []CollisionEvent `json:"events,omitempty"`
	Holed     bool             `json:"holed"`
}

// NewGolfSession creates a session with a freshly generated first level.
func NewGolfSession(id, token, playerToken string, dbPlayerID, dbSessionID int,
	displayName string, width, height float64, seed int64, expiry time.Duration) *GolfSession {

	now := time.Now()
	return &GolfSession{
		ID:           id,
		Token:        token,
		PlayerToken:  playerToken,
		DBPlayerID:   dbPlayerID,
		DBSessionID:  dbSessionID,
		DisplayName:  displayName,
		Status:       StatusActive,
		Seed:         seed,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(expiry),
		level:        NewLevelState(width, height, rand.New(rand.NewSource(seed))),
	}
}

// BeginDrag starts a drag gesture at p. Rejected drags (not aiming, pointer
// off the ball, session not active) report false and change nothing.
func (s *GolfSession) BeginDrag(p Vec2) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusActive {
		return false
	}
	ok := s.launch.BeginDrag(s.level, p)
	if ok {
		s.LastActivity = time.Now()
	}
	return ok
}

// UpdateDrag moves the drag endpoint and returns the current aim vector for
// the client's aim line.
func (s *GolfSession) UpdateDrag(p Vec2) (Vec2, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.launch.UpdateDrag(p)
	return s.launch.AimVector()
}

// EndDrag completes the drag and launches the ball. Returns the applied
// impulse and whether a launch happened.
func (s *GolfSession) EndDrag(p Vec2) (Vec2, bool) {
	s.mu.Lock()

	imp, ok := s.launch.EndDrag(s.level, p)
	if !ok {
		s.mu.Unlock()
		return Vec2{}, false
	}
	s.LastActivity = time.Now()
	level := s.level.Level
	shots := s.level.Shots
	dbSessionID := s.DBSessionID
	dbPlayerID := s.DBPlayerID
	s.mu.Unlock()

	log.Printf("[GOLF] Session %s level %d shot %d launched vx=%.2f vy=%.2f",
		s.ID, level, shots, imp.X, imp.Y)
	if Manager != nil {
		Manager.RecordShot(dbSessionID, dbPlayerID, level, shots, imp)
	}
	return imp, true
}

// Tick advances the simulation one step and reports what happened. On a
// hole-out the completed level's shot count is recorded before the level
// regenerates.
func (s *GolfSession) Tick() TickFrame {
	s.mu.Lock()

	level := s.level.Level
	shots := s.level.Shots
	outcome := s.level.Tick()

	frame := TickFrame{
		Outcome:   outcome,
		Ball:      s.level.Ball,
		ShotState: s.level.ShotState,
		Events:    s.level.DrainEvents(),
		Holed:     outcome == OutcomeHoled,
	}
	if outcome != OutcomeContinue {
		s.LastActivity = time.Now()
	}

	dbSessionID := s.DBSessionID
	dbPlayerID := s.DBPlayerID
	s.mu.Unlock()

	if frame.Holed {
		log.Printf("[GOLF] Session %s holed level %d in %d shots", s.ID, level, shots)
		if Manager != nil {
			Manager.RecordLevelResult(dbSessionID, dbPlayerID, level, shots)
		}
	}
	return frame
}

// InFlight reports whether the ball is currently being simulated.
func (s *GolfSession) InFlight() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level.ShotState == ShotInFlight
}

// NewGame discards all progress and starts over from level 1 with a fresh
// seed. Only allowed while the ball is at rest.
func (s *GolfSession) NewGame(seed int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Status != StatusActive || s.level.ShotState != ShotAiming {
		return false
	}
	width, height := s.level.width, s.level.height
	s.level = NewLevelState(width, height, rand.New(rand.NewSource(seed)))
	s.launch = LaunchController{}
	s.Seed = seed
	s.LastActivity = time.Now()
	return true
}

// SetConnected tracks the websocket connection state.
func (s *GolfSession) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Connected = connected
	if connected {
		s.LastActivity = time.Now()
	}
}

// IsExpired reports whether the session has outlived its expiry time.
func (s *GolfSession) IsExpired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return now.After(s.ExpiresAt)
}

// Close finalizes the session with the given status.
func (s *GolfSession) Close(status SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusActive {
		s.Status = status
	}
}

// GetClientState returns the full state the drawing layer needs: terrain
// points, ball, goal, shot state and counters. Consumers only read it.
func (s *GolfSession) GetClientState() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terrain := make([]Vec2, len(s.level.Terrain))
	copy(terrain, s.level.Terrain)

	aim, aiming := s.launch.AimVector()

	state := map[string]interface{}{
		"session_id":       s.ID,
		"token":            s.Token,
		"status":           s.Status,
		"display_name":     s.DisplayName,
		"terrain":          terrain,
		"ball":             s.level.Ball,
		"goal":             s.level.Goal,
		"shot_state":       s.level.ShotState,
		"shots":            s.level.Shots,
		"level":            s.level.Level,
		"levels_completed": s.level.LevelsCompleted(),
	}
	if aiming {
		state["aim"] = aim
	}
	return state
}

// SaveToRedis persists a snapshot via the manager.
func (s *GolfSession) SaveToRedis() {
	if Manager != nil && Manager.rdb != nil {
		Manager.saveSessionToRedis(s)
	}
}

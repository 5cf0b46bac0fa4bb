package game

import "math/rand"

// ShotState says whether the player is aiming or the ball is in flight.
// Exactly one holds at any time.
type ShotState string

const (
	ShotAiming   ShotState = "AIMING"    // ball at rest, awaiting a launch
	ShotInFlight ShotState = "IN_FLIGHT" // physics integration active
)

// LevelState aggregates everything one level of the sandbox needs: terrain,
// ball, goal, shot state and counters. It is owned by a single session and
// never shared; the stepper and launch controller mutate it by reference and
// retain nothing.
type LevelState struct {
	Terrain   Terrain   `json:"terrain"`
	Ball      Ball      `json:"ball"`
	Goal      Goal      `json:"goal"`
	ShotState ShotState `json:"shot_state"`
	Shots     int       `json:"shots"` // resets each level
	Level     int       `json:"level"` // monotonic across the session

	width   float64
	height  float64
	rng     *rand.Rand
	stepper *Stepper
}

// NewLevelState creates a level state for the given playfield and seeds the
// first level. The rng drives terrain generation and goal placement, so a
// fixed seed reproduces a whole session's levels.
func NewLevelState(width, height float64, rng *rand.Rand) *LevelState {
	l := &LevelState{
		Level:   1,
		width:   width,
		height:  height,
		rng:     rng,
		stepper: NewStepper(DefaultPhysicsParams(width, height)),
	}
	l.ResetLevel()
	return l
}

// ResetLevel generates fresh terrain, places the goal and the ball, and
// returns control to the player. The shot counter resets; the level counter
// does not.
func (l *LevelState) ResetLevel() {
	l.Terrain = GenerateTerrain(l.width, l.height, l.rng)

	// Pick a goal vertex away from the margins. A terrain short enough to
	// make the range degenerate cannot happen with the generation bounds,
	// but guard anyway: fall back to the full interior.
	lo := GoalIndexMin
	hi := len(l.Terrain) - GoalIndexMargin
	if hi <= lo {
		lo = 1
		hi = len(l.Terrain) - 1
		if hi <= lo {
			lo = 0
			hi = len(l.Terrain)
		}
	}
	goalVertex := l.Terrain[lo+l.rng.Intn(hi-lo)]
	l.Goal = Goal{Position: goalVertex, Radius: GoalRadius}

	// Ball rests on the second vertex's height at the fixed start column.
	startY := l.Terrain[1].Y - BallRadius - RestClearance
	l.Ball = Ball{
		Position: NewVec2(BallStartX, startY),
		Radius:   BallRadius,
	}

	l.ShotState = ShotAiming
	l.Shots = 0
	l.stepper.Events = nil
}

// AdvanceLevel moves to the next level after a hole-out.
func (l *LevelState) AdvanceLevel() {
	l.Level++
	l.ResetLevel()
}

// LevelsCompleted returns how many levels have been holed this session.
func (l *LevelState) LevelsCompleted() int {
	return l.Level - 1
}

// Tick runs one physics step while a shot is in flight. On Settled the shot
// state returns to aiming; on Holed the session advances to the next level.
// A tick while aiming is a no-op reporting Continue.
func (l *LevelState) Tick() StepOutcome {
	if l.ShotState != ShotInFlight {
		return OutcomeContinue
	}

	outcome := l.stepper.Step(&l.Ball, l.Terrain, l.Goal)
	switch outcome {
	case OutcomeSettled:
		l.ShotState = ShotAiming
	case OutcomeHoled:
		l.AdvanceLevel()
	}
	return outcome
}

// DrainEvents hands out the contact events recorded since the last call.
func (l *LevelState) DrainEvents() []CollisionEvent {
	return l.stepper.DrainEvents()
}

// Params exposes the physics tuning, read-only for display.
func (l *LevelState) Params() PhysicsParams {
	return l.stepper.Params
}

package game

import (
	"math/rand"
	"testing"
)

func newTestLevel(seed int64) *LevelState {
	return NewLevelState(testWidth, testHeight, rand.New(rand.NewSource(seed)))
}

func TestResetLevelPlacesBallAndGoal(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		l := newTestLevel(seed)

		if len(l.Terrain) < 2 {
			t.Fatalf("seed %d: terrain has %d points", seed, len(l.Terrain))
		}
		if l.ShotState != ShotAiming {
			t.Errorf("seed %d: ShotState = %s, want %s", seed, l.ShotState, ShotAiming)
		}
		if l.Shots != 0 {
			t.Errorf("seed %d: Shots = %d, want 0", seed, l.Shots)
		}
		if !l.Ball.Velocity.IsZero() {
			t.Errorf("seed %d: fresh ball has velocity %+v", seed, l.Ball.Velocity)
		}

		if l.Ball.Position.X != BallStartX {
			t.Errorf("seed %d: ball x = %.2f, want %.0f", seed, l.Ball.Position.X, BallStartX)
		}
		wantY := l.Terrain[1].Y - BallRadius - RestClearance
		if l.Ball.Position.Y != wantY {
			t.Errorf("seed %d: ball y = %.4f, want %.4f", seed, l.Ball.Position.Y, wantY)
		}

		// The goal sits on an interior terrain vertex.
		goalIdx := -1
		for i, p := range l.Terrain {
			if p == l.Goal.Position {
				goalIdx = i
				break
			}
		}
		if goalIdx < 0 {
			t.Fatalf("seed %d: goal %+v is not on a terrain vertex", seed, l.Goal.Position)
		}
		if goalIdx < GoalIndexMin || goalIdx >= len(l.Terrain)-GoalIndexMargin {
			t.Errorf("seed %d: goal index %d outside [%d, %d)",
				seed, goalIdx, GoalIndexMin, len(l.Terrain)-GoalIndexMargin)
		}
	}
}

func TestResetLevelIdempotent(t *testing.T) {
	l := newTestLevel(7)
	level := l.Level

	l.ResetLevel()
	l.ResetLevel()

	if len(l.Terrain) < 2 {
		t.Fatalf("Terrain has %d points after double reset", len(l.Terrain))
	}
	if l.ShotState != ShotAiming || l.Shots != 0 {
		t.Errorf("After double reset: state=%s shots=%d", l.ShotState, l.Shots)
	}
	if l.Level != level {
		t.Errorf("ResetLevel changed the level counter: %d -> %d", level, l.Level)
	}

	// Ball rests at the second vertex's height with only the fixed clearance.
	if got, want := l.Ball.Position.Y+l.Ball.Radius+RestClearance, l.Terrain[1].Y; got != want {
		t.Errorf("Ball bottom plus clearance at %.4f, want terrain height %.4f", got, want)
	}
	if _, ok := l.Terrain.HeightAt(l.Ball.Position.X); !ok {
		t.Fatal("No terrain under the ball start column")
	}
}

func TestGoalRangeClampOnShortTerrain(t *testing.T) {
	// A 40-unit playfield yields 5 vertices, making [5, len-10) degenerate.
	// Setup must clamp the range instead of failing.
	l := NewLevelState(40, testHeight, rand.New(rand.NewSource(1)))

	onVertex := false
	for _, p := range l.Terrain {
		if p == l.Goal.Position {
			onVertex = true
			break
		}
	}
	if !onVertex {
		t.Errorf("Goal %+v not placed on a vertex of the short terrain", l.Goal.Position)
	}
}

func TestAdvanceLevelKeepsLevelCounterMonotonic(t *testing.T) {
	l := newTestLevel(3)
	l.Shots = 4

	l.AdvanceLevel()

	if l.Level != 2 {
		t.Errorf("Level = %d, want 2", l.Level)
	}
	if l.LevelsCompleted() != 1 {
		t.Errorf("LevelsCompleted = %d, want 1", l.LevelsCompleted())
	}
	if l.Shots != 0 {
		t.Errorf("Shots = %d after advance, want 0", l.Shots)
	}
	if l.ShotState != ShotAiming {
		t.Errorf("ShotState = %s after advance, want %s", l.ShotState, ShotAiming)
	}
}

func TestTickWhileAimingIsNoOp(t *testing.T) {
	l := newTestLevel(5)
	before := l.Ball

	if out := l.Tick(); out != OutcomeContinue {
		t.Errorf("Tick while aiming returned %v, want continue", out)
	}
	if l.Ball != before {
		t.Errorf("Tick while aiming moved the ball: %+v -> %+v", before, l.Ball)
	}
}

func TestBallSettlesBackToAiming(t *testing.T) {
	l := aimingLevel() // flat ground, deterministic
	l.rng = rand.New(rand.NewSource(9))
	l.ShotState = ShotInFlight
	l.Ball.Velocity = NewVec2(0.5, 0)

	settled := false
	for i := 0; i < 2000; i++ {
		if out := l.Tick(); out == OutcomeSettled {
			settled = true
			break
		}
	}

	if !settled {
		t.Fatal("In-flight ball never settled on flat ground")
	}
	if l.ShotState != ShotAiming {
		t.Errorf("ShotState = %s after settling, want %s", l.ShotState, ShotAiming)
	}
	if !l.Ball.Velocity.IsZero() {
		t.Errorf("Settled ball kept velocity %+v", l.Ball.Velocity)
	}
}

func TestHoleOutAdvancesLevel(t *testing.T) {
	l := aimingLevel()
	l.rng = rand.New(rand.NewSource(11)) // AdvanceLevel regenerates terrain
	l.Goal = Goal{Position: NewVec2(400, 300), Radius: GoalRadius}
	l.Shots = 2

	// Roll the ball slowly across the cup.
	l.ShotState = ShotInFlight
	l.Ball.Position = NewVec2(395, 300-BallRadius-RestClearance)
	l.Ball.Velocity = NewVec2(1, 0)

	holed := false
	for i := 0; i < 200; i++ {
		if out := l.Tick(); out == OutcomeHoled {
			holed = true
			break
		}
	}

	if !holed {
		t.Fatal("Slow ball over the cup never holed")
	}
	if l.Level != 2 {
		t.Errorf("Level = %d after hole-out, want 2", l.Level)
	}
	if l.Shots != 0 || l.ShotState != ShotAiming {
		t.Errorf("Next level not reset: shots=%d state=%s", l.Shots, l.ShotState)
	}
}

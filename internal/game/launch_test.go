package game

import (
	"math"
	"testing"
)

// aimingLevel builds a level resting on flat ground at y=300, matching the
// generator's placement rules: ball at the start column, one radius plus the
// clearance above the ground.
func aimingLevel() *LevelState {
	terrain := flatTerrain(300, testWidth)
	return &LevelState{
		Terrain: terrain,
		Ball: Ball{
			Position: NewVec2(BallStartX, 300-BallRadius-RestClearance),
			Radius:   BallRadius,
		},
		Goal:      Goal{Position: NewVec2(600, 300), Radius: GoalRadius},
		ShotState: ShotAiming,
		Level:     1,
		width:     testWidth,
		height:    testHeight,
		stepper:   NewStepper(DefaultPhysicsParams(testWidth, testHeight)),
	}
}

func TestStraightDownDragLaunchesStraightUp(t *testing.T) {
	l := aimingLevel()
	var lc LaunchController

	ballPos := l.Ball.Position // (50, 289)
	if !lc.BeginDrag(l, ballPos) {
		t.Fatal("BeginDrag on the ball center was rejected")
	}

	end := NewVec2(ballPos.X, ballPos.Y+20)
	lc.UpdateDrag(end)
	imp, ok := lc.EndDrag(l, end)
	if !ok {
		t.Fatal("EndDrag did not produce an impulse")
	}

	// Slingshot convention: a 20px straight-down drag launches straight up
	// at 20 * launchPower.
	if imp.X != 0 {
		t.Errorf("Impulse vx = %.6f, want 0", imp.X)
	}
	if math.Abs(imp.Y-(-20*LaunchPower)) > 1e-9 {
		t.Errorf("Impulse vy = %.6f, want %.2f", imp.Y, -20*LaunchPower)
	}

	if l.ShotState != ShotInFlight {
		t.Errorf("ShotState = %s, want %s", l.ShotState, ShotInFlight)
	}
	if l.Shots != 1 {
		t.Errorf("Shots = %d, want 1", l.Shots)
	}
	if l.Ball.Velocity != imp {
		t.Errorf("Ball velocity %+v does not match impulse %+v", l.Ball.Velocity, imp)
	}

	// First tick: the ball rises.
	yBefore := l.Ball.Position.Y
	if out := l.Tick(); out != OutcomeContinue {
		t.Fatalf("First tick outcome = %v, want continue", out)
	}
	if l.Ball.Position.Y >= yBefore {
		t.Errorf("Ball did not rise: y %.4f -> %.4f", yBefore, l.Ball.Position.Y)
	}
}

func TestBeginDragRejectedOffBall(t *testing.T) {
	l := aimingLevel()
	var lc LaunchController

	// Just outside the radius: rejected. It is a distance check, so a point
	// inside the bounding box corner is still out.
	p := l.Ball.Position.Plus(NewVec2(BallRadius*0.8, BallRadius*0.8))
	if lc.BeginDrag(l, p) {
		t.Error("BeginDrag outside the ball radius was accepted")
	}

	// Exactly on the rim: accepted.
	if !lc.BeginDrag(l, l.Ball.Position.Plus(NewVec2(BallRadius, 0))) {
		t.Error("BeginDrag on the ball rim was rejected")
	}
}

func TestBeginDragRejectedWhileInFlight(t *testing.T) {
	l := aimingLevel()
	l.ShotState = ShotInFlight

	var lc LaunchController
	if lc.BeginDrag(l, l.Ball.Position) {
		t.Error("BeginDrag while in flight was accepted")
	}
}

func TestEndDragWithoutBeginIsNoOp(t *testing.T) {
	l := aimingLevel()
	var lc LaunchController

	if _, ok := lc.EndDrag(l, NewVec2(100, 100)); ok {
		t.Error("EndDrag without an active drag produced an impulse")
	}
	if l.Shots != 0 || l.ShotState != ShotAiming || !l.Ball.Velocity.IsZero() {
		t.Errorf("Stray EndDrag mutated the level: shots=%d state=%s vel=%+v",
			l.Shots, l.ShotState, l.Ball.Velocity)
	}
}

func TestSecondBeginDragIgnoredWhileDragging(t *testing.T) {
	l := aimingLevel()
	var lc LaunchController

	if !lc.BeginDrag(l, l.Ball.Position) {
		t.Fatal("First BeginDrag rejected")
	}
	if lc.BeginDrag(l, l.Ball.Position) {
		t.Error("Second BeginDrag accepted while a drag is active")
	}
}

func TestImpulseAppliedExactlyOncePerDrag(t *testing.T) {
	l := aimingLevel()
	var lc LaunchController

	lc.BeginDrag(l, l.Ball.Position)
	if _, ok := lc.EndDrag(l, l.Ball.Position.Plus(NewVec2(0, 20))); !ok {
		t.Fatal("EndDrag rejected")
	}
	if _, ok := lc.EndDrag(l, l.Ball.Position); ok {
		t.Error("EndDrag fired twice for one drag")
	}
	if l.Shots != 1 {
		t.Errorf("Shots = %d, want 1", l.Shots)
	}
}

func TestAimVectorTracksDrag(t *testing.T) {
	l := aimingLevel()
	var lc LaunchController

	if _, ok := lc.AimVector(); ok {
		t.Error("AimVector reported a vector with no drag active")
	}

	lc.BeginDrag(l, l.Ball.Position)
	lc.UpdateDrag(l.Ball.Position.Plus(NewVec2(10, 10)))

	aim, ok := lc.AimVector()
	if !ok {
		t.Fatal("AimVector reported no drag")
	}
	if math.Abs(aim.X-(-10*LaunchPower)) > 1e-9 || math.Abs(aim.Y-(-10*LaunchPower)) > 1e-9 {
		t.Errorf("Aim = %+v, want (%.3f, %.3f)", aim, -10*LaunchPower, -10*LaunchPower)
	}

	// UpdateDrag never launches.
	if l.ShotState != ShotAiming || l.Shots != 0 {
		t.Errorf("UpdateDrag changed shot state: state=%s shots=%d", l.ShotState, l.Shots)
	}
}

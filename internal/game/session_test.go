package game

import (
	"testing"
	"time"
)

func newTestSession() *GolfSession {
	return NewGolfSession("golf_test", "PUTT_TEST", "pt", 0, 0, "Tester",
		testWidth, testHeight, 42, 30*time.Minute)
}

func TestSessionDragFlow(t *testing.T) {
	s := newTestSession()

	ball := s.level.Ball.Position
	if !s.BeginDrag(ball) {
		t.Fatal("BeginDrag on the ball was rejected")
	}

	aim, ok := s.UpdateDrag(ball.Plus(NewVec2(0, 20)))
	if !ok {
		t.Fatal("UpdateDrag reported no active drag")
	}
	if aim.Y >= 0 {
		t.Errorf("Downward drag aims vy=%.3f, want negative", aim.Y)
	}

	imp, ok := s.EndDrag(ball.Plus(NewVec2(0, 20)))
	if !ok {
		t.Fatal("EndDrag did not launch")
	}
	if !s.InFlight() {
		t.Error("Session not in flight after launch")
	}
	if s.level.Ball.Velocity != imp {
		t.Errorf("Ball velocity %+v does not match impulse %+v", s.level.Ball.Velocity, imp)
	}

	// A drag cannot start while the ball flies.
	if s.BeginDrag(s.level.Ball.Position) {
		t.Error("BeginDrag accepted while in flight")
	}

	frame := s.Tick()
	if frame.Outcome != OutcomeContinue && frame.Outcome != OutcomeSettled {
		t.Errorf("Unexpected first-tick outcome: %v", frame.Outcome)
	}
	if frame.ShotState != s.level.ShotState {
		t.Errorf("Frame shot state %s disagrees with level %s", frame.ShotState, s.level.ShotState)
	}
}

func TestSessionNewGameOnlyWhileAiming(t *testing.T) {
	s := newTestSession()

	ball := s.level.Ball.Position
	s.BeginDrag(ball)
	s.EndDrag(ball.Plus(NewVec2(0, 30)))

	if s.NewGame(7) {
		t.Error("NewGame accepted while a shot is in flight")
	}

	// Drain the shot until it settles, then restarting works.
	for i := 0; i < 5000 && s.InFlight(); i++ {
		s.Tick()
	}
	if s.InFlight() {
		t.Fatal("Shot never settled")
	}
	if !s.NewGame(7) {
		t.Fatal("NewGame rejected while aiming")
	}
	if s.level.Level != 1 || s.level.Shots != 0 {
		t.Errorf("NewGame did not reset: level=%d shots=%d", s.level.Level, s.level.Shots)
	}
	if s.Seed != 7 {
		t.Errorf("Seed = %d, want 7", s.Seed)
	}
}

func TestSessionClientState(t *testing.T) {
	s := newTestSession()
	state := s.GetClientState()

	for _, key := range []string{"terrain", "ball", "goal", "shot_state", "shots", "level", "levels_completed", "status"} {
		if _, ok := state[key]; !ok {
			t.Errorf("Client state missing %q", key)
		}
	}
	if state["shot_state"] != ShotAiming {
		t.Errorf("shot_state = %v, want %s", state["shot_state"], ShotAiming)
	}
	if _, ok := state["aim"]; ok {
		t.Error("Client state carries an aim vector with no drag active")
	}
}

func TestSessionExpiry(t *testing.T) {
	s := newTestSession()

	if s.IsExpired(time.Now()) {
		t.Error("Fresh session reported expired")
	}
	if !s.IsExpired(time.Now().Add(31 * time.Minute)) {
		t.Error("Session past its expiry reported alive")
	}

	s.Close(StatusExpired)
	if s.Status != StatusExpired {
		t.Errorf("Status = %s after close, want %s", s.Status, StatusExpired)
	}
	if s.BeginDrag(s.level.Ball.Position) {
		t.Error("Closed session accepted a drag")
	}
}

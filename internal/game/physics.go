package game

import "math"

// Ball is the single simulated body: a point-mass circle, no rotation.
type Ball struct {
	Position Vec2    `json:"position"`
	Velocity Vec2    `json:"velocity"`
	Radius   float64 `json:"radius"`
}

// Speed returns the ball's current speed.
func (b *Ball) Speed() float64 {
	return b.Velocity.Magnitude()
}

// Goal is the target region, centered on a terrain vertex for the level's
// duration.
type Goal struct {
	Position Vec2    `json:"position"`
	Radius   float64 `json:"radius"`
}

// StepOutcome is the result of one physics tick.
type StepOutcome int

const (
	OutcomeContinue StepOutcome = iota // ball still in motion
	OutcomeSettled                     // speed fell below the rest threshold
	OutcomeHoled                       // ball is in the cup at low speed
)

func (o StepOutcome) String() string {
	switch o {
	case OutcomeSettled:
		return "settled"
	case OutcomeHoled:
		return "holed"
	default:
		return "continue"
	}
}

// CollisionEvent records a contact during a tick, for sound playback and
// debugging on the client.
type CollisionEvent struct {
	Type  string  `json:"type"` // "wall", "ceiling", "ground", "goal"
	Speed float64 `json:"speed"`
}

// PhysicsParams holds every tunable of the simulation. Production code uses
// DefaultPhysicsParams; tests construct variants to isolate behaviors.
type PhysicsParams struct {
	Gravity            float64
	Friction           float64
	WallRestitution    float64
	CeilingRestitution float64
	GroundRestitution  float64
	SlopeImpulseScale  float64
	RestSpeed          float64
	HoleSpeed          float64
	Width              float64 // playfield width, right wall position
	Height             float64
}

// DefaultPhysicsParams returns the standard tuning for a playfield.
func DefaultPhysicsParams(width, height float64) PhysicsParams {
	return PhysicsParams{
		Gravity:            Gravity,
		Friction:           Friction,
		WallRestitution:    WallRestitution,
		CeilingRestitution: CeilingRestitution,
		GroundRestitution:  GroundRestitution,
		SlopeImpulseScale:  SlopeImpulseScale,
		RestSpeed:          RestSpeed,
		HoleSpeed:          HoleSpeed,
		Width:              width,
		Height:             height,
	}
}

// Stepper advances the ball one fixed tick at a time. It is a single-pass,
// approximate resolver, not a constraint solver: integration, then walls,
// then the first containing terrain segment, then the goal and rest checks,
// in that order. The order is part of the tuning — re-checking terrain after
// a wall bounce in the same tick would change observed trajectories.
type Stepper struct {
	Params PhysicsParams
	Events []CollisionEvent
}

// NewStepper creates a stepper with the given tuning.
func NewStepper(p PhysicsParams) *Stepper {
	return &Stepper{Params: p}
}

// Step advances velocity and position one tick and resolves collisions
// against the walls, the terrain and the goal. The ball is mutated in place;
// the stepper never retains it. Contact events accumulate in s.Events until
// DrainEvents is called.
func (s *Stepper) Step(b *Ball, terrain Terrain, goal Goal) StepOutcome {
	p := s.Params

	// Integrate: gravity, then friction, then movement.
	b.Velocity.Y += p.Gravity
	b.Velocity.X *= p.Friction
	b.Velocity.Y *= p.Friction
	b.Position = b.Position.Plus(b.Velocity)

	// Side walls reflect with energy loss; the ceiling is deliberately
	// deader than the walls.
	if b.Position.X-b.Radius < 0 {
		b.Position.X = b.Radius
		b.Velocity.X *= -p.WallRestitution
		s.record("wall", math.Abs(b.Velocity.X))
	} else if b.Position.X+b.Radius > p.Width {
		b.Position.X = p.Width - b.Radius
		b.Velocity.X *= -p.WallRestitution
		s.record("wall", math.Abs(b.Velocity.X))
	}
	if b.Position.Y-b.Radius < 0 {
		b.Position.Y = b.Radius
		b.Velocity.Y *= -p.CeilingRestitution
		s.record("ceiling", math.Abs(b.Velocity.Y))
	}

	// Terrain: only the first containing segment is evaluated this tick.
	// No containing segment means the ball is out in the margin, free-falling.
	if seg, ok := terrain.SegmentAt(b.Position.X); ok {
		groundY := seg.HeightAt(b.Position.X)
		if b.Position.Y+b.Radius > groundY {
			b.Position.Y = groundY - b.Radius
			b.Velocity.Y *= -p.GroundRestitution

			// Couple the bounce to the slope so the ball rolls downhill.
			d := seg.Delta()
			b.Velocity.X += math.Sin(math.Atan2(d.Y, d.X)) * p.Gravity * p.SlopeImpulseScale

			s.record("ground", math.Abs(b.Velocity.Y))
		}
	}

	speed := b.Speed()

	// Goal: close enough to the cup center, and slow enough not to skip over.
	if b.Position.DistanceTo(goal.Position) < goal.Radius-b.Radius/2 && speed < p.HoleSpeed {
		s.record("goal", speed)
		return OutcomeHoled
	}

	if speed < p.RestSpeed {
		b.Velocity = Vec2{}
		return OutcomeSettled
	}

	return OutcomeContinue
}

// DrainEvents returns the accumulated contact events and clears the buffer.
func (s *Stepper) DrainEvents() []CollisionEvent {
	ev := s.Events
	s.Events = nil
	return ev
}

func (s *Stepper) record(kind string, speed float64) {
	s.Events = append(s.Events, CollisionEvent{Type: kind, Speed: speed})
}

package game

// Physics and playfield constants for the golf sandbox.
// These match the reference client tuning; the scenario tests pin them down,
// so change with care.

const (
	Gravity            = 0.2  // added to vy each tick, before friction
	Friction           = 0.99 // fraction of velocity retained per tick
	WallRestitution    = 0.7  // side walls
	CeilingRestitution = 0.4  // ceiling is deliberately less bouncy than the walls
	GroundRestitution  = 0.5
	SlopeImpulseScale  = 2.0 // slope coupling on ground contact, makes the ball roll downhill
	RestSpeed          = 0.1 // below this the ball settles and control returns to the player
	HoleSpeed          = 3.0 // above this the ball skips over the cup
	LaunchPower        = 0.15

	BallRadius    = 10.0
	GoalRadius    = 20.0 // big enough that a ball rolling over the cup center can drop in
	SegmentLength = 20.0 // horizontal spacing of terrain vertices
	BallStartX    = 50.0
	RestClearance = 1.0 // gap between a resting ball and the ground

	TerrainJitter   = 15.0 // max per-step height perturbation, either direction
	TerrainMinFrac  = 0.4  // highest ground allowed, as fraction of canvas height
	TerrainFloorPad = 50.0 // lowest ground allowed, in units above the canvas bottom

	GoalIndexMin    = 5  // keep the cup off the left margin
	GoalIndexMargin = 10 // and away from the right edge
)

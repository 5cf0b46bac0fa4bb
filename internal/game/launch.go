package game

// LaunchController converts a drag gesture into a launch impulse, slingshot
// style: the impulse points from the drag end back toward the drag start, so
// pulling down-right launches up-left. It only arms while the level is
// aiming, which serializes input against the physics loop — a drag begun
// mid-flight, or an end without a begin, is silently ignored (those come
// from ordinary input races, not bugs).
type LaunchController struct {
	dragging bool
	start    Vec2
	current  Vec2
}

// BeginDrag arms the controller if the level is aiming and the pointer is on
// the ball (distance check against the ball radius, not a bounding box).
// Reports whether the drag was accepted.
func (lc *LaunchController) BeginDrag(l *LevelState, p Vec2) bool {
	if lc.dragging || l.ShotState != ShotAiming {
		return false
	}
	if p.DistanceTo(l.Ball.Position) > l.Ball.Radius {
		return false
	}
	lc.dragging = true
	lc.start = p
	lc.current = p
	return true
}

// UpdateDrag records the current pointer position. No physics effect; the
// client consumes AimVector for the aim line.
func (lc *LaunchController) UpdateDrag(p Vec2) {
	if lc.dragging {
		lc.current = p
	}
}

// AimVector returns the impulse the drag would produce if released now, and
// whether a drag is active.
func (lc *LaunchController) AimVector() (Vec2, bool) {
	if !lc.dragging {
		return Vec2{}, false
	}
	return lc.impulse(lc.current), true
}

// EndDrag completes the drag: the impulse is applied to the ball exactly
// once, the shot counter increments, and the level goes in flight. Returns
// the impulse and whether a drag was active to end.
func (lc *LaunchController) EndDrag(l *LevelState, p Vec2) (Vec2, bool) {
	if !lc.dragging {
		return Vec2{}, false
	}
	lc.dragging = false
	imp := lc.impulse(p)
	lc.start = Vec2{}
	lc.current = Vec2{}

	l.Ball.Velocity = imp
	l.ShotState = ShotInFlight
	l.Shots++
	return imp, true
}

// Dragging reports whether a drag is in progress.
func (lc *LaunchController) Dragging() bool {
	return lc.dragging
}

func (lc *LaunchController) impulse(end Vec2) Vec2 {
	return NewVec2(
		(lc.start.X-end.X)*LaunchPower,
		(lc.start.Y-end.Y)*LaunchPower,
	)
}

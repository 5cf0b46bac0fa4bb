package game

import "math/rand"

// Terrain is an ordered polyline approximating ground height across the
// playfield. X values are strictly increasing, spaced SegmentLength apart,
// with one margin vertex beyond each playfield edge so the leftmost and
// rightmost on-screen positions still resolve to a segment. Immutable once
// generated; a new level gets a new terrain.
type Terrain []Vec2

// Segment is one linear piece of the terrain polyline.
type Segment struct {
	P1 Vec2
	P2 Vec2
}

// GenerateTerrain builds a random terrain for the given playfield dimensions.
// The walk starts at a uniform height in [0.6h, 0.9h] and perturbs each step
// by up to ±TerrainJitter, clamped to [0.4h, h-TerrainFloorPad]. The rng is
// injected so levels are reproducible from a seed.
func GenerateTerrain(width, height float64, rng *rand.Rand) Terrain {
	y := (0.6 + 0.3*rng.Float64()) * height

	var t Terrain
	for x := -SegmentLength; x <= width+SegmentLength; x += SegmentLength {
		t = append(t, NewVec2(x, y))

		y += rng.Float64()*2*TerrainJitter - TerrainJitter
		if y < TerrainMinFrac*height {
			y = TerrainMinFrac * height
		}
		if y > height-TerrainFloorPad {
			y = height - TerrainFloorPad
		}
	}
	return t
}

// SegmentAt returns the segment containing x. Segments are scanned in
// ascending order and the first match wins, so an x landing exactly on a
// shared vertex resolves to the lower-index segment. Changing that tie-break
// would alter trajectories near terrain joints.
func (t Terrain) SegmentAt(x float64) (Segment, bool) {
	for i := 0; i+1 < len(t); i++ {
		if t[i].X < x && x <= t[i+1].X {
			return Segment{P1: t[i], P2: t[i+1]}, true
		}
	}
	return Segment{}, false
}

// HeightAt returns the interpolated ground height at x. The second return is
// false when x falls outside every segment; callers treat that as open air,
// not an error.
func (t Terrain) HeightAt(x float64) (float64, bool) {
	seg, ok := t.SegmentAt(x)
	if !ok {
		return 0, false
	}
	return seg.HeightAt(x), true
}

// HeightAt linearly interpolates the segment's height at x.
func (s Segment) HeightAt(x float64) float64 {
	frac := (x - s.P1.X) / (s.P2.X - s.P1.X)
	return s.P1.Y + (s.P2.Y-s.P1.Y)*frac
}

// Delta returns the segment's direction as (dx, dy).
func (s Segment) Delta() Vec2 {
	return s.P2.Minus(s.P1)
}

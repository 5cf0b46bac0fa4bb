package game

import (
	"math/rand"
	"testing"
)

const (
	testWidth  = 800.0
	testHeight = 600.0
)

func TestTerrainSpacingAndOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terrain := GenerateTerrain(testWidth, testHeight, rng)

	if len(terrain) < 2 {
		t.Fatalf("Terrain too short: %d points", len(terrain))
	}

	for i := 0; i+1 < len(terrain); i++ {
		dx := terrain[i+1].X - terrain[i].X
		if dx != SegmentLength {
			t.Errorf("Point %d->%d spaced %.4f, want %.0f", i, i+1, dx, SegmentLength)
		}
	}
}

func TestTerrainCoversPlayfieldWithMargins(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	terrain := GenerateTerrain(testWidth, testHeight, rng)

	if terrain[0].X != -SegmentLength {
		t.Errorf("First vertex at x=%.0f, want %.0f", terrain[0].X, -SegmentLength)
	}
	if last := terrain[len(terrain)-1].X; last < testWidth {
		t.Errorf("Last vertex at x=%.0f does not reach width %.0f", last, testWidth)
	}

	// Every on-screen x must resolve to a segment.
	for x := 0.0; x <= testWidth; x += 7.3 {
		if _, ok := terrain.SegmentAt(x); !ok {
			t.Errorf("No segment contains x=%.1f", x)
		}
	}
}

func TestTerrainHeightBounds(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		terrain := GenerateTerrain(testWidth, testHeight, rng)

		for i, p := range terrain {
			// The walk's starting height range sits inside the clamp range,
			// so every vertex must obey the clamp.
			if p.Y < TerrainMinFrac*testHeight || p.Y > testHeight-TerrainFloorPad {
				t.Errorf("seed %d: vertex %d height %.2f outside [%.0f, %.0f]",
					seed, i, p.Y, TerrainMinFrac*testHeight, testHeight-TerrainFloorPad)
			}
		}
	}
}

func TestTerrainDeterministicFromSeed(t *testing.T) {
	a := GenerateTerrain(testWidth, testHeight, rand.New(rand.NewSource(42)))
	b := GenerateTerrain(testWidth, testHeight, rand.New(rand.NewSource(42)))

	if len(a) != len(b) {
		t.Fatalf("Lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Vertex %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSegmentAtVertexTieBreak(t *testing.T) {
	terrain := Terrain{
		NewVec2(-20, 300),
		NewVec2(0, 300),
		NewVec2(20, 310),
		NewVec2(40, 320),
	}

	// x exactly on the shared vertex resolves to the lower-index segment.
	seg, ok := terrain.SegmentAt(20)
	if !ok {
		t.Fatal("Expected a segment at x=20")
	}
	if seg.P1.X != 0 || seg.P2.X != 20 {
		t.Errorf("Vertex tie-break picked segment [%.0f,%.0f], want [0,20]", seg.P1.X, seg.P2.X)
	}

	// Just past the vertex falls into the next segment.
	seg, ok = terrain.SegmentAt(20.0001)
	if !ok || seg.P1.X != 20 {
		t.Errorf("x just past vertex picked segment starting at %.0f, want 20", seg.P1.X)
	}
}

func TestSegmentAtOutsideMargins(t *testing.T) {
	terrain := GenerateTerrain(testWidth, testHeight, rand.New(rand.NewSource(3)))

	if _, ok := terrain.SegmentAt(-SegmentLength - 5); ok {
		t.Error("Expected no segment left of the margin")
	}
	if _, ok := terrain.SegmentAt(testWidth + 2*SegmentLength + 5); ok {
		t.Error("Expected no segment right of the margin")
	}
}

func TestHeightAtInterpolation(t *testing.T) {
	terrain := Terrain{NewVec2(0, 100), NewVec2(20, 200)}

	h, ok := terrain.HeightAt(10)
	if !ok {
		t.Fatal("Expected a height at x=10")
	}
	if h != 150 {
		t.Errorf("HeightAt(10) = %.2f, want 150", h)
	}
}

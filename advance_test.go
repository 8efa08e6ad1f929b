package rbd

import (
	"math"
	"testing"

	"github.com/fenwick-sim/rbd/actor"
	"github.com/fenwick-sim/rbd/geom"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cubeMesh is the shared test fixture: an axis-aligned cube of side 1
// centered at the origin, outward-oriented.
func cubeMesh() ([]geom.Triangle, []mgl64.Vec3) {
	h := 0.5
	positions := []mgl64.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	triangles := []geom.Triangle{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{3, 7, 6}, {3, 6, 2},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
	return triangles, positions
}

// noContacts wires a scene with callbacks that never report any candidate
// pair, for free-flight scenarios where no broad phase is needed.
func noContacts() (any, OverlapShapesFunc, OverlapShapeFunc, OverlapVertsFunc, OverlapRefitFunc) {
	return nil,
		func(any) []ShapePair { return nil },
		func(any, int, mgl64.Vec3, float64) (ClosestElement, bool) { return ClosestElement{}, false },
		func(any, int, int, float64) []VertexWitness { return nil },
		func(any) {}
}

// One unit-density cube falls freely from y=10 with gravity only (drag
// disabled) for 100 steps at dt=1/60. v_y = -9.82*t; velocity is updated
// before position each step, so after n steps y = 10 - 9.82*dt^2*n(n+1)/2,
// which lies 0.5*9.82*dt*t below the continuous 10 - 0.5*9.82*t^2.
func TestFreeFallMatchesClosedForm(t *testing.T) {
	s := MakeScene(1)
	tris, pos := cubeMesh()
	require.NoError(t, s.SetBody(0, actor.Frame{Rotation: mgl64.Ident3(), Translation: mgl64.Vec3{0, 10, 0}}, mgl64.Vec3{}, mgl64.Vec3{}, 1, tris, pos))
	s.InitSimulation()
	s.LinearDrag, s.AngularDrag = 0, 0

	ctx, shapes, shape, verts, refit := noContacts()
	s.SetOverlapCallbacks(ctx, shapes, shape, verts, refit)

	const dt = 1.0 / 60.0
	const steps = 100
	for i := 0; i < steps; i++ {
		s.Advance(dt)
	}

	elapsed := steps * dt
	wantY := 10 - 9.82*dt*dt*steps*(steps+1)/2
	wantVY := -9.82 * elapsed

	frame := s.BodyFrame(0)
	linVel, _ := s.BodyVelocity(0)

	assert.InDelta(t, wantY, frame.Translation.Y(), math.Abs(wantY)*0.01)
	assert.InDelta(t, wantVY, linVel.Y(), math.Abs(wantVY)*0.01)
}

// A static (density 0) body must be left exactly unchanged by any number of
// Advance calls.
func TestStaticBodyUnaffectedByAdvance(t *testing.T) {
	s := MakeScene(1)
	tris, pos := cubeMesh()
	frame := actor.Frame{Rotation: mgl64.Ident3(), Translation: mgl64.Vec3{3, 4, 5}}
	require.NoError(t, s.SetBody(0, frame, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0.1, 0, 0}, 0, tris, pos))
	s.InitSimulation()

	ctx, shapes, shape, verts, refit := noContacts()
	s.SetOverlapCallbacks(ctx, shapes, shape, verts, refit)

	for i := 0; i < 50; i++ {
		s.Advance(1.0 / 60.0)
	}

	assert.Equal(t, frame, s.BodyFrame(0))
	lin, ang := s.BodyVelocity(0)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, lin)
	assert.Equal(t, mgl64.Vec3{0.1, 0, 0}, ang)
}

// Momentum conservation in free flight: with no contacts and gravity zero,
// linear velocity must not change across a step.
func TestFreeFlightConservesLinearMomentumWithNoGravity(t *testing.T) {
	s := MakeScene(1)
	tris, pos := cubeMesh()
	require.NoError(t, s.SetBody(0, actor.Identity(), mgl64.Vec3{1, 2, 3}, mgl64.Vec3{}, 1, tris, pos))
	s.InitSimulation()
	s.Gravity = mgl64.Vec3{}
	s.LinearDrag, s.AngularDrag = 0, 0

	ctx, shapes, shape, verts, refit := noContacts()
	s.SetOverlapCallbacks(ctx, shapes, shape, verts, refit)

	s.Advance(1.0 / 60.0)

	lin, _ := s.BodyVelocity(0)
	assert.InDelta(t, 1, lin.X(), 1e-9)
	assert.InDelta(t, 2, lin.Y(), 1e-9)
	assert.InDelta(t, 3, lin.Z(), 1e-9)
}

// Drag decays kinetic energy monotonically in free flight.
func TestDragDecaysSpeedMonotonically(t *testing.T) {
	s := MakeScene(1)
	tris, pos := cubeMesh()
	require.NoError(t, s.SetBody(0, actor.Identity(), mgl64.Vec3{5, 0, 0}, mgl64.Vec3{}, 1, tris, pos))
	s.InitSimulation()
	s.Gravity = mgl64.Vec3{}

	ctx, shapes, shape, verts, refit := noContacts()
	s.SetOverlapCallbacks(ctx, shapes, shape, verts, refit)

	prevSpeed := 5.0
	for i := 0; i < 20; i++ {
		s.Advance(1.0 / 60.0)
		lin, _ := s.BodyVelocity(0)
		assert.Less(t, lin.Len(), prevSpeed)
		prevSpeed = lin.Len()
	}
}

// A body sitting exactly on a static floor, reporting one penetrating
// contact every step, should have its downward normal velocity resisted by
// the solver rather than accelerating through the floor.
func TestRestingContactResistsPenetration(t *testing.T) {
	s := MakeScene(2)
	floorTris, floorPos := cubeMesh()
	bodyTris, bodyPos := cubeMesh()

	require.NoError(t, s.SetBody(0, actor.Identity(), mgl64.Vec3{}, mgl64.Vec3{}, 0, floorTris, floorPos))
	require.NoError(t, s.SetBody(1, actor.Frame{Rotation: mgl64.Ident3(), Translation: mgl64.Vec3{0, 0.99, 0}}, mgl64.Vec3{}, mgl64.Vec3{}, 1, bodyTris, bodyPos))
	s.InitSimulation()

	// A fixed witness: vertex 0 of the resting body sits just inside the
	// floor's top face (triangle index 7, per cubeMesh's +y winding),
	// reported every step regardless of true geometry.
	callbacksShapes := func(any) []ShapePair { return []ShapePair{{A: 0, B: 1}} }
	callbacksShape := func(any, int, mgl64.Vec3, float64) (ClosestElement, bool) { return ClosestElement{}, false }
	callbacksVerts := func(ctx any, sidTris, sidVerts int, maxDist float64) []VertexWitness {
		if sidTris != 0 || sidVerts != 1 {
			return nil
		}
		return []VertexWitness{{TriangleID: 7, Barycentric: mgl64.Vec3{0.34, 0.33, 0.33}, VertexID: 0, Distance: 0.01}}
	}
	callbacksRefit := func(any) {}
	s.SetOverlapCallbacks(nil, callbacksShapes, callbacksShape, callbacksVerts, callbacksRefit)

	for i := 0; i < 60; i++ {
		s.Advance(1.0 / 60.0)
	}

	lin, _ := s.BodyVelocity(1)
	assert.Greater(t, lin.Y(), -1.0)
	require.NotEmpty(t, s.LastContacts)
}

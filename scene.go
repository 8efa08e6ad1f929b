// Package rbd is a fixed-timestep rigid-body dynamics engine: it advances a
// population of rigid bodies under gravity, resolves contacts against
// triangle meshes supplied by the caller, and maintains linear and angular
// state through a sequential-impulse (PGS) constraint solver.
//
// The engine is pure simulation. Broad-phase and near-phase collision
// detection are injected through four callbacks (see Callbacks); I/O,
// rendering, and asset construction are the caller's concern.
package rbd

import (
	"fmt"

	"github.com/fenwick-sim/rbd/actor"
	"github.com/fenwick-sim/rbd/collision"
	"github.com/fenwick-sim/rbd/constraint"
	"github.com/fenwick-sim/rbd/geom"
	"github.com/fenwick-sim/rbd/moments"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

// ShapePair, ClosestElement, VertexWitness and the four callback types are
// re-exported from collision so callers only need to import this package.
type (
	ShapePair         = collision.ShapePair
	ClosestElement    = collision.ClosestElement
	VertexWitness     = collision.VertexWitness
	OverlapShapesFunc = collision.OverlapShapesFunc
	OverlapShapeFunc  = collision.OverlapShapeFunc
	OverlapVertsFunc  = collision.OverlapVertsFunc
	OverlapRefitFunc  = collision.OverlapRefitFunc
)

// Scene owns a fixed-size table of bodies plus the global simulation
// parameters and callback bindings.
type Scene struct {
	Bodies []*actor.Body

	Gravity     mgl64.Vec3
	LinearDrag  float64
	AngularDrag float64
	Iterations  int

	OverlapMaxRadius float64
	callbacks        collision.Callbacks

	// LastContacts is the previous step's contact list, retained only for
	// caller inspection; nothing in the engine reads it back.
	LastContacts []*constraint.Contact

	// Logger receives the non-finite body-state diagnostic raised by Advance.
	// Defaults to a no-op logger so embedding this engine never forces stderr
	// output on an application that hasn't opted in.
	Logger *zap.Logger
}

// MakeScene preallocates n bodies with the default attributes of
// actor.NewBody (density 1, simulated, identity frame, zero velocities, no
// geometry) and the engine's default global parameters.
func MakeScene(n int) *Scene {
	bodies := make([]*actor.Body, n)
	for i := range bodies {
		bodies[i] = actor.NewBody()
	}
	return &Scene{
		Bodies:           bodies,
		Gravity:          mgl64.Vec3{0, -9.82, 0},
		LinearDrag:       0.01,
		AngularDrag:      0.01,
		Iterations:       20,
		OverlapMaxRadius: 0.25,
		Logger:           zap.NewNop(),
	}
}

func (s *Scene) checkID(id int) error {
	if id < 0 || id >= len(s.Bodies) {
		return fmt.Errorf("rbd: body id %d out of range [0,%d)", id, len(s.Bodies))
	}
	return nil
}

// SetBody binds geometry and physical parameters to body id. A body is
// simulated iff density > 0.
func (s *Scene) SetBody(id int, frame actor.Frame, linVel, angVel mgl64.Vec3, density float64, triangles []geom.Triangle, positions []mgl64.Vec3) error {
	if err := s.checkID(id); err != nil {
		return err
	}
	s.Bodies[id].Bind(frame, linVel, angVel, density, triangles, positions)
	return nil
}

// BodyFrame returns the current frame of body id.
func (s *Scene) BodyFrame(id int) actor.Frame { return s.Bodies[id].Frame }

// SetBodyFrame overwrites the frame of body id.
func (s *Scene) SetBodyFrame(id int, f actor.Frame) { s.Bodies[id].Frame = f }

// BodyVelocity returns the linear and angular velocity of body id.
func (s *Scene) BodyVelocity(id int) (linVel, angVel mgl64.Vec3) {
	b := s.Bodies[id]
	return b.LinearVelocity, b.AngularVelocity
}

// SetBodyVelocity overwrites the linear and angular velocity of body id.
func (s *Scene) SetBodyVelocity(id int, linVel, angVel mgl64.Vec3) {
	b := s.Bodies[id]
	b.LinearVelocity = linVel
	b.AngularVelocity = angVel
}

// SetOverlapCallbacks binds the four callbacks the collision builder
// consumes. All four must be set before Advance is called.
func (s *Scene) SetOverlapCallbacks(ctx any, shapes OverlapShapesFunc, shape OverlapShapeFunc, verts OverlapVertsFunc, refit OverlapRefitFunc) {
	s.callbacks = collision.Callbacks{Ctx: ctx, Shapes: shapes, Shape: shape, Verts: verts, Refit: refit}
}

// ComputeMoments exposes moments.Compute under the engine's public surface.
func ComputeMoments(triangles []geom.Triangle, positions []mgl64.Vec3) (volume float64, centroid mgl64.Vec3, inertia mgl64.Mat3) {
	return moments.Compute(triangles, positions)
}

// ComputeTetraMoments exposes moments.ComputeTetra under the engine's public
// surface.
func ComputeTetraMoments(tetra []geom.Tetra, positions []mgl64.Vec3) (volume float64, centroid mgl64.Vec3, inertia mgl64.Mat3) {
	return moments.ComputeTetra(tetra, positions)
}

// InitSimulation computes each simulated body's cached mass properties from
// its bound geometry. Must be called once after all SetBody calls and before
// the first Advance.
func (s *Scene) InitSimulation() {
	for _, b := range s.Bodies {
		if !b.Simulated {
			b.Mass, b.InvMass = 0, 0
			b.LocalCentroid, b.WorldCentroid = mgl64.Vec3{}, mgl64.Vec3{}
			b.LocalInertia, b.InvLocalInertia = mgl64.Mat3{}, mgl64.Mat3{}
			continue
		}

		volume, centroid, inertia := moments.Compute(b.Triangles, b.Positions)
		b.Mass = b.Density * volume
		b.InvMass = 1.0 / b.Mass
		b.LocalCentroid = centroid
		b.LocalInertia = inertia
		b.WorldCentroid = b.Frame.TransformPoint(centroid)
		b.InvLocalInertia = inertia.Inv()
	}
}

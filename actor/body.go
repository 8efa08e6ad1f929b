package actor

import (
	"github.com/fenwick-sim/rbd/geom"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
)

// Body is a single rigid body: its geometry, its kinematic state, and the
// mass properties cached from that geometry.
type Body struct {
	Frame           Frame
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3

	Density   float64
	Simulated bool // true iff Density > 0

	// Geometry, owned by the caller for the body's lifetime: the body only
	// holds the index triples and a reference to the shared positions array.
	// Excluded from Clone — a clone shares the source's geometry by
	// reference, it never copies the mesh.
	Triangles []geom.Triangle `copier:"-"`
	Positions []mgl64.Vec3    `copier:"-"`

	// Cached mass properties, populated by Scene.InitSimulation and kept in
	// sync with Frame by Scene.Advance.
	Mass            float64
	InvMass         float64
	LocalCentroid   mgl64.Vec3
	WorldCentroid   mgl64.Vec3
	LocalInertia    mgl64.Mat3
	InvLocalInertia mgl64.Mat3
	InvWorldInertia mgl64.Mat3
}

// NewBody returns a default body: density 1, simulated, identity frame, zero
// velocities, no geometry.
func NewBody() *Body {
	return &Body{
		Frame:     Identity(),
		Density:   1,
		Simulated: true,
	}
}

// Bind attaches geometry and physical parameters to the body. A body is
// simulated iff density > 0.
func (b *Body) Bind(frame Frame, linVel, angVel mgl64.Vec3, density float64, triangles []geom.Triangle, positions []mgl64.Vec3) {
	b.Frame = frame
	b.LinearVelocity = linVel
	b.AngularVelocity = angVel
	b.Density = density
	b.Simulated = density > 0
	b.Triangles = triangles
	b.Positions = positions
}

// RefreshWorldState recomputes the world centroid and the world-space
// inverse inertia tensor from the current frame. Scene.Advance calls it once
// per step before collision detection; changing Frame does not call it.
func (b *Body) RefreshWorldState() {
	if !b.Simulated {
		return
	}
	b.WorldCentroid = b.Frame.TransformPoint(b.LocalCentroid)
	r := b.Frame.Rotation
	b.InvWorldInertia = r.Mul3(b.InvLocalInertia).Mul3(r.Transpose())
}

// ApplyRelativeImpulse applies impulse J at world-space point offset relPos
// (relative to the body's world centroid): v += J * invMass, ω += I⁻¹(r × J).
// A no-op on non-simulated bodies.
func (b *Body) ApplyRelativeImpulse(impulse, relPos mgl64.Vec3) {
	if !b.Simulated {
		return
	}
	b.LinearVelocity = b.LinearVelocity.Add(impulse.Mul(b.InvMass))
	b.AngularVelocity = b.AngularVelocity.Add(b.InvWorldInertia.Mul3x1(relPos.Cross(impulse)))
}

// Clone returns a deep copy of b's kinematic and mass-property state. The
// mesh (Triangles, Positions) is shared by reference with the source, never
// duplicated — callers comparing before/after snapshots across a step are
// the intended use, not geometry ownership.
func (b *Body) Clone() *Body {
	clone := &Body{}
	if err := copier.CopyWithOption(clone, b, copier.Option{DeepCopy: true}); err != nil {
		panic("actor: Body.Clone: " + err.Error())
	}
	clone.Triangles = b.Triangles
	clone.Positions = b.Positions
	return clone
}

// Package actor defines the rigid body and its frame: the engine's body
// store and the cached mass properties the integrator and solver depend on.
package actor

import "github.com/go-gl/mathgl/mgl64"

// Frame is a rigid transform: an orthonormal rotation plus a translation.
// Rotation is kept as a matrix rather than a quaternion, per the axis-angle
// pose update the integrator uses (see geom.AxisAngle); this drifts from
// orthonormality over very long runs, a tradeoff callers can counter with
// geom.Orthonormalize at whatever cadence they choose.
type Frame struct {
	Rotation    mgl64.Mat3
	Translation mgl64.Vec3
}

// Identity returns the frame with no rotation, at the origin.
func Identity() Frame {
	return Frame{Rotation: mgl64.Ident3()}
}

// TransformPoint maps a local-space point into world space.
func (f Frame) TransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return f.Rotation.Mul3x1(p).Add(f.Translation)
}

// TransformDirection maps a local-space direction into world space (rotation
// only, no translation).
func (f Frame) TransformDirection(d mgl64.Vec3) mgl64.Vec3 {
	return f.Rotation.Mul3x1(d)
}

// InverseTransformPoint maps a world-space point into local space. The
// rotation is assumed orthonormal, so its inverse is its transpose.
func (f Frame) InverseTransformPoint(p mgl64.Vec3) mgl64.Vec3 {
	return f.Rotation.Transpose().Mul3x1(p.Sub(f.Translation))
}

// Package constraint implements the Projected Gauss-Seidel sequential
// impulse solver used to resolve contacts each step.
package constraint

import (
	"github.com/fenwick-sim/rbd/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Friction is the isotropic Coulomb friction coefficient. No
	// static/kinetic distinction is made.
	Friction = 0.6

	// BaumgarteBias is the position-correction bias term in Solve: it is
	// added to the normal target velocity and, scaled by Friction, lowers the
	// upper clamp of the second tangent impulse. It is zero, so penetration
	// is never actively pushed out and is left to the normal-impulse clamp
	// across iterations; a depth-proportional bias (col.depth * 0.8 / dt) is
	// not implemented.
	BaumgarteBias = 0.0
)

// Contact is one contact point between two bodies, expressed in a contact
// frame whose third basis vector is the surface normal (pointing away from
// BodyA) and whose first two vectors span the tangent plane.
type Contact struct {
	BodyA, BodyB *actor.Body

	// Frame columns: Frame[0], Frame[1] are the tangent axes, Frame[2] is
	// the normal. Origin is the world-space contact point.
	Frame  mgl64.Mat3
	Origin mgl64.Vec3
	Depth  float64

	// Accumulated impulse, in world frame and in contact-frame components
	// (tangent1, tangent2, normal).
	Impulse      mgl64.Vec3
	LocalImpulse mgl64.Vec3

	// effMassInv[k] is the effective inverse mass along contact-frame axis k.
	effMassInv mgl64.Vec3

	// Pre- and post-solve relative velocity, retained for observability only.
	VelocityBefore, VelocityAfter mgl64.Vec3
}

func (c *Contact) tangent1() mgl64.Vec3 { return mgl64.Vec3{c.Frame[0], c.Frame[1], c.Frame[2]} }
func (c *Contact) tangent2() mgl64.Vec3 { return mgl64.Vec3{c.Frame[3], c.Frame[4], c.Frame[5]} }
func (c *Contact) normal() mgl64.Vec3   { return mgl64.Vec3{c.Frame[6], c.Frame[7], c.Frame[8]} }

func (c *Contact) armA() mgl64.Vec3 { return c.Origin.Sub(c.BodyA.WorldCentroid) }
func (c *Contact) armB() mgl64.Vec3 { return c.Origin.Sub(c.BodyB.WorldCentroid) }

func angularTerm(inertiaInv mgl64.Mat3, r, axis mgl64.Vec3) float64 {
	rxn := r.Cross(axis)
	return rxn.Dot(inertiaInv.Mul3x1(rxn))
}

// Precompute zeroes the accumulated impulse and caches the effective inverse
// mass along each contact-frame axis.
func (c *Contact) Precompute() {
	c.Impulse = mgl64.Vec3{}
	c.LocalImpulse = mgl64.Vec3{}

	rA, rB := c.armA(), c.armB()
	axes := [3]mgl64.Vec3{c.tangent1(), c.tangent2(), c.normal()}

	for k, axis := range axes {
		denom := c.BodyA.InvMass + c.BodyB.InvMass +
			angularTerm(c.BodyA.InvWorldInertia, rA, axis) +
			angularTerm(c.BodyB.InvWorldInertia, rB, axis)
		c.effMassInv[k] = 1.0 / denom
	}
}

func (c *Contact) relativeVelocity() mgl64.Vec3 {
	rA, rB := c.armA(), c.armB()
	vA := c.BodyA.LinearVelocity.Add(c.BodyA.AngularVelocity.Cross(rA))
	vB := c.BodyB.LinearVelocity.Add(c.BodyB.AngularVelocity.Cross(rB))
	return vB.Sub(vA)
}

// Solve runs N iterations of sequential impulse resolution across contacts,
// in list order. There is no warm-starting across steps: Precompute must be
// called on every contact before the first call to Solve in a step.
func Solve(contacts []*Contact, iterations int) {
	for _, c := range contacts {
		c.VelocityBefore = c.relativeVelocity()
	}

	for i := 0; i < iterations; i++ {
		for _, c := range contacts {
			rA, rB := c.armA(), c.armB()
			vr := c.relativeVelocity()

			c.BodyA.ApplyRelativeImpulse(c.Impulse, rA)
			c.BodyB.ApplyRelativeImpulse(c.Impulse.Mul(-1), rB)

			t1, t2, n := c.tangent1(), c.tangent2(), c.normal()
			delta := mgl64.Vec3{
				c.effMassInv.X() * -vr.Dot(t1),
				c.effMassInv.Y() * -vr.Dot(t2),
				c.effMassInv.Z() * (-vr.Dot(n) + BaumgarteBias),
			}
			c.LocalImpulse = c.LocalImpulse.Add(delta)

			lambdaN := clamp(c.LocalImpulse.Z(), 0, maxFloat)
			lambdaT1 := clamp(c.LocalImpulse.X(), -Friction*lambdaN, Friction*lambdaN)
			lambdaT2 := clamp(c.LocalImpulse.Y(), -Friction*lambdaN, Friction*lambdaN-BaumgarteBias*Friction)
			c.LocalImpulse = mgl64.Vec3{lambdaT1, lambdaT2, lambdaN}

			c.Impulse = n.Mul(lambdaN).Add(t1.Mul(lambdaT1)).Add(t2.Mul(lambdaT2))

			c.BodyA.ApplyRelativeImpulse(c.Impulse.Mul(-1), rA)
			c.BodyB.ApplyRelativeImpulse(c.Impulse, rB)
		}
	}

	for _, c := range contacts {
		c.VelocityAfter = c.relativeVelocity()
	}
}

const maxFloat = 1.7976931348623157e+308

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

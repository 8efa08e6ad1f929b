package rbd

import (
	"github.com/fenwick-sim/rbd/actor"
	"github.com/fenwick-sim/rbd/collision"
	"github.com/fenwick-sim/rbd/constraint"
	"github.com/fenwick-sim/rbd/geom"
)

// Advance runs one fixed-timestep tick: it refreshes cached world-space mass
// properties, builds this step's contacts, applies gravity, runs the PGS
// solver, applies drag, advances every simulated body's pose, and finally
// invokes the refit callback. It is synchronous and never suspends; there is
// no cancellation contract — a caller wanting to interrupt must do so
// between calls.
func (s *Scene) Advance(dt float64) {
	for _, b := range s.Bodies {
		b.RefreshWorldState()
	}

	contacts := collision.Build(s.Bodies, s.callbacks, s.OverlapMaxRadius)

	gravityDelta := s.Gravity.Mul(dt)
	for _, b := range s.Bodies {
		if !b.Simulated {
			continue
		}
		b.LinearVelocity = b.LinearVelocity.Add(gravityDelta)
	}

	for _, c := range contacts {
		c.Precompute()
	}
	constraint.Solve(contacts, s.Iterations)
	s.LastContacts = contacts

	for _, b := range s.Bodies {
		if !b.Simulated {
			continue
		}
		b.LinearVelocity = b.LinearVelocity.Mul(1 - s.LinearDrag)
		b.AngularVelocity = b.AngularVelocity.Mul(1 - s.AngularDrag)
	}

	for _, b := range s.Bodies {
		if !b.Simulated {
			continue
		}
		advancePose(b, dt)
		s.reportNonFinite(b)
	}

	if s.callbacks.Refit != nil {
		s.callbacks.Refit(s.callbacks.Ctx)
	}
}

// advancePose advances a simulated body's centroid and rotation by dt and
// re-derives the translation from them. The world position of a body is
// always centroid + rotation·local-centroid offset, so deriving translation
// this way rather than integrating it directly keeps that invariant exact.
func advancePose(b *actor.Body, dt float64) {
	centroid := b.Frame.TransformPoint(b.LocalCentroid)
	centroid = centroid.Add(b.LinearVelocity.Mul(dt))

	angle := b.AngularVelocity.Len() * dt
	if angle != 0 {
		axis := b.AngularVelocity.Normalize()
		b.Frame.Rotation = geom.AxisAngle(axis, angle).Mul3(b.Frame.Rotation)
	}

	b.Frame.Translation = centroid.Sub(b.Frame.Rotation.Mul3x1(b.LocalCentroid))
}

func (s *Scene) reportNonFinite(b *actor.Body) {
	if geom.Finite3(b.Frame.Translation) && geom.Finite3(b.LinearVelocity) && geom.Finite3(b.AngularVelocity) {
		return
	}
	s.Logger.Warn("non-finite rigid body state detected",
		zapPosition(b.Frame.Translation),
		zapVelocity(b.LinearVelocity),
		zapAngularVelocity(b.AngularVelocity),
	)
}

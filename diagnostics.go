package rbd

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// vec3Field renders a mgl64.Vec3 as a zap object field, used by the
// non-finite diagnostic in Advance.
func vec3Field(key string, v mgl64.Vec3) zap.Field {
	return zap.Object(key, vec3Marshaler(v))
}

type vec3Marshaler mgl64.Vec3

func (v vec3Marshaler) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddFloat64("x", v[0])
	enc.AddFloat64("y", v[1])
	enc.AddFloat64("z", v[2])
	return nil
}

func zapPosition(v mgl64.Vec3) zap.Field        { return vec3Field("position", v) }
func zapVelocity(v mgl64.Vec3) zap.Field        { return vec3Field("linear_velocity", v) }
func zapAngularVelocity(v mgl64.Vec3) zap.Field { return vec3Field("angular_velocity", v) }

// Package sceneconfig loads a YAML scene description into a runnable
// rbd.Scene: global simulation parameters plus a list of bodies referencing
// the built-in mesh table.
package sceneconfig

import (
	"fmt"
	"os"

	"github.com/fenwick-sim/rbd"
	"github.com/fenwick-sim/rbd/actor"
	"github.com/fenwick-sim/rbd/geom"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Config is the top-level scene document.
type Config struct {
	Gravity          [3]float64   `yaml:"gravity"`
	LinearDrag       float64      `yaml:"linear_drag"`
	AngularDrag      float64      `yaml:"angular_drag"`
	Iterations       int          `yaml:"iterations"`
	OverlapMaxRadius float64      `yaml:"overlap_max_radius"`
	Bodies           []BodyConfig `yaml:"bodies"`
}

// BodyConfig describes one body: its mesh, physical properties, and initial
// kinematic state.
type BodyConfig struct {
	Mesh             string     `yaml:"mesh"`
	MeshSubdivisions int        `yaml:"mesh_subdivisions"`
	Scale            [3]float64 `yaml:"scale"`
	Density          float64    `yaml:"density"`
	Position         [3]float64 `yaml:"position"`
	RotationAxis     [3]float64 `yaml:"rotation_axis"`
	RotationAngle    float64    `yaml:"rotation_angle"`
	LinearVelocity   [3]float64 `yaml:"linear_velocity"`
	AngularVelocity  [3]float64 `yaml:"angular_velocity"`
}

// Load reads and parses a scene document from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sceneconfig: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("sceneconfig: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Build resolves every body's mesh reference and constructs a Scene ready
// for SetOverlapCallbacks and InitSimulation. It does not bind overlap
// callbacks — the caller wires those (typically from gridindex) separately.
func Build(cfg *Config) (*rbd.Scene, error) {
	scene := rbd.MakeScene(len(cfg.Bodies))
	if cfg.Gravity != [3]float64{} {
		scene.Gravity = vec3(cfg.Gravity)
	}
	if cfg.LinearDrag != 0 {
		scene.LinearDrag = cfg.LinearDrag
	}
	if cfg.AngularDrag != 0 {
		scene.AngularDrag = cfg.AngularDrag
	}
	if cfg.Iterations != 0 {
		scene.Iterations = cfg.Iterations
	}
	if cfg.OverlapMaxRadius != 0 {
		scene.OverlapMaxRadius = cfg.OverlapMaxRadius
	}

	for i, bc := range cfg.Bodies {
		triangles, positions, err := ResolveMesh(bc.Mesh, bc.MeshSubdivisions)
		if err != nil {
			return nil, fmt.Errorf("sceneconfig: body %d: %w", i, err)
		}
		if scale := bc.Scale; scale != [3]float64{} {
			positions = scaledCopy(positions, vec3(scale))
		}

		frame := actor.Identity()
		frame.Translation = vec3(bc.Position)
		if bc.RotationAngle != 0 {
			frame.Rotation = geom.AxisAngle(vec3(bc.RotationAxis), bc.RotationAngle)
		}

		if err := scene.SetBody(i, frame, vec3(bc.LinearVelocity), vec3(bc.AngularVelocity), bc.Density, triangles, positions); err != nil {
			return nil, fmt.Errorf("sceneconfig: body %d: %w", i, err)
		}
	}

	return scene, nil
}

func vec3(v [3]float64) mgl64.Vec3 { return mgl64.Vec3{v[0], v[1], v[2]} }

// scaledCopy returns a new positions slice with each vertex scaled
// component-wise, leaving the slice the mesh table returned untouched.
func scaledCopy(positions []mgl64.Vec3, scale mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(positions))
	for i, p := range positions {
		out[i] = mgl64.Vec3{p.X() * scale.X(), p.Y() * scale.Y(), p.Z() * scale.Z()}
	}
	return out
}

package data

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Scene is a scene file: camera placement, meshes and the entities to
// build. Entities are built in file order, so earlier entries get lower ids.
type Scene struct {
	Name     string       `yaml:"name"`
	Camera   CameraSpec   `yaml:"camera"`
	Meshes   []MeshEntry  `yaml:"meshes"`
	Entities []EntitySpec `yaml:"entities"`
	// Raw is the file content, fingerprinted by telemetry.
	Raw []byte `yaml:"-"`
}

type CameraSpec struct {
	Position mgl32.Vec3 `yaml:"position"`
	Rotation mgl32.Vec3 `yaml:"rotation"` // degrees: roll, pitch, yaw
	Light    mgl32.Vec3 `yaml:"light"`
}

type EntitySpec struct {
	Name     string     `yaml:"name"`
	Position mgl32.Vec3 `yaml:"position"`
	Rotation mgl32.Vec3 `yaml:"rotation"`
	Scale    mgl32.Vec3 `yaml:"scale"`

	Visual   *VisualSpec   `yaml:"visual"`
	Body     *BodySpec     `yaml:"body"`
	Collider *ColliderSpec `yaml:"collider"`
	// Floor adds the body to the set floor contact accepts.
	Floor bool `yaml:"floor"`

	Behaviors          []BehaviorSpec `yaml:"behaviors"`
	CollisionBehaviors []string       `yaml:"collision_behaviors"`
	Children           []EntitySpec   `yaml:"children"`

	Repeat *RepeatSpec `yaml:"repeat"`
}

type VisualSpec struct {
	Mesh     string     `yaml:"mesh"`
	Position mgl32.Vec3 `yaml:"position"`
	Rotation mgl32.Vec3 `yaml:"rotation"`
	Scale    mgl32.Vec3 `yaml:"scale"`
}

type BodySpec struct {
	Kind         string `yaml:"kind"` // dynamic, kinematic, static
	LockRotation bool   `yaml:"lock_rotation"`
}

type ColliderSpec struct {
	Shape       string     `yaml:"shape"` // ball, box
	Radius      float64    `yaml:"radius"`
	HalfExtents [2]float64 `yaml:"half_extents"`
	Density     float64    `yaml:"density"`
	Friction    *float64   `yaml:"friction"`
	Elasticity  float64    `yaml:"elasticity"`
	Events      bool       `yaml:"events"`
}

// BehaviorSpec is one behavior entry. Only the fields of its kind are read.
type BehaviorSpec struct {
	Kind string `yaml:"kind"`

	// control
	Accel      float64 `yaml:"accel"`
	MaxSpeed   float64 `yaml:"max_speed"`
	JumpFactor float64 `yaml:"jump_factor"`
	Damping    float64 `yaml:"damping"`

	// debug_nudge
	Rate float64 `yaml:"rate"`

	// camera_track
	Offset mgl32.Vec3 `yaml:"offset"`

	// spawner
	Cooldown float64 `yaml:"cooldown"`
	Mesh     string  `yaml:"mesh"`
	Radius   float64 `yaml:"radius"`
	Density  float64 `yaml:"density"`
	Lifetime float64 `yaml:"lifetime"`

	// attraction
	Target string `yaml:"target"`

	// spawner, attraction
	Force float64 `yaml:"force"`

	// lifetime
	TTL float64 `yaml:"ttl"`

	// script
	Function string             `yaml:"function"`
	Params   map[string]float64 `yaml:"params"`
}

// RepeatSpec builds Count copies of an entity, the i-th offset by i*Step.
// Names get the index appended.
type RepeatSpec struct {
	Count int        `yaml:"count"`
	Step  mgl32.Vec3 `yaml:"step"`
	// ScaleStep is added to the visual scale per copy.
	ScaleStep mgl32.Vec3 `yaml:"scale_step"`
}

// LoadScene reads and parses a scene file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := ParseScene(raw)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// ParseScene parses scene YAML and expands repeat blocks.
func ParseScene(raw []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	s.Raw = raw
	expanded := make([]EntitySpec, 0, len(s.Entities))
	for i, e := range s.Entities {
		if e.Repeat == nil {
			expanded = append(expanded, e)
			continue
		}
		if e.Repeat.Count < 1 {
			return nil, fmt.Errorf("entity %d (%s): repeat count must be >= 1", i, e.Name)
		}
		expanded = append(expanded, expand(e)...)
	}
	s.Entities = expanded
	return &s, nil
}

func expand(e EntitySpec) []EntitySpec {
	rep := *e.Repeat
	out := make([]EntitySpec, 0, rep.Count)
	for i := 0; i < rep.Count; i++ {
		c := e
		c.Repeat = nil
		c.Position = e.Position.Add(rep.Step.Mul(float32(i)))
		if e.Name != "" {
			c.Name = fmt.Sprintf("%s_%d", e.Name, i)
		}
		if e.Visual != nil && rep.ScaleStep != (mgl32.Vec3{}) {
			v := *e.Visual
			v.Scale = ScaleOrOne(v.Scale).Add(rep.ScaleStep.Mul(float32(i)))
			c.Visual = &v
		}
		out = append(out, c)
	}
	return out
}

// ScaleOrOne treats an all-zero scale as unit scale.
func ScaleOrOne(v mgl32.Vec3) mgl32.Vec3 {
	if v == (mgl32.Vec3{}) {
		return mgl32.Vec3{1, 1, 1}
	}
	return v
}

package prefabs

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/physync/ecs/system"
	"github.com/milk9111/physync/physics"
	"gopkg.in/yaml.v3"
)

// DefaultScene is the embedded scene used when none is named.
const DefaultScene = "demo.yaml"

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SceneSpec describes a world: its settings, the shapes it shares and the
// entities placed in it.
type SceneSpec struct {
	Name     string            `yaml:"name"`
	World    WorldSpec         `yaml:"world"`
	Shapes   []ShapeSpec       `yaml:"shapes"`
	Entities []EntityBuildSpec `yaml:"entities"`
}

func LoadScene(filename string) (*SceneSpec, error) {
	if filename == "" {
		filename = DefaultScene
	}
	spec, err := LoadSpec[SceneSpec](filename)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = filename
	}
	return &spec, nil
}

// WorldSpec overrides system.DefaultConfig. Unset fields keep the default.
type WorldSpec struct {
	Min        *[3]float64 `yaml:"min"`
	Max        *[3]float64 `yaml:"max"`
	Broadphase string      `yaml:"broadphase"`
	Speed      *float64    `yaml:"speed"`
	Gravity    *float64    `yaml:"gravity"`
	Ground     *float64    `yaml:"ground"`
	TimeStep   float64     `yaml:"time_step"`
}

func (ws WorldSpec) Config() (system.Config, error) {
	cfg := system.DefaultConfig()
	if ws.Min != nil {
		cfg.WorldMin = mgl64.Vec3(*ws.Min)
	}
	if ws.Max != nil {
		cfg.WorldMax = mgl64.Vec3(*ws.Max)
	}
	for i := 0; i < 3; i++ {
		if cfg.WorldMin[i] >= cfg.WorldMax[i] {
			return cfg, fmt.Errorf("prefabs: world min %v must be below max %v", cfg.WorldMin, cfg.WorldMax)
		}
	}

	broadphase, err := physics.ParseBroadphase(ws.Broadphase)
	if err != nil {
		return cfg, fmt.Errorf("prefabs: world: %w", err)
	}
	cfg.Broadphase = broadphase

	if ws.Speed != nil {
		cfg.Speed = *ws.Speed
	}
	if ws.Gravity != nil {
		cfg.Gravity = *ws.Gravity
	}
	if ws.Ground != nil {
		ground := *ws.Ground
		cfg.Ground = &ground
	}
	if ws.TimeStep > 0 {
		cfg.FixedStep = ws.TimeStep
	}
	return cfg, nil
}

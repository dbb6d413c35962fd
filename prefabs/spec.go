package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

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

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type WindowSpec struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type LogSpec struct {
	Level string `yaml:"level"`
	// File enables a rotating log file next to console output when set.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// AppSpec is the application configuration.
type AppSpec struct {
	AssetRoot   string     `yaml:"asset_root"`
	Model       string     `yaml:"model"`
	TargetNodes []string   `yaml:"target_nodes"`
	Headless    bool       `yaml:"headless"`
	TickRate    int        `yaml:"tick_rate"`
	WatchAssets bool       `yaml:"watch_assets"`
	Window      WindowSpec `yaml:"window"`
	Log         LogSpec    `yaml:"log"`
}

func LoadAppSpec() (*AppSpec, error) {
	spec, err := LoadSpec[AppSpec]("app.yaml")
	if err != nil {
		return nil, err
	}
	spec.applyDefaults()
	return &spec, nil
}

// DefaultModel is the model path, relative to the asset root, used when
// app.yaml names none.
const DefaultModel = "models/FlightHelmet/FlightHelmet.gltf"

func (s *AppSpec) applyDefaults() {
	if s.AssetRoot == "" {
		s.AssetRoot = "assets"
	}
	if s.Model == "" {
		s.Model = DefaultModel
	}
	if len(s.TargetNodes) == 0 {
		s.TargetNodes = []string{"RubberWood_low"}
	}
	if s.TickRate <= 0 {
		s.TickRate = 60
	}
	if s.Window.Title == "" {
		s.Window.Title = "helmet"
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		s.Window.Width, s.Window.Height = 1280, 720
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
}

type CameraSpec struct {
	Position Vec3Spec `yaml:"position"`
	LookAt   Vec3Spec `yaml:"look_at"`
	Up       Vec3Spec `yaml:"up"`
	FovY     float64  `yaml:"fov_y"` // degrees
	Near     float64  `yaml:"near"`
	Far      float64  `yaml:"far"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec]("camera.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

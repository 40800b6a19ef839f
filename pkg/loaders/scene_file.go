package loaders

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// SceneFile is a sphere scene described in YAML:
//
//	name: three-spheres
//	description: Three spheres on a floor
//	ambient: 0.2
//	spheres:
//	  - center: [0, 0, -5]
//	    radius: 1
//	    color: [255, 0, 0]
//	    specular: 0.5
//	lights:
//	  - [5, 5, -5]
type SceneFile struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Ambient     *float64     `yaml:"ambient"` // nil keeps the default
	Spheres     []SphereSpec `yaml:"spheres"`
	Lights      [][3]float64 `yaml:"lights"`
}

// SphereSpec describes one sphere of a scene file
type SphereSpec struct {
	Center   [3]float64 `yaml:"center"`
	Radius   float64    `yaml:"radius"`
	Color    [3]int     `yaml:"color"`
	Specular float64    `yaml:"specular"`
}

// LoadSceneFile reads and validates a scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sceneFile, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sceneFile, nil
}

// ParseSceneFile decodes and validates a scene file. Unknown keys are rejected.
func ParseSceneFile(r io.Reader) (*SceneFile, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var sceneFile SceneFile
	if err := decoder.Decode(&sceneFile); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scene file")
		}
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}

	if err := sceneFile.Validate(); err != nil {
		return nil, err
	}
	return &sceneFile, nil
}

// Validate checks that every value lies in the range the shading model expects
func (f *SceneFile) Validate() error {
	if f.Ambient != nil {
		if !isFinite(*f.Ambient) {
			return fmt.Errorf("ambient must be finite, got %g", *f.Ambient)
		}
		if *f.Ambient < 0 {
			return fmt.Errorf("ambient cannot be negative, got %g", *f.Ambient)
		}
	}
	if len(f.Spheres) == 0 {
		return fmt.Errorf("scene has no spheres")
	}

	for i, s := range f.Spheres {
		if !isFinite(s.Center[:]...) {
			return fmt.Errorf("sphere %d: center must be finite, got %v", i, s.Center)
		}
		if !isFinite(s.Radius, s.Specular) {
			return fmt.Errorf("sphere %d: radius and specular must be finite, got %g and %g", i, s.Radius, s.Specular)
		}
		if s.Radius <= 0 {
			return fmt.Errorf("sphere %d: radius must be positive, got %g", i, s.Radius)
		}
		if s.Specular < 0 || s.Specular > 1 {
			return fmt.Errorf("sphere %d: specular must be in [0, 1], got %g", i, s.Specular)
		}
		for _, c := range s.Color {
			if c < 0 || c > 255 {
				return fmt.Errorf("sphere %d: color channels must be in [0, 255], got %v", i, s.Color)
			}
		}
	}

	for i, light := range f.Lights {
		if !isFinite(light[:]...) {
			return fmt.Errorf("light %d: position must be finite, got %v", i, light)
		}
	}
	return nil
}

// isFinite reports whether every value is neither NaN nor infinite.
// Range checks alone let NaN through since every comparison with it is false.
func isFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

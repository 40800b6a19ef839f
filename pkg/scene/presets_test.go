package scene

import (
	"math"
	"sort"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name        string
		sceneName   string
		expectError bool
	}{
		{"default scene", "default", false},
		{"mirror scene", "mirrors", false},
		{"sphere grid scene", "spheregrid", false},
		{"unknown scene", "cornell", true},
		{"empty name", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Create(tt.sceneName)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene '%s', got none", tt.sceneName)
				}
				if s != nil {
					t.Errorf("Expected nil scene for '%s'", tt.sceneName)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for scene '%s': %v", tt.sceneName, err)
			}
			if len(s.Spheres()) == 0 {
				t.Errorf("Scene '%s' has no spheres", tt.sceneName)
			}
			if len(s.Lights()) == 0 {
				t.Errorf("Scene '%s' has no lights", tt.sceneName)
			}
			for i, sphere := range s.Spheres() {
				if sphere.Radius <= 0 {
					t.Errorf("Sphere %d has non-positive radius %f", i, sphere.Radius)
				}
				if sphere.Specular < 0 || sphere.Specular > 1 {
					t.Errorf("Sphere %d has specular %f outside [0,1]", i, sphere.Specular)
				}
			}
		})
	}
}

func TestCreate_ReturnsFreshInstances(t *testing.T) {
	a, _ := Create("default")
	b, _ := Create("default")
	a.SetAmbient(0.9)
	if b.Ambient() != DefaultAmbient {
		t.Errorf("Scenes from Create must not share state, got ambient %f", b.Ambient())
	}
}

func TestNamesAndList(t *testing.T) {
	names := Names()
	if !sort.StringsAreSorted(names) {
		t.Errorf("Expected sorted names, got %v", names)
	}

	infos := List()
	if len(infos) != len(names) {
		t.Fatalf("Expected %d infos, got %d", len(names), len(infos))
	}
	for i, info := range infos {
		if info.Name != names[i] {
			t.Errorf("Info %d: expected name %s, got %s", i, names[i], info.Name)
		}
		if info.Description == "" {
			t.Errorf("Scene %s has no description", info.Name)
		}
	}
}

func TestDefaultScene_CenterPixelIsRed(t *testing.T) {
	s := NewDefaultScene()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	got := s.Trace(ray, 0)
	if got.R == 0 || got.G != 0 || got.B != 0 {
		t.Errorf("Expected a pure red shade looking at the red sphere, got %v", got)
	}
}

func TestOklchToRGB(t *testing.T) {
	// Zero chroma is a neutral gray
	gray := oklchToRGB(0.7, 0, 123)
	if gray.R != gray.G || gray.G != gray.B {
		t.Errorf("Expected neutral gray, got %v", gray)
	}

	white := oklchToRGB(1, 0, 0)
	if white != core.NewColor(255, 255, 255) {
		t.Errorf("Expected white, got %v", white)
	}

	// Hue 0 leans red, hue 240 leans blue
	reddish := oklchToRGB(0.7, 0.2, 20)
	bluish := oklchToRGB(0.7, 0.2, 260)
	if reddish.R <= reddish.B || bluish.B <= bluish.R {
		t.Errorf("Unexpected hue mapping: red %v, blue %v", reddish, bluish)
	}

	if math.IsNaN(oklchToRGB(0.5, 0.4, 300).Luminance()) {
		t.Error("Luminance must be finite")
	}
}

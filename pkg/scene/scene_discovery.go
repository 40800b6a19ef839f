package scene

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/loaders"
)

// ScenesDir is the directory searched for scene files by name
var ScenesDir = "scenes"

// sceneFileExts are the extensions recognised as scene files
var sceneFileExts = []string{".yaml", ".yml"}

// NewSceneFromFile builds a scene from a YAML scene file
func NewSceneFromFile(filename string) (*Scene, error) {
	f, err := loaders.LoadSceneFile(filename)
	if err != nil {
		return nil, err
	}
	return fromSceneFile(f), nil
}

func fromSceneFile(f *loaders.SceneFile) *Scene {
	s := NewScene()
	if f.Ambient != nil {
		s.SetAmbient(*f.Ambient)
	}

	for _, spec := range f.Spheres {
		s.AddSphere(geometry.NewSphere(
			core.NewVec3(spec.Center[0], spec.Center[1], spec.Center[2]),
			spec.Radius,
			core.NewColor(spec.Color[0], spec.Color[1], spec.Color[2]),
			spec.Specular,
		))
	}
	for _, light := range f.Lights {
		s.AddLight(core.NewVec3(light[0], light[1], light[2]))
	}
	return s
}

// isSceneFile reports whether the name looks like a scene file path
func isSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range sceneFileExts {
		if ext == e {
			return true
		}
	}
	return false
}

// isBareName reports whether name can only refer to an entry of ScenesDir:
// no separators, no extension and no dot segments
func isBareName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\:`) {
		return false
	}
	return filepath.Ext(name) == "" && !strings.HasPrefix(name, ".")
}

// findSceneFile resolves a name to a scene file: either a path to an
// existing file, or <name>.yaml / <name>.yml inside ScenesDir
func findSceneFile(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if isSceneFile(name) {
		if _, err := os.Stat(name); err == nil {
			return name, true
		}
		return "", false
	}
	for _, ext := range sceneFileExts {
		path := filepath.Join(ScenesDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// ListSceneFiles scans dir for scene files and returns their metadata.
// A missing directory yields an empty list.
func ListSceneFiles(dir string) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	var files []string
	for _, ext := range sceneFileExts {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
		}
		files = append(files, matches...)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		f, err := loaders.LoadSceneFile(filePath)
		if err != nil {
			// Skip broken files but keep listing the rest
			log.Printf("Warning: skipping scene file %s: %v", filePath, err)
			continue
		}

		base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
		description := f.Description
		if description == "" {
			description = titleCase(base)
		}
		scenes = append(scenes, SceneInfo{
			Name:        base,
			Description: description,
			FilePath:    filePath,
		})
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].Name < scenes[j].Name
	})
	return scenes, nil
}

// ListAll returns the built-in scenes followed by the scene files in dir.
// Files whose name matches a built-in scene are omitted, since Create
// always prefers the built-in.
func ListAll(dir string) ([]SceneInfo, error) {
	files, err := ListSceneFiles(dir)
	if err != nil {
		return nil, err
	}

	all := List()
	for _, info := range files {
		if _, builtin := presets[info.Name]; !builtin {
			all = append(all, info)
		}
	}
	return all, nil
}

// titleCase converts a filename-style string to title case
// e.g., "three-spheres" -> "Three Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}

package scene

import (
	"fmt"
	"sort"
	"strings"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	FilePath    string `json:"filePath,omitempty"` // Set for scenes loaded from files
}

type preset struct {
	info   SceneInfo
	create func() *Scene
}

var presets = map[string]preset{
	"default": {
		info:   SceneInfo{Name: "default", Description: "Red, green and blue spheres on a floor with two lights"},
		create: NewDefaultScene,
	},
	"mirrors": {
		info:   SceneInfo{Name: "mirrors", Description: "Two facing mirror spheres reflecting a diffuse sphere"},
		create: NewMirrorScene,
	},
	"spheregrid": {
		info:   SceneInfo{Name: "spheregrid", Description: "Grid of spheres with varying hue and reflectivity"},
		create: NewSphereGridScene,
	},
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List returns metadata for every built-in scene, sorted by name
func List() []SceneInfo {
	infos := make([]SceneInfo, 0, len(presets))
	for _, name := range Names() {
		infos = append(infos, presets[name].info)
	}
	return infos
}

// Create builds a fresh instance of the named scene. Built-in names take
// precedence; otherwise name may be a scene file path or the base name of a
// file in ScenesDir. Any readable path is accepted.
func Create(name string) (*Scene, error) {
	if p, ok := presets[name]; ok {
		return p.create(), nil
	}
	if path, ok := findSceneFile(name); ok {
		return NewSceneFromFile(path)
	}
	return nil, unknownSceneError(name)
}

// CreateByName builds a built-in scene or a scene file listed in ScenesDir.
// Only bare names resolve; paths and file extensions are rejected. Use it
// for names from untrusted input such as HTTP requests.
func CreateByName(name string) (*Scene, error) {
	if p, ok := presets[name]; ok {
		return p.create(), nil
	}
	if !isBareName(name) {
		return nil, fmt.Errorf("invalid scene name %q", name)
	}

	files, err := ListSceneFiles(ScenesDir)
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.Name == name {
			return NewSceneFromFile(info.FilePath)
		}
	}
	return nil, unknownSceneError(name)
}

func unknownSceneError(name string) error {
	return fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(Names(), ", "))
}

package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// isolate runs the test in an empty directory with no home config
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	return dir
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		t.Fatalf("Invalid PNG %s: %v", path, err)
	}
	return img
}

func renderedFiles(t *testing.T, dir string) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "render_*.png"))
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	return files
}

func TestCreateOutputDir(t *testing.T) {
	tests := []struct {
		name         string
		sceneName    string
		expectedBase string
	}{
		{"default scene", "default", "default"},
		{"mirrors scene", "mirrors", "mirrors"},
		{"scene file by name", "pyramid", "pyramid"},
		{"scene file by path", filepath.Join("scenes", "pyramid.yaml"), "pyramid"},
		{"yml extension", "/tmp/other/hall.yml", "hall"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			outputDir, err := createOutputDir(base, tt.sceneName)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			expected := filepath.Join(base, tt.expectedBase)
			if outputDir != expected {
				t.Errorf("Expected output dir %s, got %s", expected, outputDir)
			}
			if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
				t.Errorf("Output directory was not created: %v", err)
			}
		})
	}
}

func TestSavePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 32))
	for i := range img.Pix {
		if i%4 == 3 {
			img.Pix[i] = 255
		}
	}
	img.SetRGBA(10, 20, core.NewColor(255, 0, 0).RGBA())

	dir := t.TempDir()

	t.Run("plain", func(t *testing.T) {
		path := filepath.Join(dir, "plain.png")
		if err := savePNG(path, img, ""); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		saved := decodePNG(t, path)
		if saved.Bounds() != img.Bounds() {
			t.Errorf("Expected bounds %v, got %v", img.Bounds(), saved.Bounds())
		}
		if r, _, _, _ := saved.At(10, 20).RGBA(); r>>8 != 255 {
			t.Errorf("Expected red pixel preserved, got r=%d", r>>8)
		}
	})

	t.Run("captioned", func(t *testing.T) {
		path := filepath.Join(dir, "captioned.png")
		if err := savePNG(path, img, "caption"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		saved := decodePNG(t, path)
		lit := 0
		for y := 0; y < 20; y++ {
			for x := 0; x < 64; x++ {
				if r, _, _, _ := saved.At(x, y).RGBA(); r > 0 {
					lit++
				}
			}
		}
		if lit == 0 {
			t.Error("Expected caption pixels in the top rows")
		}
	})
}

func TestRenderCommand(t *testing.T) {
	dir := isolate(t)

	out, err := runCmd(t, "render", "--scene", "mirrors", "--width", "16", "--height", "12", "--workers", "2", "--output", "renders")
	if err != nil {
		t.Fatalf("Render failed: %v\n%s", err, out)
	}

	files := renderedFiles(t, filepath.Join(dir, "renders", "mirrors"))
	if len(files) != 1 {
		t.Fatalf("Expected one rendered file, got %v", files)
	}
	if !strings.Contains(out, "Render saved as") {
		t.Errorf("Expected save message, got %q", out)
	}

	img := decodePNG(t, files[0])
	if img.Bounds() != image.Rect(0, 0, 16, 12) {
		t.Errorf("Expected 16x12 image, got %v", img.Bounds())
	}
}

func TestRenderCommand_SceneFile(t *testing.T) {
	dir := isolate(t)
	if err := os.MkdirAll("scenes", 0755); err != nil {
		t.Fatalf("Failed to create scenes dir: %v", err)
	}
	content := "spheres:\n  - {center: [0, 0, -3], radius: 1, color: [255, 255, 255], specular: 0.2}\nlights:\n  - [0, 4, 0]\n"
	if err := os.WriteFile(filepath.Join("scenes", "single.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	out, err := runCmd(t, "scenes")
	if err != nil || !strings.Contains(out, "single") {
		t.Errorf("Expected scene file in listing, got %q (%v)", out, err)
	}

	if out, err := runCmd(t, "render", "--scene", "single", "--width", "8", "--height", "8"); err != nil {
		t.Fatalf("Render failed: %v\n%s", err, out)
	}
	if files := renderedFiles(t, filepath.Join(dir, "output", "single")); len(files) != 1 {
		t.Errorf("Expected one rendered file, got %v", files)
	}
}

func TestRenderCommand_ConfigFileAndEnvironment(t *testing.T) {
	dir := isolate(t)

	if _, err := runCmd(t, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "raytracer.yaml")); err != nil {
		t.Fatalf("Expected raytracer.yaml to be written: %v", err)
	}

	t.Setenv("RAYTRACER_RENDER_WIDTH", "20")
	t.Setenv("RAYTRACER_RENDER_HEIGHT", "10")
	t.Setenv("RAYTRACER_SCENE", "spheregrid")

	out, err := runCmd(t, "render")
	if err != nil {
		t.Fatalf("Render failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Using config file:") {
		t.Errorf("Expected config file to be reported, got %q", out)
	}

	files := renderedFiles(t, filepath.Join(dir, "output", "spheregrid"))
	if len(files) != 1 {
		t.Fatalf("Expected one rendered file, got %v", files)
	}
	if img := decodePNG(t, files[0]); img.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Errorf("Expected 20x10 image from environment, got %v", img.Bounds())
	}
}

func TestRenderCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown scene", []string{"render", "--scene", "nonexistent", "--width", "4", "--height", "4"}, "unknown scene"},
		{"zero width", []string{"render", "--width", "0"}, "invalid config"},
		{"fov too wide", []string{"render", "--fov", "200"}, "invalid config"},
		{"missing config file", []string{"render", "--config", "missing.yaml"}, "error reading config file"},
		{"unexpected argument", []string{"render", "extra"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := runCmd(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestScenesCommand(t *testing.T) {
	isolate(t)

	out, err := runCmd(t, "scenes")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, name := range scene.Names() {
		if !strings.Contains(out, name) {
			t.Errorf("Expected %q in scene list, got %q", name, out)
		}
	}
}

func TestConfigInitCommand(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "configs", "custom.yaml")

	if _, err := runCmd(t, "config", "init", path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := runCmd(t, "config", "init", path); err == nil {
		t.Error("Expected error when file exists")
	}
	if _, err := runCmd(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("Expected forced overwrite to succeed, got %v", err)
	}
}

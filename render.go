package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func (a *app) renderCmd() *cobra.Command {
	var annotate bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame to a PNG file",
		Long:  "Render one frame headlessly. Output is saved to <output>/<scene>/render_<timestamp>.png.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg

			selectedScene, err := scene.Create(cfg.Scene)
			if err != nil {
				return err
			}

			outputDir, err := createOutputDir(cfg.Output.Dir, cfg.Scene)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rendering %s scene at %dx%d...\n", cfg.Scene, cfg.Render.Width, cfg.Render.Height)

			camera := renderer.NewCamera(cfg.CameraConfig())
			raytracer := renderer.NewRaytracer(selectedScene, camera, cfg.RenderConfig(), renderer.NewDefaultLogger())

			img, stats, err := raytracer.RenderFrame(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Render completed in %v\n", stats.Duration)
			fmt.Fprintf(cmd.OutOrStdout(), "Lit pixels: %d of %d, luminance %.3f ± %.3f\n",
				stats.LitPixels, stats.TotalPixels, stats.AverageLuminance, stats.LuminanceStdDev)

			caption := ""
			if annotate {
				eye := camera.Eye()
				caption = fmt.Sprintf("%s  eye (%.2f, %.2f, %.2f)  %v", cfg.Scene, eye.X, eye.Y, eye.Z, stats.Duration.Round(time.Millisecond))
			}

			timestamp := time.Now().Format("20060102_150405")
			filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
			if err := savePNG(filename, img, caption); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Render saved as %s\n", filename)
			return nil
		},
	}

	addCameraFlags(cmd)
	cmd.Flags().String("output", config.Default().Output.Dir, "directory for rendered images")
	cmd.Flags().BoolVar(&annotate, "annotate", false, "stamp scene name, eye position and render time onto the image")

	return cmd
}

// createOutputDir creates the per-scene output directory. Scene file paths
// use the file's base name.
func createOutputDir(baseDir, sceneName string) (string, error) {
	name := sceneName
	if ext := filepath.Ext(name); ext == ".yaml" || ext == ".yml" {
		name = strings.TrimSuffix(filepath.Base(name), ext)
	}

	outputDir := filepath.Join(baseDir, name)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}
	return outputDir, nil
}

// savePNG writes the frame to disk, optionally with a caption in the top-left corner
func savePNG(filename string, img *image.RGBA, caption string) error {
	dc := gg.NewContextForRGBA(img)

	if caption != "" {
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(caption, 4, 4, 0, 1)
	}

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}
	return nil
}

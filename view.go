package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/pkg/viewer"
	"github.com/df07/go-whitted-raytracer/pkg/viewer/window"
)

func (a *app) viewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Explore a scene in a window",
		Long: `Open a window showing the scene. W/S and the up/down arrows move the eye
along y, A/D and the left/right arrows move it along x. Escape quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg

			selectedScene, err := scene.Create(cfg.Scene)
			if err != nil {
				return err
			}

			logger := renderer.NewDefaultLogger()
			camera := renderer.NewCamera(cfg.CameraConfig())
			raytracer := renderer.NewRaytracer(selectedScene, camera, cfg.RenderConfig(), logger)
			session := viewer.NewSession(raytracer, cfg.Camera.Speed, logger)

			return window.Run(cmd.Context(), session, window.Options{
				Title: fmt.Sprintf("Ray Tracer - %s", cfg.Scene),
				Scale: cfg.Window.Scale,
				TPS:   cfg.Window.TPS,
			})
		},
	}

	d := config.Default()
	addCameraFlags(cmd)
	cmd.Flags().Float64("speed", d.Camera.Speed, "eye movement per key press")
	cmd.Flags().Int("tps", d.Window.TPS, "window updates per second")
	cmd.Flags().Int("scale", d.Window.Scale, "window pixels per frame pixel")

	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/df07/go-whitted-raytracer/pkg/config"
)

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"scene":     "scene",
	"width":     "render.width",
	"height":    "render.height",
	"fov":       "render.fov",
	"tile-size": "render.tile_size",
	"workers":   "render.workers",
	"x":         "camera.x",
	"y":         "camera.y",
	"z":         "camera.z",
	"speed":     "camera.speed",
	"tps":       "window.tps",
	"scale":     "window.scale",
	"output":    "output.dir",
	"port":      "server.port",
}

// app carries the configuration shared by all commands
type app struct {
	cfgFile string
	cfg     *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "raytracer",
		Short: "Recursive Whitted-style ray tracer",
		Long: `A recursive ray tracer for scenes of spheres and point lights with
Phong shading and mirror reflections. Frames can be rendered to PNG,
explored interactively in a window, or served over HTTP.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}

	d := config.Default()
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./raytracer.yaml or $HOME/.raytracer/raytracer.yaml)")
	rootCmd.PersistentFlags().String("scene", d.Scene, "scene preset (see 'raytracer scenes')")

	rootCmd.AddCommand(
		a.renderCmd(),
		a.viewCmd(),
		a.serveCmd(),
		scenesCmd(),
		configCmd(),
	)

	return rootCmd
}

// loadConfig layers defaults, the config file, environment and flags
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	v := config.New(a.cfgFile)
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if v.ConfigFileUsed() != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "Using config file:", v.ConfigFileUsed())
	}

	a.cfg = cfg
	return nil
}

// bindFlags binds every known flag the command defines to its config key
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}
	return nil
}

// addCameraFlags adds the frame and eye flags shared by render and view
func addCameraFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().Int("width", d.Render.Width, "image width in pixels")
	cmd.Flags().Int("height", d.Render.Height, "image height in pixels")
	cmd.Flags().Float64("fov", d.Render.FOV, "vertical field of view in degrees")
	cmd.Flags().Float64("x", d.Camera.X, "eye x position")
	cmd.Flags().Float64("y", d.Camera.Y, "eye y position")
	cmd.Flags().Float64("z", d.Camera.Z, "eye z position")
	addRenderFlags(cmd)
}

// addRenderFlags adds the parallelism flags
func addRenderFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().Int("workers", d.Render.Workers, "parallel workers (0 = one per CPU, 1 = sequential)")
	cmd.Flags().Int("tile-size", d.Render.TileSize, "tile edge in pixels for parallel rendering")
}

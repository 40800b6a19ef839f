package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			webServer := server.NewServer(a.cfg.Server.Port, a.cfg.RenderConfig())

			log.Printf("Ray Tracer Web Server")
			log.Printf("Visit http://localhost:%d/api/render?scene=%s to render", a.cfg.Server.Port, a.cfg.Scene)

			return webServer.Start(cmd.Context())
		},
	}

	cmd.Flags().Int("port", config.Default().Server.Port, "port to serve on")
	addRenderFlags(cmd)

	return cmd
}

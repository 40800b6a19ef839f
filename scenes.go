package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func scenesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenes, err := scene.ListAll(scene.ScenesDir)
			if err != nil {
				return err
			}

			for _, info := range scenes {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-14s %s\n", info.Name, info.Description)
				if info.FilePath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "  %-14s (%s)\n", "", info.FilePath)
				}
			}
			return nil
		},
	}
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/toolbench/toolbench/internal/export"
)

func newExportCommand(a *app) *cobra.Command {
	var out string
	var workers int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the site to static files",
		Long: `Renders every page, the sitemap and robots.txt into a directory that any
static file host can serve. Widgets are rendered in their initial state.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore(cmd.Context())
			if err != nil {
				return err
			}

			result, err := export.Run(cmd.Context(), a.newServer(store, nil), export.Options{
				Out:      out,
				Workers:  workers,
				Reporter: export.NewReporter(os.Stderr),
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			a.logger.Info("site exported", "dir", out, "files", result.Files, "bytes", result.Bytes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "dist", "Output directory")
	cmd.Flags().IntVarP(&workers, "workers", "j", 8, "Pages rendered in parallel")

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/river-now/folio/internal/export"
)

func newBuildCmd(f *rootFlags) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every route to a static tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := f.load()
			if err != nil {
				return err
			}
			res, err := export.Build(cmd.Context(), export.Options{
				Deps:        a.Deps(),
				Highlighter: a.Highlighter,
				Content:     a.ContentFS,
				OutDir:      a.Config.OutDir,
				Concurrency: concurrency,
				Log:         a.Log,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pages and %d content files to %s\n", res.Pages, res.Content, a.Config.OutDir)
			return nil
		},
	}
	cmd.Flags().StringP("out", "o", "", "Output directory")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "Routes rendered at once")
	f.v.BindPFlag("out_dir", cmd.Flags().Lookup("out"))
	return cmd
}

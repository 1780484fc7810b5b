package main

import (
	"github.com/spf13/cobra"

	"github.com/river-now/folio/internal/content"
)

func newServeCmd(f *rootFlags) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site with live navigation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := f.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if watch || a.Config.Dev {
				go func() {
					if err := content.Watch(ctx, a.Config.ContentDir, a.Index, a.Log); err != nil {
						a.Log.Error("Content watcher stopped", "error", err)
					}
				}()
			}
			return a.Server().Serve(ctx, a.Config.Addr())
		},
	}
	cmd.Flags().IntP("port", "p", 0, "Port to listen on")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-index content when markdown files are added or removed")
	cmd.Flags().Bool("dev", false, "Development mode, implies --watch")
	f.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	f.v.BindPFlag("dev", cmd.Flags().Lookup("dev"))
	return cmd
}

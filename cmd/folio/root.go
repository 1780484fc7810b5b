package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/river-now/folio/internal/app"
	"github.com/river-now/folio/internal/config"
)

type rootFlags struct {
	configFile string
	v          *viper.Viper
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{v: config.NewViper()}

	cmd := &cobra.Command{
		Use:           "folio",
		Short:         "Personal portfolio site served from markdown",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&f.configFile, "config", "c", "", "Config file (default: folio.yaml or folio.json in the working directory)")
	cmd.PersistentFlags().String("content", "", "Content directory")
	f.v.BindPFlag("content_dir", cmd.PersistentFlags().Lookup("content"))

	cmd.AddCommand(
		newServeCmd(f),
		newBuildCmd(f),
		newParseCmd(),
		newCheckCmd(f),
	)
	return cmd
}

// load reads the configuration and assembles the app. Flags bound to f.v
// before this call override every other source.
func (f *rootFlags) load() (*app.App, error) {
	cfg, err := config.Load(f.v, f.configFile)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, nil)
}

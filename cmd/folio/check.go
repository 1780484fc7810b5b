package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/river-now/folio/internal/check"
)

func newCheckCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Lint content frontmatter against strict YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := f.load()
			if err != nil {
				return err
			}
			r := check.Run(a.ContentFS, a.Index)
			r.Print(cmd.OutOrStdout())
			if n := r.Errors(); n > 0 {
				return fmt.Errorf("%d content errors", n)
			}
			return nil
		},
	}
}

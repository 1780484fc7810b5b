package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/river-now/folio/kit/frontmatter"
)

func newParseCmd() *cobra.Command {
	var format string
	var withBody bool
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the frontmatter of a markdown file as the site reads it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res := frontmatter.ParseBytes(b)

			var out any = res.Metadata
			if withBody {
				out = map[string]any{"metadata": res.Metadata, "body": res.Body}
			}

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			case "yaml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(out)
			}
			return fmt.Errorf("unknown format %q (want json or yaml)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json|yaml)")
	cmd.Flags().BoolVar(&withBody, "body", false, "Include the body")
	return cmd
}

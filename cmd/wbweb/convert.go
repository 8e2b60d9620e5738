package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/wbweb-dev/wbweb/internal/errors"
	"github.com/wbweb-dev/wbweb/pkg/hiccup"
)

func convertCmd(a *app) *cobra.Command {
	var compact bool

	cmd := &cobra.Command{
		Use:   "convert <file.html>",
		Short: "Convert an HTML fragment to a Hiccup JSON tree",
		Long: `Parse an HTML fragment ("-" reads stdin) and print it as Hiccup JSON.

A fragment with several top-level nodes is printed as a JSON array of
trees. Comments are dropped; empty attribute values become true.

Examples:
  wbweb convert snippet.html
  echo '<p class="x">hi</p>' | wbweb convert - --compact`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			nodes, err := hiccup.ParseHTMLString(string(data))
			if err != nil {
				return errors.New("X002").WithFile(args[0]).WithDetail(err.Error()).Wrap(err)
			}
			nodes = trimBlank(nodes)

			var v any = nodes
			if len(nodes) == 1 {
				v = nodes[0]
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			if !compact {
				enc.SetIndent("", "  ")
			}

			a.logger.Debug("converted", "file", args[0], "nodes", len(nodes))
			return enc.Encode(v)
		},
	}

	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on one line")

	return cmd
}

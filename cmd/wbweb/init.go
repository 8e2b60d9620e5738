package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wbweb-dev/wbweb/internal/config"
	"github.com/wbweb-dev/wbweb/internal/errors"
)

// samplePage is written to pages/index.json by init.
const samplePage = `["main", {"class": "page"},
  ["h1", {}, "Hello from wbweb"],
  ["p", {}, "Edit pages/index.json and reload."],
  ["ul", {"class": "links"},
    ["li", {}, ["a", {"href": "/pages/index"}, "This page"]],
    ["li", {}, ["a", {"href": "/healthz"}, "Health check"]]]]
`

func initCmd(a *app) *cobra.Command {
	var (
		useYAML bool
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a config file and a sample page",
		Long: `Create wbweb.json (or wbweb.yaml) with default settings and a sample
page in the pages directory.

Examples:
  wbweb init
  wbweb init site --yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if config.Exists(dir) && !force {
				return errors.New("C001").
					WithDetail("A configuration file already exists in " + dir).
					WithSuggestion("Pass --force to overwrite it")
			}

			name := config.ConfigFileName
			if useYAML {
				name = "wbweb.yaml"
			}
			cfg := config.New()
			cfg.Name = filepath.Base(absOr(dir))

			pages := filepath.Join(dir, cfg.Server.PagesDir)
			if err := os.MkdirAll(pages, 0755); err != nil {
				return err
			}
			if err := cfg.SaveTo(filepath.Join(dir, name)); err != nil {
				return err
			}
			index := filepath.Join(pages, "index.json")
			if _, err := os.Stat(index); os.IsNotExist(err) {
				if err := os.WriteFile(index, []byte(samplePage), 0644); err != nil {
					return err
				}
			}

			w := cmd.OutOrStdout()
			success(w, "Created %s", filepath.Join(dir, name))
			info(w, "Run 'wbweb serve' and open http://%s/pages/index", cfg.Address())
			return nil
		},
	}

	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Write wbweb.yaml instead of wbweb.json")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func absOr(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

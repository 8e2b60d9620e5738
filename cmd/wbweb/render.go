package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wbweb-dev/wbweb/internal/config"
	"github.com/wbweb-dev/wbweb/internal/errors"
	"github.com/wbweb-dev/wbweb/pkg/hiccup"
	"github.com/wbweb-dev/wbweb/pkg/negotiate"
	"github.com/wbweb-dev/wbweb/pkg/render"
)

// treeKey is the payload key holding the tree for CLI and server views.
const treeKey = "tree"

func renderCmd(a *app) *cobra.Command {
	var (
		accept []string
		format string
		doc    bool
		title  string
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a tree with the negotiated strategy",
		Long: `Render a Hiccup tree read from a JSON, YAML or HTML file ("-" reads
JSON from stdin) and print the output of the strategy selected by the
accept-list.

The accept-list is taken in order; the first recognized media type wins.
With no --accept the tree is rendered as an HTML fragment.

Examples:
  wbweb render page.json
  wbweb render page.yaml --accept application/json
  wbweb render page.json --accept text/html --accept application/json
  wbweb render page.json --doc --title "Home"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := loadTree(args[0], format, cmd.InOrStdin(), a.cfg.Render.MaxDepth)
			if err != nil {
				return err
			}

			n := newNegotiator(a, doc, title)
			res, err := n.SelectAndRender(accept, negotiate.Payload{treeKey: node})
			if err != nil {
				return errors.FromError(err, "N001").WithFile(args[0])
			}
			body, err := res.Bytes()
			if err != nil {
				return err
			}

			a.logger.Debug("rendered", "file", args[0], "strategy", res.Strategy, "bytes", len(body))
			w := cmd.OutOrStdout()
			if _, err := w.Write(body); err != nil {
				return err
			}
			if len(body) > 0 && body[len(body)-1] != '\n' {
				fmt.Fprintln(w)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&accept, "accept", "a", nil, "Accepted media type, repeatable, in preference order")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json, yaml, html (default from extension)")
	cmd.Flags().BoolVar(&doc, "doc", false, "Wrap HTML output in a complete document")
	cmd.Flags().StringVar(&title, "title", "", "Document title for --doc")

	return cmd
}

// newNegotiator builds a negotiator whose views carry the tree under
// treeKey. Structured output is the component form of that tree.
func newNegotiator(a *app, doc bool, title string) *negotiate.Negotiator {
	r := rendererFor(a.cfg)
	opts := []negotiate.Option{
		negotiate.WithRenderer(r),
		negotiate.WithStructured(&negotiate.StructuredStrategy{Build: treeFromPayload}),
		negotiate.WithMediaTypes(a.cfg.MediaTypes()),
	}
	if doc {
		opts = append(opts, negotiate.WithFragment(&documentStrategy{renderer: r, title: title}))
	}
	return negotiate.New(treeFromPayload, opts...)
}

func rendererFor(cfg *config.Config) *render.Renderer {
	return render.New(cfg.RendererConfig())
}

// treeFromPayload returns the tree stored under treeKey.
func treeFromPayload(p negotiate.Payload) (*hiccup.Node, error) {
	v, err := p.Require(treeKey)
	if err != nil {
		return nil, err
	}
	node, ok := v.(*hiccup.Node)
	if !ok {
		return nil, &negotiate.KeyError{Key: treeKey, Reason: fmt.Sprintf("is %T, not a tree", v)}
	}
	return node, nil
}

// documentStrategy renders the tree as the body of a complete document.
type documentStrategy struct {
	renderer *render.Renderer
	title    string
}

func (s *documentStrategy) Name() string { return "document" }

func (s *documentStrategy) Produce(p negotiate.Payload) (negotiate.Result, error) {
	node, err := treeFromPayload(p)
	if err != nil {
		return negotiate.Result{}, err
	}
	html, err := s.renderer.PageString(render.Page{Title: s.title, Body: node})
	if err != nil {
		return negotiate.Result{}, err
	}
	return negotiate.Result{
		Body:        html,
		Status:      200,
		ContentType: negotiate.ContentTypeHTML,
		Strategy:    s.Name(),
	}, nil
}

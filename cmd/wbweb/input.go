package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wbweb-dev/wbweb/internal/errors"
	"github.com/wbweb-dev/wbweb/pkg/hiccup"
)

// Input formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatHTML = "html"
)

// readInput reads path, or stdin when path is "-".
func readInput(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.New("X001").WithFile(path).WithDetail(err.Error()).Wrap(err)
	}
	return data, nil
}

// detectFormat picks the input format from an explicit flag or the file
// extension. Stdin defaults to JSON.
func detectFormat(path, explicit string) (string, error) {
	f := strings.ToLower(explicit)
	if f == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", "":
			f = formatJSON
		case ".yaml", ".yml":
			f = formatYAML
		case ".html", ".htm":
			f = formatHTML
		default:
			f = filepath.Ext(path)
		}
	}
	switch f {
	case formatJSON, formatYAML, formatHTML:
		return f, nil
	case "yml":
		return formatYAML, nil
	}
	return "", errors.New("X002").WithFile(path).WithDetail("Unsupported format " + f)
}

// decodeTree decodes one tree in the given format, no deeper than maxDepth
// levels. HTML input must have a single root element.
func decodeTree(path, format string, data []byte, maxDepth int) (*hiccup.Node, error) {
	var (
		node *hiccup.Node
		err  error
	)
	switch format {
	case formatYAML:
		node, err = hiccup.DecodeYAMLDepth(data, maxDepth)
	case formatHTML:
		var nodes []*hiccup.Node
		nodes, err = hiccup.ParseHTMLString(string(data))
		if err == nil {
			nodes = trimBlank(nodes)
			if len(nodes) != 1 {
				return nil, errors.New("X002").
					WithFile(path).
					WithDetail("HTML input must have exactly one root node")
			}
			node = nodes[0]
		}
	default:
		node, err = hiccup.DecodeJSONDepth(data, maxDepth)
	}
	if err != nil {
		return nil, errors.FromError(err, "R001").WithFile(path)
	}
	return node, nil
}

// loadTree reads and decodes a tree file.
func loadTree(path, format string, stdin io.Reader, maxDepth int) (*hiccup.Node, error) {
	format, err := detectFormat(path, format)
	if err != nil {
		return nil, err
	}
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	return decodeTree(path, format, data, maxDepth)
}

// trimBlank drops whitespace-only text nodes around top-level elements.
func trimBlank(nodes []*hiccup.Node) []*hiccup.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Kind == hiccup.KindText && strings.TrimSpace(n.Text) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

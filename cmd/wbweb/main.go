package main

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wbweb-dev/wbweb/internal/config"
	"github.com/wbweb-dev/wbweb/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds state shared by all commands.
type app struct {
	configPath string
	logLevel   string
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "wbweb",
		Short: "Render Hiccup trees and serve them with content negotiation",
		Long: `wbweb renders Hiccup-style trees to HTML and picks the output format
from the caller's accept-list: HTML fragments for browsers, component
JSON for API clients, and a raw JSON dump for debugging.

Trees are JSON or YAML arrays of the form [tag, {attributes}, children...].`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: wbweb.json or wbweb.yaml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		renderCmd(a),
		convertCmd(a),
		serveCmd(a),
		publishCmd(a),
		initCmd(a),
		versionCmd(),
	)

	return rootCmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	if a.noColor {
		errors.DisableColors()
	}

	var err error
	switch {
	case a.configPath != "":
		a.cfg, err = config.LoadFile(a.configPath)
	case config.Exists("."):
		a.cfg, err = config.Load(".")
	default:
		a.cfg = config.New()
	}
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		a.cfg.LogLevel = a.logLevel
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: a.cfg.SlogLevel(),
	}))
	return nil
}

// reportError prints err, using the coded format when the error carries
// a registered code.
func reportError(w io.Writer, err error) {
	var e *errors.Error
	var c interface{ ErrorCode() string }
	if stderrors.As(err, &e) || stderrors.As(err, &c) {
		errors.PrintError(w, errors.FromError(err, ""))
		return
	}
	fmt.Fprintf(w, "\033[31mError:\033[0m %s\n", err)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// Package main provides the CLI entry point for jgallery.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/jgallery/pkg/adapters/filesink"
	"github.com/user/jgallery/pkg/adapters/logger"
	"github.com/user/jgallery/pkg/adapters/nullsink"
	"github.com/user/jgallery/pkg/ports"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp builds the command tree.
func newApp() *cli.App {
	return &cli.App{
		Name:    "jgallery",
		Usage:   l10n.T("Lay out screenshot galleries in justified rows or a masonry grid"),
		Version: version,
		Description: l10n.T("jgallery computes justified and masonry layouts for screenshot galleries. " +
			"It writes layout documents for a directory of images, keeps them current while the directory changes, " +
			"and applies layouts to a live page."),
		Commands: []*cli.Command{
			layoutCommand(),
			watchCommand(),
			applyCommand(),
			manifestCommand(),
		},
	}
}

// commonFlags are shared by every command that computes layouts.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T("Preset")},
		&cli.StringFlag{Name: "preset", Aliases: []string{"p"}, Usage: l10n.T("Device preset (desktop, mobile)"), Category: l10n.T("Preset")},
		&cli.StringFlag{Name: "density", Usage: l10n.T("Row density preset (compact, comfortable, spacious)"), Category: l10n.T("Preset")},

		&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Usage: l10n.T("Layout mode (justified, masonry)"), Category: l10n.T("Layout and Style")},
		&cli.Float64Flag{Name: "width", Aliases: []string{"W"}, Usage: l10n.T("Container width in pixels"), Category: l10n.T("Layout and Style")},
		&cli.Float64Flag{Name: "gap", Usage: l10n.T("Gap between items in pixels"), Category: l10n.T("Layout and Style")},
		&cli.Float64Flag{Name: "target-row-height", Usage: l10n.T("Preferred row height in pixels"), Category: l10n.T("Layout and Style")},
		&cli.Float64Flag{Name: "max-row-height", Usage: l10n.T("Tallest allowed row in pixels (default: 1.2 x target)"), Category: l10n.T("Layout and Style")},
		&cli.IntFlag{Name: "columns", Usage: l10n.T("Masonry column count (0 = derive from width)"), Category: l10n.T("Layout and Style")},
		&cli.StringFlag{Name: "background-color", Usage: l10n.T("Preview background color (hex, e.g., #f5f5f5)"), Category: l10n.T("Layout and Style")},

		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Enable debug output"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "debug-dir", Value: "./debug", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},

		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
	}
}

// newLogger creates the logger selected by the logging flags.
func newLogger(c *cli.Context) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.NewConsole(ports.ParseLogLevel(c.String("log-level")))
}

// newSink creates a file sink when debug output is enabled.
func newSink(debug bool, dir string, fs ports.FileSystem, renderer ports.Renderer) (ports.DebugSink, error) {
	if !debug {
		return nullsink.New(), nil
	}
	if err := fs.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("create debug directory: %w", err)
	}
	return filesink.New(dir, fs, renderer), nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

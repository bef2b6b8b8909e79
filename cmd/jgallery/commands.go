package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/jgallery/pkg/adapters/chromehost"
	"github.com/user/jgallery/pkg/adapters/dirhost"
	"github.com/user/jgallery/pkg/adapters/fswatch"
	"github.com/user/jgallery/pkg/adapters/ggrenderer"
	"github.com/user/jgallery/pkg/adapters/osfilesystem"
	"github.com/user/jgallery/pkg/config"
	"github.com/user/jgallery/pkg/driver"
	"github.com/user/jgallery/pkg/manifest"
	"github.com/user/jgallery/pkg/orchestrator"
	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
	"github.com/user/jgallery/pkg/scheduler"
	"github.com/user/jgallery/pkg/stages/layout"
	"github.com/user/jgallery/pkg/stages/probe"
	"github.com/user/jgallery/pkg/stages/render"
	"github.com/user/jgallery/pkg/summarizer"
)

// dirFlags are the output flags of the directory commands.
func dirFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Layout JSON file path (default: <dir>/layout.json)"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "preview", Usage: l10n.T("Preview PNG file path"), Category: l10n.T("Output")},
	}
}

// dirSettings loads the settings of a directory command and fills in the
// directory and output paths.
func dirSettings(c *cli.Context) (config.Config, error) {
	if c.NArg() < 1 {
		return config.Config{}, errors.New(l10n.T("Directory argument is required"))
	}
	cfg, err := loadSettings(c)
	if err != nil {
		return cfg, err
	}
	cfg.Dir = c.Args().First()
	if c.IsSet("output") {
		cfg.OutputPath = c.String("output")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = filepath.Join(cfg.Dir, "layout.json")
	}
	if c.IsSet("preview") {
		cfg.PreviewPath = c.String("preview")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

func layoutCommand() *cli.Command {
	flags := append(dirFlags(),
		&cli.StringFlag{Name: "summary", Aliases: []string{"s"}, Usage: l10n.T("Output run summary to file (Markdown format)"), Category: l10n.T("Output")},
	)
	return &cli.Command{
		Name:        "layout",
		Usage:       l10n.T("Compute the layout of a screenshot directory"),
		Description: l10n.T("Read the size of every image in the directory, lay them out and write the layout document."),
		ArgsUsage:   "<dir>",
		Flags:       append(flags, commonFlags()...),
		Action:      runLayout,
	}
}

func runLayout(c *cli.Context) error {
	cfg, err := dirSettings(c)
	if err != nil {
		return err
	}
	log := newLogger(c)

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	sink, err := newSink(cfg.Debug, cfg.DebugDir, fs, renderer)
	if err != nil {
		return err
	}

	orch := orchestrator.New(
		probe.NewStage(fs, renderer, log, cfg.Workers),
		layout.NewStage(log),
		render.NewStage(fs, renderer, sink, log, cfg.Workers),
		renderer,
		fs,
		sink,
		log,
	)

	result, err := orch.Run(ctx, cfg.ToOrchestratorConfig())
	if err != nil {
		return err
	}

	if path := c.String("summary"); path != "" {
		if err := writeSummary(fs, path, presetName(c), cfg, result); err != nil {
			log.Warn(l10n.F("Failed to write summary: %s", err))
		} else {
			log.Info(l10n.F("Summary saved to %s", path))
		}
	}
	return nil
}

// writeSummary writes the Markdown summary of a layout run.
func writeSummary(fs ports.FileSystem, path, preset string, cfg config.Config, result orchestrator.RunResult) error {
	summary := summarizer.NewBuilder().
		WithSource(result.Dir, len(result.Items), result.Failed).
		WithSettings(summarizer.Settings{
			Mode:            string(modeOf(cfg)),
			Preset:          preset,
			ContainerWidth:  result.Gallery.ContainerWidth,
			Gap:             result.Gallery.Gap,
			TargetRowHeight: result.Gallery.TargetRowHeight,
			MaxRowHeight:    result.Gallery.MaxRowHeight,
		}).
		WithLayout(result.Layout, result.Dropped).
		WithOutput(summarizer.OutputInfo{
			LayoutPath:   result.OutputPath,
			LayoutSize:   result.OutputSize,
			PreviewPath:  result.PreviewPath,
			Placeholders: len(result.Placeholders),
			DurationMs:   result.DurationMs,
		}).
		Build()

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	)
	return summarizer.NewWriter(formatter, fs).Write(path, summary)
}

func watchCommand() *cli.Command {
	flags := append(dirFlags(),
		&cli.IntFlag{Name: "frame-interval", Usage: l10n.T("Milliseconds between a change and the relayout it triggers"), Category: l10n.T("Layout and Style")},
	)
	return &cli.Command{
		Name:        "watch",
		Usage:       l10n.T("Keep the layout of a screenshot directory up to date"),
		Description: l10n.T("Write the layout document, then rewrite it whenever images are added, removed or replaced."),
		ArgsUsage:   "<dir>",
		Flags:       append(flags, commonFlags()...),
		Action:      runWatch,
	}
}

func runWatch(c *cli.Context) error {
	cfg, err := dirSettings(c)
	if err != nil {
		return err
	}
	if c.IsSet("frame-interval") {
		cfg.Watch.FrameIntervalMs = c.Int("frame-interval")
	}
	log := newLogger(c)

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	sink, err := newSink(cfg.Debug, cfg.DebugDir, fs, renderer)
	if err != nil {
		return err
	}

	oc := cfg.ToOrchestratorConfig()
	base := oc.LayoutInput(nil)

	var preview *dirhost.Preview
	if oc.PreviewPath != "" {
		preview = &dirhost.Preview{
			Path:     oc.PreviewPath,
			Stage:    render.NewStage(fs, renderer, sink, log, cfg.Workers),
			Renderer: renderer,
			Theme:    oc.RenderTheme(),
			Padding:  oc.PreviewPadding,
		}
	}

	host := dirhost.New(probe.NewStage(fs, renderer, log, cfg.Workers), fs, log, dirhost.Options{
		Probe:      oc.ProbeInput(),
		Gallery:    base.Gallery,
		OutputPath: oc.OutputPath,
		Preview:    preview,
	})

	watcher, err := fswatch.New(cfg.Dir, cfg.Patterns, log)
	if err != nil {
		return err
	}
	defer watcher.Close()

	d := newDriver(host, cfg, base, sink, log)
	if err := d.Start(ctx, watcher, host); err != nil {
		return err
	}
	defer d.Close()

	log.Info(l10n.F("Watching %s, press Ctrl+C to stop", cfg.Dir))
	<-ctx.Done()
	return nil
}

// newDriver creates a driver on a timer clock that reports every applied pass.
func newDriver(host ports.GalleryHost, cfg config.Config, base pipeline.LayoutInput, sink ports.DebugSink, log ports.Logger) *driver.Driver {
	clock := scheduler.NewTickerClock(cfg.FrameInterval())
	return driver.New(host, layout.NewStage(log), scheduler.New(clock),
		driver.WithLogger(log),
		driver.WithSink(sink),
		driver.WithBaseInput(base),
		driver.WithPassHook(func(r driver.PassResult, err error) {
			if err != nil || r.Skipped {
				return
			}
			log.Info(l10n.F("Layout updated: %d placements, %.0fpx tall", len(r.Layout.Placements), r.Layout.Height))
		}),
	)
}

func applyCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "selector", Usage: l10n.T("CSS selector of the gallery container"), Category: l10n.T("Browser")},
		&cli.StringFlag{Name: "item-selector", Usage: l10n.T("CSS selector of the gallery items"), Category: l10n.T("Browser")},
		&cli.StringFlag{Name: "chrome-path", Usage: l10n.T("Path to Chrome executable"), Category: l10n.T("Browser")},
		&cli.BoolFlag{Name: "no-headless", Usage: l10n.T("Run browser in non-headless mode"), Category: l10n.T("Browser")},
		&cli.IntFlag{Name: "viewport-width", Usage: l10n.T("Browser viewport width"), Category: l10n.T("Browser")},
		&cli.IntFlag{Name: "timeout", Usage: l10n.T("Page load timeout in seconds"), Category: l10n.T("Browser")},
		&cli.BoolFlag{Name: "once", Usage: l10n.T("Apply one layout and exit instead of following the page"), Category: l10n.T("Browser")},
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Write the applied layout as JSON (with --once)"), Category: l10n.T("Output")},
	}
	return &cli.Command{
		Name:        "apply",
		Usage:       l10n.T("Lay out the gallery of a live page"),
		Description: l10n.T("Open the page in Chrome and size its gallery items, relaying out whenever items change, images load or the container resizes."),
		ArgsUsage:   "<url>",
		Flags:       append(flags, commonFlags()...),
		Action:      runApply,
	}
}

func runApply(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New(l10n.T("URL argument is required"))
	}
	cfg, err := loadSettings(c)
	if err != nil {
		return err
	}
	chromeOptions(c, &cfg.Chrome)
	cfg.Chrome.URL = c.Args().First()
	log := newLogger(c)

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	sink, err := newSink(cfg.Debug, cfg.DebugDir, fs, ggrenderer.New())
	if err != nil {
		return err
	}

	host := chromehost.New(log, chromehost.Options{
		URL:           cfg.Chrome.URL,
		Selector:      cfg.Chrome.Selector,
		ItemSelector:  cfg.Chrome.ItemSelector,
		ChromePath:    cfg.Chrome.ChromePath,
		Headless:      cfg.Chrome.Headless,
		ViewportWidth: cfg.Chrome.ViewportWidth,
		Timeout:       time.Duration(cfg.Chrome.TimeoutMs) * time.Millisecond,
	})

	if cfg.Chrome.Headless {
		log.Info(l10n.T("Launching browser in headless mode"))
	} else {
		log.Info(l10n.T("Launching browser in visible mode"))
	}
	log.Info(l10n.F("Navigating to %s", cfg.Chrome.URL))
	if err := host.Launch(ctx); err != nil {
		log.Error(l10n.F("Failed to launch browser: %s", err))
		return err
	}
	defer func() {
		host.Close()
		log.Info(l10n.T("Browser closed"))
	}()

	base := cfg.ToOrchestratorConfig().LayoutInput(nil)
	d := newDriver(host, cfg, base, sink, log)

	if c.Bool("once") {
		return applyOnce(ctx, c.String("output"), host, d, fs, log)
	}

	if err := d.Start(ctx, host); err != nil {
		return err
	}
	defer d.Close()

	log.Info(l10n.F("Following %s, press Ctrl+C to stop", cfg.Chrome.URL))
	<-ctx.Done()
	return nil
}

// applyOnce waits for the page's images, runs a single pass and optionally
// writes the applied layout.
func applyOnce(ctx context.Context, output string, host *chromehost.Host, d *driver.Driver, fs ports.FileSystem, log ports.Logger) error {
	if err := host.WaitForImages(ctx); err != nil {
		log.Warn(l10n.F("Waiting for images failed: %s", err))
	}
	result, err := d.RunPass(ctx)
	if err != nil {
		return err
	}
	if result.Skipped {
		log.Warn(l10n.F("Nothing to lay out: %s", result.SkipReason))
		return nil
	}
	log.Info(l10n.F("Layout calculated: %d placements, %.0fpx tall", len(result.Layout.Placements), result.Layout.Height))

	if output == "" {
		return nil
	}
	data, err := json.MarshalIndent(result.Layout, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := fs.WriteFile(output, data); err != nil {
		log.Error(l10n.F("Failed to write output: %s", err))
		return fmt.Errorf("write output: %w", err)
	}
	log.Info(l10n.F("Layout written to %s", output))
	return nil
}

// chromeOptions applies the browser flags.
func chromeOptions(c *cli.Context, chrome *config.ChromeConfig) {
	if c.IsSet("selector") {
		chrome.Selector = c.String("selector")
	}
	if c.IsSet("item-selector") {
		chrome.ItemSelector = c.String("item-selector")
	}
	if c.IsSet("chrome-path") {
		chrome.ChromePath = c.String("chrome-path")
	}
	if c.Bool("no-headless") {
		chrome.Headless = false
	}
	if c.IsSet("viewport-width") {
		chrome.ViewportWidth = c.Int("viewport-width")
	}
	if c.IsSet("timeout") {
		chrome.TimeoutMs = c.Int("timeout") * 1000
	}
}

func manifestCommand() *cli.Command {
	return &cli.Command{
		Name:        "manifest",
		Usage:       l10n.T("Write the screenshot data file of a gallery page"),
		Description: l10n.T("List the screenshots of the directory with captions derived from their file names and write them as window.screenshotData."),
		ArgsUsage:   "<dir>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T("Preset")},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Data file path (default: screenshot_data.js next to the directory)"), Category: l10n.T("Output")},
			&cli.StringFlag{Name: "captions", Usage: l10n.T("Caption overrides JSON (default: screenshot_captions.json next to the directory)"), Category: l10n.T("Output")},
			&cli.StringSliceFlag{Name: "pattern", Usage: l10n.T("File pattern to include (repeatable, default: *.png)"), Category: l10n.T("Output")},
			&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
		},
		Action: runManifest,
	}
}

func runManifest(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New(l10n.T("Directory argument is required"))
	}
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	log := newLogger(c)

	dir := c.Args().First()
	parent := filepath.Dir(filepath.Clean(dir))
	opts := manifest.Options{
		Dir:       dir,
		Output:    cfg.Manifest.Output,
		Overrides: cfg.Manifest.Captions,
		Patterns:  cfg.Manifest.Patterns,
	}
	if c.IsSet("output") {
		opts.Output = c.String("output")
	}
	if opts.Output == "" {
		opts.Output = filepath.Join(parent, "screenshot_data.js")
	}
	if c.IsSet("captions") {
		opts.Overrides = c.String("captions")
	}
	if opts.Overrides == "" {
		opts.Overrides = filepath.Join(parent, "screenshot_captions.json")
	}
	if c.IsSet("pattern") {
		opts.Patterns = c.StringSlice("pattern")
	}

	entries, err := manifest.NewGenerator(osfilesystem.New(), log).Run(opts)
	if err != nil {
		return err
	}
	log.Info(l10n.F("Wrote %d screenshots to %s", len(entries), opts.Output))
	return nil
}

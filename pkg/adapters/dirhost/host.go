// Package dirhost provides a GalleryHost backed by a screenshot directory.
//
// Every snapshot re-reads the image headers, so files added, removed or
// replaced between passes are picked up. Applying a layout rewrites the layout
// document (and optionally a preview image) as a whole, so items that are no
// longer placed lose their previous size.
package dirhost

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

// Preview configures the optional preview written on every apply.
type Preview struct {
	Path     string
	Stage    pipeline.RenderStage
	Renderer ports.Renderer
	Theme    pipeline.RenderTheme
	Padding  int
}

// Options configures a Host.
type Options struct {
	Probe      pipeline.ProbeInput // Probe.Dir names the screenshot directory
	Gallery    pipeline.Gallery
	OutputPath string
	Preview    *Preview
}

// Host serves a directory of screenshots as a gallery.
type Host struct {
	probe  pipeline.ProbeStage
	fs     ports.FileSystem
	logger ports.Logger
	input  pipeline.ProbeInput
	output string
	prev   *Preview

	mu      sync.Mutex
	gallery pipeline.Gallery
	items   []pipeline.Item // items of the latest snapshot
	applied int
	nextID  int
	subs    map[int]func(ports.TriggerReason)
}

// New creates a Host reading items through probe.
func New(probe pipeline.ProbeStage, fs ports.FileSystem, logger ports.Logger, opts Options) *Host {
	return &Host{
		probe:   probe,
		fs:      fs,
		logger:  logger.WithComponent("dirhost"),
		input:   opts.Probe,
		output:  opts.OutputPath,
		prev:    opts.Preview,
		gallery: opts.Gallery.Normalize(),
		subs:    make(map[int]func(ports.TriggerReason)),
	}
}

// Snapshot probes the directory and returns the configured geometry.
func (h *Host) Snapshot(ctx context.Context) (ports.Snapshot, error) {
	result, err := h.probe.Execute(ctx, h.input)
	if err != nil {
		return ports.Snapshot{}, fmt.Errorf("probe %s: %w", h.input.Dir, err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = result.Items
	items := make([]pipeline.Item, len(result.Items))
	copy(items, result.Items)
	return ports.Snapshot{Gallery: h.gallery, Items: items}, nil
}

// WaitForImages reads every header once. A header that fails to decode is
// settled like one that succeeds; only a missing directory is an error.
func (h *Host) WaitForImages(ctx context.Context) error {
	if _, err := h.probe.Execute(ctx, h.input); err != nil {
		return fmt.Errorf("probe %s: %w", h.input.Dir, err)
	}
	return nil
}

// Apply writes the layout document and the preview when configured.
func (h *Host) Apply(ctx context.Context, result pipeline.LayoutResult) error {
	h.mu.Lock()
	doc := pipeline.NewLayoutDocument(h.gallery, h.items, result)
	h.mu.Unlock()

	if h.output != "" {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
		if err := h.fs.WriteFile(h.output, data); err != nil {
			return fmt.Errorf("write layout: %w", err)
		}
		h.logger.Debug("Wrote %d placements to %s", len(doc.Placements), h.output)
	}

	if h.prev != nil && h.prev.Path != "" {
		if err := h.writePreview(ctx, doc.Gallery, result); err != nil {
			return err
		}
	}

	h.mu.Lock()
	h.applied++
	h.mu.Unlock()
	return nil
}

func (h *Host) writePreview(ctx context.Context, g pipeline.Gallery, result pipeline.LayoutResult) error {
	rendered, err := h.prev.Stage.Execute(ctx, pipeline.RenderInput{
		Layout:  result,
		Dir:     h.input.Dir,
		Width:   int(g.ContainerWidth),
		Padding: h.prev.Padding,
		Theme:   h.prev.Theme,
	})
	if err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	data, err := h.prev.Renderer.EncodeImage(rendered.Image, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := h.fs.WriteFile(h.prev.Path, data); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	return nil
}

// Applied returns how many layouts were written.
func (h *Host) Applied() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.applied
}

// Gallery returns the current container geometry.
func (h *Host) Gallery() pipeline.Gallery {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gallery
}

// SetContainerWidth changes the container width and notifies resize
// subscribers when it differs from the current one.
func (h *Host) SetContainerWidth(width float64) {
	h.mu.Lock()
	if h.gallery.ContainerWidth == width {
		h.mu.Unlock()
		return
	}
	h.gallery.ContainerWidth = width
	fns := make([]func(ports.TriggerReason), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ports.TriggerResize)
	}
}

// Subscribe registers fn for container resizes.
func (h *Host) Subscribe(fn func(ports.TriggerReason)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Ensure Host implements the host and trigger ports
var (
	_ ports.GalleryHost = (*Host)(nil)
	_ ports.Trigger     = (*Host)(nil)
)

// Package chromehost provides a GalleryHost backed by a live page in Chrome.
//
// The host loads a page through chromedp, reads the gallery container and its
// items with injected scripts, and writes computed sizes back as inline
// styles. Observers installed in the page report item mutations, image loads
// and container resizes through a runtime binding.
package chromehost

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

// ErrGalleryNotFound is returned when the page has no element matching the
// container selector.
var ErrGalleryNotFound = errors.New("gallery container not found")

// Options configures a Host.
type Options struct {
	URL            string
	Selector       string // Container selector
	ItemSelector   string // Item selector, relative to the container
	ChromePath     string
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	Timeout        time.Duration // Navigation and image wait limit
}

// DefaultOptions returns Options with default values.
func DefaultOptions() Options {
	return Options{
		Selector:       ".jg-gallery",
		ItemSelector:   ".jg-item",
		Headless:       true,
		ViewportWidth:  1280,
		ViewportHeight: 800,
		Timeout:        30 * time.Second,
	}
}

// pollInterval is how often WaitForImages re-checks pending images.
const pollInterval = 50 * time.Millisecond

// Host drives a gallery on a live page.
type Host struct {
	opts   Options
	logger ports.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc

	mu     sync.Mutex
	nextID int
	subs   map[int]func(ports.TriggerReason)
}

// New creates a Host. Launch must be called before use.
func New(logger ports.Logger, opts Options) *Host {
	defaults := DefaultOptions()
	if opts.Selector == "" {
		opts.Selector = defaults.Selector
	}
	if opts.ItemSelector == "" {
		opts.ItemSelector = defaults.ItemSelector
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = defaults.ViewportWidth
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = defaults.ViewportHeight
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	return &Host{
		opts:   opts,
		logger: logger.WithComponent("chromehost"),
		subs:   make(map[int]func(ports.TriggerReason)),
	}
}

// Launch starts Chrome, opens the page and installs the observers.
func (h *Host) Launch(ctx context.Context) error {
	chromePath, err := EnsureChrome(ctx, h.opts.ChromePath)
	if err != nil {
		return fmt.Errorf("chrome not found: please install Chrome/Chromium, set CHROME_PATH environment variable, or use --chrome-path option: %w", err)
	}
	h.logger.Debug("Using Chrome at %s", chromePath)

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.ExecPath(chromePath),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.WindowSize(h.opts.ViewportWidth, h.opts.ViewportHeight),
	}
	if h.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	}

	h.allocCtx, h.allocCancel = chromedp.NewExecAllocator(ctx, allocOpts...)
	h.ctx, h.cancel = chromedp.NewContext(h.allocCtx)

	chromedp.ListenTarget(h.ctx, func(ev interface{}) {
		e, ok := ev.(*cdpruntime.EventBindingCalled)
		if !ok || e.Name != bindingName {
			return
		}
		reason, ok := reasonFor(e.Payload)
		if !ok {
			return
		}
		go h.notify(reason)
	})

	// The first Run starts the browser; it is bound to h.ctx, not the timeout.
	if err := chromedp.Run(h.ctx); err != nil {
		h.Close()
		return fmt.Errorf("start chrome: %w", err)
	}

	navCtx, cancel := context.WithTimeout(h.ctx, h.opts.Timeout)
	defer cancel()

	var found bool
	err = chromedp.Run(navCtx,
		cdpruntime.AddBinding(bindingName),
		emulation.SetDeviceMetricsOverride(int64(h.opts.ViewportWidth), int64(h.opts.ViewportHeight), 1, false),
		chromedp.Navigate(h.opts.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(existsScript(h.opts.Selector), &found),
	)
	if err != nil {
		h.Close()
		return fmt.Errorf("open %s: %w", h.opts.URL, err)
	}
	if !found {
		h.Close()
		return fmt.Errorf("%w: %s", ErrGalleryNotFound, h.opts.Selector)
	}

	if err := chromedp.Run(navCtx, chromedp.Evaluate(observeScript(h.opts.Selector), &found)); err != nil {
		h.Close()
		return fmt.Errorf("install observers: %w", err)
	}
	h.logger.Debug("Observing %s on %s", h.opts.Selector, h.opts.URL)
	return nil
}

// Snapshot reads the container geometry and items from the page.
func (h *Host) Snapshot(ctx context.Context) (ports.Snapshot, error) {
	var page pageSnapshot
	if err := h.run(ctx, chromedp.Evaluate(snapshotScript(h.opts.Selector, h.opts.ItemSelector), &page)); err != nil {
		return ports.Snapshot{}, fmt.Errorf("read gallery: %w", err)
	}
	if !page.Found {
		return ports.Snapshot{}, fmt.Errorf("%w: %s", ErrGalleryNotFound, h.opts.Selector)
	}
	return page.toSnapshot(), nil
}

// WaitForImages polls until every item image is complete. Broken images count
// as complete. The wait gives up after the configured timeout.
func (h *Host) WaitForImages(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, h.opts.Timeout)
	defer cancel()

	script := pendingScript(h.opts.Selector, h.opts.ItemSelector)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		var pending int
		if err := h.run(waitCtx, chromedp.Evaluate(script, &pending)); err != nil {
			return fmt.Errorf("count pending images: %w", err)
		}
		if pending == 0 {
			return nil
		}
		h.logger.Debug("Waiting for %d images", pending)

		select {
		case <-waitCtx.Done():
			return fmt.Errorf("wait for images: %w", waitCtx.Err())
		case <-ticker.C:
		}
	}
}

// Apply writes placement sizes as inline styles and clears the size of every
// item without a placement.
func (h *Host) Apply(ctx context.Context, result pipeline.LayoutResult) error {
	script, err := applyScript(h.opts.Selector, h.opts.ItemSelector, result)
	if err != nil {
		return fmt.Errorf("encode sizes: %w", err)
	}
	var applied int
	if err := h.run(ctx, chromedp.Evaluate(script, &applied)); err != nil {
		return fmt.Errorf("apply sizes: %w", err)
	}
	if applied < 0 {
		return fmt.Errorf("%w: %s", ErrGalleryNotFound, h.opts.Selector)
	}
	h.logger.Debug("Applied %d sizes", applied)
	return nil
}

// SetViewportWidth resizes the emulated viewport. The page's resize observer
// reports the resulting container change.
func (h *Host) SetViewportWidth(ctx context.Context, width int) error {
	h.opts.ViewportWidth = width
	return h.run(ctx, emulation.SetDeviceMetricsOverride(int64(width), int64(h.opts.ViewportHeight), 1, false))
}

// Subscribe registers fn for mutation, load and resize events from the page.
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

func (h *Host) notify(reason ports.TriggerReason) {
	h.mu.Lock()
	fns := make([]func(ports.TriggerReason), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	h.logger.Debug("Page reported %s", reason)
	for _, fn := range fns {
		fn(reason)
	}
}

// run executes actions on the page, bounded by both ctx and the browser.
func (h *Host) run(ctx context.Context, actions ...chromedp.Action) error {
	if h.ctx == nil {
		return errors.New("chrome not launched")
	}
	runCtx, cancel := context.WithCancel(h.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// Close shuts down the browser.
func (h *Host) Close() error {
	if h.cancel != nil {
		h.cancel()
	}

	// Give Chrome a moment to shut down gracefully, then force kill
	time.Sleep(100 * time.Millisecond)

	if h.allocCancel != nil {
		h.allocCancel()
	}
	return nil
}

// Ensure Host implements the host and trigger ports
var (
	_ ports.GalleryHost = (*Host)(nil)
	_ ports.Trigger     = (*Host)(nil)
)

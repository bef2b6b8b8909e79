package chromehost

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/user/jgallery/pkg/adapters/logger"
	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

const galleryPage = `<!doctype html><html><body style="margin:0">
<div class="jg-gallery" style="width:600px;padding:0 10px;--jg-gap:4px">
<div class="jg-item" style="display:inline-block;width:200px;height:100px"></div>
<div class="jg-item" style="display:inline-block;width:100px;height:100px"></div>
<div class="jg-item" style="display:inline-block;min-width:50px;max-width:300px"></div>
</div></body></html>`

func launchTestHost(t *testing.T, html string) *Host {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	chromePath := ResolveChromePath("")
	if chromePath == "" {
		t.Skip("Chrome not installed, skipping browser test")
	}

	h := New(logger.NewNoop(), Options{
		URL:        "data:text/html," + url.PathEscape(html),
		ChromePath: chromePath,
		Headless:   true,
		Timeout:    20 * time.Second,
	})
	if err := h.Launch(context.Background()); err != nil {
		t.Fatalf("failed to launch: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHost_SnapshotAndApply(t *testing.T) {
	h := launchTestHost(t, galleryPage)
	ctx := context.Background()

	if err := h.WaitForImages(ctx); err != nil {
		t.Fatalf("unexpected wait error: %v", err)
	}

	snap, err := h.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Gallery.ContainerWidth != 620 {
		t.Errorf("expected client width 620, got %v", snap.Gallery.ContainerWidth)
	}
	if snap.Gallery.Gap != 4 {
		t.Errorf("expected gap 4, got %v", snap.Gallery.Gap)
	}
	if len(snap.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(snap.Items))
	}
	if snap.Items[2].MinWidth != 50 || snap.Items[2].MaxWidth != 300 {
		t.Errorf("unexpected bounds: %+v", snap.Items[2])
	}

	err = h.Apply(ctx, pipeline.LayoutResult{
		Placements: []pipeline.Placement{{Index: 1, Width: 150, Height: 75}},
	})
	if err != nil {
		t.Fatalf("unexpected apply error: %v", err)
	}

	var widths []string
	err = h.run(ctx, chromedp.Evaluate(`Array.from(document.querySelectorAll('.jg-item')).map((el) => el.style.width)`, &widths))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"", "150px", ""}
	for i := range want {
		if widths[i] != want[i] {
			t.Errorf("item %d: expected width %q, got %q", i, want[i], widths[i])
		}
	}
}

func TestHost_SetViewportWidthReportsResize(t *testing.T) {
	h := launchTestHost(t, `<!doctype html><html><body style="margin:0">
<div class="jg-gallery"><div class="jg-item" style="width:100px;height:100px"></div></div>
</body></html>`)
	ctx := context.Background()

	resized := make(chan struct{}, 1)
	unsub := h.Subscribe(func(r ports.TriggerReason) {
		if r == ports.TriggerResize {
			select {
			case resized <- struct{}{}:
			default:
			}
		}
	})
	defer unsub()

	if err := h.SetViewportWidth(ctx, 800); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-resized:
	case <-time.After(5 * time.Second):
		t.Fatal("expected a resize notification")
	}

	snap, err := h.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Gallery.ContainerWidth != 800 {
		t.Errorf("expected container width 800, got %v", snap.Gallery.ContainerWidth)
	}
}

func TestHost_Launch_GalleryNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	chromePath := ResolveChromePath("")
	if chromePath == "" {
		t.Skip("Chrome not installed, skipping browser test")
	}

	h := New(logger.NewNoop(), Options{
		URL:        "data:text/html," + url.PathEscape("<p>empty</p>"),
		ChromePath: chromePath,
		Headless:   true,
	})
	err := h.Launch(context.Background())
	if !errors.Is(err, ErrGalleryNotFound) {
		t.Errorf("expected ErrGalleryNotFound, got %v", err)
	}
}

func TestHost_NotLaunched(t *testing.T) {
	h := New(logger.NewNoop(), Options{})
	if _, err := h.Snapshot(context.Background()); err == nil {
		t.Error("expected error before launch")
	}
}

func TestNew_Defaults(t *testing.T) {
	h := New(logger.NewNoop(), Options{URL: "about:blank"})
	if h.opts.Selector != ".jg-gallery" || h.opts.ItemSelector != ".jg-item" {
		t.Errorf("unexpected selectors: %q %q", h.opts.Selector, h.opts.ItemSelector)
	}
	if h.opts.Timeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", h.opts.Timeout)
	}
}

func TestHost_Subscribe(t *testing.T) {
	h := New(logger.NewNoop(), Options{})

	var got []string
	unsub := h.Subscribe(func(r ports.TriggerReason) { got = append(got, r.String()) })

	h.notify(ports.TriggerLoad)
	unsub()
	h.notify(ports.TriggerResize)

	if len(got) != 1 || got[0] != "load" {
		t.Errorf("expected [load], got %v", got)
	}
}

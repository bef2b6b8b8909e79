package chromehost

import (
	"encoding/json"
	"fmt"

	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

// bindingName is the page function observers call to reach the host.
const bindingName = "jgNotify"

// Payloads sent through the binding.
const (
	payloadMutation = "mutation"
	payloadLoad     = "load"
	payloadResize   = "resize"
)

// reasonFor maps a binding payload to a trigger reason.
func reasonFor(payload string) (ports.TriggerReason, bool) {
	switch payload {
	case payloadMutation:
		return ports.TriggerMutation, true
	case payloadLoad:
		return ports.TriggerLoad, true
	case payloadResize:
		return ports.TriggerResize, true
	default:
		return 0, false
	}
}

// jsString encodes s as a JavaScript string literal.
func jsString(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}

// existsScript reports whether the container is in the document.
func existsScript(selector string) string {
	return fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(selector))
}

// observeScript installs the mutation, resize and image load observers once.
// Load and error events do not bubble, so they are caught in the capture phase.
func observeScript(selector string) string {
	return fmt.Sprintf(`(function(sel, name) {
	const g = document.querySelector(sel);
	if (!g || g.__jgObserved) return !!g;
	g.__jgObserved = true;
	const notify = (reason) => { if (typeof window[name] === 'function') window[name](reason); };
	new MutationObserver(() => notify(%s)).observe(g, { childList: true, subtree: true });
	if (typeof ResizeObserver !== 'undefined') {
		let last = g.clientWidth;
		new ResizeObserver(() => {
			if (g.clientWidth === last) return;
			last = g.clientWidth;
			notify(%s);
		}).observe(g);
	}
	const onImage = (e) => { if (e.target && e.target.tagName === 'IMG') notify(%s); };
	g.addEventListener('load', onImage, true);
	g.addEventListener('error', onImage, true);
	return true;
})(%s, %s)`, jsString(payloadMutation), jsString(payloadResize), jsString(payloadLoad),
		jsString(selector), jsString(bindingName))
}

// snapshotScript reads container geometry and the ordered items.
// Sizes applied by a previous pass are ignored because natural sizes win.
func snapshotScript(selector, itemSelector string) string {
	return fmt.Sprintf(`(function(sel, itemSel) {
	const g = document.querySelector(sel);
	if (!g) return { found: false, items: [] };
	const num = (v) => parseFloat(v) || 0;
	const s = getComputedStyle(g);
	const paddingLeft = num(s.paddingLeft);
	const paddingRight = num(s.paddingRight);
	const inner = Math.max(0, g.clientWidth - paddingLeft - paddingRight);
	// Computed min/max-width keep percentages; they resolve against the
	// container's content box. Anything else non-numeric is unbounded.
	const len = (v) => {
		v = String(v || '').trim();
		if (v.endsWith('%%')) return num(v) * inner / 100;
		return num(v);
	};
	const items = Array.from(g.querySelectorAll(itemSel)).map((el) => {
		const img = el.tagName === 'IMG' ? el : el.querySelector('img');
		const es = getComputedStyle(el);
		const r = img ? img.getBoundingClientRect() : { width: 0, height: 0 };
		return {
			ref: img ? (img.getAttribute('src') || '') : '',
			naturalWidth: img ? img.naturalWidth : 0,
			naturalHeight: img ? img.naturalHeight : 0,
			renderedWidth: r.width,
			renderedHeight: r.height,
			minWidth: len(es.minWidth),
			maxWidth: len(es.maxWidth),
		};
	});
	return {
		found: true,
		containerWidth: g.clientWidth,
		paddingLeft: paddingLeft,
		paddingRight: paddingRight,
		gap: num(s.getPropertyValue('--jg-gap')) || num(s.columnGap || s.gap),
		targetRowHeight: num(s.getPropertyValue('--jg-target-row-height')),
		maxRowHeight: num(s.getPropertyValue('--jg-max-row-height')),
		items: items,
	};
})(%s, %s)`, jsString(selector), jsString(itemSelector))
}

// pendingScript counts item images that have neither loaded nor failed.
func pendingScript(selector, itemSelector string) string {
	return fmt.Sprintf(`(function(sel, itemSel) {
	const g = document.querySelector(sel);
	if (!g) return 0;
	return Array.from(g.querySelectorAll(itemSel))
		.map((el) => el.tagName === 'IMG' ? el : el.querySelector('img'))
		.filter((img) => img && !img.complete).length;
})(%s, %s)`, jsString(selector), jsString(itemSelector))
}

// sizeEntry is one applied item size.
type sizeEntry struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Span   int     `json:"span,omitempty"`
}

// applyScript clears the size of every item, then sizes the placed ones.
// Items left out of the layout keep no stale dimensions.
func applyScript(selector, itemSelector string, result pipeline.LayoutResult) (string, error) {
	sizes := make([]sizeEntry, len(result.Placements))
	for i, p := range result.Placements {
		sizes[i] = sizeEntry{Index: p.Index, Width: p.Width, Height: p.Height, Span: p.Span}
	}
	data, err := json.Marshal(sizes)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`(function(sel, itemSel, sizes) {
	const g = document.querySelector(sel);
	if (!g) return -1;
	const els = g.querySelectorAll(itemSel);
	els.forEach((el) => {
		el.style.removeProperty('width');
		el.style.removeProperty('height');
		el.style.removeProperty('grid-row-end');
	});
	let applied = 0;
	sizes.forEach((p) => {
		const el = els[p.index];
		if (!el) return;
		el.style.width = p.width + 'px';
		el.style.height = p.height + 'px';
		if (p.span) el.style.gridRowEnd = 'span ' + p.span;
		applied++;
	});
	return applied;
})(%s, %s, %s)`, jsString(selector), jsString(itemSelector), data), nil
}

// pageItem is one item as read from the page.
type pageItem struct {
	Ref            string  `json:"ref"`
	NaturalWidth   float64 `json:"naturalWidth"`
	NaturalHeight  float64 `json:"naturalHeight"`
	RenderedWidth  float64 `json:"renderedWidth"`
	RenderedHeight float64 `json:"renderedHeight"`
	MinWidth       float64 `json:"minWidth"`
	MaxWidth       float64 `json:"maxWidth"`
}

// pageSnapshot is the result of snapshotScript.
type pageSnapshot struct {
	Found           bool       `json:"found"`
	ContainerWidth  float64    `json:"containerWidth"`
	PaddingLeft     float64    `json:"paddingLeft"`
	PaddingRight    float64    `json:"paddingRight"`
	Gap             float64    `json:"gap"`
	TargetRowHeight float64    `json:"targetRowHeight"`
	MaxRowHeight    float64    `json:"maxRowHeight"`
	Items           []pageItem `json:"items"`
}

// toSnapshot converts the page reading into a host snapshot. Unset row heights
// fall back to 160 and 1.2 x target.
func (s pageSnapshot) toSnapshot() ports.Snapshot {
	g := pipeline.Gallery{
		ContainerWidth:  s.ContainerWidth,
		PaddingLeft:     s.PaddingLeft,
		PaddingRight:    s.PaddingRight,
		Gap:             s.Gap,
		TargetRowHeight: s.TargetRowHeight,
		MaxRowHeight:    s.MaxRowHeight,
	}.Normalize()

	items := make([]pipeline.Item, len(s.Items))
	for i, it := range s.Items {
		items[i] = pipeline.Item{
			Index:    i,
			Ref:      it.Ref,
			Ratio:    pipeline.RatioOf(it.NaturalWidth, it.NaturalHeight, it.RenderedWidth, it.RenderedHeight),
			MinWidth: it.MinWidth,
			MaxWidth: it.MaxWidth,
			Natural: pipeline.Dimension{
				Width:  int(it.NaturalWidth),
				Height: int(it.NaturalHeight),
			},
		}
	}
	return ports.Snapshot{Gallery: g, Items: items}
}

package ports

import (
	"context"

	"github.com/user/jgallery/pkg/pipeline"
)

// Snapshot is the host state read at the start of a layout pass.
type Snapshot struct {
	Gallery pipeline.Gallery
	Items   []pipeline.Item // In document order; rebuilt on every call
}

// GalleryHost abstracts the container a gallery is rendered into.
// The host may be a live page, a directory of screenshots or a test double.
type GalleryHost interface {
	// Snapshot reads container geometry and the ordered item list.
	Snapshot(ctx context.Context) (Snapshot, error)

	// WaitForImages blocks until every item image has either loaded or failed.
	// A failed image counts as settled.
	WaitForImages(ctx context.Context) error

	// Apply writes placements back to the items. Items without a placement
	// have any previously applied size cleared.
	Apply(ctx context.Context, result pipeline.LayoutResult) error
}

// TriggerReason tells the driver why a relayout was requested.
type TriggerReason int

const (
	// TriggerMutation means items were added, removed or reordered.
	// New items may still be loading.
	TriggerMutation TriggerReason = iota
	// TriggerLoad means an item image finished loading and its ratio may have changed.
	TriggerLoad
	// TriggerResize means the container size changed.
	TriggerResize
)

// String returns the name of the trigger reason.
func (r TriggerReason) String() string {
	switch r {
	case TriggerMutation:
		return "mutation"
	case TriggerLoad:
		return "load"
	case TriggerResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Trigger is a source of relayout requests.
type Trigger interface {
	// Subscribe registers fn for every event the source observes.
	// fn may be called from any goroutine. The returned function unsubscribes.
	Subscribe(fn func(TriggerReason)) (unsubscribe func())
}

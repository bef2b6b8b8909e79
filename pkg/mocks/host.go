package mocks

import (
	"context"
	"sync"

	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
)

// GalleryHost is a mock implementation of ports.GalleryHost.
// Without overrides it serves State and records every applied result.
type GalleryHost struct {
	mu sync.Mutex

	State   ports.Snapshot
	Applied []pipeline.LayoutResult
	Waits   int

	SnapshotFunc      func(ctx context.Context) (ports.Snapshot, error)
	WaitForImagesFunc func(ctx context.Context) error
	ApplyFunc         func(ctx context.Context, result pipeline.LayoutResult) error
}

// NewGalleryHost creates a mock host with the given container geometry and items.
func NewGalleryHost(g pipeline.Gallery, items ...pipeline.Item) *GalleryHost {
	return &GalleryHost{State: ports.Snapshot{Gallery: g, Items: items}}
}

func (m *GalleryHost) Snapshot(ctx context.Context) (ports.Snapshot, error) {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]pipeline.Item, len(m.State.Items))
	copy(items, m.State.Items)
	return ports.Snapshot{Gallery: m.State.Gallery, Items: items}, nil
}

func (m *GalleryHost) WaitForImages(ctx context.Context) error {
	m.mu.Lock()
	m.Waits++
	m.mu.Unlock()
	if m.WaitForImagesFunc != nil {
		return m.WaitForImagesFunc(ctx)
	}
	return nil
}

func (m *GalleryHost) Apply(ctx context.Context, result pipeline.LayoutResult) error {
	m.mu.Lock()
	m.Applied = append(m.Applied, result)
	m.mu.Unlock()
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, result)
	}
	return nil
}

// SetContainerWidth changes the container width seen by later snapshots.
func (m *GalleryHost) SetContainerWidth(width float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.State.Gallery.ContainerWidth = width
}

// SetItems replaces the item list seen by later snapshots.
func (m *GalleryHost) SetItems(items ...pipeline.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.State.Items = items
}

// ApplyCount returns how many results were applied.
func (m *GalleryHost) ApplyCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Applied)
}

// LastApplied returns the most recently applied result.
func (m *GalleryHost) LastApplied() (pipeline.LayoutResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Applied) == 0 {
		return pipeline.LayoutResult{}, false
	}
	return m.Applied[len(m.Applied)-1], true
}

// WaitCount returns how many times WaitForImages was called.
func (m *GalleryHost) WaitCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Waits
}

var _ ports.GalleryHost = (*GalleryHost)(nil)

// Trigger is a mock implementation of ports.Trigger fired by tests.
type Trigger struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(ports.TriggerReason)
}

// NewTrigger creates a new mock Trigger.
func NewTrigger() *Trigger {
	return &Trigger{subs: make(map[int]func(ports.TriggerReason))}
}

func (m *Trigger) Subscribe(fn func(ports.TriggerReason)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Fire delivers reason to every subscriber on the calling goroutine.
func (m *Trigger) Fire(reason ports.TriggerReason) {
	m.mu.Lock()
	fns := make([]func(ports.TriggerReason), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(reason)
	}
}

// Subscribers returns the number of active subscriptions.
func (m *Trigger) Subscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

var _ ports.Trigger = (*Trigger)(nil)

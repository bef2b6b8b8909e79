// Package driver keeps a gallery host laid out as its content and size change.
//
// Every producer (item mutations, image loads, container resizes) funnels into
// RequestLayout, which coalesces requests through a frame scheduler. A pass
// snapshots the host, runs the layout stage and applies the result. Passes
// never overlap.
package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/jgallery/pkg/adapters/logger"
	"github.com/user/jgallery/pkg/adapters/nullsink"
	"github.com/user/jgallery/pkg/pipeline"
	"github.com/user/jgallery/pkg/ports"
	"github.com/user/jgallery/pkg/scheduler"
	"github.com/user/jgallery/pkg/stages/layout"
)

var (
	// ErrStarted is returned when Start is called twice.
	ErrStarted = errors.New("driver already started")
	// ErrClosed is returned when Start is called after Close.
	ErrClosed = errors.New("driver closed")
)

// PassResult describes one layout pass.
type PassResult struct {
	Skipped    bool   // Host had no usable width or no items; nothing was applied
	SkipReason string
	Layout     pipeline.LayoutResult
	Duration   time.Duration
}

// Stats counts driver activity.
type Stats struct {
	Requested int64 // RequestLayout calls
	Executed  int64 // Passes that applied a layout
	Skipped   int64 // Passes that found nothing to lay out
	Failed    int64 // Passes that returned an error
	Scheduler scheduler.Stats
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger.
func WithLogger(l ports.Logger) Option {
	return func(d *Driver) { d.logger = l.WithComponent("driver") }
}

// WithSink sets the debug sink receiving layout.json and layout.svg after each pass.
func WithSink(s ports.DebugSink) Option {
	return func(d *Driver) { d.sink = s }
}

// WithBaseInput sets the mode and solver options. Gallery geometry and items
// always come from the host.
func WithBaseInput(input pipeline.LayoutInput) Option {
	return func(d *Driver) { d.base = input }
}

// WithPassHook registers fn to observe every scheduled pass.
func WithPassHook(fn func(PassResult, error)) Option {
	return func(d *Driver) { d.hook = fn }
}

// Driver runs layout passes against a host.
type Driver struct {
	host   ports.GalleryHost
	stage  pipeline.LayoutStage
	sched  *scheduler.Scheduler
	logger ports.Logger
	sink   ports.DebugSink
	base   pipeline.LayoutInput
	hook   func(PassResult, error)

	passMu sync.Mutex

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	unsubs  []func()
	closed  bool // set once by Close; no waits or requests start afterwards
	waiters sync.WaitGroup

	requested atomic.Int64
	executed  atomic.Int64
	skipped   atomic.Int64
	failed    atomic.Int64
}

// New creates a Driver for host.
func New(host ports.GalleryHost, stage pipeline.LayoutStage, sched *scheduler.Scheduler, opts ...Option) *Driver {
	d := &Driver{
		host:   host,
		stage:  stage,
		sched:  sched,
		logger: logger.NewNoop(),
		sink:   nullsink.New(),
		base:   pipeline.DefaultLayoutInput(),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start subscribes to the triggers and issues the initial request once the
// host's images have settled. Mutations wait for images before requesting a
// pass; loads and resizes request one directly.
func (d *Driver) Start(ctx context.Context, triggers ...ports.Trigger) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.cancel != nil {
		d.mu.Unlock()
		return ErrStarted
	}
	d.ctx, d.cancel = context.WithCancel(ctx)
	for _, t := range triggers {
		d.unsubs = append(d.unsubs, t.Subscribe(d.handle))
	}
	d.mu.Unlock()

	d.logger.Debug("Subscribed to %d triggers", len(triggers))
	d.waitThenRequest()
	return nil
}

// Close unsubscribes from every trigger, disarms the pending frame and waits
// for outstanding image waits and the running pass.
//
// Triggers may still deliver a notification that was in flight when they were
// unsubscribed; it is ignored.
func (d *Driver) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	unsubs := d.unsubs
	d.unsubs = nil
	cancel := d.cancel
	d.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	if cancel != nil {
		cancel()
	}
	d.waiters.Wait()
	d.sched.Cancel()

	// A pass that already started finishes before Close returns.
	d.passMu.Lock()
	defer d.passMu.Unlock()
}

// RequestLayout asks for a pass at the next frame. Requests arriving before
// that frame share the same pass.
func (d *Driver) RequestLayout() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.requested.Add(1)
	d.sched.Schedule(d.scheduledPass)
}

// Stats returns the activity counters.
func (d *Driver) Stats() Stats {
	return Stats{
		Requested: d.requested.Load(),
		Executed:  d.executed.Load(),
		Skipped:   d.skipped.Load(),
		Failed:    d.failed.Load(),
		Scheduler: d.sched.Stats(),
	}
}

func (d *Driver) handle(reason ports.TriggerReason) {
	d.logger.Debug("Layout requested by %s", reason)
	switch reason {
	case ports.TriggerMutation:
		d.waitThenRequest()
	default:
		d.RequestLayout()
	}
}

// waitThenRequest requests a pass once every image has loaded or failed.
func (d *Driver) waitThenRequest() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	ctx := d.ctx
	d.waiters.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.waiters.Done()
		if err := d.host.WaitForImages(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			d.logger.Warn("Waiting for images failed: %s", err)
		}
		if ctx.Err() != nil {
			return
		}
		d.RequestLayout()
	}()
}

func (d *Driver) runContext() context.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctx
}

func (d *Driver) scheduledPass() {
	ctx := d.runContext()
	if ctx.Err() != nil {
		return
	}
	result, err := d.RunPass(ctx)
	if err != nil {
		d.logger.Warn("Layout pass failed: %s", err)
	}
	if d.hook != nil {
		d.hook(result, err)
	}
}

// RunPass performs one layout pass immediately.
func (d *Driver) RunPass(ctx context.Context) (PassResult, error) {
	d.passMu.Lock()
	defer d.passMu.Unlock()

	start := time.Now()

	snap, err := d.host.Snapshot(ctx)
	if err != nil {
		d.failed.Add(1)
		return PassResult{}, fmt.Errorf("snapshot host: %w", err)
	}

	if inner := snap.Gallery.InnerWidth(); inner <= 0 {
		d.skipped.Add(1)
		d.logger.Debug("Skipping layout: container has no width")
		return PassResult{Skipped: true, SkipReason: "no width", Duration: time.Since(start)}, nil
	}
	if len(snap.Items) == 0 {
		d.skipped.Add(1)
		d.logger.Debug("Skipping layout: gallery has no items")
		return PassResult{Skipped: true, SkipReason: "no items", Duration: time.Since(start)}, nil
	}

	input := d.base
	input.Gallery = snap.Gallery
	input.Items = snap.Items

	result, err := d.stage.Execute(ctx, input)
	if err != nil {
		d.failed.Add(1)
		return PassResult{}, fmt.Errorf("layout: %w", err)
	}

	if err := d.host.Apply(ctx, result); err != nil {
		d.failed.Add(1)
		return PassResult{}, fmt.Errorf("apply layout: %w", err)
	}
	d.executed.Add(1)

	d.saveDebug(result, snap.Gallery.ContainerWidth)

	return PassResult{Layout: result, Duration: time.Since(start)}, nil
}

func (d *Driver) saveDebug(result pipeline.LayoutResult, containerWidth float64) {
	if !d.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err == nil {
		err = d.sink.SaveLayoutJSON(data)
	}
	if err != nil {
		d.logger.Warn("Failed to save debug layout: %s", err)
	}
	if err := d.sink.SaveLayoutSVG(layout.RenderSVG(result, containerWidth)); err != nil {
		d.logger.Warn("Failed to save debug layout: %s", err)
	}
}

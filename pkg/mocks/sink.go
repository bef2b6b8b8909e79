package mocks

import (
	"image"
	"sync"

	"github.com/user/jgallery/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	LayoutJSON []byte
	LayoutSVG  []byte
	Preview    image.Image
	Saves      int
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveLayoutJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LayoutJSON = data
	m.Saves++
	return nil
}

func (m *DebugSink) SaveLayoutSVG(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LayoutSVG = data
	m.Saves++
	return nil
}

func (m *DebugSink) SavePreview(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Preview = img
	m.Saves++
	return nil
}

// SaveCount returns how many artifacts were saved.
func (m *DebugSink) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Saves
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                     { return false }
func (m *NullSink) SaveLayoutJSON(data []byte) error  { return nil }
func (m *NullSink) SaveLayoutSVG(data []byte) error   { return nil }
func (m *NullSink) SavePreview(img image.Image) error { return nil }

var _ ports.DebugSink = (*NullSink)(nil)

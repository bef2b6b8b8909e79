package mocks

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/user/jgallery/pkg/ports"
)

// FileSystem is a mock implementation of ports.FileSystem.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool

	ReadFileFunc  func(path string) ([]byte, error)
	WriteFileFunc func(path string, data []byte) error
	MkdirAllFunc  func(path string) error
	ExistsFunc    func(path string) (bool, error)
	RemoveFunc    func(path string) error
	GlobFunc      func(root string, patterns ...string) ([]string, error)
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	if m.MkdirAllFunc != nil {
		return m.MkdirAllFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

func (m *FileSystem) Exists(path string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[path]; ok {
		return true, nil
	}
	if _, ok := m.dirs[path]; ok {
		return true, nil
	}
	prefix := filepath.Clean(path) + string(filepath.Separator)
	for p := range m.files {
		if strings.HasPrefix(p, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func (m *FileSystem) Remove(path string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	delete(m.dirs, path)
	return nil
}

// Glob matches the stored files below root. A root holding no files and not
// created with MkdirAll is reported as missing.
func (m *FileSystem) Glob(root string, patterns ...string) ([]string, error) {
	if m.GlobFunc != nil {
		return m.GlobFunc(root, patterns...)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := filepath.Clean(root) + string(filepath.Separator)
	found := m.dirs[root]
	var matches []string
	for p := range m.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		found = true
		rel := filepath.ToSlash(strings.TrimPrefix(p, prefix))
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				matches = append(matches, rel)
				break
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("directory not found: %s", root)
	}
	sort.Strings(matches)
	return matches, nil
}

// AddFile stores a file under dir using a slash separated relative name.
func (m *FileSystem) AddFile(dir, name string, data []byte) string {
	p := filepath.Join(dir, filepath.FromSlash(path.Clean(name)))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = data
	return p
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

// GetAllFiles returns all files (for test verification).
func (m *FileSystem) GetAllFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string][]byte)
	for k, v := range m.files {
		result[k] = v
	}
	return result
}

var _ ports.FileSystem = (*FileSystem)(nil)

// Package manifest keeps the gallery's screenshot data file in sync with the
// screenshots directory.
//
// The data file is a script assigning an array of {file, caption} entries to
// window.screenshotData, which the gallery page reads to build its items.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/user/jgallery/pkg/ports"
)

// DefaultPatterns selects the screenshots listed in the data file.
var DefaultPatterns = []string{"*.png"}

// Variable is the global the data file assigns.
const Variable = "window.screenshotData"

var (
	// ErrNoScreenshotDir is returned when the screenshots directory is missing.
	ErrNoScreenshotDir = errors.New("screenshot directory does not exist")
	// ErrInvalidOverrides is returned when the caption overrides file is malformed.
	ErrInvalidOverrides = errors.New("invalid caption overrides")
)

// Entry is one screenshot in the data file.
type Entry struct {
	File    string `json:"file"`
	Caption string `json:"caption"`
}

// Options configures a Generator.
type Options struct {
	Dir       string   // Screenshots directory
	Output    string   // Data file path
	Overrides string   // Caption overrides JSON path (optional)
	Patterns  []string // doublestar patterns (default: DefaultPatterns)
}

// Generator gathers screenshots and writes the data file.
type Generator struct {
	fs     ports.FileSystem
	logger ports.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(fs ports.FileSystem, logger ports.Logger) *Generator {
	return &Generator{fs: fs, logger: logger.WithComponent("manifest")}
}

// Run gathers the screenshots of opts.Dir and writes opts.Output.
// It returns the entries written.
func (g *Generator) Run(opts Options) ([]Entry, error) {
	overrides, err := LoadOverrides(g.fs, opts.Overrides)
	if err != nil {
		return nil, err
	}
	entries, err := g.Gather(opts.Dir, opts.Patterns, overrides)
	if err != nil {
		return nil, err
	}
	data, err := Render(entries)
	if err != nil {
		return nil, err
	}
	if err := g.fs.WriteFile(opts.Output, data); err != nil {
		return nil, fmt.Errorf("write %s: %w", opts.Output, err)
	}
	g.logger.Debug("Wrote %d entries to %s", len(entries), opts.Output)
	return entries, nil
}

// Gather lists the screenshots of dir in sorted order and captions them.
// An override keyed by the relative path or the base name replaces the
// derived caption.
func (g *Generator) Gather(dir string, patterns []string, overrides map[string]string) ([]Entry, error) {
	exists, err := g.fs.Exists(dir)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNoScreenshotDir, dir)
	}

	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	files, err := g.fs.Glob(dir, patterns...)
	if err != nil {
		return nil, fmt.Errorf("list screenshots: %w", err)
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		caption, ok := overrides[f]
		if !ok {
			caption, ok = overrides[path.Base(f)]
		}
		if !ok {
			caption = Caption(f)
		}
		entries = append(entries, Entry{File: f, Caption: caption})
	}
	return entries, nil
}

// LoadOverrides reads a JSON object mapping file names to captions. A
// missing or unset path yields no overrides. Captions are trimmed.
func LoadOverrides(fs ports.FileSystem, file string) (map[string]string, error) {
	overrides := map[string]string{}
	if file == "" {
		return overrides, nil
	}
	exists, err := fs.Exists(file)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", file, err)
	}
	if !exists {
		return overrides, nil
	}

	data, err := fs.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return ParseOverrides(data)
}

// ParseOverrides decodes caption overrides. Anything but an object whose
// values are all strings is rejected.
func ParseOverrides(data []byte) (map[string]string, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOverrides, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object mapping file names to captions", ErrInvalidOverrides)
	}

	overrides := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: caption for %q is not a string", ErrInvalidOverrides, k)
		}
		overrides[k] = strings.TrimSpace(s)
	}
	return overrides, nil
}

// Render produces the data file contents. JSON is indented by four spaces
// and non-ASCII text is written as is.
func Render(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("encode screenshot data: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(Variable)
	buf.WriteString(" = ")
	buf.Write(bytes.TrimRight(body.Bytes(), "\n"))
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

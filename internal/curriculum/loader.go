package curriculum

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var embedded embed.FS

// Loader loads and caches track templates. Built-in templates are embedded
// in the binary; files found under an optional override directory replace
// the built-in template with the same track key.
type Loader struct {
	overrideDir string
	templates   map[string]Template
	mu          sync.RWMutex
}

// NewLoader creates a new template loader and loads all content. An empty
// overrideDir loads the built-in templates only.
func NewLoader(overrideDir string) (*Loader, error) {
	l := &Loader{
		overrideDir: overrideDir,
		templates:   make(map[string]Template),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading curriculum templates: %w", err)
	}

	slog.Info("curriculum templates loaded", "tracks", len(l.templates), "override_dir", overrideDir)
	return l, nil
}

// Template returns the template for a track key.
func (l *Loader) Template(track string) (Template, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.templates[track]
	return t, ok
}

// Tracks returns the loaded track keys in sorted order.
func (l *Loader) Tracks() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	tracks := make([]string, 0, len(l.templates))
	for k := range l.templates {
		tracks = append(tracks, k)
	}
	sort.Strings(tracks)
	return tracks
}

func (l *Loader) loadAll() error {
	err := fs.WalkDir(embedded, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := embedded.ReadFile(path)
		if err != nil {
			return err
		}
		t, err := parseTemplate(data)
		if err != nil {
			return fmt.Errorf("built-in template %s: %w", path, err)
		}
		l.store(t)
		return nil
	})
	if err != nil {
		return err
	}

	if l.overrideDir == "" {
		return nil
	}
	return filepath.Walk(l.overrideDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		return l.loadOverride(path)
	})
}

func (l *Loader) loadOverride(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	t, err := parseTemplate(data)
	if err != nil {
		slog.Warn("skipping invalid template YAML", "path", path, "error", err)
		return nil
	}

	l.store(t)
	slog.Debug("template override loaded", "track", t.Track, "path", path)
	return nil
}

func (l *Loader) store(t Template) {
	l.mu.Lock()
	l.templates[t.Track] = t
	l.mu.Unlock()
}

func parseTemplate(data []byte) (Template, error) {
	var t Template
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("decoding yaml: %w", err)
	}
	if err := t.validate(); err != nil {
		return Template{}, err
	}
	return t, nil
}

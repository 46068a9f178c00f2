// Package catalog owns the pictograms the board can show.
//
// A catalog starts from the built-in set and merges custom pictograms from
// an optional YAML file. Custom pictograms added at runtime are written back
// to that file; built-ins are read-only.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned for an unknown pictogram id.
	ErrNotFound = errors.New("catalog: pictogram not found")
	// ErrBuiltin is returned when deleting a built-in pictogram.
	ErrBuiltin = errors.New("catalog: built-in pictograms cannot be deleted")
	// ErrInvalid is returned for a pictogram without id or label.
	ErrInvalid = errors.New("catalog: pictogram needs an id and a label")
)

// Pictogram is a tappable concept. Label is the fallback text; Labels holds
// per-language overrides keyed by ISO-639-1 code.
type Pictogram struct {
	ID       string            `yaml:"id" json:"id"`
	Label    string            `yaml:"label" json:"label"`
	Labels   map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Category string            `yaml:"category,omitempty" json:"category,omitempty"`
	Imagery  string            `yaml:"imagery,omitempty" json:"imagery,omitempty"`
	Custom   bool              `yaml:"-" json:"custom"`
}

// LabelFor returns the label in lang, falling back to Label.
func (p Pictogram) LabelFor(lang string) string {
	if s := p.Labels[strings.ToLower(lang)]; s != "" {
		return s
	}
	return p.Label
}

type file struct {
	Pictograms []Pictogram `yaml:"pictograms"`
}

// Catalog is a concurrency-safe pictogram registry.
type Catalog struct {
	path string

	mu    sync.RWMutex
	byID  map[string]Pictogram
	order []string
}

// New returns a catalog holding only the built-in pictograms.
func New() *Catalog {
	c := &Catalog{byID: make(map[string]Pictogram)}
	for _, p := range builtin {
		c.put(p)
	}
	return c
}

// Load returns the built-ins merged with the custom pictograms in path.
// A missing file is not an error; it is created on the first Add.
func Load(path string) (*Catalog, error) {
	c := New()
	c.path = path
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("no catalog file found, using built-in pictograms", "path", path)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	loaded := 0
	for _, p := range f.Pictograms {
		if p.ID == "" || p.Label == "" {
			slog.Warn("skipping catalog entry without id or label", "path", path, "id", p.ID)
			continue
		}
		if old, ok := c.byID[p.ID]; ok && !old.Custom {
			slog.Warn("skipping catalog entry that reuses a built-in id", "path", path, "id", p.ID)
			continue
		}
		p.Custom = true
		c.put(p)
		loaded++
	}
	slog.Info("catalog loaded", "path", path, "custom", loaded)
	return c, nil
}

func (c *Catalog) put(p Pictogram) {
	if _, ok := c.byID[p.ID]; !ok {
		c.order = append(c.order, p.ID)
	}
	c.byID[p.ID] = p
}

// Get looks up a pictogram by id.
func (c *Catalog) Get(id string) (Pictogram, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

// List returns every pictogram, built-ins first, in insertion order.
func (c *Catalog) List() []Pictogram {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Pictogram, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// ByCategory returns the pictograms in category, in insertion order.
func (c *Catalog) ByCategory(category string) []Pictogram {
	var out []Pictogram
	for _, p := range c.List() {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct category names, sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, p := range c.List() {
		if p.Category != "" {
			seen[p.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Add stores a custom pictogram, replacing a custom one with the same id.
func (c *Catalog) Add(p Pictogram) error {
	p.ID = strings.TrimSpace(p.ID)
	p.Label = strings.TrimSpace(p.Label)
	if p.ID == "" || p.Label == "" {
		return ErrInvalid
	}
	p.Custom = true

	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.byID[p.ID]; ok && !old.Custom {
		return fmt.Errorf("%w: %s", ErrBuiltin, p.ID)
	}
	c.put(p)
	return c.saveLocked()
}

// Delete removes a custom pictogram.
func (c *Catalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.byID[id]
	if !ok {
		return ErrNotFound
	}
	if !p.Custom {
		return ErrBuiltin
	}
	delete(c.byID, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return c.saveLocked()
}

func (c *Catalog) saveLocked() error {
	if c.path == "" {
		return nil
	}
	var f file
	for _, id := range c.order {
		if p := c.byID[id]; p.Custom {
			f.Pictograms = append(f.Pictograms, p)
		}
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// Package tabs keeps the ordered set of open documents and tracks which one
// is active.
package tabs

import (
	"path/filepath"
	"slices"

	"go.uber.org/multierr"

	"github.com/kobzarvs/notepadmm/internal/document"
	"github.com/kobzarvs/notepadmm/internal/logger"
)

// Registry is an ordered list of documents keyed by path. Insertion order
// is display order. The zero value is an empty registry ready to use.
type Registry struct {
	docs   []*document.Document
	active string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Key returns the canonical form of path used as the registry key.
func Key(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (r *Registry) index(key string) int {
	return slices.IndexFunc(r.docs, func(d *document.Document) bool {
		return d.Path() == key
	})
}

// Open activates path, loading it first when it is not open yet. A load
// failure still opens an empty document; the error is returned so the
// caller can report it.
func (r *Registry) Open(path string) (*document.Document, error) {
	key := Key(path)
	if i := r.index(key); i >= 0 {
		r.active = key
		logger.Debug("tab activated", "path", key)
		return r.docs[i], nil
	}
	d, err := document.Load(key)
	r.docs = append(r.docs, d)
	r.active = key
	logger.Debug("tab opened", "path", key, "origin", d.Origin().String(), "tabs", len(r.docs))
	return d, err
}

// Close removes path. When it was active, the tab that now sits at its
// index (or the new last tab) becomes active. It reports whether path was
// open.
func (r *Registry) Close(path string) bool {
	key := Key(path)
	i := r.index(key)
	if i < 0 {
		return false
	}
	r.docs = slices.Delete(r.docs, i, i+1)
	if r.active == key {
		if len(r.docs) == 0 {
			r.active = ""
		} else {
			r.active = r.docs[min(i, len(r.docs)-1)].Path()
		}
	}
	logger.Debug("tab closed", "path", key, "active", r.active, "tabs", len(r.docs))
	return true
}

// Active returns the active document, if the active path is open.
func (r *Registry) Active() (*document.Document, bool) {
	if r.active == "" {
		return nil, false
	}
	return r.Get(r.active)
}

// ActivePath returns the active path, which may name a tab that is not open.
func (r *Registry) ActivePath() string { return r.active }

// SetActive makes path the active tab. path need not be open yet; Active
// reports nothing until it is.
func (r *Registry) SetActive(path string) {
	r.active = Key(path)
}

// Get returns the open document for path.
func (r *Registry) Get(path string) (*document.Document, bool) {
	if i := r.index(Key(path)); i >= 0 {
		return r.docs[i], true
	}
	return nil, false
}

// Len returns the number of open tabs.
func (r *Registry) Len() int { return len(r.docs) }

// Paths returns the open paths in display order.
func (r *Registry) Paths() []string {
	paths := make([]string, len(r.docs))
	for i, d := range r.docs {
		paths[i] = d.Path()
	}
	return paths
}

// Next activates the tab after the active one, wrapping around.
func (r *Registry) Next() bool { return r.cycle(1) }

// Prev activates the tab before the active one, wrapping around.
func (r *Registry) Prev() bool { return r.cycle(-1) }

func (r *Registry) cycle(step int) bool {
	n := len(r.docs)
	if n == 0 {
		return false
	}
	i := r.index(r.active)
	if i < 0 {
		i = 0
	} else {
		i = (i + step + n) % n
	}
	r.active = r.docs[i].Path()
	return true
}

// Modified returns the paths of tabs with unsaved edits.
func (r *Registry) Modified() []string {
	var paths []string
	for _, d := range r.docs {
		if d.Modified() {
			paths = append(paths, d.Path())
		}
	}
	return paths
}

// SaveActive saves the active document.
func (r *Registry) SaveActive() error {
	d, ok := r.Active()
	if !ok {
		return nil
	}
	return d.Save()
}

// SaveAll saves every modified tab and returns all failures combined.
func (r *Registry) SaveAll() error {
	var err error
	for _, d := range r.docs {
		if !d.Modified() {
			continue
		}
		err = multierr.Append(err, d.Save())
	}
	return err
}

package action

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps action names to records. Registration is last-wins:
// registering a name that already exists replaces the previous record
// without error. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{records: make(map[string]*Record)}
}

// Register inserts or replaces the record under its name. The record
// replaced by a collision, if any, is returned so the caller can
// release it.
func (r *Registry) Register(rec *Record) (replaced *Record, err error) {
	if rec == nil {
		return nil, fmt.Errorf("register: nil record")
	}
	if !ValidName(rec.Name) {
		return nil, fmt.Errorf("register %q: %w", rec.Name, ErrInvalidName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	replaced = r.records[rec.Name]
	r.records[rec.Name] = rec
	return replaced, nil
}

// Get returns the record for name.
func (r *Registry) Get(name string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return rec, nil
}

// All returns every record sorted by name.
func (r *Registry) All() []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ByCategory returns the records in the given category, sorted by name.
func (r *Registry) ByCategory(category string) []*Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Record
	for _, rec := range r.records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Clear removes every record and returns them so the caller can
// release interpreter resources.
func (r *Registry) Clear() []*Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	r.records = make(map[string]*Record)
	return out
}

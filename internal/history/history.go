// Package history keeps the list of recently opened documents.
package history

// Recent is a most-recently-used list of document paths. It is not safe for
// concurrent use.
type Recent struct {
	items    []string
	capacity int
}

// NewRecent creates an empty list.
// If capacity is 0, history is disabled. Negative capacity is treated as 0.
func NewRecent(capacity int) *Recent {
	if capacity < 0 {
		capacity = 0
	}
	return &Recent{
		items:    make([]string, 0, capacity),
		capacity: capacity,
	}
}

// Record moves path to the front, dropping the oldest entry when full.
func (r *Recent) Record(path string) {
	if r.capacity == 0 || path == "" {
		return
	}
	r.remove(path)
	r.items = append([]string{path}, r.items...)
	if len(r.items) > r.capacity {
		r.items = r.items[:r.capacity]
	}
}

// Restore replaces the list with items, most recent first, as loaded from
// storage. Duplicates and entries beyond capacity are dropped.
func (r *Recent) Restore(items []string) {
	r.Clear()
	for i := len(items) - 1; i >= 0; i-- {
		r.Record(items[i])
	}
}

// Items returns a copy of the list, most recent first.
func (r *Recent) Items() []string {
	return append([]string(nil), r.items...)
}

// Latest returns the most recent path, if any.
func (r *Recent) Latest() (string, bool) {
	if len(r.items) == 0 {
		return "", false
	}
	return r.items[0], true
}

// RemovePath drops path, for example after it failed to open.
func (r *Recent) RemovePath(path string) {
	r.remove(path)
}

func (r *Recent) remove(path string) {
	kept := r.items[:0]
	for _, p := range r.items {
		if p != path {
			kept = append(kept, p)
		}
	}
	r.items = kept
}

// Clear empties the list.
func (r *Recent) Clear() {
	r.items = r.items[:0]
}

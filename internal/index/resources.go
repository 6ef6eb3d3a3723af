package index

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/chronos/internal/domain"
)

// ResourceList is the in-memory, insertion-ordered collection of session
// resources. It is the primary copy; Redis only mirrors it.
type ResourceList struct {
	mu         sync.RWMutex
	items      []domain.Resource
	lastChange time.Time
}

// NewResourceList creates an empty list.
func NewResourceList() *ResourceList {
	return &ResourceList{}
}

// Append adds r at the end of the list.
func (l *ResourceList) Append(r domain.Resource) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, r)
	l.lastChange = time.Now()
}

// Remove deletes the resource with id. Unknown ids are a no-op.
// It reports whether something was removed.
func (l *ResourceList) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i:i], l.items[i+1:]...)
			l.lastChange = time.Now()
			return true
		}
	}
	return false
}

// Get retrieves a resource by ID.
func (l *ResourceList) Get(id string) (domain.Resource, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, r := range l.items {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Resource{}, false
}

// AppendIfAbsentURL appends r unless a resource with the same url exists.
// The check and the append happen under one lock.
func (l *ResourceList) AppendIfAbsentURL(r domain.Resource) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.items {
		if existing.URL == r.URL {
			return false
		}
	}
	l.items = append(l.items, r)
	l.lastChange = time.Now()
	return true
}

// All returns a copy of the list in insertion order.
func (l *ResourceList) All() []domain.Resource {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]domain.Resource, len(l.items))
	copy(out, l.items)
	return out
}

// Replace swaps the whole list, e.g. when restoring from Redis.
func (l *ResourceList) Replace(resources []domain.Resource) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = make([]domain.Resource, len(resources))
	copy(l.items, resources)
	l.lastChange = time.Now()
}

// Count returns the number of resources.
func (l *ResourceList) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.items)
}

// IsEmpty drives the empty-state message of the panel.
func (l *ResourceList) IsEmpty() bool {
	return l.Count() == 0
}

// LastChange returns the time of the last mutation.
func (l *ResourceList) LastChange() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.lastChange
}

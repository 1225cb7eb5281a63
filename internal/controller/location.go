package controller

import (
	"context"
	"sync"
)

// MemoryLocation is an in-process Navigator. Publishing stores the id and
// notifies the change listener, as a browser location change would.
type MemoryLocation struct {
	mu       sync.Mutex
	id       int
	set      bool
	onChange func(ctx context.Context, id int)
}

// NewMemoryLocation creates an empty location
func NewMemoryLocation() *MemoryLocation {
	return &MemoryLocation{}
}

// NewMemoryLocationAt creates a location already pointing at id
func NewMemoryLocationAt(id int) *MemoryLocation {
	return &MemoryLocation{id: id, set: true}
}

// OnChange registers the listener, typically Controller.Navigate
func (l *MemoryLocation) OnChange(fn func(ctx context.Context, id int)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Current returns the id in the location, if any
func (l *MemoryLocation) Current() (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.id, l.set
}

// Publish moves the location to id and notifies the listener
func (l *MemoryLocation) Publish(ctx context.Context, id int) {
	l.mu.Lock()
	l.id, l.set = id, true
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn(ctx, id)
	}
}

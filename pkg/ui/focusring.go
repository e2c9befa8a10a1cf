package ui

import "sync"

// focusRing tracks focus across the app's focusable elements and tells
// the sidebar machine which of them live inside the sidebar. Element
// ids are stable strings like "chat-input" or "conversation:3".
//
// The sidebar's post-show focus timer calls First and Focus from the
// clock goroutine while the event loop rebuilds the ring, so every
// method locks.
type focusRing struct {
	mu      sync.Mutex
	order   []string
	inside  map[string]bool
	current string
}

func newFocusRing() *focusRing {
	return &focusRing{inside: make(map[string]bool)}
}

// SetElements replaces the ring. Sidebar elements must be contiguous and
// ordered; the first and last of them bound the Tab trap.
func (r *focusRing) SetElements(order []string, sidebar map[string]bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = order
	r.inside = sidebar
	if r.current != "" && !r.attachedLocked(r.current) {
		r.current = ""
	}
}

func (r *focusRing) Current() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == "" {
		return "", false
	}
	return r.current, true
}

func (r *focusRing) First() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		if r.inside[id] {
			return id, true
		}
	}
	return "", false
}

func (r *focusRing) Last() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.order) - 1; i >= 0; i-- {
		if r.inside[r.order[i]] {
			return r.order[i], true
		}
	}
	return "", false
}

func (r *focusRing) Focus(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attachedLocked(id) {
		r.current = id
	}
}

func (r *focusRing) Attached(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attachedLocked(id)
}

func (r *focusRing) attachedLocked(id string) bool {
	for _, el := range r.order {
		if el == id {
			return true
		}
	}
	return false
}

// Next moves focus forward through the ring, wrapping at the end.
func (r *focusRing) Next() {
	r.step(1)
}

// Prev moves focus backward through the ring, wrapping at the start.
func (r *focusRing) Prev() {
	r.step(-1)
}

func (r *focusRing) step(dir int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.order) == 0 {
		return
	}
	idx := -1
	for i, id := range r.order {
		if id == r.current {
			idx = i
			break
		}
	}
	idx += dir
	if idx < 0 {
		idx = len(r.order) - 1
	}
	if idx >= len(r.order) {
		idx = 0
	}
	r.current = r.order[idx]
}

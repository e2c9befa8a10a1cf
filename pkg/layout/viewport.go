package layout

import "sync"

// Viewport is the current layout surface size in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Monitor is the viewport signal boundary: subscribers receive the current
// value synchronously on subscribe, then a notification for every change.
// The terminal frontend feeds it from window-size events.
type Monitor struct {
	mu      sync.Mutex
	current Viewport
	subs    map[int]func(Viewport)
	nextID  int
}

// NewMonitor creates a monitor with an initial viewport.
func NewMonitor(initial Viewport) *Monitor {
	return &Monitor{current: initial, subs: make(map[int]func(Viewport))}
}

// Current returns the last observed viewport.
func (m *Monitor) Current() Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers fn, delivers the current value immediately, and
// returns an unsubscribe function. Unsubscribing twice is harmless.
func (m *Monitor) Subscribe(fn func(Viewport)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	cur := m.current
	m.mu.Unlock()

	fn(cur)
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Set records a new viewport and notifies subscribers when it changed.
func (m *Monitor) Set(width, height int) {
	m.mu.Lock()
	next := Viewport{Width: width, Height: height}
	if next == m.current {
		m.mu.Unlock()
		return
	}
	m.current = next
	fns := make([]func(Viewport), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}
